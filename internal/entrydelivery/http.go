// Package entrydelivery manages delivery layer of the account transaction history.
package entrydelivery

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/go-petr/pet-ledger/internal/accountdelivery"
	"github.com/go-petr/pet-ledger/internal/domain"
)

// Service provides service layer interface needed by entry delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package entrydelivery
type Service interface {
	Get(ctx context.Context, id uuid.UUID) (domain.Account, error)
	ListTransactions(ctx context.Context, accountID uuid.UUID, f domain.EntryFilter) (domain.EntryPage, error)
	GetTransaction(ctx context.Context, accountID, entryID uuid.UUID) (domain.Entry, error)
}

// Handler facilitates entry delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns entry handler.
func NewHandler(es Service) *Handler {
	return &Handler{service: es}
}

type listRequest struct {
	From     string `form:"from" binding:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	To       string `form:"to" binding:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Type     string `form:"type" binding:"omitempty,entry_kind"`
	PageID   int32  `form:"page_id" binding:"omitempty,min=1"`
	PageSize int32  `form:"page_size" binding:"omitempty,min=1"`
}

func (r listRequest) filter() domain.EntryFilter {
	f := domain.EntryFilter{
		Page:     r.PageID,
		PageSize: r.PageSize,
	}

	if r.From != "" {
		from, _ := time.Parse(time.RFC3339, r.From)
		f.From = &from
	}

	if r.To != "" {
		to, _ := time.Parse(time.RFC3339, r.To)
		f.To = &to
	}

	if r.Type != "" {
		kind, _ := domain.ParseEntryKind(r.Type)
		f.Kind = &kind
	}

	return f
}

type pageData struct {
	Entries  []EntryDTO `json:"entries"`
	Total    int64      `json:"total"`
	Page     int32      `json:"page"`
	PageSize int32      `json:"page_size"`
}

type pageResponse struct {
	Data pageData `json:"data,omitempty"`
}

// List handles http request to list transactions of the caller's account.
func (h *Handler) List(gctx *gin.Context) {
	acc, ok := accountdelivery.OwnedAccount(gctx, h.service.Get)
	if !ok {
		return
	}

	var req listRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		accountdelivery.WriteBindError(gctx, err)
		return
	}

	page, err := h.service.ListTransactions(gctx.Request.Context(), acc.ID, req.filter())
	if err != nil {
		accountdelivery.WriteError(gctx, err)
		return
	}

	res := pageResponse{
		Data: pageData{
			Entries:  NewEntryDTOs(page.Entries),
			Total:    page.Total,
			Page:     page.Page,
			PageSize: page.PageSize,
		},
	}

	gctx.JSON(http.StatusOK, res)
}

type getRequest struct {
	EntryID string `uri:"entry_id" binding:"required,uuid"`
}

type entryData struct {
	Entry EntryDTO `json:"entry"`
}

type entryResponse struct {
	Data entryData `json:"data,omitempty"`
}

// Get handles http request to get one transaction of the caller's account.
func (h *Handler) Get(gctx *gin.Context) {
	acc, ok := accountdelivery.OwnedAccount(gctx, h.service.Get)
	if !ok {
		return
	}

	var req getRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		accountdelivery.WriteBindError(gctx, err)
		return
	}

	e, err := h.service.GetTransaction(gctx.Request.Context(), acc.ID, uuid.MustParse(req.EntryID))
	if err != nil {
		accountdelivery.WriteError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, entryResponse{Data: entryData{NewEntryDTO(e)}})
}
