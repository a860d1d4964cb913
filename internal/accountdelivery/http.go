// Package accountdelivery manages delivery layer of accounts.
package accountdelivery

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/pkg/web"
)

// Service provides service layer interface needed by account delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package accountdelivery
type Service interface {
	Create(ctx context.Context, arg domain.CreateAccountParams, ownerID uuid.UUID) (domain.Account, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Account, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, pageSize, pageID int32) ([]domain.Account, error)
	UpdateType(ctx context.Context, id uuid.UUID, t domain.AccountType) (domain.Account, error)
	Freeze(ctx context.Context, id uuid.UUID, reason string) (domain.Account, error)
	Unfreeze(ctx context.Context, id uuid.UUID) (domain.Account, error)
	Close(ctx context.Context, id uuid.UUID) (domain.Account, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Handler facilitates account delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns account handler.
func NewHandler(as Service) Handler {
	return Handler{service: as}
}

type data struct {
	Account AccountDTO `json:"account"`
}

type response struct {
	Data data `json:"data,omitempty"`
}

type createRequest struct {
	AccountNumber  string `json:"account_number" binding:"required,max=20"`
	AccountType    string `json:"account_type" binding:"required,account_type"`
	InitialBalance string `json:"initial_balance" binding:"omitempty,balance"`
}

// Create handles http request to open an account for the caller.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		WriteBindError(gctx, err)
		return
	}

	authPayload, ok := middleware.Payload(gctx)
	if !ok {
		gctx.JSON(http.StatusUnauthorized, web.Error(middleware.ErrAuthHeaderNotFound))
		return
	}

	accountType, _ := domain.ParseAccountType(req.AccountType)

	initialBalance := decimal.Zero
	if req.InitialBalance != "" {
		initialBalance, _ = decimal.NewFromString(req.InitialBalance)
	}

	arg := domain.CreateAccountParams{
		AccountNumber:  req.AccountNumber,
		Type:           accountType,
		InitialBalance: initialBalance,
	}

	createdAccount, err := h.service.Create(ctx, arg, authPayload.UserID)
	if err != nil {
		WriteError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, response{Data: data{NewAccountDTO(createdAccount)}})
}

type uriRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// OwnedAccount binds the account id from the uri and returns the account
// if it belongs to the caller. On failure the response is already written.
func OwnedAccount(gctx *gin.Context, get func(ctx context.Context, id uuid.UUID) (domain.Account, error)) (domain.Account, bool) {
	var req uriRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		WriteBindError(gctx, err)
		return domain.Account{}, false
	}

	authPayload, ok := middleware.Payload(gctx)
	if !ok {
		gctx.JSON(http.StatusUnauthorized, web.Error(middleware.ErrAuthHeaderNotFound))
		return domain.Account{}, false
	}

	acc, err := get(gctx.Request.Context(), uuid.MustParse(req.ID))
	if err != nil {
		WriteError(gctx, err)
		return domain.Account{}, false
	}

	if acc.OwnerID != authPayload.UserID {
		WriteError(gctx, domain.ErrAccountOwnerMismatch)
		return domain.Account{}, false
	}

	return acc, true
}

// Get handles http request to get account.
func (h *Handler) Get(gctx *gin.Context) {
	acc, ok := OwnedAccount(gctx, h.service.Get)
	if !ok {
		return
	}

	gctx.JSON(http.StatusOK, response{Data: data{NewAccountDTO(acc)}})
}

type listRequest struct {
	PageID   int32 `form:"page_id" binding:"required,min=1"`
	PageSize int32 `form:"page_size" binding:"required,min=1,max=100"`
}

type dataAccounts struct {
	Accounts []AccountDTO `json:"accounts"`
}

type responseAccounts struct {
	Data dataAccounts `json:"data,omitempty"`
}

// List handles http request to list accounts of the caller.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var req listRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		WriteBindError(gctx, err)
		return
	}

	authPayload, ok := middleware.Payload(gctx)
	if !ok {
		gctx.JSON(http.StatusUnauthorized, web.Error(middleware.ErrAuthHeaderNotFound))
		return
	}

	accounts, err := h.service.ListByOwner(ctx, authPayload.UserID, req.PageSize, req.PageID)
	if err != nil {
		WriteError(gctx, err)
		return
	}

	dtos := make([]AccountDTO, 0, len(accounts))
	for _, a := range accounts {
		dtos = append(dtos, NewAccountDTO(a))
	}

	gctx.JSON(http.StatusOK, responseAccounts{Data: dataAccounts{dtos}})
}

type updateTypeRequest struct {
	AccountType string `json:"account_type" binding:"required,account_type"`
}

// UpdateType handles http request to change the account type.
func (h *Handler) UpdateType(gctx *gin.Context) {
	acc, ok := OwnedAccount(gctx, h.service.Get)
	if !ok {
		return
	}

	var req updateTypeRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		WriteBindError(gctx, err)
		return
	}

	accountType, _ := domain.ParseAccountType(req.AccountType)

	updated, err := h.service.UpdateType(gctx.Request.Context(), acc.ID, accountType)
	if err != nil {
		WriteError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, response{Data: data{NewAccountDTO(updated)}})
}

type freezeRequest struct {
	Reason string `json:"reason" binding:"max=255"`
}

// Freeze handles http request to freeze the account. The body is optional.
func (h *Handler) Freeze(gctx *gin.Context) {
	acc, ok := OwnedAccount(gctx, h.service.Get)
	if !ok {
		return
	}

	var req freezeRequest
	if gctx.Request.ContentLength != 0 {
		if err := gctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			WriteBindError(gctx, err)
			return
		}
	}

	updated, err := h.service.Freeze(gctx.Request.Context(), acc.ID, req.Reason)
	if err != nil {
		WriteError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, response{Data: data{NewAccountDTO(updated)}})
}

// Unfreeze handles http request to reactivate a frozen account.
func (h *Handler) Unfreeze(gctx *gin.Context) {
	h.changeStatus(gctx, h.service.Unfreeze)
}

// Close handles http request to close the account.
func (h *Handler) Close(gctx *gin.Context) {
	h.changeStatus(gctx, h.service.Close)
}

func (h *Handler) changeStatus(gctx *gin.Context, change func(ctx context.Context, id uuid.UUID) (domain.Account, error)) {
	acc, ok := OwnedAccount(gctx, h.service.Get)
	if !ok {
		return
	}

	updated, err := change(gctx.Request.Context(), acc.ID)
	if err != nil {
		WriteError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, response{Data: data{NewAccountDTO(updated)}})
}

// Delete handles http request to delete an account with zero balance.
func (h *Handler) Delete(gctx *gin.Context) {
	acc, ok := OwnedAccount(gctx, h.service.Get)
	if !ok {
		return
	}

	if err := h.service.Delete(gctx.Request.Context(), acc.ID); err != nil {
		WriteError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{})
}
