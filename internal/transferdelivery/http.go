// Package transferdelivery manages delivery layer of deposits, withdrawals and transfers.
package transferdelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/accountdelivery"
	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/entrydelivery"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/pkg/web"
)

// Service provides service layer interface needed by transfer delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package transferdelivery
type Service interface {
	Deposit(ctx context.Context, arg domain.MoneyRequest) (domain.MoneyResult, error)
	Withdraw(ctx context.Context, arg domain.MoneyRequest) (domain.MoneyResult, error)
	Transfer(ctx context.Context, arg domain.TransferRequest) (domain.TransferResult, error)
}

// Handler facilitates transfer delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns transfer handler.
func NewHandler(ts Service) *Handler {
	return &Handler{
		service: ts,
	}
}

type moneyRequest struct {
	AccountNumber string  `json:"account_number" binding:"required,max=20"`
	Amount        string  `json:"amount" binding:"required,amount"`
	Description   string  `json:"description" binding:"max=255"`
	PIN           *string `json:"pin" binding:"omitempty,pin"`
}

type moneyData struct {
	Account accountdelivery.AccountDTO `json:"account"`
	Entry   entrydelivery.EntryDTO     `json:"entry"`
}

type moneyResponse struct {
	Data moneyData `json:"data,omitempty"`
}

// Deposit handles http request to add money to an account.
func (h *Handler) Deposit(gctx *gin.Context) {
	h.moveMoney(gctx, h.service.Deposit)
}

// Withdraw handles http request to take money from the caller's account.
func (h *Handler) Withdraw(gctx *gin.Context) {
	h.moveMoney(gctx, h.service.Withdraw)
}

func (h *Handler) moveMoney(gctx *gin.Context, move func(ctx context.Context, arg domain.MoneyRequest) (domain.MoneyResult, error)) {
	var req moneyRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		accountdelivery.WriteBindError(gctx, err)
		return
	}

	requesterID, ok := requester(gctx)
	if !ok {
		return
	}

	arg := domain.MoneyRequest{
		AccountNumber: req.AccountNumber,
		Amount:        decimal.RequireFromString(req.Amount),
		Description:   req.Description,
		PIN:           req.PIN,
		RequesterID:   requesterID,
	}

	result, err := move(gctx.Request.Context(), arg)
	if err != nil {
		accountdelivery.WriteError(gctx, err)
		return
	}

	res := moneyResponse{
		Data: moneyData{
			Account: accountdelivery.NewAccountDTO(result.Account),
			Entry:   entrydelivery.NewEntryDTO(result.Entry),
		},
	}

	gctx.JSON(http.StatusOK, res)
}

type transferRequest struct {
	FromAccountID   string  `json:"from_account_id" binding:"required,uuid"`
	ToAccountNumber string  `json:"to_account_number" binding:"required,max=20"`
	Amount          string  `json:"amount" binding:"required,amount"`
	Description     string  `json:"description" binding:"max=255"`
	PIN             *string `json:"pin" binding:"omitempty,pin"`
}

type transferData struct {
	FromAccount accountdelivery.AccountDTO `json:"from_account"`
	ToAccount   accountdelivery.AccountDTO `json:"to_account"`
	FromEntry   entrydelivery.EntryDTO     `json:"from_entry"`
	ToEntry     entrydelivery.EntryDTO     `json:"to_entry"`
}

type transferResponse struct {
	Data transferData `json:"data,omitempty"`
}

// Transfer handles http request to move money from the caller's account to another account.
func (h *Handler) Transfer(gctx *gin.Context) {
	var req transferRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		accountdelivery.WriteBindError(gctx, err)
		return
	}

	requesterID, ok := requester(gctx)
	if !ok {
		return
	}

	arg := domain.TransferRequest{
		FromAccountID:   uuid.MustParse(req.FromAccountID),
		ToAccountNumber: req.ToAccountNumber,
		Amount:          decimal.RequireFromString(req.Amount),
		Description:     req.Description,
		PIN:             req.PIN,
		RequesterID:     requesterID,
	}

	result, err := h.service.Transfer(gctx.Request.Context(), arg)
	if err != nil {
		accountdelivery.WriteError(gctx, err)
		return
	}

	res := transferResponse{
		Data: transferData{
			FromAccount: accountdelivery.NewAccountDTO(result.FromAccount),
			ToAccount:   accountdelivery.NewAccountDTO(result.ToAccount),
			FromEntry:   entrydelivery.NewEntryDTO(result.FromEntry),
			ToEntry:     entrydelivery.NewEntryDTO(result.ToEntry),
		},
	}

	gctx.JSON(http.StatusOK, res)
}

func requester(gctx *gin.Context) (uuid.UUID, bool) {
	authPayload, ok := middleware.Payload(gctx)
	if !ok {
		gctx.JSON(http.StatusUnauthorized, web.Error(middleware.ErrAuthHeaderNotFound))
		return uuid.Nil, false
	}

	return authPayload.UserID, true
}
