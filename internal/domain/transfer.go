package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MoneyRequest is the input data to deposit to or withdraw from an account.
//
// When RequesterID is set, a withdrawal is only allowed from the requester's own account.
type MoneyRequest struct {
	AccountNumber string
	Amount        decimal.Decimal
	Description   string
	PIN           *string
	RequesterID   uuid.UUID
}

// MoneyResult is the result of a deposit or a withdrawal.
type MoneyResult struct {
	Account Account
	Entry   Entry
}

// TransferRequest is the input data to move money between two accounts.
//
// When RequesterID is set, it must own the source account.
type TransferRequest struct {
	FromAccountID   uuid.UUID
	ToAccountNumber string
	Amount          decimal.Decimal
	Description     string
	PIN             *string
	RequesterID     uuid.UUID
}

// TransferResult is the result of the transfer transaction.
type TransferResult struct {
	FromAccount Account
	ToAccount   Account
	FromEntry   Entry
	ToEntry     Entry
}
