package domain

import "errors"

// Error kinds. Every error returned by the ledger core unwraps to one of them.
var (
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrInactiveAccount     = errors.New("inactive account")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNonZeroBalance      = errors.New("non-zero balance")
	ErrInvalidState        = errors.New("invalid state")
	ErrUnauthorized        = errors.New("unauthorized")
)

// Error is a concrete ledger error carrying its kind.
type Error struct {
	Kind      error
	Msg       string
	Retryable bool
}

func (e *Error) Error() string { return e.Msg }

// Unwrap returns the error kind so errors.Is(err, ErrNotFound) works.
func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func newRetryableError(kind error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, Retryable: true}
}

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = newError(ErrNotFound, "account not found")
	// ErrUserNotFound indicates that the owner of the account is not found.
	ErrUserNotFound = newError(ErrNotFound, "user not found")
	// ErrEntryNotFound indicates that the ledger entry is not found.
	ErrEntryNotFound = newError(ErrNotFound, "entry not found")

	// ErrAccountNumberExists indicates that the account number is already registered.
	ErrAccountNumberExists = newError(ErrConflict, "account number already exists")
	// ErrEmailExists indicates that the email is already taken by another user.
	ErrEmailExists = newError(ErrConflict, "email already exists")
	// ErrDuplicateReference indicates a ledger reference number collision.
	ErrDuplicateReference = newError(ErrConflict, "duplicate reference number")
	// ErrConcurrentUpdate indicates that the account was changed by another operation.
	ErrConcurrentUpdate = newRetryableError(ErrConflict, "account was modified concurrently")
	// ErrStoreTimeout indicates a transient persistence failure.
	ErrStoreTimeout = newRetryableError(ErrConflict, "store operation timed out")

	ErrEmptyAccountNumber   = newError(ErrInvalidArgument, "account number is required")
	ErrAccountNumberTooLong = newError(ErrInvalidArgument, "account number is too long")
	ErrNegativeBalance      = newError(ErrInvalidArgument, "initial balance cannot be negative")
	ErrInvalidAmount        = newError(ErrInvalidArgument, "amount must be greater than zero")
	ErrAmountPrecision      = newError(ErrInvalidArgument, "amount cannot have more than 2 decimal places")
	ErrBalancePrecision     = newError(ErrInvalidArgument, "initial balance cannot have more than 2 decimal places")
	ErrSameAccount          = newError(ErrInvalidArgument, "cannot transfer to the same account")
	ErrInvalidAccountType   = newError(ErrInvalidArgument, "invalid account type")
	ErrInvalidEntryKind     = newError(ErrInvalidArgument, "invalid transaction type")
	ErrInvalidPage          = newError(ErrInvalidArgument, "invalid page")
	ErrInvalidPageSize      = newError(ErrInvalidArgument, "invalid page size")
	ErrInvalidTimeRange     = newError(ErrInvalidArgument, "invalid time range")

	ErrAccountNotActive     = newError(ErrInactiveAccount, "account is not active")
	ErrDestinationNotActive = newError(ErrInactiveAccount, "destination account is not active")
	ErrAccountClosed        = newError(ErrInvalidState, "account is closed")
	ErrAccountNotFrozen     = newError(ErrInvalidState, "account is not frozen")
	ErrAccountFrozen        = newError(ErrInvalidState, "account is frozen")
	ErrBalanceNotZero       = newError(ErrNonZeroBalance, "account must have zero balance")
	ErrNotEnoughBalance     = newError(ErrInsufficientBalance, "insufficient balance")
	ErrInvalidPIN           = newError(ErrUnauthorized, "invalid pin")
	ErrAccountOwnerMismatch = newError(ErrUnauthorized, "account doesn't belong to the user")
)

// IsRetryable reports whether err may be retried without changing the input.
func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable
	}

	return false
}
