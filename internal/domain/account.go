// Package domain provides defenitions of all entities and the account ledger rules.
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxAccountNumberLength is the storage limit of an account number.
const MaxAccountNumberLength = 20

// MoneyScale is the number of decimal places balances and amounts are stored with.
const MoneyScale = 2

// ValidMoneyScale reports whether d has no more than MoneyScale decimal places.
func ValidMoneyScale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(MoneyScale))
}

func checkAmount(amount decimal.Decimal) error {
	switch {
	case !amount.IsPositive():
		return ErrInvalidAmount
	case !ValidMoneyScale(amount):
		return ErrAmountPrecision
	}

	return nil
}

// AccountStatus is the lifecycle state of an account.
type AccountStatus int16

// Account statuses.
const (
	StatusActive AccountStatus = iota + 1
	StatusFrozen
	StatusClosed
)

var statusNames = map[AccountStatus]string{
	StatusActive: "Active",
	StatusFrozen: "Frozen",
	StatusClosed: "Closed",
}

func (s AccountStatus) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}

	return fmt.Sprintf("AccountStatus(%d)", int16(s))
}

// AccountType classifies an account. It has no behavioral effect.
type AccountType int16

// Account types.
const (
	TypeSavings AccountType = iota + 1
	TypeCurrent
	TypeFixedDeposit
	TypeBusiness
)

var typeNames = map[AccountType]string{
	TypeSavings:      "Savings",
	TypeCurrent:      "Current",
	TypeFixedDeposit: "FixedDeposit",
	TypeBusiness:     "Business",
}

func (t AccountType) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}

	return fmt.Sprintf("AccountType(%d)", int16(t))
}

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	_, ok := typeNames[t]
	return ok
}

// ParseAccountType converts the external name of an account type.
func ParseAccountType(s string) (AccountType, error) {
	for t, n := range typeNames {
		if strings.EqualFold(n, s) {
			return t, nil
		}
	}

	return 0, ErrInvalidAccountType
}

// Account holds the balance and lifecycle state of a bank account.
//
// Balance-changing and status-changing methods return the ledger entries
// they produce. They validate everything before mutating, so a returned
// error means the account is unchanged.
type Account struct {
	ID            uuid.UUID
	AccountNumber string
	OwnerID       uuid.UUID
	Balance       decimal.Decimal
	Status        AccountStatus
	Type          AccountType
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Version       int64
}

// CreateAccountParams is the input data to open an account.
type CreateAccountParams struct {
	AccountNumber  string
	Type           AccountType
	InitialBalance decimal.Decimal
}

// NewAccount opens an active account for the owner.
//
// A positive initial balance is recorded as an opening Deposit entry.
func NewAccount(arg CreateAccountParams, ownerID uuid.UUID, at time.Time) (Account, []Entry, error) {
	number := strings.TrimSpace(arg.AccountNumber)

	switch {
	case number == "":
		return Account{}, nil, ErrEmptyAccountNumber
	case len(number) > MaxAccountNumberLength:
		return Account{}, nil, ErrAccountNumberTooLong
	case !arg.Type.Valid():
		return Account{}, nil, ErrInvalidAccountType
	case arg.InitialBalance.IsNegative():
		return Account{}, nil, ErrNegativeBalance
	case !ValidMoneyScale(arg.InitialBalance):
		return Account{}, nil, ErrBalancePrecision
	}

	a := Account{
		ID:            uuid.New(),
		AccountNumber: number,
		OwnerID:       ownerID,
		Balance:       arg.InitialBalance,
		Status:        StatusActive,
		Type:          arg.Type,
		CreatedAt:     at,
		UpdatedAt:     at,
		Version:       1,
	}

	if !arg.InitialBalance.IsPositive() {
		return a, nil, nil
	}

	e := newEntry(a.ID, uuid.NullUUID{}, KindDeposit, arg.InitialBalance, "Opening deposit", at)

	return a, []Entry{e}, nil
}

// IsActive reports whether money can move in or out of the account.
func (a *Account) IsActive() bool {
	return a.Status == StatusActive
}

// Deposit adds amount to the balance.
func (a *Account) Deposit(amount decimal.Decimal, description string, at time.Time) (Entry, error) {
	if !a.IsActive() {
		return Entry{}, ErrAccountNotActive
	}

	if err := checkAmount(amount); err != nil {
		return Entry{}, err
	}

	a.Balance = a.Balance.Add(amount)
	a.UpdatedAt = at

	return newEntry(a.ID, uuid.NullUUID{}, KindDeposit, amount, orDefault(description, "Deposit"), at), nil
}

// Withdraw takes amount from the balance.
func (a *Account) Withdraw(amount decimal.Decimal, description string, at time.Time) (Entry, error) {
	if !a.IsActive() {
		return Entry{}, ErrAccountNotActive
	}

	if err := checkAmount(amount); err != nil {
		return Entry{}, err
	}

	if amount.GreaterThan(a.Balance) {
		return Entry{}, ErrNotEnoughBalance
	}

	a.Balance = a.Balance.Sub(amount)
	a.UpdatedAt = at

	return newEntry(a.ID, uuid.NullUUID{}, KindWithdraw, amount, orDefault(description, "Withdrawal"), at), nil
}

// Transfer moves amount from a to the target account.
//
// It returns the TransferOut entry of a and the TransferIn entry of the target.
// Both accounts must be persisted together with both entries.
func (a *Account) Transfer(to *Account, amount decimal.Decimal, description string, at time.Time) (Entry, Entry, error) {
	if !a.IsActive() {
		return Entry{}, Entry{}, ErrAccountNotActive
	}

	if !to.IsActive() {
		return Entry{}, Entry{}, ErrDestinationNotActive
	}

	if err := checkAmount(amount); err != nil {
		return Entry{}, Entry{}, err
	}

	if a.ID == to.ID {
		return Entry{}, Entry{}, ErrSameAccount
	}

	if amount.GreaterThan(a.Balance) {
		return Entry{}, Entry{}, ErrNotEnoughBalance
	}

	description = orDefault(description, "Transfer")

	a.Balance = a.Balance.Sub(amount)
	a.UpdatedAt = at
	out := newEntry(a.ID, uuid.NullUUID{UUID: to.ID, Valid: true}, KindTransferOut, amount,
		fmt.Sprintf("Transfer to %s: %s", to.AccountNumber, description), at)

	to.Balance = to.Balance.Add(amount)
	to.UpdatedAt = at
	in := newEntry(to.ID, uuid.NullUUID{UUID: a.ID, Valid: true}, KindTransferIn, amount,
		fmt.Sprintf("Transfer from %s: %s", a.AccountNumber, description), at)

	return out, in, nil
}

// Freeze blocks money movement on the account.
func (a *Account) Freeze(reason string, at time.Time) (Entry, error) {
	if a.Status == StatusClosed {
		return Entry{}, ErrAccountClosed
	}

	a.Status = StatusFrozen
	a.UpdatedAt = at

	return newEntry(a.ID, uuid.NullUUID{}, KindAccountFrozen, decimal.Zero,
		"Account frozen. Reason: "+reason, at), nil
}

// Unfreeze makes a frozen account active again.
func (a *Account) Unfreeze(at time.Time) (Entry, error) {
	if a.Status != StatusFrozen {
		return Entry{}, ErrAccountNotFrozen
	}

	a.Status = StatusActive
	a.UpdatedAt = at

	return newEntry(a.ID, uuid.NullUUID{}, KindAccountUnfrozen, decimal.Zero, "Account unfrozen", at), nil
}

// Close permanently closes an active account with zero balance.
// A frozen account has to be unfrozen first.
func (a *Account) Close(at time.Time) (Entry, error) {
	switch a.Status {
	case StatusClosed:
		return Entry{}, ErrAccountClosed
	case StatusFrozen:
		return Entry{}, ErrAccountFrozen
	}

	if a.Balance.IsPositive() {
		return Entry{}, ErrBalanceNotZero
	}

	a.Status = StatusClosed
	a.UpdatedAt = at

	return newEntry(a.ID, uuid.NullUUID{}, KindAccountClosed, decimal.Zero, "Account closed", at), nil
}

// ChangeType reclassifies the account.
func (a *Account) ChangeType(t AccountType, at time.Time) error {
	if !t.Valid() {
		return ErrInvalidAccountType
	}

	a.Type = t
	a.UpdatedAt = at

	return nil
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}

	return s
}
