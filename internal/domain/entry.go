package domain

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

// EntryKind is the type of the event recorded by a ledger entry.
type EntryKind int16

// Entry kinds.
const (
	KindDeposit EntryKind = iota + 1
	KindWithdraw
	KindTransferIn
	KindTransferOut
	KindAccountFrozen
	KindAccountUnfrozen
	KindAccountClosed
)

var kindNames = map[EntryKind]string{
	KindDeposit:         "Deposit",
	KindWithdraw:        "Withdraw",
	KindTransferIn:      "TransferIn",
	KindTransferOut:     "TransferOut",
	KindAccountFrozen:   "AccountFrozen",
	KindAccountUnfrozen: "AccountUnfrozen",
	KindAccountClosed:   "AccountClosed",
}

func (k EntryKind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}

	return fmt.Sprintf("EntryKind(%d)", int16(k))
}

// Valid reports whether k is a known entry kind.
func (k EntryKind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// ParseEntryKind converts the external name of an entry kind.
func ParseEntryKind(s string) (EntryKind, error) {
	for k, n := range kindNames {
		if strings.EqualFold(n, s) {
			return k, nil
		}
	}

	return 0, ErrInvalidEntryKind
}

// EntryStatus is the settlement status of a ledger entry.
type EntryStatus int16

// Entry statuses.
const (
	EntryCompleted EntryStatus = iota + 1
	EntryReversed
)

func (s EntryStatus) String() string {
	switch s {
	case EntryCompleted:
		return "Completed"
	case EntryReversed:
		return "Reversed"
	}

	return fmt.Sprintf("EntryStatus(%d)", int16(s))
}

// Entry is an immutable record of one money movement or status change of an account.
type Entry struct {
	ID               uuid.UUID
	AccountID        uuid.UUID
	RelatedAccountID uuid.NullUUID
	Kind             EntryKind
	Amount           decimal.Decimal // never negative
	Description      string
	ReferenceNumber  string
	Status           EntryStatus
	CreatedAt        time.Time
}

func newEntry(accountID uuid.UUID, related uuid.NullUUID, kind EntryKind, amount decimal.Decimal, description string, at time.Time) Entry {
	return Entry{
		ID:               uuid.New(),
		AccountID:        accountID,
		RelatedAccountID: related,
		Kind:             kind,
		Amount:           amount,
		Description:      description,
		ReferenceNumber:  NewReference(at),
		Status:           EntryCompleted,
		CreatedAt:        at,
	}
}

// NewReference returns a reference number made of the time and a random suffix.
// Times outside the ULID range are clamped to it.
func NewReference(at time.Time) string {
	var ms uint64

	switch {
	case at.After(ulid.Time(ulid.MaxTime())):
		ms = ulid.MaxTime()
	case !at.Before(time.UnixMilli(0)):
		ms = ulid.Timestamp(at)
	}

	return "TX-" + ulid.MustNew(ms, rand.Reader).String()
}

// ListEntriesParams is the input data to list ledger entries of an account.
type ListEntriesParams struct {
	AccountID uuid.UUID
	From      time.Time
	To        time.Time
	Kind      *EntryKind
	Page      int32
	PageSize  int32
}

// Offset returns the number of entries before the requested page.
func (p ListEntriesParams) Offset() int32 {
	return (p.Page - 1) * p.PageSize
}

// EntryFilter holds the optional filters of a transaction history query.
type EntryFilter struct {
	From     *time.Time
	To       *time.Time
	Kind     *EntryKind
	Page     int32
	PageSize int32
}

// EntryPage is one page of a transaction history.
type EntryPage struct {
	Entries  []Entry `json:"entries"`
	Total    int64   `json:"total"`
	Page     int32   `json:"page"`
	PageSize int32   `json:"page_size"`
}
