// Package helpers provides random entities and db seeding used across tests.
package helpers

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/userrepo"
	"github.com/go-petr/pet-ledger/internal/userservice"
	"github.com/go-petr/pet-ledger/pkg/randompkg"
)

// RandomAccount returns an active account of the owner with a random balance.
func RandomAccount(ownerID uuid.UUID) domain.Account {
	now := time.Now().UTC().Truncate(time.Second)

	return domain.Account{
		ID:            uuid.New(),
		AccountNumber: randompkg.AccountNumber(),
		OwnerID:       ownerID,
		Balance:       randompkg.MoneyAmountBetween(100, 1_000),
		Status:        domain.StatusActive,
		Type:          domain.TypeSavings,
		CreatedAt:     now,
		UpdatedAt:     now,
		Version:       1,
	}
}

// RandomEntry returns a completed entry of the given kind on the account.
func RandomEntry(accountID uuid.UUID, kind domain.EntryKind) domain.Entry {
	now := time.Now().UTC().Truncate(time.Second)

	return domain.Entry{
		ID:              uuid.New(),
		AccountID:       accountID,
		Kind:            kind,
		Amount:          randompkg.MoneyAmountBetween(1, 100),
		Description:     kind.String(),
		ReferenceNumber: domain.NewReference(now),
		Status:          domain.EntryCompleted,
		CreatedAt:       now,
	}
}

// SeedUser creates a user with the PIN through the user service.
func SeedUser(t *testing.T, db *sql.DB, pin string) domain.User {
	t.Helper()

	users := userservice.New(userrepo.NewRepoPGS(db))

	u, err := users.Create(context.Background(), randompkg.FullName(), randompkg.Email(), pin)
	if err != nil {
		t.Fatalf("users.Create() returned error: %v", err)
	}

	return u
}

// Decimal parses s or fails the test.
func Decimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()

	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("decimal.NewFromString(%q) returned error: %v", s, err)
	}

	return d
}
