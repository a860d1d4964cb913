package accountrepo_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-petr/pet-ledger/internal/accountrepo"
	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/integrationtest"
	"github.com/go-petr/pet-ledger/internal/userrepo"
	"github.com/go-petr/pet-ledger/pkg/randompkg"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func createRandomAccount(t *testing.T, tx *sql.Tx, ownerID uuid.UUID, balance decimal.Decimal) domain.Account {
	t.Helper()

	a, _, err := domain.NewAccount(domain.CreateAccountParams{
		AccountNumber:  randompkg.AccountNumber(),
		Type:           domain.TypeSavings,
		InitialBalance: balance,
	}, ownerID, time.Now().UTC().Truncate(time.Microsecond))
	require.NoError(t, err)

	created, err := accountrepo.NewRepoPGS(tx).Create(context.Background(), a)
	require.NoError(t, err)

	require.Equal(t, a.ID, created.ID)
	require.Equal(t, a.AccountNumber, created.AccountNumber)
	require.Equal(t, ownerID, created.OwnerID)
	require.True(t, balance.Equal(created.Balance))
	require.Equal(t, domain.StatusActive, created.Status)
	require.Equal(t, domain.TypeSavings, created.Type)
	require.WithinDuration(t, a.CreatedAt, created.CreatedAt, time.Millisecond)
	require.Equal(t, int64(1), created.Version)

	return created
}

func createRandomUser(t *testing.T, tx *sql.Tx) domain.User {
	t.Helper()

	u, err := userrepo.NewRepoPGS(tx).Create(context.Background(), domain.CreateUserParams{
		FullName: randompkg.FullName(),
		Email:    randompkg.Email(),
	})
	require.NoError(t, err)

	return u
}

func TestCreate(t *testing.T) {
	tx := integrationtest.SetupTX(t)
	owner := createRandomUser(t, tx)

	createRandomAccount(t, tx, owner.ID, randompkg.MoneyAmountBetween(1_000, 10_000))
}

func TestCreateConstraintViolations(t *testing.T) {
	tx := integrationtest.SetupTX(t)
	repo := accountrepo.NewRepoPGS(tx)
	owner := createRandomUser(t, tx)
	existing := createRandomAccount(t, tx, owner.ID, decimal.Zero)

	testCases := []struct {
		name    string
		mutate  func(a *domain.Account)
		wantErr error
	}{
		{
			name:    "UnknownOwner",
			mutate:  func(a *domain.Account) { a.OwnerID = uuid.New() },
			wantErr: domain.ErrUserNotFound,
		},
		{
			name:    "NumberTaken",
			mutate:  func(a *domain.Account) { a.AccountNumber = existing.AccountNumber },
			wantErr: domain.ErrAccountNumberExists,
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			a := existing
			a.ID = uuid.New()
			a.AccountNumber = randompkg.AccountNumber()
			tc.mutate(&a)

			// A failed statement aborts the transaction, so run it in a savepoint.
			_, err := tx.Exec("SAVEPOINT sp")
			require.NoError(t, err)

			got, err := repo.Create(context.Background(), a)
			require.ErrorIs(t, err, tc.wantErr)
			require.Empty(t, got)

			_, err = tx.Exec("ROLLBACK TO SAVEPOINT sp")
			require.NoError(t, err)
		})
	}
}

func TestGet(t *testing.T) {
	tx := integrationtest.SetupTX(t)
	repo := accountrepo.NewRepoPGS(tx)
	owner := createRandomUser(t, tx)
	want := createRandomAccount(t, tx, owner.ID, decimal.RequireFromString("12.34"))

	got, err := repo.Get(context.Background(), want.ID)
	require.NoError(t, err)
	require.Equal(t, want.AccountNumber, got.AccountNumber)
	require.Equal(t, "12.34", got.Balance.String())

	got, err = repo.GetByNumber(context.Background(), want.AccountNumber)
	require.NoError(t, err)
	require.Equal(t, want.ID, got.ID)

	_, err = repo.Get(context.Background(), uuid.New())
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	_, err = repo.GetByNumber(context.Background(), "ACC-none")
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestListByOwner(t *testing.T) {
	tx := integrationtest.SetupTX(t)
	repo := accountrepo.NewRepoPGS(tx)
	owner := createRandomUser(t, tx)
	other := createRandomUser(t, tx)

	for i := 0; i < 4; i++ {
		createRandomAccount(t, tx, owner.ID, decimal.Zero)
	}

	createRandomAccount(t, tx, other.ID, decimal.Zero)

	got, err := repo.ListByOwner(context.Background(), owner.ID, 3, 0)
	require.NoError(t, err)
	require.Len(t, got, 3)

	for _, a := range got {
		require.Equal(t, owner.ID, a.OwnerID)
	}

	got, err = repo.ListByOwner(context.Background(), owner.ID, 3, 3)
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = repo.ListByOwner(context.Background(), uuid.New(), 3, 0)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestUpdate(t *testing.T) {
	tx := integrationtest.SetupTX(t)
	repo := accountrepo.NewRepoPGS(tx)
	owner := createRandomUser(t, tx)
	a := createRandomAccount(t, tx, owner.ID, decimal.RequireFromString("100"))

	changed := a
	changed.Balance = decimal.RequireFromString("40.5")
	changed.Status = domain.StatusFrozen
	changed.Type = domain.TypeBusiness
	changed.UpdatedAt = a.UpdatedAt.Add(time.Minute)

	updated, err := repo.Update(context.Background(), changed)
	require.NoError(t, err)
	require.Equal(t, "40.5", updated.Balance.String())
	require.Equal(t, domain.StatusFrozen, updated.Status)
	require.Equal(t, domain.TypeBusiness, updated.Type)
	require.Equal(t, a.Version+1, updated.Version)
	require.WithinDuration(t, changed.UpdatedAt, updated.UpdatedAt, time.Millisecond)

	// changed still carries the old version
	_, err = repo.Update(context.Background(), changed)
	require.ErrorIs(t, err, domain.ErrConcurrentUpdate)
	require.True(t, domain.IsRetryable(err))

	missing := changed
	missing.ID = uuid.New()

	_, err = repo.Update(context.Background(), missing)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestDelete(t *testing.T) {
	tx := integrationtest.SetupTX(t)
	repo := accountrepo.NewRepoPGS(tx)
	owner := createRandomUser(t, tx)
	a := createRandomAccount(t, tx, owner.ID, decimal.Zero)

	err := repo.Delete(context.Background(), a.ID, a.Version+1)
	require.ErrorIs(t, err, domain.ErrConcurrentUpdate)

	err = repo.Delete(context.Background(), a.ID, a.Version)
	require.NoError(t, err)

	_, err = repo.Get(context.Background(), a.ID)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	err = repo.Delete(context.Background(), a.ID, a.Version)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}
