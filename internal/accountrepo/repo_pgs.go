// Package accountrepo manages repository layer of accounts.
package accountrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates account repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns account RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const accountColumns = `id, account_number, owner_id, balance, status, account_type, created_at, updated_at, version`

func scanAccount(row interface{ Scan(...any) error }) (domain.Account, error) {
	var a domain.Account

	err := row.Scan(
		&a.ID,
		&a.AccountNumber,
		&a.OwnerID,
		&a.Balance,
		&a.Status,
		&a.Type,
		&a.CreatedAt,
		&a.UpdatedAt,
		&a.Version,
	)

	return a, err
}

// storeError maps unexpected database errors to ledger errors.
func storeError(ctx context.Context, err error) error {
	l := zerolog.Ctx(ctx)

	switch {
	case dbpkg.IsTimeout(err):
		l.Warn().Err(err).Send()
		return domain.ErrStoreTimeout
	case dbpkg.IsTransient(err):
		l.Warn().Err(err).Send()
		return domain.ErrConcurrentUpdate
	}

	l.Error().Err(err).Send()

	return errorspkg.ErrInternal
}

const createQuery = `
INSERT INTO accounts (
    id, account_number, owner_id, balance, status, account_type, created_at, updated_at, version
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9
) RETURNING ` + accountColumns

// Create creates the account and then returns it.
func (r *RepoPGS) Create(ctx context.Context, a domain.Account) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx, createQuery,
		a.ID,
		a.AccountNumber,
		a.OwnerID,
		a.Balance,
		a.Status,
		a.Type,
		a.CreatedAt,
		a.UpdatedAt,
		a.Version,
	)

	created, err := scanAccount(row)
	if err != nil {
		if constraint, ok := dbpkg.ConstraintViolation(err, dbpkg.CodeUniqueViolation); ok {
			switch constraint {
			case "accounts_account_number_key", "accounts_pkey":
				return domain.Account{}, domain.ErrAccountNumberExists
			}
		}

		if _, ok := dbpkg.ConstraintViolation(err, dbpkg.CodeForeignKeyViolation); ok {
			return domain.Account{}, domain.ErrUserNotFound
		}

		return domain.Account{}, storeError(ctx, err)
	}

	return created, nil
}

const getQuery = `
SELECT ` + accountColumns + `
FROM accounts
WHERE id = $1
`

// Get returns the account with the given id.
func (r *RepoPGS) Get(ctx context.Context, id uuid.UUID) (domain.Account, error) {
	a, err := scanAccount(r.db.QueryRowContext(ctx, getQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return a, domain.ErrAccountNotFound
		}

		return a, storeError(ctx, err)
	}

	return a, nil
}

const getByNumberQuery = `
SELECT ` + accountColumns + `
FROM accounts
WHERE account_number = $1
`

// GetByNumber returns the account with the given account number.
func (r *RepoPGS) GetByNumber(ctx context.Context, number string) (domain.Account, error) {
	a, err := scanAccount(r.db.QueryRowContext(ctx, getByNumberQuery, number))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return a, domain.ErrAccountNotFound
		}

		return a, storeError(ctx, err)
	}

	return a, nil
}

const listByOwnerQuery = `
SELECT ` + accountColumns + `
FROM accounts
WHERE owner_id = $1
ORDER BY created_at, account_number
LIMIT $2 OFFSET $3
`

// ListByOwner returns the specified number of accounts for the given user.
func (r *RepoPGS) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int32) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx, listByOwnerQuery, ownerID, limit, offset)
	if err != nil {
		return nil, storeError(ctx, err)
	}
	defer rows.Close()

	items := []domain.Account{}

	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, storeError(ctx, err)
		}

		items = append(items, a)
	}

	if err := rows.Close(); err != nil {
		return nil, storeError(ctx, err)
	}

	if err := rows.Err(); err != nil {
		return nil, storeError(ctx, err)
	}

	return items, nil
}

const updateQuery = `
UPDATE accounts
SET balance = $3, status = $4, account_type = $5, updated_at = $6, version = version + 1
WHERE id = $1 AND version = $2
RETURNING ` + accountColumns

// Update saves the balance, status and type of the account if nobody changed
// it since it was read, and returns the account with the next version.
func (r *RepoPGS) Update(ctx context.Context, a domain.Account) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx, updateQuery,
		a.ID,
		a.Version,
		a.Balance,
		a.Status,
		a.Type,
		a.UpdatedAt,
	)

	updated, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, r.missedVersion(ctx, a.ID)
		}

		if constraint, ok := dbpkg.ConstraintViolation(err, dbpkg.CodeCheckViolation); ok && constraint == "accounts_balance_check" {
			return domain.Account{}, domain.ErrNotEnoughBalance
		}

		return domain.Account{}, storeError(ctx, err)
	}

	return updated, nil
}

const deleteQuery = `
DELETE FROM accounts
WHERE id = $1 AND version = $2
`

// Delete removes the account with the given id if its version is still current.
func (r *RepoPGS) Delete(ctx context.Context, id uuid.UUID, version int64) error {
	res, err := r.db.ExecContext(ctx, deleteQuery, id, version)
	if err != nil {
		return storeError(ctx, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return storeError(ctx, err)
	}

	if n == 0 {
		return r.missedVersion(ctx, id)
	}

	return nil
}

const existsQuery = `SELECT EXISTS (SELECT 1 FROM accounts WHERE id = $1)`

// missedVersion explains why a versioned write matched no row.
func (r *RepoPGS) missedVersion(ctx context.Context, id uuid.UUID) error {
	var exists bool

	if err := r.db.QueryRowContext(ctx, existsQuery, id).Scan(&exists); err != nil {
		return storeError(ctx, err)
	}

	if !exists {
		return domain.ErrAccountNotFound
	}

	return domain.ErrConcurrentUpdate
}
