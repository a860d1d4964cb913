// Package entryrepo manages repository layer of ledger entries.
package entryrepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates entry repository layer logic.
//
// Entries are append-only: there is no update or delete.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns entry RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

const entryColumns = `id, account_id, related_account_id, kind, amount, description, reference_number, status, created_at`

func scanEntry(row interface{ Scan(...any) error }) (domain.Entry, error) {
	var e domain.Entry

	err := row.Scan(
		&e.ID,
		&e.AccountID,
		&e.RelatedAccountID,
		&e.Kind,
		&e.Amount,
		&e.Description,
		&e.ReferenceNumber,
		&e.Status,
		&e.CreatedAt,
	)

	return e, err
}

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

// A reference collision inserts nothing instead of failing, which would abort
// the surrounding transaction.
const appendQuery = `
INSERT INTO entries (
    id, account_id, related_account_id, kind, amount, description, reference_number, status, created_at
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9
)
ON CONFLICT (reference_number) DO NOTHING
RETURNING ` + entryColumns

// Append stores the entry and then returns it.
func (r *RepoPGS) Append(ctx context.Context, e domain.Entry) (domain.Entry, error) {
	row := r.db.QueryRowContext(ctx, appendQuery,
		e.ID,
		e.AccountID,
		e.RelatedAccountID,
		e.Kind,
		e.Amount,
		e.Description,
		e.ReferenceNumber,
		e.Status,
		e.CreatedAt,
	)

	saved, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			zerolog.Ctx(ctx).Info().Str("reference_number", e.ReferenceNumber).Msg("duplicate reference number")
			return domain.Entry{}, domain.ErrDuplicateReference
		}

		return domain.Entry{}, storeError(ctx, err)
	}

	return saved, nil
}

const getQuery = `
SELECT ` + entryColumns + `
FROM entries
WHERE id = $1
`

// Get returns the entry with the given id.
func (r *RepoPGS) Get(ctx context.Context, id uuid.UUID) (domain.Entry, error) {
	e, err := scanEntry(r.db.QueryRowContext(ctx, getQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Entry{}, domain.ErrEntryNotFound
		}

		return domain.Entry{}, storeError(ctx, err)
	}

	return e, nil
}

const listQuery = `
SELECT ` + entryColumns + `
FROM entries
WHERE account_id = $1
    AND created_at >= $2
    AND created_at <= $3
    AND ($4::smallint IS NULL OR kind = $4)
ORDER BY created_at DESC, id DESC
LIMIT $5 OFFSET $6
`

// ListByAccount returns one page of the account entries, newest first.
func (r *RepoPGS) ListByAccount(ctx context.Context, arg domain.ListEntriesParams) ([]domain.Entry, error) {
	rows, err := r.db.QueryContext(ctx, listQuery,
		arg.AccountID,
		arg.From,
		arg.To,
		arg.Kind,
		arg.PageSize,
		arg.Offset(),
	)
	if err != nil {
		return nil, storeError(ctx, err)
	}
	defer rows.Close()

	items := []domain.Entry{}

	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, storeError(ctx, err)
		}

		items = append(items, e)
	}

	if err := rows.Close(); err != nil {
		return nil, storeError(ctx, err)
	}

	if err := rows.Err(); err != nil {
		return nil, storeError(ctx, err)
	}

	return items, nil
}

const countQuery = `
SELECT count(*)
FROM entries
WHERE account_id = $1
    AND ($2::timestamptz IS NULL OR created_at >= $2)
    AND ($3::timestamptz IS NULL OR created_at <= $3)
    AND ($4::smallint IS NULL OR kind = $4)
`

// CountByAccount returns the number of account entries within the optional bounds.
func (r *RepoPGS) CountByAccount(ctx context.Context, accountID uuid.UUID, from, to *time.Time, kind *domain.EntryKind) (int64, error) {
	var n int64

	if err := r.db.QueryRowContext(ctx, countQuery, accountID, from, to, kind).Scan(&n); err != nil {
		return 0, storeError(ctx, err)
	}

	return n, nil
}
