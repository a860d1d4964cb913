// Package userrepo manages repository layer of account owners.
package userrepo

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

// RepoPGS facilitates user repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns user RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const createQuery = `
INSERT INTO users (
    id,
    full_name,
    email,
    pin_hash
) VALUES (
    $1, $2, $3, $4
) RETURNING id, full_name, email, pin_hash, created_at
`

// Create creates the user and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateUserParams) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		uuid.New(),
		arg.FullName,
		arg.Email,
		arg.PINHash,
	)

	var u domain.User

	err := row.Scan(
		&u.ID,
		&u.FullName,
		&u.Email,
		&u.PINHash,
		&u.CreatedAt,
	)

	if err != nil {
		if constraint, ok := dbpkg.ConstraintViolation(err, dbpkg.CodeUniqueViolation); ok && constraint == "users_email_key" {
			l.Info().Err(err).Send()
			return domain.User{}, domain.ErrEmailExists
		}

		l.Error().Err(err).Send()

		return domain.User{}, errorspkg.ErrInternal
	}

	return u, nil
}

const getQuery = `
SELECT id, full_name, email, pin_hash, created_at
FROM users
WHERE id = $1
`

// Get returns the user with the given id.
func (r *RepoPGS) Get(ctx context.Context, id uuid.UUID) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, id)

	var u domain.User

	err := row.Scan(
		&u.ID,
		&u.FullName,
		&u.Email,
		&u.PINHash,
		&u.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound
		}

		l.Error().Err(err).Send()

		return domain.User{}, errorspkg.ErrInternal
	}

	return u, nil
}
