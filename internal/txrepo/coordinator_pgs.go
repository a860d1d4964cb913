// Package txrepo runs account service work inside database transactions.
package txrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-petr/pet-ledger/internal/accountrepo"
	"github.com/go-petr/pet-ledger/internal/accountservice"
	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/entryrepo"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/rs/zerolog"
)

// CoordinatorPGS facilitates atomic units over a postgres connection pool.
type CoordinatorPGS struct {
	conn dbpkg.TxBeginner
}

var _ accountservice.Coordinator = (*CoordinatorPGS)(nil)

// NewCoordinatorPGS returns CoordinatorPGS.
func NewCoordinatorPGS(conn dbpkg.TxBeginner) *CoordinatorPGS {
	return &CoordinatorPGS{conn: conn}
}

// RunAtomic runs work in one transaction with transaction-bound stores.
//
// The transaction is started on a context that is never canceled so that
// database/sql doesn't roll it back behind our back. Statements still use ctx.
// An error returned by work is returned unchanged after rollback.
func (c *CoordinatorPGS) RunAtomic(ctx context.Context, work func(ctx context.Context, stores accountservice.Stores) error) error {
	l := zerolog.Ctx(ctx)

	if err := ctx.Err(); err != nil {
		return err
	}

	tx, err := c.conn.BeginTx(context.WithoutCancel(ctx), nil)
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			l.Error().Err(err).Send()
		}
	}()

	stores := accountservice.Stores{
		Accounts: accountrepo.NewRepoPGS(tx),
		Ledger:   entryrepo.NewRepoPGS(tx),
	}

	if err := work(ctx, stores); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		l.Info().Err(err).Msg("unit canceled before commit")
		return err
	}

	if err := tx.Commit(); err != nil {
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

	return nil
}
