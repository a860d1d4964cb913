package memrepo

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/go-petr/pet-ledger/internal/accountservice"
	"github.com/go-petr/pet-ledger/internal/domain"
)

var (
	_ accountservice.AccountStore = accountRepo{}
	_ accountservice.LedgerStore  = ledgerRepo{}
)

// accountRepo is bound to an atomic unit when t is set.
type accountRepo struct {
	s *Store
	t *tx
}

// begin returns the unit to work in and a commit func for standalone calls.
func begin(s *Store, t *tx) (*tx, func() error) {
	if t != nil {
		return t, func() error { return nil }
	}

	t = newTx(s)

	return t, t.commit
}

func (r accountRepo) view() *tx {
	if r.t != nil {
		return r.t
	}

	return newTx(r.s)
}

func (r accountRepo) Create(ctx context.Context, a domain.Account) (domain.Account, error) {
	t, commit := begin(r.s, r.t)

	created, err := t.createAccount(a)
	if err != nil {
		return domain.Account{}, err
	}

	return created, commit()
}

func (r accountRepo) Get(ctx context.Context, id uuid.UUID) (domain.Account, error) {
	return r.view().getAccount(id)
}

func (r accountRepo) GetByNumber(ctx context.Context, number string) (domain.Account, error) {
	return r.view().getAccountByNumber(number)
}

func (r accountRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int32) ([]domain.Account, error) {
	return r.view().listByOwner(ownerID, limit, offset), nil
}

func (r accountRepo) Update(ctx context.Context, a domain.Account) (domain.Account, error) {
	t, commit := begin(r.s, r.t)

	updated, err := t.updateAccount(a)
	if err != nil {
		return domain.Account{}, err
	}

	return updated, commit()
}

func (r accountRepo) Delete(ctx context.Context, id uuid.UUID, version int64) error {
	t, commit := begin(r.s, r.t)

	if err := t.deleteAccount(id, version); err != nil {
		return err
	}

	return commit()
}

type ledgerRepo struct {
	s *Store
	t *tx
}

func (r ledgerRepo) view() *tx {
	if r.t != nil {
		return r.t
	}

	return newTx(r.s)
}

func (r ledgerRepo) Append(ctx context.Context, e domain.Entry) (domain.Entry, error) {
	t, commit := begin(r.s, r.t)

	saved, err := t.appendEntry(e)
	if err != nil {
		return domain.Entry{}, err
	}

	return saved, commit()
}

func (r ledgerRepo) ListByAccount(ctx context.Context, arg domain.ListEntriesParams) ([]domain.Entry, error) {
	return r.view().listEntries(arg), nil
}

func (r ledgerRepo) CountByAccount(ctx context.Context, accountID uuid.UUID, from, to *time.Time, kind *domain.EntryKind) (int64, error) {
	return int64(len(r.view().matchingEntries(accountID, from, to, kind))), nil
}

func (r ledgerRepo) Get(ctx context.Context, id uuid.UUID) (domain.Entry, error) {
	return r.view().getEntry(id)
}
