// Package memrepo provides in-memory account and ledger stores used by service tests.
package memrepo

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/go-petr/pet-ledger/internal/accountservice"
	"github.com/go-petr/pet-ledger/internal/domain"
)

// Store holds accounts and ledger entries in memory.
//
// Store is the Coordinator of its own account and ledger stores. Work given to
// RunAtomic sees a private overlay over the committed data. At commit every
// touched account must still have the version it had when first read.
type Store struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]domain.Account
	numbers  map[string]uuid.UUID
	entries  []domain.Entry
	entryIdx map[uuid.UUID]int
	refs     map[string]struct{}
}

var _ accountservice.Coordinator = (*Store)(nil)

// New returns an empty Store.
func New() *Store {
	return &Store{
		accounts: make(map[uuid.UUID]domain.Account),
		numbers:  make(map[string]uuid.UUID),
		entryIdx: make(map[uuid.UUID]int),
		refs:     make(map[string]struct{}),
	}
}

// Accounts returns the account store that commits every write on its own.
func (s *Store) Accounts() accountservice.AccountStore {
	return accountRepo{s: s}
}

// Ledger returns the ledger store that commits every append on its own.
func (s *Store) Ledger() accountservice.LedgerStore {
	return ledgerRepo{s: s}
}

// RunAtomic runs work against a private overlay and merges it on success.
func (s *Store) RunAtomic(ctx context.Context, work func(ctx context.Context, stores accountservice.Stores) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t := newTx(s)

	if err := work(ctx, accountservice.Stores{
		Accounts: accountRepo{s: s, t: t},
		Ledger:   ledgerRepo{s: s, t: t},
	}); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return t.commit()
}

// tx is the overlay of one atomic unit.
type tx struct {
	s *Store
	// nil marks a deleted account.
	accounts map[uuid.UUID]*domain.Account
	// version at first touch, 0 for accounts created in the unit.
	base    map[uuid.UUID]int64
	entries []domain.Entry
	refs    map[string]struct{}
}

func newTx(s *Store) *tx {
	return &tx{
		s:        s,
		accounts: make(map[uuid.UUID]*domain.Account),
		base:     make(map[uuid.UUID]int64),
		refs:     make(map[string]struct{}),
	}
}

func (t *tx) getAccount(id uuid.UUID) (domain.Account, error) {
	if a, ok := t.accounts[id]; ok {
		if a == nil {
			return domain.Account{}, domain.ErrAccountNotFound
		}

		return *a, nil
	}

	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	a, ok := t.s.accounts[id]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}

	return a, nil
}

func (t *tx) getAccountByNumber(number string) (domain.Account, error) {
	for _, a := range t.accounts {
		if a != nil && a.AccountNumber == number {
			return *a, nil
		}
	}

	t.s.mu.RLock()
	id, ok := t.s.numbers[number]
	t.s.mu.RUnlock()

	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}

	return t.getAccount(id)
}

func (t *tx) listByOwner(ownerID uuid.UUID, limit, offset int32) []domain.Account {
	owned := make(map[uuid.UUID]domain.Account)

	t.s.mu.RLock()
	for id, a := range t.s.accounts {
		if a.OwnerID == ownerID {
			owned[id] = a
		}
	}
	t.s.mu.RUnlock()

	for id, a := range t.accounts {
		switch {
		case a == nil:
			delete(owned, id)
		case a.OwnerID == ownerID:
			owned[id] = *a
		}
	}

	items := make([]domain.Account, 0, len(owned))
	for _, a := range owned {
		items = append(items, a)
	}

	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}

		return items[i].AccountNumber < items[j].AccountNumber
	})

	return page(items, limit, offset)
}

func (t *tx) createAccount(a domain.Account) (domain.Account, error) {
	if _, err := t.getAccountByNumber(a.AccountNumber); err == nil {
		return domain.Account{}, domain.ErrAccountNumberExists
	}

	if _, err := t.getAccount(a.ID); err == nil {
		return domain.Account{}, domain.ErrAccountNumberExists
	}

	t.accounts[a.ID] = &a
	t.base[a.ID] = 0

	return a, nil
}

// touch checks a against the current version and records the version seen first.
func (t *tx) touch(id uuid.UUID, version int64) error {
	cur, err := t.getAccount(id)
	if err != nil {
		return err
	}

	if cur.Version != version {
		return domain.ErrConcurrentUpdate
	}

	if _, ok := t.base[id]; !ok {
		t.base[id] = cur.Version
	}

	return nil
}

func (t *tx) updateAccount(a domain.Account) (domain.Account, error) {
	if err := t.touch(a.ID, a.Version); err != nil {
		return domain.Account{}, err
	}

	a.Version++
	t.accounts[a.ID] = &a

	return a, nil
}

func (t *tx) deleteAccount(id uuid.UUID, version int64) error {
	if err := t.touch(id, version); err != nil {
		return err
	}

	t.accounts[id] = nil

	return nil
}

func (t *tx) appendEntry(e domain.Entry) (domain.Entry, error) {
	if _, ok := t.refs[e.ReferenceNumber]; ok {
		return domain.Entry{}, domain.ErrDuplicateReference
	}

	t.s.mu.RLock()
	_, ok := t.s.refs[e.ReferenceNumber]
	t.s.mu.RUnlock()

	if ok {
		return domain.Entry{}, domain.ErrDuplicateReference
	}

	t.entries = append(t.entries, e)
	t.refs[e.ReferenceNumber] = struct{}{}

	return e, nil
}

func (t *tx) getEntry(id uuid.UUID) (domain.Entry, error) {
	for _, e := range t.entries {
		if e.ID == id {
			return e, nil
		}
	}

	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	i, ok := t.s.entryIdx[id]
	if !ok {
		return domain.Entry{}, domain.ErrEntryNotFound
	}

	return t.s.entries[i], nil
}

func (t *tx) matchingEntries(accountID uuid.UUID, from, to *time.Time, kind *domain.EntryKind) []domain.Entry {
	match := func(e domain.Entry) bool {
		switch {
		case e.AccountID != accountID:
			return false
		case from != nil && e.CreatedAt.Before(*from):
			return false
		case to != nil && e.CreatedAt.After(*to):
			return false
		case kind != nil && e.Kind != *kind:
			return false
		}

		return true
	}

	var items []domain.Entry

	t.s.mu.RLock()
	for _, e := range t.s.entries {
		if match(e) {
			items = append(items, e)
		}
	}
	t.s.mu.RUnlock()

	for _, e := range t.entries {
		if match(e) {
			items = append(items, e)
		}
	}

	return items
}

func (t *tx) listEntries(arg domain.ListEntriesParams) []domain.Entry {
	items := t.matchingEntries(arg.AccountID, &arg.From, &arg.To, arg.Kind)

	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}

		return bytes.Compare(items[i].ID[:], items[j].ID[:]) > 0
	})

	return page(items, arg.PageSize, arg.Offset())
}

func (t *tx) commit() error {
	s := t.s

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, version := range t.base {
		cur, ok := s.accounts[id]

		if version == 0 {
			a := t.accounts[id]
			if a == nil {
				continue
			}

			_, taken := s.numbers[a.AccountNumber]

			if ok || taken {
				return domain.ErrAccountNumberExists
			}

			continue
		}

		if !ok || cur.Version != version {
			return domain.ErrConcurrentUpdate
		}
	}

	for ref := range t.refs {
		if _, ok := s.refs[ref]; ok {
			return domain.ErrDuplicateReference
		}
	}

	for id, a := range t.accounts {
		if a == nil {
			if cur, ok := s.accounts[id]; ok {
				delete(s.numbers, cur.AccountNumber)
				delete(s.accounts, id)
			}

			continue
		}

		s.accounts[id] = *a
		s.numbers[a.AccountNumber] = id
	}

	for _, e := range t.entries {
		s.entryIdx[e.ID] = len(s.entries)
		s.entries = append(s.entries, e)
		s.refs[e.ReferenceNumber] = struct{}{}
	}

	return nil
}

func page[T any](items []T, limit, offset int32) []T {
	if int(offset) >= len(items) {
		return []T{}
	}

	end := int(offset) + int(limit)
	if end > len(items) {
		end = len(items)
	}

	return items[offset:end]
}
