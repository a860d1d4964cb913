// Package accountservice manages business logic layer of accounts and their ledger.
package accountservice

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/passpkg"
)

// AccountStore provides account persistence needed by account service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type AccountStore interface {
	Create(ctx context.Context, a domain.Account) (domain.Account, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Account, error)
	GetByNumber(ctx context.Context, number string) (domain.Account, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int32) ([]domain.Account, error)
	// Update persists a changed account if its version is still current and
	// returns it with the next version.
	Update(ctx context.Context, a domain.Account) (domain.Account, error)
	Delete(ctx context.Context, id uuid.UUID, version int64) error
}

// LedgerStore provides append-only entry persistence needed by account service layer.
type LedgerStore interface {
	Append(ctx context.Context, e domain.Entry) (domain.Entry, error)
	ListByAccount(ctx context.Context, arg domain.ListEntriesParams) ([]domain.Entry, error)
	CountByAccount(ctx context.Context, accountID uuid.UUID, from, to *time.Time, kind *domain.EntryKind) (int64, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Entry, error)
}

// Stores holds the stores bound to one atomic unit.
type Stores struct {
	Accounts AccountStore
	Ledger   LedgerStore
}

// Coordinator runs a unit of work atomically.
//
// Every write made through the given stores lands together or not at all.
// An error returned by work is returned unchanged.
type Coordinator interface {
	RunAtomic(ctx context.Context, work func(ctx context.Context, stores Stores) error) error
}

// UserDirectory provides owner lookups needed by account service layer.
type UserDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) error
	VerifyPIN(ctx context.Context, id uuid.UUID, pin string) error
}

// Config holds account service settings.
type Config struct {
	RequirePIN       bool
	HistoryWindow    time.Duration
	DefaultPageSize  int32
	MaxPageSize      int32
	ReferenceRetries int
}

// Service facilitates account service layer logic.
type Service struct {
	accounts    AccountStore
	ledger      LedgerStore
	coordinator Coordinator
	users       UserDirectory
	config      Config
	now         func() time.Time
}

// New returns account service struct to manage account bussines logic.
//
// The stores are used for reads outside of an atomic unit.
func New(as AccountStore, ls LedgerStore, c Coordinator, ud UserDirectory, config Config) *Service {
	if config.ReferenceRetries < 1 {
		config.ReferenceRetries = 1
	}

	return &Service{
		accounts:    as,
		ledger:      ls,
		coordinator: c,
		users:       ud,
		config:      config,
		now:         func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

// Create opens an account for the given owner.
func (s *Service) Create(ctx context.Context, arg domain.CreateAccountParams, ownerID uuid.UUID) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	var result domain.Account

	if err := s.users.Exists(ctx, ownerID); err != nil {
		return result, err
	}

	account, entries, err := domain.NewAccount(arg, ownerID, s.now())
	if err != nil {
		l.Info().Err(err).Send()
		return result, err
	}

	err = s.coordinator.RunAtomic(ctx, func(ctx context.Context, st Stores) error {
		_, err := st.Accounts.GetByNumber(ctx, account.AccountNumber)
		switch {
		case err == nil:
			return domain.ErrAccountNumberExists
		case !errors.Is(err, domain.ErrAccountNotFound):
			return err
		}

		created, err := st.Accounts.Create(ctx, account)
		if err != nil {
			return err
		}

		for _, e := range entries {
			if _, err := s.appendEntry(ctx, st.Ledger, e); err != nil {
				return err
			}
		}

		result = created

		return nil
	})
	if err != nil {
		return domain.Account{}, err
	}

	return result, nil
}

// Get returns account for the given account ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (domain.Account, error) {
	return s.accounts.Get(ctx, id)
}

// ListByOwner returns accounts that are owned by the given user.
func (s *Service) ListByOwner(ctx context.Context, ownerID uuid.UUID, pageSize, pageID int32) ([]domain.Account, error) {
	if pageID < 1 {
		return nil, domain.ErrInvalidPage
	}

	if pageSize < 1 || pageSize > s.config.MaxPageSize {
		return nil, domain.ErrInvalidPageSize
	}

	limit := pageSize
	offset := (pageID - 1) * pageSize

	return s.accounts.ListByOwner(ctx, ownerID, limit, offset)
}

// Freeze blocks money movement on the account.
func (s *Service) Freeze(ctx context.Context, id uuid.UUID, reason string) (domain.Account, error) {
	return s.changeStatus(ctx, id, func(a *domain.Account, at time.Time) (domain.Entry, error) {
		return a.Freeze(reason, at)
	})
}

// Unfreeze makes a frozen account active again.
func (s *Service) Unfreeze(ctx context.Context, id uuid.UUID) (domain.Account, error) {
	return s.changeStatus(ctx, id, (*domain.Account).Unfreeze)
}

// Close permanently closes the account.
func (s *Service) Close(ctx context.Context, id uuid.UUID) (domain.Account, error) {
	return s.changeStatus(ctx, id, (*domain.Account).Close)
}

func (s *Service) changeStatus(ctx context.Context, id uuid.UUID, change func(*domain.Account, time.Time) (domain.Entry, error)) (domain.Account, error) {
	var result domain.Account

	err := s.coordinator.RunAtomic(ctx, func(ctx context.Context, st Stores) error {
		account, err := st.Accounts.Get(ctx, id)
		if err != nil {
			return err
		}

		e, err := change(&account, s.now())
		if err != nil {
			return err
		}

		result, err = st.Accounts.Update(ctx, account)
		if err != nil {
			return err
		}

		_, err = s.appendEntry(ctx, st.Ledger, e)

		return err
	})
	if err != nil {
		zerolog.Ctx(ctx).Info().Err(err).Str("account_id", id.String()).Send()
		return domain.Account{}, err
	}

	return result, nil
}

// UpdateType reclassifies the account.
func (s *Service) UpdateType(ctx context.Context, id uuid.UUID, t domain.AccountType) (domain.Account, error) {
	var result domain.Account

	err := s.coordinator.RunAtomic(ctx, func(ctx context.Context, st Stores) error {
		account, err := st.Accounts.Get(ctx, id)
		if err != nil {
			return err
		}

		if err := account.ChangeType(t, s.now()); err != nil {
			return err
		}

		result, err = st.Accounts.Update(ctx, account)

		return err
	})
	if err != nil {
		return domain.Account{}, err
	}

	return result, nil
}

// Delete removes an account without funds. Its ledger entries are kept.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.coordinator.RunAtomic(ctx, func(ctx context.Context, st Stores) error {
		account, err := st.Accounts.Get(ctx, id)
		if err != nil {
			return err
		}

		if account.Balance.IsPositive() {
			return domain.ErrBalanceNotZero
		}

		return st.Accounts.Delete(ctx, account.ID, account.Version)
	})
}

// appendEntry appends e, regenerating its reference number on collisions.
func (s *Service) appendEntry(ctx context.Context, ls LedgerStore, e domain.Entry) (domain.Entry, error) {
	l := zerolog.Ctx(ctx)

	for attempt := 1; ; attempt++ {
		saved, err := ls.Append(ctx, e)
		if !errors.Is(err, domain.ErrDuplicateReference) || attempt >= s.config.ReferenceRetries {
			return saved, err
		}

		l.Warn().Str("reference_number", e.ReferenceNumber).Int("attempt", attempt).Msg("reference number collision")

		e.ReferenceNumber = domain.NewReference(s.now())
	}
}

// checkPINFormat fails when a required PIN is missing or a given PIN is malformed.
func (s *Service) checkPINFormat(pin *string) error {
	if pin == nil {
		if s.config.RequirePIN {
			return domain.ErrInvalidPIN
		}

		return nil
	}

	if !passpkg.ValidPIN(*pin) {
		return domain.ErrInvalidPIN
	}

	return nil
}

// verifyOwnerPIN checks a given PIN against the PIN of the account owner.
// Bcrypt runs here, outside of any atomic unit.
func (s *Service) verifyOwnerPIN(ctx context.Context, pin *string, lookup func(context.Context) (domain.Account, error)) error {
	if pin == nil {
		return nil
	}

	account, err := lookup(ctx)
	if err != nil {
		return err
	}

	return s.users.VerifyPIN(ctx, account.OwnerID, *pin)
}
