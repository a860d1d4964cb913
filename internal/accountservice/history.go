package accountservice

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
)

// ListTransactions returns one page of the account ledger, newest first.
//
// Without bounds the last HistoryWindow up to now is listed.
func (s *Service) ListTransactions(ctx context.Context, accountID uuid.UUID, f domain.EntryFilter) (domain.EntryPage, error) {
	l := zerolog.Ctx(ctx)

	arg, err := s.listParams(accountID, f)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.EntryPage{}, err
	}

	if _, err := s.accounts.Get(ctx, accountID); err != nil {
		return domain.EntryPage{}, err
	}

	entries, err := s.ledger.ListByAccount(ctx, arg)
	if err != nil {
		return domain.EntryPage{}, err
	}

	total, err := s.ledger.CountByAccount(ctx, accountID, &arg.From, &arg.To, arg.Kind)
	if err != nil {
		return domain.EntryPage{}, err
	}

	if entries == nil {
		entries = []domain.Entry{}
	}

	return domain.EntryPage{
		Entries:  entries,
		Total:    total,
		Page:     arg.Page,
		PageSize: arg.PageSize,
	}, nil
}

// GetTransaction returns one ledger entry of the account.
func (s *Service) GetTransaction(ctx context.Context, accountID, entryID uuid.UUID) (domain.Entry, error) {
	e, err := s.ledger.Get(ctx, entryID)
	if err != nil {
		return domain.Entry{}, err
	}

	if e.AccountID != accountID {
		return domain.Entry{}, domain.ErrEntryNotFound
	}

	return e, nil
}

func (s *Service) listParams(accountID uuid.UUID, f domain.EntryFilter) (domain.ListEntriesParams, error) {
	page, size := f.Page, f.PageSize

	if page == 0 {
		page = 1
	}

	if size == 0 {
		size = s.config.DefaultPageSize
	}

	switch {
	case page < 1:
		return domain.ListEntriesParams{}, domain.ErrInvalidPage
	case size < 1 || size > s.config.MaxPageSize:
		return domain.ListEntriesParams{}, domain.ErrInvalidPageSize
	case f.Kind != nil && !f.Kind.Valid():
		return domain.ListEntriesParams{}, domain.ErrInvalidEntryKind
	}

	to := s.now()
	if f.To != nil {
		to = *f.To
	}

	from := to.Add(-s.config.HistoryWindow)
	if f.From != nil {
		from = *f.From
	}

	if from.After(to) {
		return domain.ListEntriesParams{}, domain.ErrInvalidTimeRange
	}

	return domain.ListEntriesParams{
		AccountID: accountID,
		From:      from,
		To:        to,
		Kind:      f.Kind,
		Page:      page,
		PageSize:  size,
	}, nil
}
