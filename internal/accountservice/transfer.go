package accountservice

import (
	"bytes"
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
)

// Deposit adds money to the account with the given number.
func (s *Service) Deposit(ctx context.Context, arg domain.MoneyRequest) (domain.MoneyResult, error) {
	return s.moveMoney(ctx, arg, func(a *domain.Account) (domain.Entry, error) {
		return a.Deposit(arg.Amount, arg.Description, s.now())
	})
}

// Withdraw takes money from the account with the given number.
func (s *Service) Withdraw(ctx context.Context, arg domain.MoneyRequest) (domain.MoneyResult, error) {
	return s.moveMoney(ctx, arg, func(a *domain.Account) (domain.Entry, error) {
		if arg.RequesterID != uuid.Nil && a.OwnerID != arg.RequesterID {
			return domain.Entry{}, domain.ErrAccountOwnerMismatch
		}

		return a.Withdraw(arg.Amount, arg.Description, s.now())
	})
}

func (s *Service) moveMoney(ctx context.Context, arg domain.MoneyRequest, apply func(*domain.Account) (domain.Entry, error)) (domain.MoneyResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.MoneyResult

	if err := s.checkPINFormat(arg.PIN); err != nil {
		l.Info().Err(err).Send()
		return result, err
	}

	number := strings.TrimSpace(arg.AccountNumber)

	err := s.verifyOwnerPIN(ctx, arg.PIN, func(ctx context.Context) (domain.Account, error) {
		return s.accounts.GetByNumber(ctx, number)
	})
	if err != nil {
		l.Info().Err(err).Send()
		return result, err
	}

	err = s.coordinator.RunAtomic(ctx, func(ctx context.Context, st Stores) error {
		account, err := st.Accounts.GetByNumber(ctx, number)
		if err != nil {
			return err
		}

		e, err := apply(&account)
		if err != nil {
			return err
		}

		if result.Account, err = st.Accounts.Update(ctx, account); err != nil {
			return err
		}

		result.Entry, err = s.appendEntry(ctx, st.Ledger, e)

		return err
	})
	if err != nil {
		l.Info().Err(err).Str("account_number", number).Send()
		return domain.MoneyResult{}, err
	}

	return result, nil
}

// Transfer moves money between two accounts.
//
// Both balances and both entries are written in one atomic unit. Accounts are
// updated in ID order so that concurrent opposite transfers can't deadlock.
func (s *Service) Transfer(ctx context.Context, arg domain.TransferRequest) (domain.TransferResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.TransferResult

	if err := s.checkPINFormat(arg.PIN); err != nil {
		l.Info().Err(err).Send()
		return result, err
	}

	err := s.verifyOwnerPIN(ctx, arg.PIN, func(ctx context.Context) (domain.Account, error) {
		return s.accounts.Get(ctx, arg.FromAccountID)
	})
	if err != nil {
		l.Info().Err(err).Send()
		return result, err
	}

	number := strings.TrimSpace(arg.ToAccountNumber)

	err = s.coordinator.RunAtomic(ctx, func(ctx context.Context, st Stores) error {
		from, err := st.Accounts.Get(ctx, arg.FromAccountID)
		if err != nil {
			return err
		}

		if arg.RequesterID != uuid.Nil && from.OwnerID != arg.RequesterID {
			return domain.ErrAccountOwnerMismatch
		}

		to, err := st.Accounts.GetByNumber(ctx, number)
		if err != nil {
			return err
		}

		out, in, err := from.Transfer(&to, arg.Amount, arg.Description, s.now())
		if err != nil {
			return err
		}

		first, second := &from, &to
		if bytes.Compare(to.ID[:], from.ID[:]) < 0 {
			first, second = &to, &from
		}

		if *first, err = st.Accounts.Update(ctx, *first); err != nil {
			return err
		}

		if *second, err = st.Accounts.Update(ctx, *second); err != nil {
			return err
		}

		if result.FromEntry, err = s.appendEntry(ctx, st.Ledger, out); err != nil {
			return err
		}

		if result.ToEntry, err = s.appendEntry(ctx, st.Ledger, in); err != nil {
			return err
		}

		result.FromAccount = from
		result.ToAccount = to

		return nil
	})
	if err != nil {
		l.Info().Err(err).Str("from_account_id", arg.FromAccountID.String()).Str("to_account_number", number).Send()
		return domain.TransferResult{}, err
	}

	return result, nil
}
