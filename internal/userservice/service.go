// Package userservice manages business logic layer of account owners.
package userservice

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/go-petr/pet-ledger/pkg/passpkg"
)

// Repo provides data access layer interface needed by user service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package userservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateUserParams) (domain.User, error)
	Get(ctx context.Context, id uuid.UUID) (domain.User, error)
}

// Service facilitates user service layer logic.
type Service struct {
	repo Repo
}

// New return user service struct to manage user bussines logic.
func New(ur Repo) *Service {
	return &Service{
		repo: ur,
	}
}

// Create creates the user with the given transaction PIN and returns it.
// An empty PIN leaves the user without one.
func (s *Service) Create(ctx context.Context, fullName, email, pin string) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	arg := domain.CreateUserParams{
		FullName: fullName,
		Email:    email,
	}

	if pin != "" {
		if !passpkg.ValidPIN(pin) {
			return domain.User{}, domain.ErrInvalidPIN
		}

		pinHash, err := passpkg.Hash(pin)
		if err != nil {
			l.Error().Err(err).Send()
			return domain.User{}, errorspkg.ErrInternal
		}

		arg.PINHash = pinHash
	}

	return s.repo.Create(ctx, arg)
}

// Exists returns ErrUserNotFound if there is no user with the given id.
func (s *Service) Exists(ctx context.Context, id uuid.UUID) error {
	_, err := s.repo.Get(ctx, id)
	return err
}

// VerifyPIN checks the transaction PIN of the user.
func (s *Service) VerifyPIN(ctx context.Context, id uuid.UUID, pin string) error {
	l := zerolog.Ctx(ctx)

	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if u.PINHash == "" {
		l.Info().Str("user_id", id.String()).Msg("user has no pin")
		return domain.ErrInvalidPIN
	}

	if err := passpkg.Check(pin, u.PINHash); err != nil {
		l.Info().Err(err).Str("user_id", id.String()).Send()
		return domain.ErrInvalidPIN
	}

	return nil
}
