package userrepo_test

import (
	"context"
	"testing"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/integrationtest"
	"github.com/go-petr/pet-ledger/internal/userrepo"
	"github.com/go-petr/pet-ledger/pkg/passpkg"
	"github.com/go-petr/pet-ledger/pkg/randompkg"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGet(t *testing.T) {
	tx := integrationtest.SetupTX(t)
	repo := userrepo.NewRepoPGS(tx)

	pinHash, err := passpkg.Hash(randompkg.PIN())
	require.NoError(t, err)

	arg := domain.CreateUserParams{
		FullName: randompkg.FullName(),
		Email:    randompkg.Email(),
		PINHash:  pinHash,
	}

	u, err := repo.Create(context.Background(), arg)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, u.ID)
	require.Equal(t, arg.FullName, u.FullName)
	require.Equal(t, arg.Email, u.Email)
	require.Equal(t, arg.PINHash, u.PINHash)
	require.NotZero(t, u.CreatedAt)

	got, err := repo.Get(context.Background(), u.ID)
	require.NoError(t, err)
	require.Equal(t, u.Email, got.Email)
	require.Equal(t, u.PINHash, got.PINHash)

	_, err = repo.Get(context.Background(), uuid.New())
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestCreateEmailExists(t *testing.T) {
	tx := integrationtest.SetupTX(t)
	repo := userrepo.NewRepoPGS(tx)

	arg := domain.CreateUserParams{
		FullName: randompkg.FullName(),
		Email:    randompkg.Email(),
	}

	_, err := repo.Create(context.Background(), arg)
	require.NoError(t, err)

	_, err = repo.Create(context.Background(), arg)
	require.ErrorIs(t, err, domain.ErrEmailExists)
}
