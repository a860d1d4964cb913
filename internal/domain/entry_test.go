package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseEntryKind(t *testing.T) {
	for k, name := range kindNames {
		got, err := ParseEntryKind(name)
		require.NoError(t, err)
		require.Equal(t, k, got)
		require.Equal(t, name, k.String())
	}

	got, err := ParseEntryKind("transferout")
	require.NoError(t, err)
	require.Equal(t, KindTransferOut, got)

	_, err = ParseEntryKind("Interest")
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestParseAccountType(t *testing.T) {
	got, err := ParseAccountType("fixeddeposit")
	require.NoError(t, err)
	require.Equal(t, TypeFixedDeposit, got)

	_, err = ParseAccountType("Checking")
	require.ErrorIs(t, err, ErrInvalidAccountType)
}

func TestNewReferenceIsUnique(t *testing.T) {
	seen := make(map[string]struct{}, 10_000)

	for i := 0; i < 10_000; i++ {
		ref := NewReference(testNow)

		_, dup := seen[ref]
		require.False(t, dup, "duplicate reference %s", ref)

		seen[ref] = struct{}{}
	}
}

func TestNewReferenceBeforeEpoch(t *testing.T) {
	for _, at := range []time.Time{{}, time.Date(1969, 12, 31, 0, 0, 0, 0, time.UTC)} {
		require.NotPanics(t, func() {
			require.Regexp(t, `^TX-[0-9A-Z]{26}$`, NewReference(at))
		})
	}
}

func TestErrorKinds(t *testing.T) {
	require.ErrorIs(t, ErrAccountNotFound, ErrNotFound)
	require.ErrorIs(t, fmt.Errorf("get: %w", ErrAccountNotFound), ErrNotFound)
	require.ErrorIs(t, ErrConcurrentUpdate, ErrConflict)

	require.True(t, IsRetryable(ErrConcurrentUpdate))
	require.True(t, IsRetryable(fmt.Errorf("tx: %w", ErrStoreTimeout)))
	require.False(t, IsRetryable(ErrAccountNumberExists))
	require.False(t, IsRetryable(errors.New("boom")))
}

func TestListEntriesParamsOffset(t *testing.T) {
	require.Equal(t, int32(0), ListEntriesParams{Page: 1, PageSize: 20}.Offset())
	require.Equal(t, int32(40), ListEntriesParams{Page: 3, PageSize: 20}.Offset())
}
