package dbpkg

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestIsTransient(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want bool
	}{
		{"Serialization", &pq.Error{Code: CodeSerializationFailure}, true},
		{"Deadlock", fmt.Errorf("update: %w", &pq.Error{Code: CodeDeadlockDetected}), true},
		{"LockTimeout", &pq.Error{Code: CodeLockNotAvailable}, true},
		{"StatementTimeout", &pq.Error{Code: CodeQueryCanceled}, true},
		{"Deadline", context.DeadlineExceeded, true},
		{"Unique", &pq.Error{Code: CodeUniqueViolation}, false},
		{"Other", errors.New("boom"), false},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, IsTransient(tc.err))
		})
	}
}

func TestConstraintViolation(t *testing.T) {
	err := &pq.Error{Code: CodeUniqueViolation, Constraint: "accounts_account_number_key"}

	name, ok := ConstraintViolation(err, CodeUniqueViolation)
	require.True(t, ok)
	require.Equal(t, "accounts_account_number_key", name)

	_, ok = ConstraintViolation(err, CodeForeignKeyViolation)
	require.False(t, ok)

	_, ok = ConstraintViolation(errors.New("boom"), CodeUniqueViolation)
	require.False(t, ok)
}

func TestIsTimeout(t *testing.T) {
	require.True(t, IsTimeout(context.DeadlineExceeded))
	require.True(t, IsTimeout(&pq.Error{Code: CodeQueryCanceled}))
	require.True(t, IsTimeout(&pq.Error{Code: CodeLockNotAvailable}))
	require.False(t, IsTimeout(&pq.Error{Code: CodeDeadlockDetected}))
	require.False(t, IsTimeout(errors.New("boom")))
}
