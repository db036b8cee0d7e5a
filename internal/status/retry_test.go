package status

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

func conflictErr() error {
	return apierrors.NewConflict(schema.GroupResource{Resource: "gateways"}, "example", errors.New("conflict"))
}

func TestRetryOnConflict_SucceedsFirstTry(t *testing.T) {
	calls := 0
	err := retryOnConflict(context.Background(), func(n int) error {
		calls++
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryOnConflict_RetriesOnConflictThenSucceeds(t *testing.T) {
	calls := 0
	err := retryOnConflict(context.Background(), func(n int) error {
		calls++
		if calls < 3 {
			return conflictErr()
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryOnConflict_NonConflictErrorReturnsImmediately(t *testing.T) {
	calls := 0
	boom := errors.New("boom")
	err := retryOnConflict(context.Background(), func(n int) error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestRetryOnConflict_ExhaustsAttemptsAndReturnsWrappedError(t *testing.T) {
	calls := 0
	err := retryOnConflict(context.Background(), func(n int) error {
		calls++
		return conflictErr()
	})
	assert.Error(t, err)
	assert.Equal(t, maxAttempts, calls)
}

func TestRetryOnConflict_ContextCancellationStopsRetrying(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := retryOnConflict(ctx, func(n int) error {
		calls++
		if calls == 1 {
			cancel()
		}
		return conflictErr()
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
