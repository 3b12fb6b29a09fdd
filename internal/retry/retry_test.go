package retry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_SucceedsFirstTry(t *testing.T) {
	calls := 0
	err := Do(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_RetriesUpToMaxAttempts(t *testing.T) {
	calls := 0
	sentinel := errors.New("boom")
	err := Do(context.Background(), func(ctx context.Context) error {
		calls++
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, MaxAttempts, calls)
}

func TestDo_SucceedsOnLastAttempt(t *testing.T) {
	calls := 0
	err := Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < MaxAttempts {
			return errors.New("not yet")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, MaxAttempts, calls)
}

func TestDo_ContextCancelledStopsEarly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Do(ctx, func(ctx context.Context) error {
		calls++
		cancel()
		return errors.New("fail")
	})
	assert.Error(t, err)
	assert.Less(t, calls, MaxAttempts)
}
