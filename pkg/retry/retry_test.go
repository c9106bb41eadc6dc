package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"

	apperrors "hostgate/pkg/errors"
)

func fastPolicy(attempts int) Policy {
	return Policy{
		MaxAttempts:     attempts,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		Multiplier:      2,
	}
}

func TestDo_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	err := Do(context.Background(), "test", fastPolicy(5), func() error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_StopsAfterMaxAttempts(t *testing.T) {
	calls := 0
	var retries []int
	err := DoWithCallback(context.Background(), "test", fastPolicy(3), func() error {
		calls++
		return errors.New("still down")
	}, func(attempt int, err error, next time.Duration) {
		retries = append(retries, attempt)
	})

	assert.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, retries)
}

func TestDo_PermanentErrorIsNotRetried(t *testing.T) {
	calls := 0
	err := Do(context.Background(), "test", fastPolicy(5), func() error {
		calls++
		return apperrors.ErrValidation.WithMessage("bad payload")
	})

	assert.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Do(ctx, "test", Policy{MaxAttempts: 10, InitialInterval: time.Second, MaxInterval: time.Second, Multiplier: 1}, func() error {
		calls++
		return errors.New("down")
	})

	assert.Error(t, err)
	assert.LessOrEqual(t, calls, 1)
}

func TestPolicy_BackOffCapsAttempts(t *testing.T) {
	b := Policy{MaxAttempts: 3, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond, Multiplier: 1, MaxElapsedTime: time.Minute}.backOff()

	assert.NotEqual(t, backoff.Stop, b.NextBackOff())
	assert.NotEqual(t, backoff.Stop, b.NextBackOff())
	assert.Equal(t, backoff.Stop, b.NextBackOff())
}
