package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapper_OpensAfterFailureRatio(t *testing.T) {
	w := NewWrapper(Config{
		Name:         "test-open",
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      time.Minute,
		FailureRatio: 0.5,
		MinRequests:  2,
	})

	failing := func(ctx context.Context) error { return errors.New("endpoint down") }

	require.Error(t, w.Execute(context.Background(), failing))
	assert.False(t, w.IsOpen())
	require.Error(t, w.Execute(context.Background(), failing))
	assert.True(t, w.IsOpen())

	called := false
	err := w.Execute(context.Background(), func(ctx context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.False(t, called)
}

func TestWrapper_PassesContextAndSuccess(t *testing.T) {
	w := NewWrapper(DefaultConfig("test-success"))

	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "v")

	var seen interface{}
	err := w.Execute(ctx, func(ctx context.Context) error {
		seen = ctx.Value(key{})
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, "v", seen)
	assert.Equal(t, gobreaker.StateClosed, w.State())
	assert.Equal(t, uint32(1), w.Counts().TotalSuccesses)
}

func TestWrapper_CancelledContextSkipsCall(t *testing.T) {
	w := NewWrapper(DefaultConfig("test-cancel"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := w.Execute(ctx, func(ctx context.Context) error {
		t.Fatal("should not be called")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, uint32(0), w.Counts().Requests)
}
