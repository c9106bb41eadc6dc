package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	apperrors "hostgate/pkg/errors"
	"hostgate/pkg/metrics"
)

type Policy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	MaxElapsedTime  time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:     3,
		InitialInterval: 1 * time.Second,
		MaxInterval:     30 * time.Second,
		Multiplier:      2.0,
		MaxElapsedTime:  5 * time.Minute,
	}
}

// backOff caps the exponential schedule at MaxAttempts calls in total.
func (p Policy) backOff() backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.InitialInterval
	exp.MaxInterval = p.MaxInterval
	exp.Multiplier = p.Multiplier
	exp.MaxElapsedTime = p.MaxElapsedTime
	return backoff.WithMaxRetries(exp, uint64(p.MaxAttempts-1))
}

// Do runs fn until it succeeds, returns a non-retryable error, the policy is
// exhausted or ctx is done. name labels the retry_attempts_total metric.
func Do(ctx context.Context, name string, policy Policy, fn func() error) error {
	return DoWithCallback(ctx, name, policy, fn, nil)
}

func DoWithCallback(ctx context.Context, name string, policy Policy, fn func() error, onRetry func(attempt int, err error, nextDelay time.Duration)) error {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 3
	}
	if policy.Multiplier <= 0 {
		policy.Multiplier = 2.0
	}

	bctx := backoff.WithContext(policy.backOff(), ctx)

	attempt := 0
	operation := func() error {
		attempt++
		err := fn()
		if err == nil {
			return nil
		}
		if !apperrors.IsRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, next time.Duration) {
		metrics.IncRetryAttempt(name)
		if onRetry != nil {
			onRetry(attempt, err, next)
		}
	}

	return backoff.RetryNotify(operation, bctx, notify)
}
