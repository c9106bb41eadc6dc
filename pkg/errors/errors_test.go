package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_IsMatchesByCode(t *testing.T) {
	wrapped := fmt.Errorf("loading: %w", ErrRuleSource.WithCause(errors.New("connection refused")))

	assert.True(t, errors.Is(wrapped, ErrRuleSource))
	assert.False(t, errors.Is(wrapped, ErrNotFound))
	assert.True(t, IsRuleSource(wrapped))
}

func TestError_Retryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "plain error", err: errors.New("boom"), want: true},
		{name: "delivery failed", err: ErrDeliveryFailed.WithCause(errors.New("timeout")), want: true},
		{name: "delivery rejected", err: ErrDeliveryRejected, want: false},
		{name: "validation", err: ErrValidation, want: false},
		{name: "forced fatal", err: ErrRuleSource.AsFatal(), want: false},
		{name: "forced retryable", err: ErrValidation.AsRetryable(), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestError_WithDetailDoesNotMutateSentinel(t *testing.T) {
	_ = ErrNotFound.WithMessage("rule not found")

	assert.Empty(t, ErrNotFound.Details)
	assert.Equal(t, "NOT_FOUND: resource not found", ErrNotFound.Error())
}

func TestToErrorResponse(t *testing.T) {
	resp := ToErrorResponse(ErrValidation.WithMessage("hostname is required"))
	assert.Equal(t, "hostname is required", resp["error"])
	assert.Equal(t, "VALIDATION_ERROR", resp["error_code"])

	resp = ToErrorResponse(errors.New("unexpected"))
	assert.Equal(t, "INTERNAL_ERROR", resp["error_code"])

	assert.Equal(t, http.StatusServiceUnavailable, ToHTTPStatus(ErrRuleSource))
	assert.Equal(t, http.StatusInternalServerError, ToHTTPStatus(errors.New("x")))
}

func TestRecoverPanic(t *testing.T) {
	assert.NoError(t, RecoverPanic(nil))

	err := RecoverPanic("bad state")
	require.Error(t, err)

	var appErr *Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.True(t, appErr.IsFatal())
	assert.Contains(t, appErr.Error(), "panic: bad state")
	assert.Equal(t, "bad state", appErr.Details["panic"])

	wrapped := RecoverPanic(errors.New("nil map write"))
	assert.Contains(t, wrapped.Error(), "nil map write")
}
