package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOfAndRetryable(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		kind      Kind
		retryable bool
	}{
		{"transient", NewTransientError("timeout", nil), KindTransient, true},
		{"validation", NewValidationError("missing title"), KindValidation, false},
		{"business", NewBusinessError("sold out"), KindBusiness, false},
		{"config", NewConfigError("no token"), KindConfig, false},
		{"not found", NewNotFoundError("x"), KindNotFound, false},
		{"auth", NewAuthError("bad token"), KindAuth, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, KindOf(tt.err))
			assert.Equal(t, tt.retryable, IsRetryable(tt.err))
		})
	}
}

func TestKindOfWrappedError(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", NewAuthError("bad token"))
	assert.Equal(t, KindAuth, KindOf(wrapped))
}

func TestKindOfForeignError(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(fmt.Errorf("plain")))
	assert.False(t, IsRetryable(fmt.Errorf("plain")))
}

func TestFriendly(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"throttled", "Throttled: status 429", "We are experiencing high traffic. Please wait a moment."},
		{"too many requests", "got 429 Too Many Requests from upstream", "We are experiencing high traffic. Please wait a moment."},
		{"server error", "status 500 Internal Server Error: oops", "Something went wrong on our end. We are fixing it."},
		{"connection refused", "dial tcp: connection refused", "Please check your internet connection."},
		{"dns failure", "lookup shop: no such host", "Please check your internet connection."},
		{"unknown passes through", "Field 'bogus' doesn't exist", "Field 'bogus' doesn't exist"},
		{"empty", "", "Unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Friendly(tt.raw))
		})
	}
}

func TestIsThrottled(t *testing.T) {
	assert.True(t, IsThrottled("Throttled: status 429"))
	assert.True(t, IsThrottled("throttled"))
	assert.True(t, IsThrottled("429 too many requests"))
	assert.False(t, IsThrottled("status 500 Internal Server Error"))
	assert.False(t, IsThrottled("connection refused"))
}

func TestErrorString(t *testing.T) {
	err := NewBusinessError("sold out")
	assert.Equal(t, "StorefrontError[BUSINESS]: sold out", err.Error())
}
