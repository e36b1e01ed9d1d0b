// Package errors provides the closed error taxonomy for storefront data access.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Kind classifies a failure into the small closed set the recovery
// policies are written against.
type Kind string

const (
	// KindTransient covers throttling, timeouts and connectivity failures.
	// Retried with backoff before being surfaced.
	KindTransient Kind = "TRANSIENT"

	// KindValidation covers remote payloads that fail structural checks.
	// Per-record and non-fatal on list paths, fatal on single-record paths.
	KindValidation Kind = "VALIDATION"

	// KindBusiness covers remote-reported user errors (bad cart line,
	// bad credentials). Never retried.
	KindBusiness Kind = "BUSINESS"

	// KindConfig covers a client built without store credentials.
	KindConfig Kind = "CONFIG"

	// KindNotFound covers lookups that failed remotely and against the
	// fallback catalog.
	KindNotFound Kind = "NOT_FOUND"

	// KindAuth covers rejected customer tokens.
	KindAuth Kind = "AUTH"
)

// StorefrontError is a structured application error with a user-safe message.
type StorefrontError struct {
	Kind      Kind      `json:"kind"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *StorefrontError) Error() string {
	return fmt.Sprintf("StorefrontError[%s]: %s", e.Kind, e.Message)
}

func NewTransientError(message string, err error) *StorefrontError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &StorefrontError{
		Kind:      KindTransient,
		Message:   message,
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewValidationError(details string) *StorefrontError {
	return &StorefrontError{
		Kind:      KindValidation,
		Message:   "Product data did not match the expected shape",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewBusinessError(message string) *StorefrontError {
	return &StorefrontError{
		Kind:      KindBusiness,
		Message:   message,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewConfigError(details string) *StorefrontError {
	return &StorefrontError{
		Kind:      KindConfig,
		Message:   "Store is not configured. Please check your environment.",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewNotFoundError(identifier string) *StorefrontError {
	return &StorefrontError{
		Kind:      KindNotFound,
		Message:   "Product not found",
		Details:   fmt.Sprintf("identifier: %s", identifier),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewAuthError(details string) *StorefrontError {
	return &StorefrontError{
		Kind:      KindAuth,
		Message:   "Authentication failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// KindOf extracts the Kind from an error chain, or empty when the error is
// not a StorefrontError.
func KindOf(err error) Kind {
	var se *StorefrontError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

// IsRetryable reports whether the error should count as transient.
func IsRetryable(err error) bool {
	var se *StorefrontError
	if errors.As(err, &se) {
		return se.Retryable
	}
	return false
}

// friendlyMessages maps known raw remote error substrings to messages safe
// for direct user display. Unknown messages pass through unchanged.
var friendlyMessages = map[string]string{
	"Throttled":              "We are experiencing high traffic. Please wait a moment.",
	"Too Many Requests":      "We are experiencing high traffic. Please wait a moment.",
	"Internal Server Error":  "Something went wrong on our end. We are fixing it.",
	"connection refused":     "Please check your internet connection.",
	"no such host":           "Please check your internet connection.",
	"network request failed": "Please check your internet connection.",
}

// Friendly normalizes a raw error message for user display.
func Friendly(raw string) string {
	for substr, msg := range friendlyMessages {
		if strings.Contains(strings.ToLower(raw), strings.ToLower(substr)) {
			return msg
		}
	}
	if raw == "" {
		return "Unknown error"
	}
	return raw
}

// throttleMarkers are the remote signals treated as rate limiting.
var throttleMarkers = []string{
	"Throttled",
	"Too Many Requests",
	"429",
}

// IsThrottled reports whether a raw error message carries an explicit
// throttling signal.
func IsThrottled(raw string) bool {
	for _, marker := range throttleMarkers {
		if strings.Contains(strings.ToLower(raw), strings.ToLower(marker)) {
			return true
		}
	}
	return false
}
