// errors.go: structured error taxonomy for xanthus cache operations.
//
// Errors use go-errors for rich context, categorization and standardized
// error codes, scaled to the handful of error conditions the core actually
// has: predicate registration can run out of ID space or be attempted when
// there is no write-order deque to scan.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package xanthus

import (
	goerrors "errors"

	"github.com/agilira/go-errors"
)

// Error codes for xanthus cache operations.
const (
	// Predicate registration errors
	ErrCodeNoSpaceLeft             errors.ErrorCode = "XANTHUS_NO_SPACE_LEFT"
	ErrCodeWriteOrderQueueDisabled errors.ErrorCode = "XANTHUS_WRITE_ORDER_QUEUE_DISABLED"

	// Internal errors
	ErrCodeInternalError errors.ErrorCode = "XANTHUS_INTERNAL_ERROR"
)

const (
	msgNoSpaceLeft             = "predicate id space exhausted"
	msgWriteOrderQueueDisabled = "invalidation requires TTL or InvalidatorEnabled, neither is set"
	msgInternalError           = "internal cache error"
)

// NewErrNoSpaceLeft creates the error returned by InvalidateIf when 10,000
// consecutive wrap-around collisions failed to find a free predicate id.
func NewErrNoSpaceLeft(attempts int) error {
	return errors.NewWithContext(ErrCodeNoSpaceLeft, msgNoSpaceLeft, map[string]interface{}{
		"attempts": attempts,
	})
}

// NewErrWriteOrderQueueDisabled creates the error returned by InvalidateIf
// when the cache has no write-order deque to scan.
func NewErrWriteOrderQueueDisabled() error {
	return errors.NewWithField(ErrCodeWriteOrderQueueDisabled, msgWriteOrderQueueDisabled,
		"requires", "TimeToLive or InvalidatorEnabled")
}

// NewErrInternal wraps an unexpected internal failure with operation
// context. cause may be nil.
func NewErrInternal(operation string, cause error) error {
	if cause != nil {
		return errors.Wrap(cause, ErrCodeInternalError, msgInternalError).
			WithContext("operation", operation).
			WithSeverity("warning")
	}
	return errors.NewWithField(ErrCodeInternalError, msgInternalError, "operation", operation).
		WithSeverity("warning")
}

// IsNoSpaceLeft reports whether err is a predicate-id exhaustion error.
func IsNoSpaceLeft(err error) bool {
	return errors.HasCode(err, ErrCodeNoSpaceLeft)
}

// IsWriteOrderQueueDisabled reports whether err indicates invalidation was
// attempted without a write-order deque.
func IsWriteOrderQueueDisabled(err error) bool {
	return errors.HasCode(err, ErrCodeWriteOrderQueueDisabled)
}

// IsRetryable reports whether err can be retried.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var retryable errors.Retryable
	if goerrors.As(err, &retryable) {
		return retryable.IsRetryable()
	}
	return false
}

// GetErrorCode extracts the error code from err, or "" if it has none.
func GetErrorCode(err error) errors.ErrorCode {
	if err == nil {
		return ""
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		return coder.ErrorCode()
	}
	return ""
}
