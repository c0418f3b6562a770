// errors_test.go: tests for the xanthus error taxonomy.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthus

import (
	goerrors "errors"
	"testing"

	"github.com/agilira/go-errors"
)

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		name         string
		errFunc      func() error
		expectedCode errors.ErrorCode
	}{
		{
			name:         "NoSpaceLeft",
			errFunc:      func() error { return NewErrNoSpaceLeft(10_000) },
			expectedCode: ErrCodeNoSpaceLeft,
		},
		{
			name:         "WriteOrderQueueDisabled",
			errFunc:      func() error { return NewErrWriteOrderQueueDisabled() },
			expectedCode: ErrCodeWriteOrderQueueDisabled,
		},
		{
			name:         "InternalError without cause",
			errFunc:      func() error { return NewErrInternal("sync", nil) },
			expectedCode: ErrCodeInternalError,
		},
		{
			name:         "InternalError with cause",
			errFunc:      func() error { return NewErrInternal("sync", goerrors.New("boom")) },
			expectedCode: ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.errFunc()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.HasCode(err, tt.expectedCode) {
				t.Errorf("expected code %s, got %s", tt.expectedCode, GetErrorCode(err))
			}
			if err.Error() == "" {
				t.Error("error message should not be empty")
			}
		})
	}
}

func TestIsNoSpaceLeft(t *testing.T) {
	if !IsNoSpaceLeft(NewErrNoSpaceLeft(1)) {
		t.Error("IsNoSpaceLeft(NewErrNoSpaceLeft(...)) = false, want true")
	}
	if IsNoSpaceLeft(NewErrWriteOrderQueueDisabled()) {
		t.Error("IsNoSpaceLeft(NewErrWriteOrderQueueDisabled()) = true, want false")
	}
	if IsNoSpaceLeft(nil) {
		t.Error("IsNoSpaceLeft(nil) = true, want false")
	}
}

func TestIsWriteOrderQueueDisabled(t *testing.T) {
	if !IsWriteOrderQueueDisabled(NewErrWriteOrderQueueDisabled()) {
		t.Error("IsWriteOrderQueueDisabled(NewErrWriteOrderQueueDisabled()) = false, want true")
	}
	if IsWriteOrderQueueDisabled(NewErrNoSpaceLeft(1)) {
		t.Error("IsWriteOrderQueueDisabled(NewErrNoSpaceLeft(...)) = true, want false")
	}
}

func TestGetErrorCode(t *testing.T) {
	if code := GetErrorCode(nil); code != "" {
		t.Errorf("GetErrorCode(nil) = %q, want empty", code)
	}
	if code := GetErrorCode(goerrors.New("plain")); code != "" {
		t.Errorf("GetErrorCode(plain error) = %q, want empty", code)
	}
	if code := GetErrorCode(NewErrNoSpaceLeft(1)); code != ErrCodeNoSpaceLeft {
		t.Errorf("GetErrorCode(NewErrNoSpaceLeft(...)) = %q, want %q", code, ErrCodeNoSpaceLeft)
	}
}

func TestIsRetryable(t *testing.T) {
	if IsRetryable(nil) {
		t.Error("IsRetryable(nil) = true, want false")
	}
	// None of the xanthus error constructors mark themselves retryable: a
	// predicate-id exhaustion or missing write-order deque both require
	// caller action (free ids, reconfigure), not a bare retry.
	if IsRetryable(NewErrNoSpaceLeft(1)) {
		t.Error("IsRetryable(NewErrNoSpaceLeft(...)) = true, want false")
	}
	if IsRetryable(NewErrWriteOrderQueueDisabled()) {
		t.Error("IsRetryable(NewErrWriteOrderQueueDisabled()) = true, want false")
	}
}

func TestNewErrInternal_UnwrapsCause(t *testing.T) {
	cause := goerrors.New("underlying failure")
	err := NewErrInternal("admit", cause)

	unwrapped := goerrors.Unwrap(err)
	if unwrapped == nil {
		t.Fatal("expected NewErrInternal to wrap its cause")
	}
}

func TestNewErrNoSpaceLeft_ReturnsNonEmptyError(t *testing.T) {
	err := NewErrNoSpaceLeft(10_000)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err.Error() == "" {
		t.Error("expected non-empty message")
	}
}
