// Package errors provides standardized error handling for the service.
package errors

import (
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeIdentityAuthFailed    ErrorCode = "IDENTITY_AUTH_FAILED"
	ErrCodeIdentityUnavailable   ErrorCode = "IDENTITY_UNAVAILABLE"
	ErrCodeProfileNotFound       ErrorCode = "PROFILE_NOT_FOUND"
	ErrCodeProfileInvalid        ErrorCode = "PROFILE_INVALID"
	ErrCodeTierUnrecognized      ErrorCode = "TIER_UNRECOGNIZED"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"
	ErrCodeStoreRowInvalid          ErrorCode = "STORE_ROW_INVALID"

	ErrCodeCacheUnavailable ErrorCode = "CACHE_UNAVAILABLE"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 2. Error Constructors
// ==========================

// NewIdentityAuthError creates a retryable identity provider auth error.
func NewIdentityAuthError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeIdentityAuthFailed,
		Message:   "Failed to authenticate with the identity provider",
		Details:   details,
		Retryable: true, // auth errors might be transient
		Timestamp: time.Now().UTC(),
	}
}

// NewIdentityUnavailableError creates a retryable identity provider error.
func NewIdentityUnavailableError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeIdentityUnavailable,
		Message:   "Identity provider request failed",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewProfileNotFoundError creates a non-retryable missing profile error.
func NewProfileNotFoundError(userID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProfileNotFound,
		Message:   "No profile on record for user",
		Details:   userID,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewProfileInvalidError creates a non-retryable malformed profile error.
func NewProfileInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProfileInvalid,
		Message:   "Profile payload failed schema validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionError creates a retryable database error.
func NewQueryExecutionError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Event store query failed",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryTimeoutError creates a retryable database timeout error.
func NewQueryTimeoutError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryTimeout,
		Message:   "Event store query timed out",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreRowInvalidError creates a non-retryable error for a row that
// violates the store contract (e.g. an unknown required_tier label).
func NewStoreRowInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreRowInvalid,
		Message:   "Event record violates the store contract",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheUnavailableError creates a retryable cache error. Callers treat
// this as soft: the source of truth is still consulted.
func NewCacheUnavailableError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheUnavailable,
		Message:   "Cache operation failed",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}
