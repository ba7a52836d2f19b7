package helpers

import (
	"errors"
	"fmt"
	"time"
)

// Sentinels matched with errors.Is by HandleCommonErrors.
var (
	ErrTimeout  = errors.New("request timed out")
	ErrNetwork  = errors.New("network error")
	ErrAuth     = errors.New("authentication error")
	ErrNotFound = errors.New("record not found")
)

// TimeoutError is returned when the API did not answer within the configured
// api.timeout.
type TimeoutError struct {
	Operation string
	After     time.Duration
}

func (e *TimeoutError) Error() string {
	if e.After <= 0 {
		return fmt.Sprintf("%s: no response from the API", e.Operation)
	}
	return fmt.Sprintf("%s: no response from the API within %s", e.Operation, e.After)
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// NetworkError wraps a failure to reach the API at all.
type NetworkError struct {
	Operation string
	Cause     error
}

func (e *NetworkError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: cannot reach the API", e.Operation)
	}
	return fmt.Sprintf("%s: cannot reach the API: %v", e.Operation, e.Cause)
}

func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// AuthError is raised when the API rejects the session token.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Reason)
}

func (e *AuthError) Is(target error) bool {
	return target == ErrAuth
}

func NewTimeoutError(operation string, after time.Duration) error {
	return &TimeoutError{Operation: operation, After: after}
}

func NewNetworkError(operation string, cause error) error {
	return &NetworkError{Operation: operation, Cause: cause}
}

func NewAuthError(reason string) error {
	return &AuthError{Reason: reason}
}

// NewNotFoundError reports that id is not one of the loaded records of
// collection. The result matches ErrNotFound.
func NewNotFoundError(collection string, id any) *CliError {
	return WrapCliError("NOT_FOUND",
		fmt.Sprintf("%s has no record %v", collection, id),
		fmt.Errorf("%s #%v: %w", collection, id, ErrNotFound)).
		WithContext("id", id)
}
