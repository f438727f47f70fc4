package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")

	// Handshake failures, sent verbatim to the client.
	ErrAuthMissing = fmt.Errorf("Auth token not provided")
	ErrAuthUnknown = fmt.Errorf("Auth token does not match a user")

	ErrNotFound        = fmt.Errorf("not found")
	ErrConflict        = fmt.Errorf("already exists")
	ErrChannelNotFound = fmt.Errorf("channel not found")
	ErrUserNotFound    = fmt.Errorf("user not found")
	ErrInvalidUnread   = fmt.Errorf("invalid unread function")
	ErrInvalidRequest  = fmt.Errorf("invalid request")
	ErrStoreClosed     = fmt.Errorf("store is closed")
	ErrUnknownDriver   = fmt.Errorf("unknown store driver")
	ErrInvalidPayload  = fmt.Errorf("invalid payload")

	// ErrPersistence is what a sender sees when its message was delivered
	// but could not be saved.
	ErrPersistence = fmt.Errorf("Chat message failed to save")
)

// ValidationError carries the literal text returned to the sender of an
// invalid event.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func Validation(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// StoreError is returned by store adapters. Status mirrors the HTTP status
// the backing service reported for the call.
type StoreError struct {
	Status int
	Op     string
	Err    error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func NotFound(op string, format string, args ...any) *StoreError {
	return &StoreError{Status: http.StatusNotFound, Op: op, Err: fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))}
}

func Conflict(op string, format string, args ...any) *StoreError {
	return &StoreError{Status: http.StatusConflict, Op: op, Err: fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))}
}

// InvalidArgument reports a call the store refused to run. kind is the
// sentinel callers match with errors.Is.
func InvalidArgument(op string, kind error, format string, args ...any) *StoreError {
	return &StoreError{Status: http.StatusBadRequest, Op: op, Err: fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))}
}

func Internal(op string, err error) *StoreError {
	return &StoreError{Status: http.StatusInternalServerError, Op: op, Err: err}
}

// StatusOf returns the status carried by err, 500 when it carries none.
func StatusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var storeErr *StoreError
	if errors.As(err, &storeErr) && storeErr.Status != 0 {
		return storeErr.Status
	}
	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr), errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrChannelNotFound), errors.Is(err, ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
