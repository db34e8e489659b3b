package models

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is.
var (
	ErrValidation        = errors.New("validation error")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrNotFound          = errors.New("not found")
	ErrStaleState        = errors.New("stale state")
)

// DomainError is a rule violation with a message meant for the end user
type DomainError struct {
	Kind    error
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...interface{}) error {
	return &DomainError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func ValidationError(format string, args ...interface{}) error {
	return newError(ErrValidation, format, args...)
}

func InvalidTransition(format string, args ...interface{}) error {
	return newError(ErrInvalidTransition, format, args...)
}

func PermissionDenied(format string, args ...interface{}) error {
	return newError(ErrPermissionDenied, format, args...)
}

func NotFound(format string, args ...interface{}) error {
	return newError(ErrNotFound, format, args...)
}

func StaleState(format string, args ...interface{}) error {
	return newError(ErrStaleState, format, args...)
}

// ErrPaymentFailed is returned when the payment gateway refuses a charge
var ErrPaymentFailed = errors.New("payment failed")

func PaymentFailed(format string, args ...interface{}) error {
	return newError(ErrPaymentFailed, format, args...)
}
