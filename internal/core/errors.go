package core

import (
	"errors"
	"fmt"
)

// Kinds of failure callers can react to differently.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrStorage    = errors.New("storage failure")
	ErrCorrupt    = errors.New("corrupt data")
)

var (
	ErrInvalidCategory      = NewValidationError("invalid category")
	ErrInvalidPaymentMethod = NewValidationError("invalid payment method")
	ErrInvalidAmount        = NewValidationError("invalid amount")
	ErrInvalidDate          = NewValidationError("invalid date")
)

// ValidationError reports input the domain rejects. It matches ErrValidation
// with errors.Is, as well as the wrapped sentinel.
type ValidationError struct {
	Err   error
	Value string
}

// NewValidationError returns a sentinel validation error with the given message.
func NewValidationError(msg string) error {
	return &ValidationError{Err: errors.New(msg)}
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %q", e.Err.Error(), e.Value)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ErrorKind classifies an error for callers and logs.
type ErrorKind string

const (
	KindNone       ErrorKind = ""
	KindNotFound   ErrorKind = "not_found"
	KindValidation ErrorKind = "validation"
	KindIO         ErrorKind = "io"
	KindCorrupt    ErrorKind = "corrupt"
	KindInternal   ErrorKind = "internal"
)

// KindOf maps err onto an ErrorKind. Corrupt data wins over validation so a
// bad category read back from disk is reported as a storage problem.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrCorrupt):
		return KindCorrupt
	case errors.Is(err, ErrStorage):
		return KindIO
	case errors.Is(err, ErrValidation):
		return KindValidation
	default:
		return KindInternal
	}
}
