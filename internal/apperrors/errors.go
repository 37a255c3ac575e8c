package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the actor lacks the capability required for the operation.
var ErrForbidden = errors.New("operation not permitted")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrPersistence indicates that the store could not durably apply a change.
// Handlers report it generically; the wrapped detail stays server-side.
var ErrPersistence = errors.New("persistence failure")

// Violation rule identifiers returned by the rate validator.
const (
	RuleNotANumber     = "not_a_number"
	RuleNonPositive    = "non_positive"
	RuleInvertedSpread = "inverted_spread"
	RuleUnknownCode    = "unknown_code"
)

// Violation describes a single rule breach for one currency code in a batch.
type Violation struct {
	Code   string `json:"code"`
	Rule   string `json:"rule"`
	Detail string `json:"detail"`
}

// ValidationError carries the full itemized violation list for a rejected
// batch so the caller can correct every problem at once.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = fmt.Sprintf("%s: %s", v.Code, v.Rule)
	}
	return fmt.Sprintf("%v: %s", ErrValidation, strings.Join(parts, "; "))
}

// Unwrap lets callers branch with errors.Is(err, ErrValidation).
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError wraps a non-empty violation list.
func NewValidationError(violations []Violation) *ValidationError {
	return &ValidationError{Violations: violations}
}
