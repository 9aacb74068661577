/*
errors.go - Centralized error types for the leave engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers match with errors.Is against the sentinels; the structured
  types carry the details (amounts, states, actors) and Unwrap to the
  matching sentinel.

ERROR CATEGORIES:
  1. Validation errors  - bad input, rejected before any mutation
  2. Transition errors  - illegal state-machine moves, no mutation
  3. Store errors       - persistence-level failures

SEE ALSO:
  - workflow.go: produces most of these
  - ledger.go:   produces InsufficientBalanceError
*/
package leave

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is returned for bad input: inverted date ranges,
	// past start dates, gender-restricted leave types, probation.
	ErrValidation = errors.New("validation failed")

	// ErrInsufficientBalance is returned when a request's computed day
	// count exceeds the available balance.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInvalidTransition is returned when a state-machine transition
	// is not legal from the request's current status.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrUnauthorized is returned when the actor lacks the role or
	// department relationship the operation requires.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrMissingReason is returned when a rejection carries no reason.
	ErrMissingReason = errors.New("rejection reason is required")

	// ErrNotFound is returned when a referenced employee, leave type,
	// or request does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConcurrentModification is returned when an optimistic balance
	// update loses the version race and retries are exhausted.
	ErrConcurrentModification = errors.New("concurrent modification detected")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError explains which check failed before any mutation.
type ValidationError struct {
	Code    string // e.g. "past_start_date", "gender_restricted"
	Message string
}

func (e *ValidationError) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }
func (e *ValidationError) Unwrap() error { return ErrValidation }

// InsufficientBalanceError reports available vs requested amounts.
type InsufficientBalanceError struct {
	Key       BalanceKey
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient %s balance: available %s, requested %s",
		e.Key.LeaveType, e.Available, e.Requested)
}

func (e *InsufficientBalanceError) Unwrap() error { return ErrInsufficientBalance }

// InvalidTransitionError reports the attempted move.
type InvalidTransitionError struct {
	RequestID RequestID
	From      RequestStatus
	Attempted string // operation name, e.g. "recall"
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s request %s in status %s", e.Attempted, e.RequestID, e.From)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

// UnauthorizedError reports who tried what.
type UnauthorizedError struct {
	Actor     EmployeeID
	Operation string
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("%s is not authorized to %s", e.Actor, e.Operation)
}

func (e *UnauthorizedError) Unwrap() error { return ErrUnauthorized }

// NotFoundError names the missing record.
type NotFoundError struct {
	Kind string // "employee", "leave type", "request"
	ID   string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s %s not found", e.Kind, e.ID) }
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError reports whether the error is the caller's fault.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInsufficientBalance) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrMissingReason)
}

// IsRetryable reports whether the error might succeed on retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrentModification)
}
