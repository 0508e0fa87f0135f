package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// ConflictReason is a machine-readable explanation of a ConflictError.
type ConflictReason string

const (
	ReasonFlowCommitted      ConflictReason = "flow_committed"
	ReasonTopicAssigned      ConflictReason = "topic_assigned"
	ReasonSubmissionPending  ConflictReason = "submission_pending"
	ReasonSubmissionResolved ConflictReason = "submission_resolved"
	ReasonPoolExhausted      ConflictReason = "pool_exhausted"
	ReasonNoTopic            ConflictReason = "no_topic"
	ReasonAlreadyCompleted   ConflictReason = "already_completed"
	ReasonStaleState         ConflictReason = "stale_state"
)

// ConflictError reports an operation that is illegal in the current state.
// Nothing has been mutated when it is returned.
type ConflictError struct {
	Reason  ConflictReason
	Message string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: %s: %s", e.Reason, e.Message)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// NewConflict creates a ConflictError.
func NewConflict(reason ConflictReason, message string) *ConflictError {
	return &ConflictError{Reason: reason, Message: message}
}

// ConflictReasonOf returns the reason of a ConflictError found in err's chain.
func ConflictReasonOf(err error) (ConflictReason, bool) {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce.Reason, true
	}
	return "", false
}
