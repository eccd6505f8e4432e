package services

import (
	"errors"
	"fmt"
)

// Workflow error kinds. Every failure is detected before any mutation, so a
// returned error always means the aggregate was left untouched.
var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrForbidden         = errors.New("actor lacks required role")
	ErrTokenInvalid      = errors.New("token unknown or wrong purpose")
	ErrAlreadyDecided    = errors.New("decision already recorded")
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("application not found")
)

// WorkflowError wraps an error kind with minimal context for the caller.
type WorkflowError struct {
	Kind    error
	Message string
}

func (e *WorkflowError) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Message)
}

func (e *WorkflowError) Unwrap() error {
	return e.Kind
}

func workflowErr(kind error, format string, args ...interface{}) error {
	return &WorkflowError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
