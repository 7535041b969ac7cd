package errors

import (
	"fmt"
)

// ParseError represents a YAML configuration parsing failure with optional
// line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures configuration validation issues.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// UpstreamError represents a failed snapshot or count fetch against the
// platform API. It is fatal to the operation that issued the fetch: the
// engine never classifies against a partial snapshot.
type UpstreamError struct {
	Scope string
	Err   error
}

// NewUpstreamError constructs an UpstreamError.
func NewUpstreamError(scope string, err error) error {
	return &UpstreamError{Scope: scope, Err: err}
}

func (e *UpstreamError) Error() string {
	if e == nil {
		return ""
	}
	if e.Scope != "" {
		return fmt.Sprintf("upstream unavailable for %s: %v", e.Scope, e.Err)
	}
	return fmt.Sprintf("upstream unavailable: %v", e.Err)
}

// Unwrap exposes the underlying fetch error.
func (e *UpstreamError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// PollTimeoutError is returned when the provisioning poller exhausts its
// attempt ceiling without observing a terminal state.
type PollTimeoutError struct {
	Identifier string
	Attempts   int
	LastState  string
}

// NewPollTimeoutError constructs a PollTimeoutError.
func NewPollTimeoutError(identifier string, attempts int, lastState string) error {
	return &PollTimeoutError{Identifier: identifier, Attempts: attempts, LastState: lastState}
}

func (e *PollTimeoutError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf(
		"provisioning of %s did not complete after %d attempts (last observed state %q)",
		e.Identifier, e.Attempts, e.LastState,
	)
}

// QuotaExceededError is returned when the quota admission controller denies
// creation of a limited resource class.
type QuotaExceededError struct {
	Resource string
	Count    int
	Ceiling  int
}

// NewQuotaExceededError constructs a QuotaExceededError.
func NewQuotaExceededError(resource string, count, ceiling int) error {
	return &QuotaExceededError{Resource: resource, Count: count, Ceiling: ceiling}
}

func (e *QuotaExceededError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf(
		"cannot create %s: limit of %d reached (%d already exist)",
		e.Resource, e.Ceiling, e.Count,
	)
}
