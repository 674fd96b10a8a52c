package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("hotel not found")
	ErrNoChange          = errors.New("resubmission has no material change")
	ErrInvalidTransition = errors.New("status transition not allowed")
)

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Message
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

func Invalid(field, msg string) error { return &ValidationError{Field: field, Message: msg} }

// IOError wraps a failure of the key-value substrate, including undecodable data.
type IOError struct {
	Op  string // get|set|remove|decode|encode
	Key string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("kv %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsIO(err error) bool {
	var ie *IOError
	return errors.As(err, &ie)
}

// Transition builds the error for a disallowed status change.
func Transition(op string, from Status) error {
	return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, op, from)
}
