package model

import (
	"errors"
	"fmt"
)

// ErrNotFoundOrUnauthorized is returned when a record is missing or belongs
// to another owner. The two cases are never distinguished.
var ErrNotFoundOrUnauthorized = errors.New("not found or unauthorized")

// ValidationError reports malformed input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Reason
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// Invalid builds a ValidationError for field.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// StoreWriteError wraps a write the entity store rejected.
type StoreWriteError struct {
	Op  string
	Err error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("store write %s: %v", e.Op, e.Err)
}

func (e *StoreWriteError) Unwrap() error { return e.Err }

// WriteFailed wraps err as a StoreWriteError. A nil err stays nil.
func WriteFailed(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreWriteError{Op: op, Err: err}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
