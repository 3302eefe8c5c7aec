package timeclock

import (
	"errors"
	"fmt"
)

var ErrUnknownEmployee = errors.New("unknown employee")

// ValidationError rejects an operation because one input field is unusable.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// WriteError wraps a failure reported by the record store. A failed batch
// write means nothing from that batch was saved.
type WriteError struct {
	Op  string
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

func NewWriteError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &WriteError{Op: op, Err: err}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsWrite(err error) bool {
	var w *WriteError
	return errors.As(err, &w)
}
