package models

import (
	"errors"
	"fmt"
)

var (
	// ErrFrozen is returned when a field is assigned after the record was read,
	// compared, validated or serialized.
	ErrFrozen = errors.New("models: record is frozen")

	// ErrNotObject is returned when a record is decoded from a JSON value that is
	// not an object.
	ErrNotObject = errors.New("models: JSON value is not an object")

	// ErrInvalidJSON is returned for malformed JSON input.
	ErrInvalidJSON = errors.New("models: invalid JSON")
)

// MissingRequiredFieldError is returned when a required accessor finds no
// value for its key.
type MissingRequiredFieldError struct {
	Type string
	Key  string
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("%s: missing required field %q", e.Type, e.Key)
}

// TypeMismatchError is returned when a stored value cannot be decoded into
// the accessor's type, or an enum holds a value outside its known set.
type TypeMismatchError struct {
	Type     string
	Key      string // empty for enum values validated on their own
	Expected string
	Actual   string
	Err      error
}

func (e *TypeMismatchError) Error() string {
	where := e.Type
	if e.Key != "" {
		where = fmt.Sprintf("%s.%s", e.Type, e.Key)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: expected %s, got %s: %v", where, e.Expected, e.Actual, e.Err)
	}
	return fmt.Sprintf("%s: expected %s, got %s", where, e.Expected, e.Actual)
}

func (e *TypeMismatchError) Unwrap() error {
	return e.Err
}
