package models

import (
	"slices"
	"strconv"
	"strings"
)

// Enum is the set of wire values a string enum type knows about. Values
// outside the set still decode; they fail only in Validate.
type Enum[T ~string] struct {
	name   string
	values []T
}

// NewEnum declares the known values of an enum type.
func NewEnum[T ~string](name string, values ...T) *Enum[T] {
	return &Enum[T]{name: name, values: values}
}

// IsKnown reports whether v is one of the declared values.
func (e *Enum[T]) IsKnown(v T) bool {
	return slices.Contains(e.values, v)
}

// Values returns the declared values.
func (e *Enum[T]) Values() []T {
	return slices.Clone(e.values)
}

// Validate returns a *TypeMismatchError for undeclared values.
func (e *Enum[T]) Validate(v T) error {
	if e.IsKnown(v) {
		return nil
	}
	names := make([]string, len(e.values))
	for i, known := range e.values {
		names[i] = string(known)
	}
	return &TypeMismatchError{
		Type:     e.name,
		Expected: "one of " + strings.Join(names, ", "),
		Actual:   strconv.Quote(string(v)),
	}
}
