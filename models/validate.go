package models

import (
	"errors"
	"fmt"
)

// Validator is implemented by models and enums.
type Validator interface {
	Validate() error
}

// Check is one step of a model's Validate, bound to the key it reads.
type Check struct {
	key string
	run func() error
}

// Validate runs checks in order and returns the first failure. Generated
// models list one check per declared accessor; keys without an accessor are
// never visited.
//
// Enum values validate without knowing where they are stored, so a
// *TypeMismatchError that carries no key is attributed to m and the check's
// key before it is returned.
func Validate(m Model, checks ...Check) error {
	for _, check := range checks {
		if err := check.run(); err != nil {
			var mismatch *TypeMismatchError
			if errors.As(err, &mismatch) && mismatch.Key == "" {
				mismatch.Type = typeName(m)
				mismatch.Key = check.key
			}
			return err
		}
	}
	return nil
}

// Field checks a required accessor: it must decode, and a decoded record or
// enum must validate.
func Field[T any](key string, get func() (T, error)) Check {
	return Check{key: key, run: func() error {
		v, err := get()
		if err != nil {
			return err
		}
		return validateValue(v)
	}}
}

// OptionalField checks an optional accessor. A missing value passes.
func OptionalField[T any](key string, get func() (*T, error)) Check {
	return Check{key: key, run: func() error {
		v, err := get()
		if err != nil || v == nil {
			return err
		}
		return validateValue(*v)
	}}
}

// Items checks a list accessor and validates every element.
func Items[T any](key string, get func() ([]T, error)) Check {
	return Check{key: key, run: func() error {
		items, err := get()
		if err != nil {
			return err
		}
		return validateItems(items)
	}}
}

// OptionalItems is Items for a list that may be absent.
func OptionalItems[T any](key string, get func() (*[]T, error)) Check {
	return Check{key: key, run: func() error {
		items, err := get()
		if err != nil || items == nil {
			return err
		}
		return validateItems(*items)
	}}
}

func validateItems[T any](items []T) error {
	for i := range items {
		if err := validateValue(items[i]); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}

func validateValue[T any](v T) error {
	if val, ok := any(v).(Validator); ok {
		return val.Validate()
	}
	if val, ok := any(&v).(Validator); ok {
		return val.Validate()
	}
	return nil
}
