package models

import (
	"encoding/json"
	"fmt"
)

// Get decodes the required field key. It fails with
// *MissingRequiredFieldError when the key is absent and *TypeMismatchError
// when the value is null or does not decode into T. The record is frozen.
func Get[T any](m Model, key string) (T, error) {
	var zero T
	r := m.record()
	r.Freeze()

	v, ok := r.values[key]
	if !ok {
		return zero, &MissingRequiredFieldError{Type: typeName(m), Key: key}
	}
	if v.IsNull() && !holdsRaw[T]() {
		return zero, mismatch[T](m, key, v, nil)
	}
	out, err := decode[T](v)
	if err != nil {
		return zero, mismatch[T](m, key, v, err)
	}
	return out, nil
}

// GetOptional decodes an optional field. Absent keys and JSON null both yield
// nil; use GetNullable when the two must be told apart.
func GetOptional[T any](m Model, key string) (*T, error) {
	r := m.record()
	r.Freeze()

	v, ok := r.values[key]
	if !ok || (v.IsNull() && !holdsRaw[T]()) {
		return nil, nil
	}
	out, err := decode[T](v)
	if err != nil {
		return nil, mismatch[T](m, key, v, err)
	}
	return &out, nil
}

// GetNullable decodes a field whose wire format allows an explicit null.
func GetNullable[T any](m Model, key string) (Nullable[T], error) {
	r := m.record()
	r.Freeze()

	v, ok := r.values[key]
	switch {
	case !ok:
		return Nullable[T]{}, nil
	case v.IsNull():
		return Null[T](), nil
	}
	out, err := decode[T](v)
	if err != nil {
		return Nullable[T]{}, mismatch[T](m, key, v, err)
	}
	return NewNullable(out), nil
}

// Set encodes v and stores it under key. An existing key keeps its position.
func Set[T any](m Model, key string, v T) error {
	val, err := encode(v)
	if err != nil {
		return fmt.Errorf("%s: encode %q: %w", typeName(m), key, err)
	}
	return m.record().put(key, val)
}

// SetOptional stores *v under key. A nil v means "not provided" and leaves the
// record unchanged.
func SetOptional[T any](m Model, key string, v *T) error {
	if v == nil {
		return nil
	}
	return Set(m, key, *v)
}

// SetNullable stores a wire-nullable field: absent leaves the record
// unchanged, null stores JSON null.
func SetNullable[T any](m Model, key string, v Nullable[T]) error {
	switch {
	case !v.IsPresent():
		return nil
	case v.IsNull():
		return m.record().put(key, NullValue())
	}
	value, _ := v.Get()
	return Set(m, key, value)
}

// holdsRaw reports whether T is the passthrough Value type, for which JSON
// null is an ordinary value.
func holdsRaw[T any]() bool {
	var zero T
	_, ok := any(&zero).(*Value)
	return ok
}

func decode[T any](v Value) (T, error) {
	var out T
	if p, ok := any(&out).(*Value); ok {
		*p = v
		return out, nil
	}
	err := json.Unmarshal(v.raw, &out)
	return out, err
}

func encode[T any](v T) (Value, error) {
	if val, ok := any(v).(Value); ok {
		if !val.IsValid() {
			return Value{}, ErrInvalidJSON
		}
		return val, nil
	}
	// Records marshal through a pointer receiver.
	if m, ok := any(&v).(json.Marshaler); ok {
		data, err := m.MarshalJSON()
		if err != nil {
			return Value{}, err
		}
		return RawValue(data)
	}
	data, err := encodeJSON(v)
	if err != nil {
		return Value{}, err
	}
	return Value{raw: data}, nil
}

func mismatch[T any](m Model, key string, v Value, err error) *TypeMismatchError {
	var zero T
	return &TypeMismatchError{
		Type:     typeName(m),
		Key:      key,
		Expected: fmt.Sprintf("%T", zero),
		Actual:   v.Kind().String(),
		Err:      err,
	}
}
