package models

// Nullable is a field that is either absent, explicitly null, or set. The
// zero value is absent.
type Nullable[T any] struct {
	value   T
	present bool
	null    bool
}

// NewNullable returns a Nullable holding v.
func NewNullable[T any](v T) Nullable[T] {
	return Nullable[T]{value: v, present: true}
}

// Null returns an explicit JSON null.
func Null[T any]() Nullable[T] {
	return Nullable[T]{present: true, null: true}
}

// IsPresent reports whether the field was provided, null or not.
func (n Nullable[T]) IsPresent() bool { return n.present }

// IsNull reports whether the field was provided as JSON null.
func (n Nullable[T]) IsNull() bool { return n.present && n.null }

// Get returns the value and whether one is set.
func (n Nullable[T]) Get() (T, bool) {
	return n.value, n.present && !n.null
}

// Or returns the value, or def when absent or null.
func (n Nullable[T]) Or(def T) T {
	if v, ok := n.Get(); ok {
		return v
	}
	return def
}

// Validate validates the held value when it is a record or enum.
func (n Nullable[T]) Validate() error {
	if v, ok := n.Get(); ok {
		return validateValue(v)
	}
	return nil
}

// Ptr returns a pointer to v, for optional setters.
func Ptr[T any](v T) *T {
	return &v
}
