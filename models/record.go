package models

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/tidwall/pretty"
)

// Model is implemented by every type that embeds Record.
type Model interface {
	record() *Record
}

// Record stores a model's state as an ordered mapping of field name to raw
// JSON value. Typed accessors decode on demand, so keys the SDK does not know
// about are carried through untouched.
//
// A Record is mutable until its first typed read, Freeze, Equal, String,
// Raw or serialization. After that every assignment fails with ErrFrozen.
// Mutation is not safe for concurrent use; a frozen record may be read from
// any number of goroutines.
//
// Copying a Record by value shares its storage. Use Clone for an independent
// copy.
type Record struct {
	keys    []string
	values  map[string]Value
	rawKeys map[string][]byte
	frozen  bool
}

func (r *Record) record() *Record { return r }

// Freeze makes the record immutable. It is idempotent.
func (r *Record) Freeze() {
	// Frozen records are read concurrently, so never write the flag twice.
	if !r.frozen {
		r.frozen = true
	}
}

// IsFrozen reports whether the record still accepts assignments.
func (r *Record) IsFrozen() bool { return r.frozen }

// Len returns the number of stored fields, known or not.
func (r *Record) Len() int { return len(r.keys) }

// Keys returns the stored field names in insertion order.
func (r *Record) Keys() []string {
	return append([]string(nil), r.keys...)
}

// Has reports whether key is present, including when it holds JSON null.
func (r *Record) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Field returns the raw value stored under key.
func (r *Record) Field(key string) (Value, bool) {
	v, ok := r.values[key]
	return v, ok
}

// SetField stores a raw value under key. It is the escape hatch for fields the
// SDK has no accessor for.
func (r *Record) SetField(key string, v Value) error {
	if !v.IsValid() {
		return fmt.Errorf("models: set %q: %w", key, ErrInvalidJSON)
	}
	return r.put(key, v)
}

// Raw freezes the record and returns a copy of its fields in order.
func (r *Record) Raw() Object {
	r.Freeze()
	obj := make(Object, 0, len(r.keys))
	for _, k := range r.keys {
		obj = append(obj, Member{Key: k, Value: r.values[k], rawKey: r.rawKeys[k]})
	}
	return obj
}

// Clone returns an unfrozen copy that shares nothing mutable with r.
func (r *Record) Clone() Record {
	c := Record{
		keys:    append([]string(nil), r.keys...),
		values:  make(map[string]Value, len(r.values)),
		rawKeys: make(map[string][]byte, len(r.rawKeys)),
	}
	// Value and key bytes are never modified in place, so sharing them is safe.
	for k, v := range r.values {
		c.values[k] = v
	}
	for k, raw := range r.rawKeys {
		c.rawKeys[k] = raw
	}
	return c
}

// Equal reports whether both records hold the same keys with deep-equal
// values. Field order is ignored. Both records are frozen.
func (r *Record) Equal(other *Record) bool {
	if r == nil || other == nil {
		return r == other
	}
	r.Freeze()
	other.Freeze()
	if len(r.values) != len(other.values) {
		return false
	}
	for k, v := range r.values {
		ov, ok := other.values[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// MarshalJSON freezes the record and writes its fields in insertion order.
// Keys and values that came from the wire are written byte-for-byte. Call it directly
// rather than through json.Marshal when byte stability matters: encoding/json
// re-escapes HTML characters in Marshaler output.
func (r *Record) MarshalJSON() ([]byte, error) {
	r.Freeze()
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, ok := r.rawKeys[k]
		if !ok {
			var err error
			if key, err = encodeJSON(k); err != nil {
				return nil, err
			}
		}
		buf.Write(key)
		buf.WriteByte(':')
		raw, _ := r.values[k].MarshalJSON()
		buf.Write(raw)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON replaces the record's fields with the members of a JSON
// object without validating them. JSON null leaves the record untouched.
func (r *Record) UnmarshalJSON(data []byte) error {
	if r.frozen {
		return ErrFrozen
	}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	obj, err := ParseObject(data)
	if err != nil {
		return err
	}
	r.load(obj)
	return nil
}

// String renders the fields as indented JSON. It freezes the record.
func (r *Record) String() string {
	data, err := r.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<invalid record: %v>", err)
	}
	return renderJSON(data)
}

func (r *Record) load(obj Object) {
	r.keys = make([]string, 0, len(obj))
	r.values = make(map[string]Value, len(obj))
	r.rawKeys = make(map[string][]byte)
	r.frozen = false
	for _, m := range obj {
		if _, ok := r.values[m.Key]; !ok {
			r.keys = append(r.keys, m.Key)
		}
		r.values[m.Key] = m.Value
		if m.rawKey != nil {
			r.rawKeys[m.Key] = m.rawKey
		} else {
			delete(r.rawKeys, m.Key)
		}
	}
}

func (r *Record) put(key string, v Value) error {
	if r.frozen {
		return fmt.Errorf("set %q: %w", key, ErrFrozen)
	}
	if r.values == nil {
		r.values = make(map[string]Value)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = v
	return nil
}

// FromRawUnchecked builds a model from raw fields without validating them.
// Use it for wire responses; call Validate when the caller wants the contract
// checked.
func FromRawUnchecked[T any, P interface {
	*T
	Model
}](obj Object) *T {
	p := P(new(T))
	p.record().load(obj)
	return p
}

// Clone returns an unfrozen deep copy of a model.
func Clone[T any, P interface {
	*T
	Model
}](m *T) *T {
	c := P(new(T))
	*c.record() = P(m).record().Clone()
	return c
}

// Equal compares two models of the same type structurally.
func Equal[T any, P interface {
	*T
	Model
}](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return P(a).record().Equal(P(b).record())
}

// renderJSON indents data for humans. Input is always valid JSON produced by
// MarshalJSON.
func renderJSON(data []byte) string {
	out := pretty.PrettyOptions(data, &pretty.Options{Width: 80, Indent: "  "})
	return strings.TrimSuffix(string(out), "\n")
}

// typeName names a model in error messages: "client.Instance".
func typeName(m Model) string {
	name := strings.TrimPrefix(fmt.Sprintf("%T", m), "*")
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	return name
}
