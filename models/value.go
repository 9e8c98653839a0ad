package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/tidwall/gjson"
)

// Kind identifies the shape of a JSON value.
type Kind int

const (
	KindInvalid Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "invalid"
	}
}

// Value is a single JSON value kept in its raw encoding. Values read from the
// wire keep their original bytes so passthrough fields re-serialize unchanged.
// The zero Value is invalid and encodes as null.
type Value struct {
	raw []byte
}

// RawValue validates data as one JSON value and copies it.
func RawValue(data []byte) (Value, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || !gjson.ValidBytes(trimmed) {
		return Value{}, fmt.Errorf("%w: %s", ErrInvalidJSON, preview(trimmed))
	}
	return Value{raw: bytes.Clone(trimmed)}, nil
}

// ValueOf encodes v as JSON.
func ValueOf(v any) (Value, error) {
	if val, ok := v.(Value); ok {
		return val, nil
	}
	data, err := encodeJSON(v)
	if err != nil {
		return Value{}, err
	}
	return Value{raw: data}, nil
}

// MustValue is ValueOf for literals in tests and examples. It panics on
// values encoding/json cannot encode.
func MustValue(v any) Value {
	val, err := ValueOf(v)
	if err != nil {
		panic(err)
	}
	return val
}

// NullValue returns the JSON null literal.
func NullValue() Value {
	return Value{raw: []byte("null")}
}

// IsValid reports whether v holds a JSON value.
func (v Value) IsValid() bool { return len(v.raw) > 0 }

// IsNull reports whether v is the JSON null literal.
func (v Value) IsNull() bool { return v.Kind() == KindNull }

func (v Value) result() gjson.Result {
	return gjson.ParseBytes(v.raw)
}

// Kind returns the JSON shape of v.
func (v Value) Kind() Kind {
	if len(v.raw) == 0 {
		return KindInvalid
	}
	r := v.result()
	switch r.Type {
	case gjson.Null:
		return KindNull
	case gjson.True, gjson.False:
		return KindBool
	case gjson.Number:
		return KindNumber
	case gjson.String:
		return KindString
	case gjson.JSON:
		if r.IsArray() {
			return KindArray
		}
		return KindObject
	}
	return KindInvalid
}

// Raw returns a copy of the encoded value.
func (v Value) Raw() []byte {
	return bytes.Clone(v.raw)
}

// String returns the encoded value as text.
func (v Value) String() string {
	return string(v.raw)
}

// Get looks up a nested value with gjson path syntax ("owner.email",
// "tags.0"). The result is invalid when the path does not exist.
func (v Value) Get(path string) Value {
	r := gjson.GetBytes(v.raw, path)
	if !r.Exists() {
		return Value{}
	}
	return Value{raw: []byte(r.Raw)}
}

// Interface decodes v into plain Go values (map[string]any, []any, float64,
// string, bool, nil).
func (v Value) Interface() any {
	if len(v.raw) == 0 {
		return nil
	}
	return v.result().Value()
}

// Equal reports deep JSON equality. Object member order is ignored, array
// order is not, numbers compare by value.
func (v Value) Equal(other Value) bool {
	if !v.IsValid() || !other.IsValid() {
		return v.IsValid() == other.IsValid()
	}
	return equalResults(v.result(), other.result())
}

func (v Value) MarshalJSON() ([]byte, error) {
	if len(v.raw) == 0 {
		return []byte("null"), nil
	}
	return v.raw, nil
}

func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := RawValue(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func equalResults(a, b gjson.Result) bool {
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case gjson.Null, gjson.True, gjson.False:
		return true
	case gjson.Number:
		return equalNumbers(a, b)
	case gjson.String:
		return a.Str == b.Str
	case gjson.JSON:
		if a.IsArray() != b.IsArray() {
			return false
		}
		if a.IsArray() {
			as, bs := a.Array(), b.Array()
			if len(as) != len(bs) {
				return false
			}
			for i := range as {
				if !equalResults(as[i], bs[i]) {
					return false
				}
			}
			return true
		}
		am, bm := a.Map(), b.Map()
		if len(am) != len(bm) {
			return false
		}
		for k, av := range am {
			bv, ok := bm[k]
			if !ok || !equalResults(av, bv) {
				return false
			}
		}
		return true
	}
	return false
}

// equalNumbers compares two JSON numbers by exact value, so 1 == 1.0 == 1e0
// while integers beyond float64 precision stay distinct.
func equalNumbers(a, b gjson.Result) bool {
	if a.Raw == b.Raw {
		return true
	}
	// Rounding to float64 is monotonic: different floats mean different values.
	if a.Num != b.Num {
		return false
	}
	x, okA := new(big.Rat).SetString(a.Raw)
	y, okB := new(big.Rat).SetString(b.Raw)
	if !okA || !okB {
		return false
	}
	return x.Cmp(y) == 0
}

// encodeJSON marshals without HTML escaping and without the trailing newline
// json.Encoder appends.
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func preview(data []byte) string {
	const limit = 64
	if len(data) > limit {
		return fmt.Sprintf("%q...", data[:limit])
	}
	return fmt.Sprintf("%q", data)
}
