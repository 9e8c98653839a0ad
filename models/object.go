package models

import (
	"bytes"
	"fmt"

	"github.com/tidwall/gjson"
)

// Member is one key/value pair of a JSON object.
type Member struct {
	Key   string
	Value Value

	rawKey []byte // quoted key as received, so escapes survive re-encoding
}

// Object is an ordered JSON object, the raw form every record is built from.
type Object []Member

// ParseObject splits a JSON object into its members in wire order. Member
// values keep their original bytes.
func ParseObject(data []byte) (Object, error) {
	trimmed := bytes.TrimSpace(data)
	if !gjson.ValidBytes(trimmed) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidJSON, preview(trimmed))
	}
	res := gjson.ParseBytes(trimmed)
	if !res.IsObject() {
		return nil, fmt.Errorf("%w: got %s", ErrNotObject, Value{raw: trimmed}.Kind())
	}

	obj := Object{}
	res.ForEach(func(key, value gjson.Result) bool {
		obj = append(obj, Member{
			Key:    key.String(),
			Value:  Value{raw: []byte(value.Raw)},
			rawKey: []byte(key.Raw),
		})
		return true
	})
	return obj, nil
}

// Get returns the last value stored under key, matching encoding/json's
// handling of duplicate keys.
func (o Object) Get(key string) (Value, bool) {
	for i := len(o) - 1; i >= 0; i-- {
		if o[i].Key == key {
			return o[i].Value, true
		}
	}
	return Value{}, false
}
