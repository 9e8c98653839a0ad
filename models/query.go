package models

import (
	"net/url"

	"github.com/tidwall/gjson"
)

// URLQuery encodes a model's fields as query parameters. Arrays repeat the
// key, objects nest with brackets (filter[court]=x) and nulls are skipped.
// The record is frozen.
func URLQuery(m Model) url.Values {
	q := url.Values{}
	for _, member := range m.record().Raw() {
		addQuery(q, member.Key, member.Value.result())
	}
	return q
}

func addQuery(q url.Values, key string, v gjson.Result) {
	switch {
	case v.Type == gjson.Null:
	case v.Type == gjson.String:
		q.Add(key, v.Str)
	case v.IsArray():
		for _, item := range v.Array() {
			addQuery(q, key, item)
		}
	case v.IsObject():
		v.ForEach(func(k, item gjson.Result) bool {
			addQuery(q, key+"["+k.String()+"]", item)
			return true
		})
	default:
		q.Add(key, v.Raw)
	}
}
