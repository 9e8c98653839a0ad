package apitest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestStoreInsertStampsDocuments(t *testing.T) {
	s := NewStore()
	s.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	doc, err := s.Insert("things", "thg", []byte(`{"name":"a","x-extra":[1,2]}`))
	require.NoError(t, err)

	id := gjson.GetBytes(doc, "id").String()
	require.Regexp(t, `^thg_[0-9a-f]{16}$`, id)
	require.Equal(t, "2024-05-01T12:00:00Z", gjson.GetBytes(doc, "created_at").String())
	require.Equal(t, "[1,2]", gjson.GetBytes(doc, "x-extra").Raw)

	got, ok := s.Get("things", id)
	require.True(t, ok)
	require.Equal(t, doc, got)

	_, err = s.Insert("things", "thg", []byte(`[1]`))
	require.ErrorIs(t, err, errNotObject)
}

func TestStorePatch(t *testing.T) {
	s := NewStore()
	s.Put("things", "t1", []byte(`{"id":"t1","name":"a","note":"keep"}`))

	doc, found, err := s.Patch("things", "t1", []byte(`{"id":"evil","note":null,"a.b":1}`))
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "t1", gjson.GetBytes(doc, "id").String())
	require.Equal(t, gjson.Null, gjson.GetBytes(doc, "note").Type)
	require.Equal(t, int64(1), gjson.GetBytes(doc, `a\.b`).Int())

	_, found, err = s.Patch("things", "missing", []byte(`{}`))
	require.NoError(t, err)
	require.False(t, found)
}

func TestStoreListPages(t *testing.T) {
	s := NewStore()
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		s.Put("things", id, []byte(`{"id":"`+id+`","even":`+map[bool]string{true: "true", false: "false"}[id == "b" || id == "d"]+`}`))
	}

	page, next, err := s.List("things", ListQuery{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, "b", next)

	page, next, err = s.List("things", ListQuery{Limit: 2, Cursor: next})
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, "d", next)

	page, next, err = s.List("things", ListQuery{Limit: 2, Cursor: next})
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Empty(t, next)

	even := func(doc gjson.Result) bool { return doc.Get("even").Bool() }
	page, next, err = s.List("things", ListQuery{Match: even})
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Empty(t, next)

	require.True(t, s.Delete("things", "c"))
	require.False(t, s.Delete("things", "c"))
	page, _, err = s.List("things", ListQuery{})
	require.NoError(t, err)
	require.Len(t, page, 4)
}

func TestStoreListCursorOnDeletedItem(t *testing.T) {
	s := NewStore()
	for _, id := range []string{"a", "b", "c", "d"} {
		s.Put("things", id, []byte(`{"id":"`+id+`"}`))
	}

	page, next, err := s.List("things", ListQuery{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, "b", next)

	require.True(t, s.Delete("things", "b"))
	page, next, err = s.List("things", ListQuery{Limit: 2, Cursor: "b"})
	require.NoError(t, err)
	require.Empty(t, next)
	require.Len(t, page, 2)
	require.Equal(t, "c", gjson.GetBytes(page[0], "id").String())
	require.Equal(t, "d", gjson.GetBytes(page[1], "id").String())

	_, _, err = s.List("things", ListQuery{Cursor: "never"})
	require.ErrorIs(t, err, ErrUnknownCursor)
	_, _, err = s.List("missing", ListQuery{Cursor: "a"})
	require.ErrorIs(t, err, ErrUnknownCursor)
}

func TestSnippet(t *testing.T) {
	text := "The quick brown fox jumps over the lazy dog and keeps running far away from the farm."
	require.Equal(t, "The quick brown fox jumps over the lazy dog...", snippet(text, 0, 3))
	require.Equal(t, "The quick brown fox jumps over the lazy...", snippet(text, -1, 0))
	require.Equal(t, "...over the lazy dog and keeps running far away from the farm.", snippet(text, 66, 4))
}
