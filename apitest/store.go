package apitest

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var (
	errNotObject = errors.New("document must be a JSON object")

	// ErrUnknownCursor is returned by List for a cursor that never named an
	// item of the collection.
	ErrUnknownCursor = errors.New("unknown cursor")
)

// Store keeps documents as raw JSON per collection, in insertion order.
// Unknown fields sent by a client are stored and echoed back unchanged.
type Store struct {
	mu    sync.RWMutex
	colls map[string]*collection
	now   func() time.Time
}

type collection struct {
	order []string
	docs  map[string][]byte
	// seq outlives deletes so a cursor naming a deleted item still resumes
	// after its position.
	seq     map[string]int
	lastSeq int
}

// ListQuery selects a window of a collection.
type ListQuery struct {
	Cursor string // ID of the last item of the previous page
	Limit  int
	Match  func(doc gjson.Result) bool
}

const defaultPageSize = 20

func NewStore() *Store {
	return &Store{
		colls: make(map[string]*collection),
		now:   time.Now,
	}
}

func (s *Store) coll(name string) *collection {
	c, ok := s.colls[name]
	if !ok {
		c = &collection{docs: make(map[string][]byte), seq: make(map[string]int)}
		s.colls[name] = c
	}
	return c
}

// Insert stores doc under a fresh ID with the given prefix and stamps
// created_at when the document has none.
func (s *Store) Insert(coll, prefix string, doc []byte) ([]byte, error) {
	if !isObject(doc) {
		return nil, errNotObject
	}
	id := prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
	doc, err := sjson.SetBytes(doc, "id", id)
	if err != nil {
		return nil, err
	}
	if !gjson.GetBytes(doc, "created_at").Exists() {
		doc, err = sjson.SetBytes(doc, "created_at", s.now().UTC().Format(time.RFC3339))
		if err != nil {
			return nil, err
		}
	}
	s.Put(coll, id, doc)
	return doc, nil
}

// Put stores doc under id, replacing any previous version in place.
func (s *Store) Put(coll, id string, doc []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.coll(coll)
	if _, ok := c.docs[id]; !ok {
		c.order = append(c.order, id)
		c.lastSeq++
		c.seq[id] = c.lastSeq
	}
	c.docs[id] = doc
}

func (s *Store) Get(coll, id string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.colls[coll]
	if !ok {
		return nil, false
	}
	doc, ok := c.docs[id]
	return doc, ok
}

// Patch merges the top-level members of patch into the stored document. A
// null member is stored as null.
func (s *Store) Patch(coll, id string, patch []byte) ([]byte, bool, error) {
	if !isObject(patch) {
		return nil, false, errNotObject
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.colls[coll]
	if !ok {
		return nil, false, nil
	}
	doc, ok := c.docs[id]
	if !ok {
		return nil, false, nil
	}

	var err error
	gjson.ParseBytes(patch).ForEach(func(key, value gjson.Result) bool {
		if key.Str == "id" || key.Str == "created_at" {
			return true
		}
		doc, err = sjson.SetRawBytes(doc, escapeKey(key.Str), []byte(value.Raw))
		return err == nil
	})
	if err != nil {
		return nil, true, err
	}
	c.docs[id] = doc
	return doc, true, nil
}

func (s *Store) Delete(coll, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.colls[coll]
	if !ok {
		return false
	}
	if _, ok := c.docs[id]; !ok {
		return false
	}
	delete(c.docs, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// List returns the page after q.Cursor and the cursor of the next page, which
// is empty on the last page. A cursor naming a deleted item resumes after the
// position that item held.
func (s *Store) List(coll string, q ListQuery) ([][]byte, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := q.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}

	c, ok := s.colls[coll]
	after := 0
	if q.Cursor != "" {
		if ok {
			after, ok = c.seq[q.Cursor]
		}
		if !ok {
			return nil, "", ErrUnknownCursor
		}
	}
	if c == nil {
		return nil, "", nil
	}

	var page [][]byte
	var last string
	for _, id := range c.order {
		if c.seq[id] <= after {
			continue
		}
		doc := c.docs[id]
		if q.Match != nil && !q.Match(gjson.ParseBytes(doc)) {
			continue
		}
		if len(page) == limit {
			return page, last, nil
		}
		page = append(page, doc)
		last = id
	}
	return page, "", nil
}

// DeleteCollection drops every document in coll, for cascades.
func (s *Store) DeleteCollection(coll string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.colls, coll)
}

func isObject(doc []byte) bool {
	return gjson.ValidBytes(doc) && gjson.ParseBytes(doc).IsObject()
}

// escapeKey turns an object key into a single sjson path segment.
func escapeKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '\\', '|', '#', '@', '!':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
