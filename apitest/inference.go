package apitest

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// =============================================================================
// Legal search
// =============================================================================

const (
	defaultSearchLimit = 10
	snippetRadius      = 40
)

type searchHit struct {
	doc   []byte
	score float64
	pos   int
}

// handleLegalSearch does a case-insensitive substring search over titles and
// bodies. Title hits rank above body hits.
func (s *Server) handleLegalSearch(c *gin.Context) {
	body, ok := readObject(c, "query")
	if !ok {
		return
	}
	query := strings.ToLower(strings.TrimSpace(gjson.GetBytes(body, "query").String()))
	if query == "" {
		respondValidationError(c, "request body is invalid", []ErrorDetail{{
			Field: "query", Message: "query must not be empty", Code: "required",
		}})
		return
	}
	jurisdiction := gjson.GetBytes(body, "jurisdiction").String()
	limit := int(gjson.GetBytes(body, "limit").Int())
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	docs, _, _ := s.store.List(collDocuments, ListQuery{Limit: 1 << 20})
	var hits []searchHit
	for _, doc := range docs {
		d := gjson.ParseBytes(doc)
		if jurisdiction != "" && !strings.EqualFold(d.Get("jurisdiction").String(), jurisdiction) {
			continue
		}
		title := strings.ToLower(d.Get("title").String())
		text := strings.ToLower(d.Get("body").String())
		switch {
		case strings.Contains(title, query):
			hits = append(hits, searchHit{doc: doc, score: 1, pos: strings.Index(text, query)})
		case strings.Contains(text, query):
			hits = append(hits, searchHit{doc: doc, score: 0.5, pos: strings.Index(text, query)})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	resp := []byte(`{"results":[]}`)
	for i, h := range hits {
		if i == limit {
			break
		}
		result, _ := sjson.DeleteBytes(h.doc, "body")
		result, _ = sjson.SetBytes(result, "snippet", snippet(gjson.GetBytes(h.doc, "body").String(), h.pos, len(query)))
		result, _ = sjson.SetBytes(result, "score", h.score)
		resp, _ = sjson.SetRawBytes(resp, "results.-1", result)
	}
	resp, _ = sjson.SetBytes(resp, "total", len(hits))
	respondRaw(c, http.StatusOK, resp)
}

func (s *Server) handleGetDocument(c *gin.Context) {
	doc, ok := s.store.Get(collDocuments, c.Param("id"))
	if !ok {
		respondNotFound(c, "document not found")
		return
	}
	respondRaw(c, http.StatusOK, doc)
}

// snippet cuts the text around a match. Without a match it returns the start
// of the text.
func snippet(text string, pos, n int) string {
	if pos < 0 {
		pos, n = 0, 0
	}
	start := max(pos-snippetRadius, 0)
	end := min(pos+n+snippetRadius, len(text))
	out := strings.TrimSpace(text[start:end])
	if start > 0 {
		out = "..." + out
	}
	if end < len(text) {
		out += "..."
	}
	return out
}

// =============================================================================
// Chat completions
// =============================================================================

// handleChatCompletion answers with the last user message echoed back. Unknown
// models get the legacy error format, as the upstream router does.
func (s *Server) handleChatCompletion(c *gin.Context) {
	body, ok := readObject(c, "model", "messages")
	if !ok {
		return
	}
	model := gjson.GetBytes(body, "model").String()
	if _, ok := s.store.Get(collModels, model); !ok {
		legacyError(c, http.StatusNotFound, fmt.Sprintf("model %q does not exist", model))
		return
	}
	messages := gjson.GetBytes(body, "messages")
	if !messages.IsArray() || len(messages.Array()) == 0 {
		respondValidationError(c, "request body is invalid", []ErrorDetail{{
			Field: "messages", Message: "messages must be a non-empty array", Code: "type",
		}})
		return
	}

	var last string
	prompt := 0
	for _, m := range messages.Array() {
		content := m.Get("content").String()
		prompt += len(strings.Fields(content))
		if m.Get("role").String() == "user" {
			last = content
		}
	}
	reply := "echo: " + last
	completion := len(strings.Fields(reply))

	resp := []byte("{}")
	resp, _ = sjson.SetBytes(resp, "id", "chatcmpl-"+strings.ReplaceAll(uuid.NewString(), "-", ""))
	resp, _ = sjson.SetBytes(resp, "object", "chat.completion")
	resp, _ = sjson.SetBytes(resp, "created", s.store.now().Unix())
	resp, _ = sjson.SetBytes(resp, "model", model)
	resp, _ = sjson.SetBytes(resp, "choices.0.index", 0)
	resp, _ = sjson.SetBytes(resp, "choices.0.message.role", "assistant")
	resp, _ = sjson.SetBytes(resp, "choices.0.message.content", reply)
	resp, _ = sjson.SetBytes(resp, "choices.0.finish_reason", "stop")
	resp, _ = sjson.SetBytes(resp, "usage.prompt_tokens", prompt)
	resp, _ = sjson.SetBytes(resp, "usage.completion_tokens", completion)
	resp, _ = sjson.SetBytes(resp, "usage.total_tokens", prompt+completion)
	respondRaw(c, http.StatusOK, resp)
}

// handleListModels uses the OpenAI list shape, which carries no has_more.
func (s *Server) handleListModels(c *gin.Context) {
	docs, _, _ := s.store.List(collModels, ListQuery{Limit: 1 << 20})
	resp := []byte(`{"object":"list","data":[]}`)
	for _, doc := range docs {
		resp, _ = sjson.SetRawBytes(resp, "data.-1", doc)
	}
	respondRaw(c, http.StatusOK, resp)
}
