// Package apitest is an in-memory fake of the platform API. It backs the
// client tests and cmd/mockserver.
package apitest

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xiaoyuanzhu-com/platform-go/log"
)

// Server owns the router and the in-memory state behind it.
type Server struct {
	apiKey string
	store  *Store
	router *gin.Engine

	mu       sync.Mutex
	faults   []Fault
	requests []CapturedRequest

	// URL is the API base URL when started by NewServer.
	URL string
}

// Fault is an error injected in place of the next response.
type Fault struct {
	Status  int
	Message string
	// Legacy sends {"error": "message"} instead of the error envelope.
	Legacy bool
}

// CapturedRequest is a request as the server received it.
type CapturedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

type Option func(*Server)

// WithAPIKey makes the server reject requests without "Bearer key".
func WithAPIKey(key string) Option {
	return func(s *Server) { s.apiKey = key }
}

// WithClock fixes the time used for created_at and similar stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.store.now = now }
}

// New creates a server with demo data loaded. Routes live under /v1.
func New(opts ...Option) *Server {
	s := &Server{store: NewStore()}
	for _, opt := range opts {
		opt(s)
	}

	// Gin's own debug logging is replaced by log.GinLogger.
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(log.GinLogger())
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(s.captureMiddleware())

	v1 := r.Group("/v1")
	v1.Use(s.authMiddleware(), s.faultMiddleware())
	s.setupRoutes(v1)

	r.NoRoute(func(c *gin.Context) {
		respondNotFound(c, "no route for "+c.Request.Method+" "+c.Request.URL.Path)
	})

	s.router = r
	s.seed()
	return s
}

// NewServer starts the fake on a local port for the duration of the test.
// URL points at the /v1 prefix.
func NewServer(t testing.TB, opts ...Option) *Server {
	t.Helper()
	s := New(opts...)
	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)
	s.URL = ts.URL + "/v1"
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the gin engine.
func (s *Server) Handler() http.Handler { return s.router }

// Store exposes the backing store so tests can seed or inspect state.
func (s *Server) Store() *Store { return s.store }

// FailNext makes the next n API requests fail with f.
func (s *Server) FailNext(n int, f Fault) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for range n {
		s.faults = append(s.faults, f)
	}
}

// Requests returns every request received so far.
func (s *Server) Requests() []CapturedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]CapturedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent request, or the zero value.
func (s *Server) LastRequest() CapturedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return CapturedRequest{}
	}
	return s.requests[len(s.requests)-1]
}

// requestIDMiddleware stamps every response with an X-Request-Id.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Request-Id", "req_"+uuid.NewString())
		c.Next()
	}
}

func (s *Server) captureMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body []byte
		if c.Request.Body != nil {
			body, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}
		s.mu.Lock()
		s.requests = append(s.requests, CapturedRequest{
			Method: c.Request.Method,
			Path:   c.Request.URL.Path,
			Query:  c.Request.URL.RawQuery,
			Header: c.Request.Header.Clone(),
			Body:   body,
		})
		s.mu.Unlock()
		c.Next()
	}
}

func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.apiKey == "" {
			c.Next()
			return
		}
		if c.GetHeader("Authorization") != "Bearer "+s.apiKey {
			respondUnauthorized(c, "invalid or missing API key")
			return
		}
		c.Next()
	}
}

func (s *Server) faultMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		if len(s.faults) == 0 {
			s.mu.Unlock()
			c.Next()
			return
		}
		f := s.faults[0]
		s.faults = s.faults[1:]
		s.mu.Unlock()

		msg := f.Message
		if msg == "" {
			msg = http.StatusText(f.Status)
		}
		if f.Legacy {
			legacyError(c, f.Status, msg)
			return
		}
		respondError(c, f.Status, codeForStatus(f.Status), msg, nil)
	}
}
