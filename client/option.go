package client

import (
	"net/http"
	"net/url"
	"time"

	"github.com/imroc/req/v3"
	"golang.org/x/oauth2"
)

const (
	defaultBaseURL    = "https://api.platform.dev/v1"
	defaultMaxRetries = 2
	defaultTimeout    = 60 * time.Second
)

// RequestOption adjusts how a request is sent. Options given to New apply to
// every request; options passed to a service method apply to that call only
// and win over the client's.
type RequestOption func(*requestConfig)

type jsonSet struct {
	path  string
	value any
}

type requestConfig struct {
	baseURL     string
	apiKey      string
	tokenSource oauth2.TokenSource
	header      http.Header
	query       url.Values
	jsonSets    []jsonSet
	maxRetries  int
	timeout     time.Duration
	httpClient  *req.Client
}

func newRequestConfig(opts []RequestOption) *requestConfig {
	cfg := &requestConfig{
		baseURL:    defaultBaseURL,
		header:     http.Header{},
		query:      url.Values{},
		maxRetries: defaultMaxRetries,
		timeout:    defaultTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithBaseURL points the client at another deployment, such as the fake API
// in package apitest.
func WithBaseURL(base string) RequestOption {
	return func(c *requestConfig) { c.baseURL = base }
}

// WithAPIKey sends key as a bearer token.
func WithAPIKey(key string) RequestOption {
	return func(c *requestConfig) { c.apiKey = key }
}

// WithTokenSource fetches the bearer token from ts on every request. It takes
// precedence over WithAPIKey.
func WithTokenSource(ts oauth2.TokenSource) RequestOption {
	return func(c *requestConfig) { c.tokenSource = ts }
}

// WithHeader sets a request header.
func WithHeader(key, value string) RequestOption {
	return func(c *requestConfig) { c.header.Set(key, value) }
}

// WithQuery adds a query parameter on top of the typed query params.
func WithQuery(key, value string) RequestOption {
	return func(c *requestConfig) { c.query.Add(key, value) }
}

// WithJSONSet patches the serialized request body at an sjson path
// ("metadata.source", "tools.-1") before it is sent. It is meant for fields
// the SDK does not model yet.
func WithJSONSet(path string, value any) RequestOption {
	return func(c *requestConfig) { c.jsonSets = append(c.jsonSets, jsonSet{path: path, value: value}) }
}

// WithIdempotencyKey sets the Idempotency-Key header. Mutating requests get a
// random key when retries are enabled and none is given.
func WithIdempotencyKey(key string) RequestOption {
	return WithHeader("Idempotency-Key", key)
}

// WithMaxRetries sets how often a request is retried after a connection
// error, 408, 409, 429 or 5xx response.
func WithMaxRetries(n int) RequestOption {
	return func(c *requestConfig) {
		if n < 0 {
			n = 0
		}
		c.maxRetries = n
	}
}

// WithTimeout bounds a request including its retries. Zero disables it.
func WithTimeout(d time.Duration) RequestOption {
	return func(c *requestConfig) { c.timeout = d }
}

// WithHTTPClient replaces the underlying req client, for proxies or tests.
func WithHTTPClient(hc *req.Client) RequestOption {
	return func(c *requestConfig) { c.httpClient = hc }
}
