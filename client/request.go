package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/imroc/req/v3"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
	"github.com/xiaoyuanzhu-com/platform-go/log"
	"github.com/xiaoyuanzhu-com/platform-go/models"
)

// Request is a fully prepared API call. It is attached to every APIError and
// logged at debug level.
type Request struct {
	Method string
	Path   string
	Header http.Header
	Query  url.Values
	Body   []byte
}

// URL joins the request path onto base.
func (r *Request) URL(base string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(r.Path, "/")
}

// String renders the request with its header, query and body partitions.
// Credentials are redacted.
func (r *Request) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s /%s", r.Method, strings.TrimLeft(r.Path, "/"))

	if len(r.Header) > 0 {
		b.WriteString("\nheader:")
		keys := make([]string, 0, len(r.Header))
		for k := range r.Header {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			v := strings.Join(r.Header[k], ", ")
			if k == "Authorization" {
				v = "<redacted>"
			}
			fmt.Fprintf(&b, "\n  %s: %s", k, v)
		}
	}
	if len(r.Query) > 0 {
		fmt.Fprintf(&b, "\nquery: %s", r.Query.Encode())
	}
	if len(r.Body) > 0 {
		b.WriteString("\nbody: ")
		b.WriteString(strings.TrimSuffix(string(pretty.Pretty(r.Body)), "\n"))
	}
	return b.String()
}

// bodyMarshaler is satisfied by every params record.
type bodyMarshaler interface {
	MarshalJSON() ([]byte, error)
}

func buildRequest(method, path string, query models.Model, body bodyMarshaler, cfg *requestConfig) (*Request, error) {
	r := &Request{
		Method: method,
		Path:   path,
		Header: cfg.header.Clone(),
		Query:  url.Values{},
	}

	switch {
	case cfg.tokenSource != nil:
		tok, err := cfg.tokenSource.Token()
		if err != nil {
			return nil, fmt.Errorf("fetch token: %w", err)
		}
		r.Header.Set("Authorization", tok.Type()+" "+tok.AccessToken)
	case cfg.apiKey != "":
		r.Header.Set("Authorization", "Bearer "+cfg.apiKey)
	}

	if method != http.MethodGet && cfg.maxRetries > 0 && r.Header.Get("Idempotency-Key") == "" {
		r.Header.Set("Idempotency-Key", uuid.NewString())
	}

	if query != nil {
		r.Query = models.URLQuery(query)
	}
	for k, vs := range cfg.query {
		for _, v := range vs {
			r.Query.Add(k, v)
		}
	}

	var data []byte
	if body != nil {
		encoded, err := body.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		data = encoded
	}
	if len(cfg.jsonSets) > 0 && data == nil {
		data = []byte("{}")
	}
	for _, s := range cfg.jsonSets {
		patched, err := sjson.SetBytes(data, s.path, s.value)
		if err != nil {
			return nil, fmt.Errorf("set body path %q: %w", s.path, err)
		}
		data = patched
	}
	r.Body = data
	return r, nil
}

func (c *Client) execute(ctx context.Context, method, path string, query models.Model, body bodyMarshaler, out json.Unmarshaler, opts []RequestOption) error {
	cfg := newRequestConfig(slices.Concat(c.opts, opts))

	request, err := buildRequest(method, path, query, body, cfg)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	if cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = c.http
	}
	r := hc.R().SetContext(ctx)
	for k, vs := range request.Header {
		for _, v := range vs {
			r.SetHeader(k, v)
		}
	}
	for k, vs := range request.Query {
		for _, v := range vs {
			r.AddQueryParam(k, v)
		}
	}
	if request.Body != nil {
		r.SetBodyJsonBytes(request.Body)
	}
	if cfg.maxRetries > 0 {
		r.SetRetryCount(cfg.maxRetries).
			SetRetryBackoffInterval(500*time.Millisecond, 8*time.Second).
			SetRetryCondition(shouldRetry)
	}

	log.Debug().Str("request", request.String()).Msg("sending request")

	start := time.Now()
	resp, err := r.Send(method, request.URL(cfg.baseURL))
	if err != nil {
		log.Debug().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Str("request_id", resp.Header.Get("X-Request-Id")).
		Msg("response")

	if resp.IsErrorState() {
		return newAPIError(request, resp.StatusCode, resp.Header, resp.Bytes())
	}
	if out == nil {
		return nil
	}
	data := resp.Bytes()
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := out.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

func shouldRetry(resp *req.Response, err error) bool {
	if err != nil {
		return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
	}
	if resp == nil || resp.Response == nil {
		return false
	}
	switch code := resp.StatusCode; {
	case code == http.StatusRequestTimeout, code == http.StatusConflict, code == http.StatusTooManyRequests:
		return true
	case code >= http.StatusInternalServerError:
		return true
	}
	return false
}

// pathf builds a request path, escaping each argument as one path segment.
func pathf(format string, args ...string) string {
	escaped := make([]any, len(args))
	for i, a := range args {
		escaped[i] = url.PathEscape(a)
	}
	return fmt.Sprintf(format, escaped...)
}

func requireParam(name, value string) error {
	if value == "" {
		return fmt.Errorf("missing required %s parameter", name)
	}
	return nil
}
