package client

import (
	"slices"

	"github.com/imroc/req/v3"
	"github.com/xiaoyuanzhu-com/platform-go/config"
	"github.com/xiaoyuanzhu-com/platform-go/log"
)

// Version is sent in the User-Agent header.
const Version = "0.4.0"

// Client is the entry point to the API. Services share the client's options
// and HTTP connection pool. A Client is safe for concurrent use.
type Client struct {
	opts []RequestOption
	http *req.Client

	Projects  *ProjectService
	Instances *InstanceService
	Vaults    *VaultService
	Databases *DatabaseService
	Agents    *AgentService
	Legal     *LegalService
	LLM       *LLMService
}

// New creates a client. Without options it talks to the production API with
// no credentials; see NewFromEnv.
func New(opts ...RequestOption) *Client {
	c := &Client{
		opts: slices.Clone(opts),
		http: req.C().
			SetUserAgent("platform-go/" + Version).
			SetLogger(log.ReqLogger()),
	}
	c.Projects = &ProjectService{client: c}
	c.Instances = &InstanceService{client: c}
	c.Vaults = &VaultService{client: c}
	c.Databases = &DatabaseService{client: c}
	c.Agents = &AgentService{client: c}
	c.Legal = &LegalService{client: c}
	c.LLM = &LLMService{client: c}
	return c
}

// NewFromEnv creates a client configured from PLATFORM_* environment
// variables. opts are applied after the environment.
func NewFromEnv(opts ...RequestOption) *Client {
	cfg := config.Get()
	defaults := []RequestOption{
		WithBaseURL(cfg.BaseURL),
		WithMaxRetries(cfg.MaxRetries),
		WithTimeout(cfg.Timeout),
	}
	if cfg.APIKey != "" {
		defaults = append(defaults, WithAPIKey(cfg.APIKey))
	} else {
		log.Warn().Msg("PLATFORM_API_KEY not configured, requests are unauthenticated")
	}
	return New(slices.Concat(defaults, opts)...)
}

// WithOptions returns a new client with opts appended to c's options. c is
// left unchanged.
func (c *Client) WithOptions(opts ...RequestOption) *Client {
	derived := New(slices.Concat(c.opts, opts)...)
	derived.http = c.http
	return derived
}
