package client

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/xiaoyuanzhu-com/platform-go/models"
	"golang.org/x/oauth2"
)

// LLMService talks to the OpenAI-compatible inference endpoints under
// /llm/v1.
type LLMService struct {
	client *Client
}

type ChatRole string

const (
	ChatRoleSystem    ChatRole = "system"
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
	ChatRoleTool      ChatRole = "tool"
)

var chatRoles = models.NewEnum("ChatRole", ChatRoleSystem, ChatRoleUser, ChatRoleAssistant, ChatRoleTool)

func (r ChatRole) IsKnown() bool   { return chatRoles.IsKnown(r) }
func (r ChatRole) Validate() error { return chatRoles.Validate(r) }

type ChatMessage struct{ models.Record }

func (r *ChatMessage) Role() (ChatRole, error)  { return models.Get[ChatRole](r, "role") }
func (r *ChatMessage) SetRole(v ChatRole) error { return models.Set(r, "role", v) }

// Content is null on assistant messages that only carry tool calls.
func (r *ChatMessage) Content() (models.Nullable[string], error) {
	return models.GetNullable[string](r, "content")
}
func (r *ChatMessage) SetContent(v models.Nullable[string]) error {
	return models.SetNullable(r, "content", v)
}
func (r *ChatMessage) Name() (*string, error)  { return models.GetOptional[string](r, "name") }
func (r *ChatMessage) SetName(v *string) error { return models.SetOptional(r, "name", v) }

func (r *ChatMessage) Validate() error {
	return models.Validate(r,
		models.Field("role", r.Role),
		models.Field("content", r.Content),
		models.OptionalField("name", r.Name),
	)
}

func (r *ChatMessage) Equal(other *ChatMessage) bool { return models.Equal(r, other) }

// NewChatMessage is a shorthand for a plain text message.
func NewChatMessage(role ChatRole, content string) ChatMessage {
	var m ChatMessage
	_ = m.SetRole(role)
	_ = m.SetContent(models.NewNullable(content))
	return m
}

type ChatCompletionParams struct{ models.Record }

func (r *ChatCompletionParams) Model() (string, error)  { return models.Get[string](r, "model") }
func (r *ChatCompletionParams) SetModel(v string) error { return models.Set(r, "model", v) }
func (r *ChatCompletionParams) Messages() ([]ChatMessage, error) {
	return models.Get[[]ChatMessage](r, "messages")
}
func (r *ChatCompletionParams) SetMessages(v []ChatMessage) error {
	return models.Set(r, "messages", v)
}
func (r *ChatCompletionParams) Temperature() (*float64, error) {
	return models.GetOptional[float64](r, "temperature")
}
func (r *ChatCompletionParams) SetTemperature(v *float64) error {
	return models.SetOptional(r, "temperature", v)
}
func (r *ChatCompletionParams) MaxTokens() (*int, error) {
	return models.GetOptional[int](r, "max_tokens")
}
func (r *ChatCompletionParams) SetMaxTokens(v *int) error {
	return models.SetOptional(r, "max_tokens", v)
}
func (r *ChatCompletionParams) Stop() (*[]string, error) { return models.GetOptional[[]string](r, "stop") }
func (r *ChatCompletionParams) SetStop(v *[]string) error {
	return models.SetOptional(r, "stop", v)
}
func (r *ChatCompletionParams) Metadata() (*models.Value, error) {
	return models.GetOptional[models.Value](r, "metadata")
}
func (r *ChatCompletionParams) SetMetadata(v *models.Value) error {
	return models.SetOptional(r, "metadata", v)
}

func (r *ChatCompletionParams) Validate() error {
	return models.Validate(r,
		models.Field("model", r.Model),
		models.Items("messages", r.Messages),
		models.OptionalField("temperature", r.Temperature),
		models.OptionalField("max_tokens", r.MaxTokens),
		models.OptionalField("stop", r.Stop),
		models.OptionalField("metadata", r.Metadata),
	)
}

func (r *ChatCompletionParams) Equal(other *ChatCompletionParams) bool { return models.Equal(r, other) }

type ChatCompletionChoice struct{ models.Record }

func (r *ChatCompletionChoice) Index() (int, error)           { return models.Get[int](r, "index") }
func (r *ChatCompletionChoice) Message() (ChatMessage, error) { return models.Get[ChatMessage](r, "message") }
func (r *ChatCompletionChoice) FinishReason() (models.Nullable[string], error) {
	return models.GetNullable[string](r, "finish_reason")
}

func (r *ChatCompletionChoice) Validate() error {
	return models.Validate(r,
		models.Field("index", r.Index),
		models.Field("message", r.Message),
		models.Field("finish_reason", r.FinishReason),
	)
}

func (r *ChatCompletionChoice) Equal(other *ChatCompletionChoice) bool { return models.Equal(r, other) }

type ChatUsage struct{ models.Record }

func (r *ChatUsage) PromptTokens() (int, error)     { return models.Get[int](r, "prompt_tokens") }
func (r *ChatUsage) CompletionTokens() (int, error) { return models.Get[int](r, "completion_tokens") }
func (r *ChatUsage) TotalTokens() (int, error)      { return models.Get[int](r, "total_tokens") }

func (r *ChatUsage) Validate() error {
	return models.Validate(r,
		models.Field("prompt_tokens", r.PromptTokens),
		models.Field("completion_tokens", r.CompletionTokens),
		models.Field("total_tokens", r.TotalTokens),
	)
}

func (r *ChatUsage) Equal(other *ChatUsage) bool { return models.Equal(r, other) }

type ChatCompletion struct{ models.Record }

func (r *ChatCompletion) ID() (string, error)     { return models.Get[string](r, "id") }
func (r *ChatCompletion) Object() (string, error) { return models.Get[string](r, "object") }
func (r *ChatCompletion) Created() (int64, error) { return models.Get[int64](r, "created") }
func (r *ChatCompletion) Model() (string, error)  { return models.Get[string](r, "model") }
func (r *ChatCompletion) Choices() ([]ChatCompletionChoice, error) {
	return models.Get[[]ChatCompletionChoice](r, "choices")
}
func (r *ChatCompletion) Usage() (*ChatUsage, error) { return models.GetOptional[ChatUsage](r, "usage") }

func (r *ChatCompletion) Validate() error {
	return models.Validate(r,
		models.Field("id", r.ID),
		models.Field("object", r.Object),
		models.Field("created", r.Created),
		models.Field("model", r.Model),
		models.Items("choices", r.Choices),
		models.OptionalField("usage", r.Usage),
	)
}

func (r *ChatCompletion) Equal(other *ChatCompletion) bool { return models.Equal(r, other) }

type LLMModel struct{ models.Record }

func (r *LLMModel) ID() (string, error)      { return models.Get[string](r, "id") }
func (r *LLMModel) Object() (string, error)  { return models.Get[string](r, "object") }
func (r *LLMModel) OwnedBy() (string, error) { return models.Get[string](r, "owned_by") }
func (r *LLMModel) Created() (*int64, error) { return models.GetOptional[int64](r, "created") }
func (r *LLMModel) ContextWindow() (*int, error) {
	return models.GetOptional[int](r, "context_window")
}

func (r *LLMModel) Validate() error {
	return models.Validate(r,
		models.Field("id", r.ID),
		models.Field("object", r.Object),
		models.Field("owned_by", r.OwnedBy),
		models.OptionalField("created", r.Created),
		models.OptionalField("context_window", r.ContextWindow),
	)
}

func (r *LLMModel) Equal(other *LLMModel) bool { return models.Equal(r, other) }

func (s *LLMService) NewChatCompletion(ctx context.Context, body *ChatCompletionParams, opts ...RequestOption) (*ChatCompletion, error) {
	res := &ChatCompletion{}
	if err := s.client.execute(ctx, http.MethodPost, "llm/v1/chat/completions", nil, body, res, opts); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *LLMService) ListModels(ctx context.Context, opts ...RequestOption) (*Page[LLMModel], error) {
	res := &Page[LLMModel]{}
	if err := s.client.execute(ctx, http.MethodGet, "llm/v1/models", nil, nil, res, opts); err != nil {
		return nil, err
	}
	return res, nil
}

// OpenAI returns a go-openai client bound to the same deployment and
// credentials, for features this package does not model such as streaming.
// It shares the SDK's connection pool.
func (s *LLMService) OpenAI(opts ...RequestOption) *openai.Client {
	cfg := newRequestConfig(slices.Concat(s.client.opts, opts))

	oc := openai.DefaultConfig(cfg.apiKey)
	oc.BaseURL = strings.TrimRight(cfg.baseURL, "/") + "/llm/v1"

	hc := cfg.httpClient
	if hc == nil {
		hc = s.client.http
	}
	httpClient := *hc.GetClient()
	if cfg.tokenSource != nil {
		base := httpClient.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		httpClient.Transport = &oauth2.Transport{Source: cfg.tokenSource, Base: base}
	}
	if cfg.timeout > 0 {
		httpClient.Timeout = cfg.timeout
	}
	oc.HTTPClient = &httpClient
	return openai.NewClientWithConfig(oc)
}
