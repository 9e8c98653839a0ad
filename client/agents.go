package client

import (
	"context"
	"net/http"
	"time"

	"github.com/xiaoyuanzhu-com/platform-go/models"
)

// AgentService manages hosted agents and their runs.
type AgentService struct {
	client *Client
}

type AgentToolType string

const (
	AgentToolTypeFunction    AgentToolType = "function"
	AgentToolTypeWebSearch   AgentToolType = "web_search"
	AgentToolTypeCodeExec    AgentToolType = "code_execution"
	AgentToolTypeLegalSearch AgentToolType = "legal_search"
)

var agentToolTypes = models.NewEnum("AgentToolType",
	AgentToolTypeFunction,
	AgentToolTypeWebSearch,
	AgentToolTypeCodeExec,
	AgentToolTypeLegalSearch,
)

func (t AgentToolType) IsKnown() bool   { return agentToolTypes.IsKnown(t) }
func (t AgentToolType) Validate() error { return agentToolTypes.Validate(t) }

type AgentRunStatus string

const (
	AgentRunStatusQueued    AgentRunStatus = "queued"
	AgentRunStatusRunning   AgentRunStatus = "running"
	AgentRunStatusSucceeded AgentRunStatus = "succeeded"
	AgentRunStatusFailed    AgentRunStatus = "failed"
	AgentRunStatusCancelled AgentRunStatus = "cancelled"
)

var agentRunStatuses = models.NewEnum("AgentRunStatus",
	AgentRunStatusQueued,
	AgentRunStatusRunning,
	AgentRunStatusSucceeded,
	AgentRunStatusFailed,
	AgentRunStatusCancelled,
)

func (s AgentRunStatus) IsKnown() bool   { return agentRunStatuses.IsKnown(s) }
func (s AgentRunStatus) Validate() error { return agentRunStatuses.Validate(s) }

// Done reports whether the run reached a final status.
func (s AgentRunStatus) Done() bool {
	switch s {
	case AgentRunStatusSucceeded, AgentRunStatusFailed, AgentRunStatusCancelled:
		return true
	}
	return false
}

// AgentTool is a tool the agent may call. Parameters is a JSON schema and is
// passed through untouched.
type AgentTool struct{ models.Record }

func (r *AgentTool) Type() (AgentToolType, error)  { return models.Get[AgentToolType](r, "type") }
func (r *AgentTool) SetType(v AgentToolType) error { return models.Set(r, "type", v) }
func (r *AgentTool) Name() (*string, error)        { return models.GetOptional[string](r, "name") }
func (r *AgentTool) SetName(v *string) error       { return models.SetOptional(r, "name", v) }
func (r *AgentTool) Parameters() (*models.Value, error) {
	return models.GetOptional[models.Value](r, "parameters")
}
func (r *AgentTool) SetParameters(v *models.Value) error {
	return models.SetOptional(r, "parameters", v)
}

func (r *AgentTool) Validate() error {
	return models.Validate(r,
		models.Field("type", r.Type),
		models.OptionalField("name", r.Name),
		models.OptionalField("parameters", r.Parameters),
	)
}

func (r *AgentTool) Equal(other *AgentTool) bool { return models.Equal(r, other) }

type Agent struct{ models.Record }

func (r *Agent) ID() (string, error)        { return models.Get[string](r, "id") }
func (r *Agent) ProjectID() (string, error) { return models.Get[string](r, "project_id") }
func (r *Agent) Name() (string, error)      { return models.Get[string](r, "name") }
func (r *Agent) Model() (string, error)     { return models.Get[string](r, "model") }
func (r *Agent) Instructions() (models.Nullable[string], error) {
	return models.GetNullable[string](r, "instructions")
}
func (r *Agent) Tools() (*[]AgentTool, error)  { return models.GetOptional[[]AgentTool](r, "tools") }
func (r *Agent) CreatedAt() (time.Time, error) { return models.Get[time.Time](r, "created_at") }

func (r *Agent) Validate() error {
	return models.Validate(r,
		models.Field("id", r.ID),
		models.Field("project_id", r.ProjectID),
		models.Field("name", r.Name),
		models.Field("model", r.Model),
		models.Field("instructions", r.Instructions),
		models.OptionalItems("tools", r.Tools),
		models.Field("created_at", r.CreatedAt),
	)
}

func (r *Agent) Equal(other *Agent) bool { return models.Equal(r, other) }

type AgentNewParams struct{ models.Record }

func (r *AgentNewParams) ProjectID() (string, error)  { return models.Get[string](r, "project_id") }
func (r *AgentNewParams) SetProjectID(v string) error { return models.Set(r, "project_id", v) }
func (r *AgentNewParams) Name() (string, error)       { return models.Get[string](r, "name") }
func (r *AgentNewParams) SetName(v string) error      { return models.Set(r, "name", v) }
func (r *AgentNewParams) Model() (string, error)      { return models.Get[string](r, "model") }
func (r *AgentNewParams) SetModel(v string) error     { return models.Set(r, "model", v) }
func (r *AgentNewParams) Instructions() (models.Nullable[string], error) {
	return models.GetNullable[string](r, "instructions")
}
func (r *AgentNewParams) SetInstructions(v models.Nullable[string]) error {
	return models.SetNullable(r, "instructions", v)
}
func (r *AgentNewParams) Tools() (*[]AgentTool, error) {
	return models.GetOptional[[]AgentTool](r, "tools")
}
func (r *AgentNewParams) SetTools(v *[]AgentTool) error { return models.SetOptional(r, "tools", v) }

func (r *AgentNewParams) Validate() error {
	return models.Validate(r,
		models.Field("project_id", r.ProjectID),
		models.Field("name", r.Name),
		models.Field("model", r.Model),
		models.Field("instructions", r.Instructions),
		models.OptionalItems("tools", r.Tools),
	)
}

func (r *AgentNewParams) Equal(other *AgentNewParams) bool { return models.Equal(r, other) }

// AgentRun is one execution of an agent. Output is null until the run
// succeeds and holds whatever JSON the agent produced.
type AgentRun struct{ models.Record }

func (r *AgentRun) ID() (string, error)             { return models.Get[string](r, "id") }
func (r *AgentRun) AgentID() (string, error)        { return models.Get[string](r, "agent_id") }
func (r *AgentRun) Status() (AgentRunStatus, error) { return models.Get[AgentRunStatus](r, "status") }
func (r *AgentRun) Input() (string, error)          { return models.Get[string](r, "input") }
func (r *AgentRun) Output() (models.Nullable[models.Value], error) {
	return models.GetNullable[models.Value](r, "output")
}
func (r *AgentRun) Failure() (models.Nullable[ErrorPayload], error) {
	return models.GetNullable[ErrorPayload](r, "error")
}
func (r *AgentRun) CreatedAt() (time.Time, error) { return models.Get[time.Time](r, "created_at") }
func (r *AgentRun) CompletedAt() (models.Nullable[time.Time], error) {
	return models.GetNullable[time.Time](r, "completed_at")
}

func (r *AgentRun) Validate() error {
	return models.Validate(r,
		models.Field("id", r.ID),
		models.Field("agent_id", r.AgentID),
		models.Field("status", r.Status),
		models.Field("input", r.Input),
		models.Field("output", r.Output),
		models.Field("error", r.Failure),
		models.Field("created_at", r.CreatedAt),
		models.Field("completed_at", r.CompletedAt),
	)
}

func (r *AgentRun) Equal(other *AgentRun) bool { return models.Equal(r, other) }

type AgentRunParams struct{ models.Record }

func (r *AgentRunParams) Input() (string, error)  { return models.Get[string](r, "input") }
func (r *AgentRunParams) SetInput(v string) error { return models.Set(r, "input", v) }

// Variables are substituted into the agent's instructions. Passed through as
// given.
func (r *AgentRunParams) Variables() (*models.Value, error) {
	return models.GetOptional[models.Value](r, "variables")
}
func (r *AgentRunParams) SetVariables(v *models.Value) error {
	return models.SetOptional(r, "variables", v)
}

func (r *AgentRunParams) Validate() error {
	return models.Validate(r,
		models.Field("input", r.Input),
		models.OptionalField("variables", r.Variables),
	)
}

func (r *AgentRunParams) Equal(other *AgentRunParams) bool { return models.Equal(r, other) }

type AgentListParams struct{ models.Record }

func (r *AgentListParams) ProjectID() (*string, error) {
	return models.GetOptional[string](r, "project_id")
}
func (r *AgentListParams) SetProjectID(v *string) error {
	return models.SetOptional(r, "project_id", v)
}
func (r *AgentListParams) Cursor() (*string, error)  { return models.GetOptional[string](r, "cursor") }
func (r *AgentListParams) SetCursor(v *string) error { return models.SetOptional(r, "cursor", v) }
func (r *AgentListParams) Limit() (*int, error)      { return models.GetOptional[int](r, "limit") }
func (r *AgentListParams) SetLimit(v *int) error     { return models.SetOptional(r, "limit", v) }

func (r *AgentListParams) Validate() error {
	return models.Validate(r,
		models.OptionalField("project_id", r.ProjectID),
		models.OptionalField("cursor", r.Cursor),
		models.OptionalField("limit", r.Limit),
	)
}

func (r *AgentListParams) Equal(other *AgentListParams) bool { return models.Equal(r, other) }

func (s *AgentService) New(ctx context.Context, body *AgentNewParams, opts ...RequestOption) (*Agent, error) {
	res := &Agent{}
	if err := s.client.execute(ctx, http.MethodPost, "agents", nil, body, res, opts); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *AgentService) Get(ctx context.Context, id string, opts ...RequestOption) (*Agent, error) {
	if err := requireParam("id", id); err != nil {
		return nil, err
	}
	res := &Agent{}
	if err := s.client.execute(ctx, http.MethodGet, pathf("agents/%s", id), nil, nil, res, opts); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *AgentService) List(ctx context.Context, query *AgentListParams, opts ...RequestOption) (*Page[Agent], error) {
	if query == nil {
		query = &AgentListParams{}
	}
	res := &Page[Agent]{}
	if err := s.client.execute(ctx, http.MethodGet, "agents", query, nil, res, opts); err != nil {
		return nil, err
	}
	return res, nil
}

// Run starts an agent run. The returned run is usually still queued; poll
// GetRun until Status().Done().
func (s *AgentService) Run(ctx context.Context, agentID string, body *AgentRunParams, opts ...RequestOption) (*AgentRun, error) {
	if err := requireParam("agent id", agentID); err != nil {
		return nil, err
	}
	res := &AgentRun{}
	if err := s.client.execute(ctx, http.MethodPost, pathf("agents/%s/runs", agentID), nil, body, res, opts); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *AgentService) GetRun(ctx context.Context, agentID, runID string, opts ...RequestOption) (*AgentRun, error) {
	if err := requireParam("agent id", agentID); err != nil {
		return nil, err
	}
	if err := requireParam("run id", runID); err != nil {
		return nil, err
	}
	res := &AgentRun{}
	if err := s.client.execute(ctx, http.MethodGet, pathf("agents/%s/runs/%s", agentID, runID), nil, nil, res, opts); err != nil {
		return nil, err
	}
	return res, nil
}
