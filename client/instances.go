package client

import (
	"context"
	"net/http"
	"time"

	"github.com/xiaoyuanzhu-com/platform-go/models"
)

// InstanceService manages compute instances.
type InstanceService struct {
	client *Client
}

type InstanceStatus string

const (
	InstanceStatusPending    InstanceStatus = "pending"
	InstanceStatusRunning    InstanceStatus = "running"
	InstanceStatusStopping   InstanceStatus = "stopping"
	InstanceStatusStopped    InstanceStatus = "stopped"
	InstanceStatusTerminated InstanceStatus = "terminated"
)

var instanceStatuses = models.NewEnum("InstanceStatus",
	InstanceStatusPending,
	InstanceStatusRunning,
	InstanceStatusStopping,
	InstanceStatusStopped,
	InstanceStatusTerminated,
)

func (s InstanceStatus) IsKnown() bool   { return instanceStatuses.IsKnown(s) }
func (s InstanceStatus) Validate() error { return instanceStatuses.Validate(s) }

// Instance is a virtual machine in a project.
type Instance struct{ models.Record }

func (r *Instance) ID() (string, error)             { return models.Get[string](r, "id") }
func (r *Instance) ProjectID() (string, error)      { return models.Get[string](r, "project_id") }
func (r *Instance) Name() (string, error)           { return models.Get[string](r, "name") }
func (r *Instance) MachineType() (string, error)    { return models.Get[string](r, "machine_type") }
func (r *Instance) Region() (*string, error)        { return models.GetOptional[string](r, "region") }
func (r *Instance) Status() (InstanceStatus, error) { return models.Get[InstanceStatus](r, "status") }
func (r *Instance) IPAddress() (models.Nullable[string], error) {
	return models.GetNullable[string](r, "ip_address")
}
func (r *Instance) Metadata() (*models.Value, error) {
	return models.GetOptional[models.Value](r, "metadata")
}
func (r *Instance) CreatedAt() (time.Time, error) { return models.Get[time.Time](r, "created_at") }

func (r *Instance) Validate() error {
	return models.Validate(r,
		models.Field("id", r.ID),
		models.Field("project_id", r.ProjectID),
		models.Field("name", r.Name),
		models.Field("machine_type", r.MachineType),
		models.OptionalField("region", r.Region),
		models.Field("status", r.Status),
		models.Field("ip_address", r.IPAddress),
		models.OptionalField("metadata", r.Metadata),
		models.Field("created_at", r.CreatedAt),
	)
}

func (r *Instance) Equal(other *Instance) bool { return models.Equal(r, other) }

// InstanceNewParams is the body of InstanceService.New.
type InstanceNewParams struct{ models.Record }

func (r *InstanceNewParams) ProjectID() (string, error)  { return models.Get[string](r, "project_id") }
func (r *InstanceNewParams) SetProjectID(v string) error { return models.Set(r, "project_id", v) }
func (r *InstanceNewParams) Name() (string, error)       { return models.Get[string](r, "name") }
func (r *InstanceNewParams) SetName(v string) error      { return models.Set(r, "name", v) }
func (r *InstanceNewParams) MachineType() (string, error) {
	return models.Get[string](r, "machine_type")
}
func (r *InstanceNewParams) SetMachineType(v string) error {
	return models.Set(r, "machine_type", v)
}
func (r *InstanceNewParams) Region() (*string, error)  { return models.GetOptional[string](r, "region") }
func (r *InstanceNewParams) SetRegion(v *string) error { return models.SetOptional(r, "region", v) }
func (r *InstanceNewParams) Metadata() (*models.Value, error) {
	return models.GetOptional[models.Value](r, "metadata")
}
func (r *InstanceNewParams) SetMetadata(v *models.Value) error {
	return models.SetOptional(r, "metadata", v)
}

func (r *InstanceNewParams) Validate() error {
	return models.Validate(r,
		models.Field("project_id", r.ProjectID),
		models.Field("name", r.Name),
		models.Field("machine_type", r.MachineType),
		models.OptionalField("region", r.Region),
		models.OptionalField("metadata", r.Metadata),
	)
}

func (r *InstanceNewParams) Equal(other *InstanceNewParams) bool { return models.Equal(r, other) }

// InstanceListParams filters InstanceService.List.
type InstanceListParams struct{ models.Record }

func (r *InstanceListParams) ProjectID() (*string, error) {
	return models.GetOptional[string](r, "project_id")
}
func (r *InstanceListParams) SetProjectID(v *string) error {
	return models.SetOptional(r, "project_id", v)
}
func (r *InstanceListParams) Status() (*InstanceStatus, error) {
	return models.GetOptional[InstanceStatus](r, "status")
}
func (r *InstanceListParams) SetStatus(v *InstanceStatus) error {
	return models.SetOptional(r, "status", v)
}
func (r *InstanceListParams) Cursor() (*string, error)  { return models.GetOptional[string](r, "cursor") }
func (r *InstanceListParams) SetCursor(v *string) error { return models.SetOptional(r, "cursor", v) }
func (r *InstanceListParams) Limit() (*int, error)      { return models.GetOptional[int](r, "limit") }
func (r *InstanceListParams) SetLimit(v *int) error     { return models.SetOptional(r, "limit", v) }

func (r *InstanceListParams) Validate() error {
	return models.Validate(r,
		models.OptionalField("project_id", r.ProjectID),
		models.OptionalField("status", r.Status),
		models.OptionalField("cursor", r.Cursor),
		models.OptionalField("limit", r.Limit),
	)
}

func (r *InstanceListParams) Equal(other *InstanceListParams) bool { return models.Equal(r, other) }

// New launches an instance. It is returned in status pending.
func (s *InstanceService) New(ctx context.Context, body *InstanceNewParams, opts ...RequestOption) (*Instance, error) {
	res := &Instance{}
	if err := s.client.execute(ctx, http.MethodPost, "instances", nil, body, res, opts); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *InstanceService) Get(ctx context.Context, id string, opts ...RequestOption) (*Instance, error) {
	if err := requireParam("id", id); err != nil {
		return nil, err
	}
	res := &Instance{}
	if err := s.client.execute(ctx, http.MethodGet, pathf("instances/%s", id), nil, nil, res, opts); err != nil {
		return nil, err
	}
	return res, nil
}

// List returns one page of instances. query may be nil.
func (s *InstanceService) List(ctx context.Context, query *InstanceListParams, opts ...RequestOption) (*Page[Instance], error) {
	if query == nil {
		query = &InstanceListParams{}
	}
	res := &Page[Instance]{}
	if err := s.client.execute(ctx, http.MethodGet, "instances", query, nil, res, opts); err != nil {
		return nil, err
	}
	return res, nil
}

// Start boots a stopped instance.
func (s *InstanceService) Start(ctx context.Context, id string, opts ...RequestOption) (*Instance, error) {
	return s.action(ctx, id, "start", opts)
}

// Stop shuts an instance down without releasing it.
func (s *InstanceService) Stop(ctx context.Context, id string, opts ...RequestOption) (*Instance, error) {
	return s.action(ctx, id, "stop", opts)
}

// Delete terminates an instance.
func (s *InstanceService) Delete(ctx context.Context, id string, opts ...RequestOption) error {
	if err := requireParam("id", id); err != nil {
		return err
	}
	return s.client.execute(ctx, http.MethodDelete, pathf("instances/%s", id), nil, nil, nil, opts)
}

func (s *InstanceService) action(ctx context.Context, id, action string, opts []RequestOption) (*Instance, error) {
	if err := requireParam("id", id); err != nil {
		return nil, err
	}
	res := &Instance{}
	if err := s.client.execute(ctx, http.MethodPost, pathf("instances/%s/", id)+action, nil, nil, res, opts); err != nil {
		return nil, err
	}
	return res, nil
}
