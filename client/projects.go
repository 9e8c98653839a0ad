package client

import (
	"context"
	"net/http"
	"time"

	"github.com/xiaoyuanzhu-com/platform-go/models"
)

// ProjectService manages projects, the ownership boundary for every other
// resource.
type ProjectService struct {
	client *Client
}

// Project is a project as returned by the API.
type Project struct{ models.Record }

func (r *Project) ID() (string, error)   { return models.Get[string](r, "id") }
func (r *Project) Name() (string, error) { return models.Get[string](r, "name") }
func (r *Project) Description() (models.Nullable[string], error) {
	return models.GetNullable[string](r, "description")
}
func (r *Project) Labels() (*map[string]string, error) {
	return models.GetOptional[map[string]string](r, "labels")
}
func (r *Project) CreatedAt() (time.Time, error) { return models.Get[time.Time](r, "created_at") }

func (r *Project) Validate() error {
	return models.Validate(r,
		models.Field("id", r.ID),
		models.Field("name", r.Name),
		models.Field("description", r.Description),
		models.OptionalField("labels", r.Labels),
		models.Field("created_at", r.CreatedAt),
	)
}

func (r *Project) Equal(other *Project) bool { return models.Equal(r, other) }

// ProjectNewParams is the body of ProjectService.New.
type ProjectNewParams struct{ models.Record }

func (r *ProjectNewParams) Name() (string, error)  { return models.Get[string](r, "name") }
func (r *ProjectNewParams) SetName(v string) error { return models.Set(r, "name", v) }
func (r *ProjectNewParams) Description() (models.Nullable[string], error) {
	return models.GetNullable[string](r, "description")
}
func (r *ProjectNewParams) SetDescription(v models.Nullable[string]) error {
	return models.SetNullable(r, "description", v)
}
func (r *ProjectNewParams) Labels() (*map[string]string, error) {
	return models.GetOptional[map[string]string](r, "labels")
}
func (r *ProjectNewParams) SetLabels(v *map[string]string) error {
	return models.SetOptional(r, "labels", v)
}

func (r *ProjectNewParams) Validate() error {
	return models.Validate(r,
		models.Field("name", r.Name),
		models.Field("description", r.Description),
		models.OptionalField("labels", r.Labels),
	)
}

func (r *ProjectNewParams) Equal(other *ProjectNewParams) bool { return models.Equal(r, other) }

// ProjectUpdateParams is a partial update. Unset fields are left alone on the
// server; a null description clears it.
type ProjectUpdateParams struct{ models.Record }

func (r *ProjectUpdateParams) Name() (*string, error)  { return models.GetOptional[string](r, "name") }
func (r *ProjectUpdateParams) SetName(v *string) error { return models.SetOptional(r, "name", v) }
func (r *ProjectUpdateParams) Description() (models.Nullable[string], error) {
	return models.GetNullable[string](r, "description")
}
func (r *ProjectUpdateParams) SetDescription(v models.Nullable[string]) error {
	return models.SetNullable(r, "description", v)
}

func (r *ProjectUpdateParams) Validate() error {
	return models.Validate(r,
		models.OptionalField("name", r.Name),
		models.Field("description", r.Description),
	)
}

func (r *ProjectUpdateParams) Equal(other *ProjectUpdateParams) bool { return models.Equal(r, other) }

// ListParams are the cursor parameters shared by list endpoints without
// filters.
type ListParams struct{ models.Record }

func (r *ListParams) Cursor() (*string, error)  { return models.GetOptional[string](r, "cursor") }
func (r *ListParams) SetCursor(v *string) error { return models.SetOptional(r, "cursor", v) }
func (r *ListParams) Limit() (*int, error)      { return models.GetOptional[int](r, "limit") }
func (r *ListParams) SetLimit(v *int) error     { return models.SetOptional(r, "limit", v) }

func (r *ListParams) Validate() error {
	return models.Validate(r,
		models.OptionalField("cursor", r.Cursor),
		models.OptionalField("limit", r.Limit),
	)
}

func (r *ListParams) Equal(other *ListParams) bool { return models.Equal(r, other) }

// New creates a project.
func (s *ProjectService) New(ctx context.Context, body *ProjectNewParams, opts ...RequestOption) (*Project, error) {
	res := &Project{}
	if err := s.client.execute(ctx, http.MethodPost, "projects", nil, body, res, opts); err != nil {
		return nil, err
	}
	return res, nil
}

// Get fetches a project by ID.
func (s *ProjectService) Get(ctx context.Context, id string, opts ...RequestOption) (*Project, error) {
	if err := requireParam("id", id); err != nil {
		return nil, err
	}
	res := &Project{}
	if err := s.client.execute(ctx, http.MethodGet, pathf("projects/%s", id), nil, nil, res, opts); err != nil {
		return nil, err
	}
	return res, nil
}

// List returns one page of projects. query may be nil.
func (s *ProjectService) List(ctx context.Context, query *ListParams, opts ...RequestOption) (*Page[Project], error) {
	if query == nil {
		query = &ListParams{}
	}
	res := &Page[Project]{}
	if err := s.client.execute(ctx, http.MethodGet, "projects", query, nil, res, opts); err != nil {
		return nil, err
	}
	return res, nil
}

// Update changes the fields present in body.
func (s *ProjectService) Update(ctx context.Context, id string, body *ProjectUpdateParams, opts ...RequestOption) (*Project, error) {
	if err := requireParam("id", id); err != nil {
		return nil, err
	}
	res := &Project{}
	if err := s.client.execute(ctx, http.MethodPatch, pathf("projects/%s", id), nil, body, res, opts); err != nil {
		return nil, err
	}
	return res, nil
}

// Delete removes a project and everything in it.
func (s *ProjectService) Delete(ctx context.Context, id string, opts ...RequestOption) error {
	if err := requireParam("id", id); err != nil {
		return err
	}
	return s.client.execute(ctx, http.MethodDelete, pathf("projects/%s", id), nil, nil, nil, opts)
}
