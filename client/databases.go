package client

import (
	"context"
	"net/http"
	"time"

	"github.com/xiaoyuanzhu-com/platform-go/models"
)

// DatabaseService exposes managed databases and their copy-on-write
// branches.
type DatabaseService struct {
	client *Client
}

type DatabaseEngine string

const (
	DatabaseEnginePostgres DatabaseEngine = "postgres"
	DatabaseEngineMySQL    DatabaseEngine = "mysql"
)

var databaseEngines = models.NewEnum("DatabaseEngine", DatabaseEnginePostgres, DatabaseEngineMySQL)

func (e DatabaseEngine) IsKnown() bool   { return databaseEngines.IsKnown(e) }
func (e DatabaseEngine) Validate() error { return databaseEngines.Validate(e) }

type BranchStatus string

const (
	BranchStatusCreating  BranchStatus = "creating"
	BranchStatusReady     BranchStatus = "ready"
	BranchStatusResetting BranchStatus = "resetting"
	BranchStatusDeleting  BranchStatus = "deleting"
)

var branchStatuses = models.NewEnum("BranchStatus",
	BranchStatusCreating,
	BranchStatusReady,
	BranchStatusResetting,
	BranchStatusDeleting,
)

func (s BranchStatus) IsKnown() bool   { return branchStatuses.IsKnown(s) }
func (s BranchStatus) Validate() error { return branchStatuses.Validate(s) }

type Database struct{ models.Record }

func (r *Database) ID() (string, error)              { return models.Get[string](r, "id") }
func (r *Database) ProjectID() (string, error)       { return models.Get[string](r, "project_id") }
func (r *Database) Name() (string, error)            { return models.Get[string](r, "name") }
func (r *Database) Engine() (DatabaseEngine, error)  { return models.Get[DatabaseEngine](r, "engine") }
func (r *Database) DefaultBranchID() (string, error) { return models.Get[string](r, "default_branch_id") }
func (r *Database) CreatedAt() (time.Time, error)    { return models.Get[time.Time](r, "created_at") }

func (r *Database) Validate() error {
	return models.Validate(r,
		models.Field("id", r.ID),
		models.Field("project_id", r.ProjectID),
		models.Field("name", r.Name),
		models.Field("engine", r.Engine),
		models.Field("default_branch_id", r.DefaultBranchID),
		models.Field("created_at", r.CreatedAt),
	)
}

func (r *Database) Equal(other *Database) bool { return models.Equal(r, other) }

// Branch is a point-in-time copy of a database. The default branch has a null
// parent.
type Branch struct{ models.Record }

func (r *Branch) ID() (string, error)         { return models.Get[string](r, "id") }
func (r *Branch) DatabaseID() (string, error) { return models.Get[string](r, "database_id") }
func (r *Branch) Name() (string, error)       { return models.Get[string](r, "name") }
func (r *Branch) ParentBranchID() (models.Nullable[string], error) {
	return models.GetNullable[string](r, "parent_branch_id")
}
func (r *Branch) Status() (BranchStatus, error)   { return models.Get[BranchStatus](r, "status") }
func (r *Branch) ConnectionURI() (*string, error) { return models.GetOptional[string](r, "connection_uri") }
func (r *Branch) CreatedAt() (time.Time, error)   { return models.Get[time.Time](r, "created_at") }

func (r *Branch) Validate() error {
	return models.Validate(r,
		models.Field("id", r.ID),
		models.Field("database_id", r.DatabaseID),
		models.Field("name", r.Name),
		models.Field("parent_branch_id", r.ParentBranchID),
		models.Field("status", r.Status),
		models.OptionalField("connection_uri", r.ConnectionURI),
		models.Field("created_at", r.CreatedAt),
	)
}

func (r *Branch) Equal(other *Branch) bool { return models.Equal(r, other) }

type BranchNewParams struct{ models.Record }

func (r *BranchNewParams) Name() (string, error)  { return models.Get[string](r, "name") }
func (r *BranchNewParams) SetName(v string) error { return models.Set(r, "name", v) }

// ParentBranchID defaults to the database's default branch when unset.
func (r *BranchNewParams) ParentBranchID() (*string, error) {
	return models.GetOptional[string](r, "parent_branch_id")
}
func (r *BranchNewParams) SetParentBranchID(v *string) error {
	return models.SetOptional(r, "parent_branch_id", v)
}

func (r *BranchNewParams) Validate() error {
	return models.Validate(r,
		models.Field("name", r.Name),
		models.OptionalField("parent_branch_id", r.ParentBranchID),
	)
}

func (r *BranchNewParams) Equal(other *BranchNewParams) bool { return models.Equal(r, other) }

type DatabaseListParams struct{ models.Record }

func (r *DatabaseListParams) ProjectID() (*string, error) {
	return models.GetOptional[string](r, "project_id")
}
func (r *DatabaseListParams) SetProjectID(v *string) error {
	return models.SetOptional(r, "project_id", v)
}
func (r *DatabaseListParams) Engine() (*DatabaseEngine, error) {
	return models.GetOptional[DatabaseEngine](r, "engine")
}
func (r *DatabaseListParams) SetEngine(v *DatabaseEngine) error {
	return models.SetOptional(r, "engine", v)
}
func (r *DatabaseListParams) Cursor() (*string, error)  { return models.GetOptional[string](r, "cursor") }
func (r *DatabaseListParams) SetCursor(v *string) error { return models.SetOptional(r, "cursor", v) }
func (r *DatabaseListParams) Limit() (*int, error)      { return models.GetOptional[int](r, "limit") }
func (r *DatabaseListParams) SetLimit(v *int) error     { return models.SetOptional(r, "limit", v) }

func (r *DatabaseListParams) Validate() error {
	return models.Validate(r,
		models.OptionalField("project_id", r.ProjectID),
		models.OptionalField("engine", r.Engine),
		models.OptionalField("cursor", r.Cursor),
		models.OptionalField("limit", r.Limit),
	)
}

func (r *DatabaseListParams) Equal(other *DatabaseListParams) bool { return models.Equal(r, other) }

func (s *DatabaseService) Get(ctx context.Context, id string, opts ...RequestOption) (*Database, error) {
	if err := requireParam("id", id); err != nil {
		return nil, err
	}
	res := &Database{}
	if err := s.client.execute(ctx, http.MethodGet, pathf("databases/%s", id), nil, nil, res, opts); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *DatabaseService) List(ctx context.Context, query *DatabaseListParams, opts ...RequestOption) (*Page[Database], error) {
	if query == nil {
		query = &DatabaseListParams{}
	}
	res := &Page[Database]{}
	if err := s.client.execute(ctx, http.MethodGet, "databases", query, nil, res, opts); err != nil {
		return nil, err
	}
	return res, nil
}

// NewBranch forks a branch from body's parent, or from the default branch.
func (s *DatabaseService) NewBranch(ctx context.Context, databaseID string, body *BranchNewParams, opts ...RequestOption) (*Branch, error) {
	if err := requireParam("database id", databaseID); err != nil {
		return nil, err
	}
	res := &Branch{}
	if err := s.client.execute(ctx, http.MethodPost, pathf("databases/%s/branches", databaseID), nil, body, res, opts); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *DatabaseService) ListBranches(ctx context.Context, databaseID string, query *ListParams, opts ...RequestOption) (*Page[Branch], error) {
	if err := requireParam("database id", databaseID); err != nil {
		return nil, err
	}
	if query == nil {
		query = &ListParams{}
	}
	res := &Page[Branch]{}
	if err := s.client.execute(ctx, http.MethodGet, pathf("databases/%s/branches", databaseID), query, nil, res, opts); err != nil {
		return nil, err
	}
	return res, nil
}

// ResetBranch discards a branch's changes and re-forks it from its parent.
func (s *DatabaseService) ResetBranch(ctx context.Context, databaseID, branchID string, opts ...RequestOption) (*Branch, error) {
	if err := requireParam("database id", databaseID); err != nil {
		return nil, err
	}
	if err := requireParam("branch id", branchID); err != nil {
		return nil, err
	}
	res := &Branch{}
	if err := s.client.execute(ctx, http.MethodPost, pathf("databases/%s/branches/%s/reset", databaseID, branchID), nil, nil, res, opts); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *DatabaseService) DeleteBranch(ctx context.Context, databaseID, branchID string, opts ...RequestOption) error {
	if err := requireParam("database id", databaseID); err != nil {
		return err
	}
	if err := requireParam("branch id", branchID); err != nil {
		return err
	}
	return s.client.execute(ctx, http.MethodDelete, pathf("databases/%s/branches/%s", databaseID, branchID), nil, nil, nil, opts)
}
