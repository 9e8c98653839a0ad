package client

import (
	"context"
	"net/http"
	"time"

	"github.com/xiaoyuanzhu-com/platform-go/models"
)

// VaultService stores secrets for a project.
type VaultService struct {
	client *Client
}

// Vault is a named secret store.
type Vault struct{ models.Record }

func (r *Vault) ID() (string, error)           { return models.Get[string](r, "id") }
func (r *Vault) ProjectID() (string, error)    { return models.Get[string](r, "project_id") }
func (r *Vault) Name() (string, error)         { return models.Get[string](r, "name") }
func (r *Vault) SecretCount() (*int, error)    { return models.GetOptional[int](r, "secret_count") }
func (r *Vault) CreatedAt() (time.Time, error) { return models.Get[time.Time](r, "created_at") }

func (r *Vault) Validate() error {
	return models.Validate(r,
		models.Field("id", r.ID),
		models.Field("project_id", r.ProjectID),
		models.Field("name", r.Name),
		models.OptionalField("secret_count", r.SecretCount),
		models.Field("created_at", r.CreatedAt),
	)
}

func (r *Vault) Equal(other *Vault) bool { return models.Equal(r, other) }

type VaultNewParams struct{ models.Record }

func (r *VaultNewParams) ProjectID() (string, error)  { return models.Get[string](r, "project_id") }
func (r *VaultNewParams) SetProjectID(v string) error { return models.Set(r, "project_id", v) }
func (r *VaultNewParams) Name() (string, error)       { return models.Get[string](r, "name") }
func (r *VaultNewParams) SetName(v string) error      { return models.Set(r, "name", v) }

func (r *VaultNewParams) Validate() error {
	return models.Validate(r,
		models.Field("project_id", r.ProjectID),
		models.Field("name", r.Name),
	)
}

func (r *VaultNewParams) Equal(other *VaultNewParams) bool { return models.Equal(r, other) }

type VaultListParams struct{ models.Record }

func (r *VaultListParams) ProjectID() (*string, error) {
	return models.GetOptional[string](r, "project_id")
}
func (r *VaultListParams) SetProjectID(v *string) error {
	return models.SetOptional(r, "project_id", v)
}
func (r *VaultListParams) Cursor() (*string, error)  { return models.GetOptional[string](r, "cursor") }
func (r *VaultListParams) SetCursor(v *string) error { return models.SetOptional(r, "cursor", v) }
func (r *VaultListParams) Limit() (*int, error)      { return models.GetOptional[int](r, "limit") }
func (r *VaultListParams) SetLimit(v *int) error     { return models.SetOptional(r, "limit", v) }

func (r *VaultListParams) Validate() error {
	return models.Validate(r,
		models.OptionalField("project_id", r.ProjectID),
		models.OptionalField("cursor", r.Cursor),
		models.OptionalField("limit", r.Limit),
	)
}

func (r *VaultListParams) Equal(other *VaultListParams) bool { return models.Equal(r, other) }

// Secret is one key in a vault. Value is only returned by GetSecret.
type Secret struct{ models.Record }

func (r *Secret) Key() (string, error)     { return models.Get[string](r, "key") }
func (r *Secret) VaultID() (string, error) { return models.Get[string](r, "vault_id") }
func (r *Secret) Value() (*string, error)  { return models.GetOptional[string](r, "value") }
func (r *Secret) Version() (int, error)    { return models.Get[int](r, "version") }
func (r *Secret) UpdatedAt() (time.Time, error) {
	return models.Get[time.Time](r, "updated_at")
}

func (r *Secret) Validate() error {
	return models.Validate(r,
		models.Field("key", r.Key),
		models.Field("vault_id", r.VaultID),
		models.OptionalField("value", r.Value),
		models.Field("version", r.Version),
		models.Field("updated_at", r.UpdatedAt),
	)
}

func (r *Secret) Equal(other *Secret) bool { return models.Equal(r, other) }

type SecretPutParams struct{ models.Record }

func (r *SecretPutParams) Value() (string, error)  { return models.Get[string](r, "value") }
func (r *SecretPutParams) SetValue(v string) error { return models.Set(r, "value", v) }

// ExpiresAt is nullable: an explicit null removes a previous expiry.
func (r *SecretPutParams) ExpiresAt() (models.Nullable[time.Time], error) {
	return models.GetNullable[time.Time](r, "expires_at")
}
func (r *SecretPutParams) SetExpiresAt(v models.Nullable[time.Time]) error {
	return models.SetNullable(r, "expires_at", v)
}

func (r *SecretPutParams) Validate() error {
	return models.Validate(r,
		models.Field("value", r.Value),
		models.Field("expires_at", r.ExpiresAt),
	)
}

func (r *SecretPutParams) Equal(other *SecretPutParams) bool { return models.Equal(r, other) }

func (s *VaultService) New(ctx context.Context, body *VaultNewParams, opts ...RequestOption) (*Vault, error) {
	res := &Vault{}
	if err := s.client.execute(ctx, http.MethodPost, "vaults", nil, body, res, opts); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *VaultService) Get(ctx context.Context, id string, opts ...RequestOption) (*Vault, error) {
	if err := requireParam("id", id); err != nil {
		return nil, err
	}
	res := &Vault{}
	if err := s.client.execute(ctx, http.MethodGet, pathf("vaults/%s", id), nil, nil, res, opts); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *VaultService) List(ctx context.Context, query *VaultListParams, opts ...RequestOption) (*Page[Vault], error) {
	if query == nil {
		query = &VaultListParams{}
	}
	res := &Page[Vault]{}
	if err := s.client.execute(ctx, http.MethodGet, "vaults", query, nil, res, opts); err != nil {
		return nil, err
	}
	return res, nil
}

// PutSecret creates or replaces the secret at key, bumping its version.
func (s *VaultService) PutSecret(ctx context.Context, vaultID, key string, body *SecretPutParams, opts ...RequestOption) (*Secret, error) {
	if err := requireParam("vault id", vaultID); err != nil {
		return nil, err
	}
	if err := requireParam("key", key); err != nil {
		return nil, err
	}
	res := &Secret{}
	if err := s.client.execute(ctx, http.MethodPut, pathf("vaults/%s/secrets/%s", vaultID, key), nil, body, res, opts); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *VaultService) GetSecret(ctx context.Context, vaultID, key string, opts ...RequestOption) (*Secret, error) {
	if err := requireParam("vault id", vaultID); err != nil {
		return nil, err
	}
	if err := requireParam("key", key); err != nil {
		return nil, err
	}
	res := &Secret{}
	if err := s.client.execute(ctx, http.MethodGet, pathf("vaults/%s/secrets/%s", vaultID, key), nil, nil, res, opts); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *VaultService) DeleteSecret(ctx context.Context, vaultID, key string, opts ...RequestOption) error {
	if err := requireParam("vault id", vaultID); err != nil {
		return err
	}
	if err := requireParam("key", key); err != nil {
		return err
	}
	return s.client.execute(ctx, http.MethodDelete, pathf("vaults/%s/secrets/%s", vaultID, key), nil, nil, nil, opts)
}
