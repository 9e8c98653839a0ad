package client

import (
	"context"
	"net/http"

	"github.com/xiaoyuanzhu-com/platform-go/models"
)

// LegalService searches the legal document corpus.
type LegalService struct {
	client *Client
}

type LegalSearchParams struct{ models.Record }

func (r *LegalSearchParams) Query() (string, error)  { return models.Get[string](r, "query") }
func (r *LegalSearchParams) SetQuery(v string) error { return models.Set(r, "query", v) }
func (r *LegalSearchParams) Jurisdiction() (*string, error) {
	return models.GetOptional[string](r, "jurisdiction")
}
func (r *LegalSearchParams) SetJurisdiction(v *string) error {
	return models.SetOptional(r, "jurisdiction", v)
}
func (r *LegalSearchParams) Limit() (*int, error)  { return models.GetOptional[int](r, "limit") }
func (r *LegalSearchParams) SetLimit(v *int) error { return models.SetOptional(r, "limit", v) }

func (r *LegalSearchParams) Validate() error {
	return models.Validate(r,
		models.Field("query", r.Query),
		models.OptionalField("jurisdiction", r.Jurisdiction),
		models.OptionalField("limit", r.Limit),
	)
}

func (r *LegalSearchParams) Equal(other *LegalSearchParams) bool { return models.Equal(r, other) }

type LegalDocument struct{ models.Record }

func (r *LegalDocument) ID() (string, error)           { return models.Get[string](r, "id") }
func (r *LegalDocument) Title() (string, error)        { return models.Get[string](r, "title") }
func (r *LegalDocument) Jurisdiction() (string, error) { return models.Get[string](r, "jurisdiction") }
func (r *LegalDocument) Citation() (models.Nullable[string], error) {
	return models.GetNullable[string](r, "citation")
}

// Snippet is set on search hits only.
func (r *LegalDocument) Snippet() (*string, error) { return models.GetOptional[string](r, "snippet") }

// Body is set by GetDocument only.
func (r *LegalDocument) Body() (*string, error) { return models.GetOptional[string](r, "body") }

// Score is the search relevance in [0, 1].
func (r *LegalDocument) Score() (*float64, error) { return models.GetOptional[float64](r, "score") }

func (r *LegalDocument) Validate() error {
	return models.Validate(r,
		models.Field("id", r.ID),
		models.Field("title", r.Title),
		models.Field("jurisdiction", r.Jurisdiction),
		models.Field("citation", r.Citation),
		models.OptionalField("snippet", r.Snippet),
		models.OptionalField("body", r.Body),
		models.OptionalField("score", r.Score),
	)
}

func (r *LegalDocument) Equal(other *LegalDocument) bool { return models.Equal(r, other) }

type LegalSearchResponse struct{ models.Record }

func (r *LegalSearchResponse) Results() ([]LegalDocument, error) {
	return models.Get[[]LegalDocument](r, "results")
}
func (r *LegalSearchResponse) Total() (int, error) { return models.Get[int](r, "total") }

func (r *LegalSearchResponse) Validate() error {
	return models.Validate(r,
		models.Items("results", r.Results),
		models.Field("total", r.Total),
	)
}

func (r *LegalSearchResponse) Equal(other *LegalSearchResponse) bool { return models.Equal(r, other) }

// Search runs a full-text search. The query travels in the body so long
// queries are not truncated by proxies.
func (s *LegalService) Search(ctx context.Context, body *LegalSearchParams, opts ...RequestOption) (*LegalSearchResponse, error) {
	res := &LegalSearchResponse{}
	if err := s.client.execute(ctx, http.MethodPost, "legal/search", nil, body, res, opts); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *LegalService) GetDocument(ctx context.Context, id string, opts ...RequestOption) (*LegalDocument, error) {
	if err := requireParam("id", id); err != nil {
		return nil, err
	}
	res := &LegalDocument{}
	if err := s.client.execute(ctx, http.MethodGet, pathf("legal/documents/%s", id), nil, nil, res, opts); err != nil {
		return nil, err
	}
	return res, nil
}
