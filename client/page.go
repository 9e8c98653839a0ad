package client

import "github.com/xiaoyuanzhu-com/platform-go/models"

// Page is one page of a list endpoint: {"data": [...], "has_more": bool,
// "next_cursor": string|null}.
type Page[T any] struct{ models.Record }

func (r *Page[T]) Data() ([]T, error) { return models.Get[[]T](r, "data") }

// HasMore reports whether another page exists. A missing flag means false.
func (r *Page[T]) HasMore() (bool, error) {
	more, err := models.GetOptional[bool](r, "has_more")
	if err != nil || more == nil {
		return false, err
	}
	return *more, nil
}

func (r *Page[T]) NextCursor() (models.Nullable[string], error) {
	return models.GetNullable[string](r, "next_cursor")
}

func (r *Page[T]) Validate() error {
	return models.Validate(r,
		models.Items("data", r.Data),
		models.Field("has_more", r.HasMore),
		models.Field("next_cursor", r.NextCursor),
	)
}

func (r *Page[T]) Equal(other *Page[T]) bool { return models.Equal(r, other) }
