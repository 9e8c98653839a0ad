// Package models is the record layer shared by every request and response
// body in the SDK.
//
// A model is a struct embedding Record. Its state lives in one ordered map of
// field name to raw JSON value; typed accessors decode on demand:
//
//	type Project struct{ models.Record }
//
//	func (r *Project) Name() (string, error)       { return models.Get[string](r, "name") }
//	func (r *Project) SetName(v string) error      { return models.Set(r, "name", v) }
//	func (r *Project) Description() (models.Nullable[string], error) {
//	    return models.GetNullable[string](r, "description")
//	}
//
// # Absent and null
//
// A key missing from the map and a key holding JSON null are different
// states. Optional setters take a pointer (nil leaves the key out); nullable
// setters take a Nullable, whose Null() stores an explicit null.
//
// # Lifecycle
//
// Records are mutable while being built. The first typed read, Freeze, Equal,
// Validate, String or serialization freezes them; later assignments return
// ErrFrozen. Clone yields an unfrozen copy for "copy, patch, use" flows.
//
// # Validation
//
// Decoding never validates. Accessors report problems lazily as
// *MissingRequiredFieldError or *TypeMismatchError, and Validate walks the
// declared accessors only, so fields added by the server never cause errors.
package models
