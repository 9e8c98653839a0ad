package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/xiaoyuanzhu-com/platform-go/models"
)

// APIError is returned for every non-2xx response.
type APIError struct {
	StatusCode int
	Code       string // machine-readable code from the error envelope, if any
	Message    string
	RequestID  string
	Details    []ErrorDetail

	// Body is the decoded response body. Fields the SDK does not know about
	// are kept.
	Body    *ErrorBody
	Request *Request
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s /%s: %d", e.Request.Method, strings.TrimLeft(e.Request.Path, "/"), e.StatusCode)
	if e.Code != "" {
		fmt.Fprintf(&b, " %s", e.Code)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	if e.RequestID != "" {
		fmt.Fprintf(&b, " (request %s)", e.RequestID)
	}
	return b.String()
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// ErrorBody is the standard error envelope: {"error": {...}}. Older endpoints
// send {"error": "message"}.
type ErrorBody struct{ models.Record }

func (r *ErrorBody) Equal(other *ErrorBody) bool { return models.Equal(r, other) }

// Detail returns the structured error object.
func (r *ErrorBody) Detail() (*ErrorPayload, error) {
	return models.GetOptional[ErrorPayload](r, "error")
}

// LegacyMessage returns the error when it was sent as a bare string.
func (r *ErrorBody) LegacyMessage() (*string, error) {
	return models.GetOptional[string](r, "error")
}

// ErrorPayload carries the code and message of a failed request.
type ErrorPayload struct{ models.Record }

func (r *ErrorPayload) Code() (string, error)    { return models.Get[string](r, "code") }
func (r *ErrorPayload) Message() (string, error) { return models.Get[string](r, "message") }
func (r *ErrorPayload) Details() (*[]ErrorDetail, error) {
	return models.GetOptional[[]ErrorDetail](r, "details")
}

func (r *ErrorPayload) Validate() error {
	return models.Validate(r,
		models.Field("code", r.Code),
		models.Field("message", r.Message),
		models.OptionalItems("details", r.Details),
	)
}

func (r *ErrorPayload) Equal(other *ErrorPayload) bool { return models.Equal(r, other) }

// ErrorDetail explains a validation failure on one field.
type ErrorDetail struct{ models.Record }

func (r *ErrorDetail) FieldName() (*string, error) { return models.GetOptional[string](r, "field") }
func (r *ErrorDetail) Message() (string, error)    { return models.Get[string](r, "message") }
func (r *ErrorDetail) Code() (*string, error)      { return models.GetOptional[string](r, "code") }

func (r *ErrorDetail) Validate() error {
	return models.Validate(r,
		models.OptionalField("field", r.FieldName),
		models.Field("message", r.Message),
		models.OptionalField("code", r.Code),
	)
}

func (r *ErrorDetail) Equal(other *ErrorDetail) bool { return models.Equal(r, other) }

func newAPIError(request *Request, status int, header http.Header, data []byte) *APIError {
	e := &APIError{
		StatusCode: status,
		RequestID:  header.Get("X-Request-Id"),
		Request:    request,
	}

	if obj, err := models.ParseObject(data); err == nil {
		e.Body = models.FromRawUnchecked[ErrorBody](obj)
		if payload, err := e.Body.Detail(); err == nil && payload != nil {
			e.Code, _ = payload.Code()
			e.Message, _ = payload.Message()
			if details, err := payload.Details(); err == nil && details != nil {
				e.Details = *details
			}
		} else if msg, err := e.Body.LegacyMessage(); err == nil && msg != nil {
			e.Message = *msg
		}
	}

	if e.Message == "" {
		e.Message = strings.TrimSpace(string(data))
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}
