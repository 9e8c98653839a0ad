package apitest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/sjson"
)

// =============================================================================
// Response envelopes
// =============================================================================
//
// Success responses are the bare resource, or a page for list endpoints:
//
//	{"data": [...], "has_more": false, "next_cursor": null}
//
// Errors use one envelope so clients can branch on the code:
//
//	{"error": {"code": "NOT_FOUND", "message": "...", "details": [...]}}

// ErrorCode defines standard error codes for programmatic handling
type ErrorCode string

const (
	// Client errors (4xx)
	ErrCodeBadRequest      ErrorCode = "BAD_REQUEST"       // 400 - Malformed request
	ErrCodeValidation      ErrorCode = "VALIDATION_ERROR"  // 400 - Validation failed
	ErrCodeUnauthorized    ErrorCode = "UNAUTHORIZED"      // 401 - Not authenticated
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"         // 404 - Resource not found
	ErrCodeConflict        ErrorCode = "CONFLICT"          // 409 - Resource conflict
	ErrCodeTooManyRequests ErrorCode = "TOO_MANY_REQUESTS" // 429 - Rate limited

	// Server errors (5xx)
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"      // 500 - Unexpected error
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE" // 503 - Dependency down
)

// ErrorDetail provides additional context for validation errors
type ErrorDetail struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ErrorResponse is the standard error response structure
type ErrorResponse struct {
	Error struct {
		Code    ErrorCode     `json:"code"`
		Message string        `json:"message"`
		Details []ErrorDetail `json:"details,omitempty"`
	} `json:"error"`
}

// -----------------------------------------------------------------------------
// Success helpers
// -----------------------------------------------------------------------------

func respondRaw(c *gin.Context, status int, doc []byte) {
	c.Data(status, "application/json; charset=utf-8", doc)
}

// respondPage writes stored documents as a page. next is the cursor of the
// following page, empty when this is the last one.
func respondPage(c *gin.Context, docs [][]byte, next string) {
	page := []byte(`{"data":[]}`)
	for _, doc := range docs {
		page, _ = sjson.SetRawBytes(page, "data.-1", doc)
	}
	page, _ = sjson.SetBytes(page, "has_more", next != "")
	if next != "" {
		page, _ = sjson.SetBytes(page, "next_cursor", next)
	} else {
		page, _ = sjson.SetRawBytes(page, "next_cursor", []byte("null"))
	}
	respondRaw(c, http.StatusOK, page)
}

func respondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// -----------------------------------------------------------------------------
// Error helpers
// -----------------------------------------------------------------------------

func respondError(c *gin.Context, status int, code ErrorCode, message string, details []ErrorDetail) {
	resp := ErrorResponse{}
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	c.AbortWithStatusJSON(status, resp)
}

func respondBadRequest(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, ErrCodeBadRequest, message, nil)
}

func respondValidationError(c *gin.Context, message string, details []ErrorDetail) {
	respondError(c, http.StatusBadRequest, ErrCodeValidation, message, details)
}

func respondUnauthorized(c *gin.Context, message string) {
	respondError(c, http.StatusUnauthorized, ErrCodeUnauthorized, message, nil)
}

func respondNotFound(c *gin.Context, message string) {
	respondError(c, http.StatusNotFound, ErrCodeNotFound, message, nil)
}

func respondConflict(c *gin.Context, message string) {
	respondError(c, http.StatusConflict, ErrCodeConflict, message, nil)
}

// codeForStatus picks the envelope code for an injected fault.
func codeForStatus(status int) ErrorCode {
	switch status {
	case http.StatusBadRequest:
		return ErrCodeBadRequest
	case http.StatusUnauthorized:
		return ErrCodeUnauthorized
	case http.StatusNotFound:
		return ErrCodeNotFound
	case http.StatusConflict:
		return ErrCodeConflict
	case http.StatusTooManyRequests:
		return ErrCodeTooManyRequests
	case http.StatusServiceUnavailable:
		return ErrCodeServiceUnavailable
	}
	return ErrCodeInternal
}

// legacyError writes the pre-envelope format {"error": "message"} that older
// endpoints still return.
func legacyError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}
