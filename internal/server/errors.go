// internal/server/errors.go
package server

import (
	"net/http"

	"github.com/go-chi/render"
)

type APIError struct {
	StatusCode int    `json:"status_code"`
	ErrorCode  string `json:"error_code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return e.Message
}

func NewAPIError(statusCode int, errorCode, message string) *APIError {
	return &APIError{StatusCode: statusCode, ErrorCode: errorCode, Message: message}
}

var (
	ErrInvalidRequest    = NewAPIError(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format")
	ErrUnknownTool       = NewAPIError(http.StatusNotFound, "UNKNOWN_TOOL", "Unknown tool")
	ErrRateLimitExceeded = NewAPIError(http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Rate limit exceeded")
	ErrInternalServer    = NewAPIError(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
)

func InvalidParameter(name, message string) *APIError {
	return NewAPIError(http.StatusBadRequest, "INVALID_PARAMETER", name+": "+message)
}

type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   *APIError `json:"error"`
}

func NewErrorResponse(err *APIError) *ErrorResponse {
	return &ErrorResponse{Success: false, Error: err}
}

// Render implements render.Renderer.
func (e *ErrorResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.Error.StatusCode)
	return nil
}
