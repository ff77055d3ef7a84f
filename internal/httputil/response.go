package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/nixfunds/finance-api/internal/apperror"
	"github.com/nixfunds/finance-api/internal/logging"
)

const maxBodyBytes = 1 << 20

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Message string   `json:"message"`
	Code    string   `json:"code,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// MessageResponse is a body carrying only a human-readable message
type MessageResponse struct {
	Message string `json:"message"`
}

// RespondJSON sends a JSON response with the given status code. The status is
// already on the wire when encoding fails, so the failure is only logged.
func RespondJSON(w http.ResponseWriter, r *http.Request, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.GetLoggerFromContext(r.Context()).Error("failed to encode JSON response",
			"status", statusCode,
			"error", err.Error(),
		)
	}
}

// RespondMessage sends {"message": msg}.
func RespondMessage(w http.ResponseWriter, r *http.Request, message string, statusCode int) {
	RespondJSON(w, r, MessageResponse{Message: message}, statusCode)
}

// RespondError is the single place errors become HTTP responses. AppErrors
// keep their status and message; anything else is logged and reported as a
// bare 500 so driver details never reach the client.
func RespondError(w http.ResponseWriter, r *http.Request, err error) {
	logger := logging.GetLoggerFromContext(r.Context())

	appErr, ok := apperror.As(err)
	if !ok || appErr.Kind == apperror.Internal {
		logger.Error("request failed", "error", err.Error())
		RespondJSON(w, r, ErrorResponse{Message: "Internal server error", Code: "INTERNAL_ERROR"}, http.StatusInternalServerError)
		return
	}

	RespondJSON(w, r, ErrorResponse{
		Message: appErr.Message,
		Code:    appErr.Code(),
		Errors:  appErr.Details,
	}, appErr.StatusCode())
}

// DecodeJSON reads a JSON body into dst. Malformed or oversized bodies become
// Validation errors.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return apperror.NewValidation("request body too large")
		case errors.Is(err, io.EOF):
			return apperror.NewValidation("request body is empty")
		default:
			return apperror.NewValidation("invalid request body")
		}
	}
	return nil
}
