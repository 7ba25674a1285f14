package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ksdfg/bill-splitter/internal/validation"
)

// ErrorResponse is the body of every non-validation error.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// ValidationErrorResponse lists every invalid field of a request.
type ValidationErrorResponse struct {
	Detail validation.Errors `json:"detail"`
}

// HealthResponse is returned by the health check.
type HealthResponse struct {
	Status string `json:"status"`
}

// JSON sends a JSON response with the given status code
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}

// Error sends an error JSON response
func Error(w http.ResponseWriter, status int, detail string) {
	JSON(w, status, ErrorResponse{Detail: detail})
}

// ValidationError sends the field errors with status 422.
func ValidationError(w http.ResponseWriter, errs validation.Errors) {
	JSON(w, http.StatusUnprocessableEntity, ValidationErrorResponse{Detail: errs})
}
