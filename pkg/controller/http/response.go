package http

import (
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/kagemusha/pkg/domain/types/apperr"
	"github.com/m-mizutani/kagemusha/pkg/utils/errors"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error details
type ErrorDetail struct {
	Message string `json:"message"`
}

// respondJSON writes a JSON response with the given status code
func respondJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		errors.Handle(r.Context(), goerr.Wrap(err, "failed to encode response"))
	}
}

// handleError maps an error to an HTTP response based on its tags
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	errors.Handle(r.Context(), err)

	status := apperr.HTTPStatusFromError(err)

	respondJSON(w, r, status, &ErrorResponse{
		Error: ErrorDetail{Message: err.Error()},
	})
}

// decodeJSON reads a JSON request body into dst
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return goerr.Wrap(err, "invalid request body", goerr.T(apperr.ErrTagValidation))
	}
	return nil
}
