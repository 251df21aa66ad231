package apperr

import (
	"net/http"

	"github.com/m-mizutani/goerr/v2"
)

// HTTPStatusFromError returns the appropriate HTTP status code based on error tags
func HTTPStatusFromError(err error) int {
	switch {
	// 404 Not Found
	case goerr.HasTag(err, ErrTagNotFound),
		goerr.HasTag(err, ErrTagVersionNotFound),
		goerr.HasTag(err, ErrTagTenantNotFound),
		goerr.HasTag(err, ErrTagPinNotFound):
		return http.StatusNotFound

	// 400 Bad Request
	case goerr.HasTag(err, ErrTagValidation),
		goerr.HasTag(err, ErrTagInvalidArgument),
		goerr.HasTag(err, ErrTagRequiredField):
		return http.StatusBadRequest

	// 409 Conflict
	case goerr.HasTag(err, ErrTagInvalidOperation):
		return http.StatusConflict

	// 502 Bad Gateway
	case goerr.HasTag(err, ErrTagLLMError):
		return http.StatusBadGateway

	// 500 Internal Server Error (default)
	default:
		return http.StatusInternalServerError
	}
}
