package apperr

import "github.com/m-mizutani/goerr/v2"

// NotFound errors (HTTP 404)
var (
	ErrTagNotFound        = goerr.NewTag("not_found")
	ErrTagVersionNotFound = goerr.NewTag("version_not_found")
	ErrTagTenantNotFound  = goerr.NewTag("tenant_not_found")
	ErrTagPinNotFound     = goerr.NewTag("pin_not_found")
)

// Validation errors (HTTP 400)
var (
	ErrTagValidation      = goerr.NewTag("validation")
	ErrTagInvalidArgument = goerr.NewTag("invalid_argument")
	ErrTagRequiredField   = goerr.NewTag("required_field")
)

// Conflict errors (HTTP 409)
var (
	ErrTagInvalidOperation = goerr.NewTag("invalid_operation")
)

// External service errors (HTTP 502)
var (
	ErrTagLLMError = goerr.NewTag("llm_error")
)

// System errors (HTTP 500)
var (
	ErrTagInternal = goerr.NewTag("internal")
)
