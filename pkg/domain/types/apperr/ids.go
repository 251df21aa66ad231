package apperr

import "github.com/m-mizutani/goerr/v2"

// Version related errors
var (
	ErrVersionNotFound = goerr.New("version not found",
		goerr.T(ErrTagVersionNotFound)).ID("ERR_VERSION_NOT_FOUND")

	ErrNoVersionAvailable = goerr.New("no version available",
		goerr.T(ErrTagVersionNotFound)).ID("ERR_NO_VERSION_AVAILABLE")

	ErrDefaultVersionInUse = goerr.New("cannot remove the current default version",
		goerr.T(ErrTagInvalidOperation)).ID("ERR_DEFAULT_VERSION_IN_USE")
)

// Routing related errors
var (
	ErrInvalidStrategy = goerr.New("unknown routing strategy",
		goerr.T(ErrTagInvalidArgument)).ID("ERR_INVALID_STRATEGY")

	ErrUserIDRequired = goerr.New("user ID is required",
		goerr.T(ErrTagRequiredField)).ID("ERR_USER_ID_REQUIRED")
)

// LLM related errors
var (
	ErrLLMNotConfigured = goerr.New("LLM not configured",
		goerr.T(ErrTagInternal)).ID("ERR_LLM_NOT_CONFIGURED")

	ErrLLMAPIFailed = goerr.New("LLM API call failed",
		goerr.T(ErrTagLLMError)).ID("ERR_LLM_API_FAILED")
)
