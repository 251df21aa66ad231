package agent

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/kagemusha/pkg/domain/types/apperr"
)

const (
	// TemperatureMin and TemperatureMax bound the sampling temperature.
	// Semantics of a given value are defined by the provider.
	TemperatureMin = 0.0
	TemperatureMax = 2.0

	maxSystemPromptLength = 10000
	maxModelLength        = 100
)

// ValidateConfig validates a candidate Config before registration. It
// names the violated field constraint in the returned error.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return goerr.New("config cannot be nil", goerr.T(apperr.ErrTagValidation))
	}

	if cfg.Version == "" {
		return goerr.New("version cannot be empty",
			goerr.T(apperr.ErrTagValidation),
			goerr.TV(apperr.VersionKey, cfg.Version))
	}

	if cfg.SystemPrompt == "" {
		return goerr.New("system prompt cannot be empty",
			goerr.T(apperr.ErrTagValidation),
			goerr.TV(apperr.VersionKey, cfg.Version))
	}

	if len(cfg.SystemPrompt) > maxSystemPromptLength {
		return goerr.New("system prompt cannot be longer than 10000 characters",
			goerr.T(apperr.ErrTagValidation),
			goerr.TV(apperr.VersionKey, cfg.Version))
	}

	if !cfg.Provider.IsValid() {
		return goerr.New("unsupported LLM provider",
			goerr.T(apperr.ErrTagValidation),
			goerr.TV(apperr.LLMProviderKey, cfg.Provider.String()),
			goerr.TV(apperr.VersionKey, cfg.Version))
	}

	if cfg.Model == "" {
		return goerr.New("LLM model cannot be empty",
			goerr.T(apperr.ErrTagValidation),
			goerr.TV(apperr.VersionKey, cfg.Version))
	}

	if len(cfg.Model) > maxModelLength {
		return goerr.New("LLM model cannot be longer than 100 characters",
			goerr.T(apperr.ErrTagValidation),
			goerr.TV(apperr.VersionKey, cfg.Version))
	}

	if cfg.Temperature < TemperatureMin || cfg.Temperature > TemperatureMax {
		return goerr.New("temperature must be within [0, 2]",
			goerr.T(apperr.ErrTagValidation),
			goerr.V("temperature", cfg.Temperature),
			goerr.TV(apperr.VersionKey, cfg.Version))
	}

	if cfg.MaxTokens != nil && *cfg.MaxTokens <= 0 {
		return goerr.New("max tokens must be positive",
			goerr.T(apperr.ErrTagValidation),
			goerr.V("max_tokens", *cfg.MaxTokens),
			goerr.TV(apperr.VersionKey, cfg.Version))
	}

	return nil
}
