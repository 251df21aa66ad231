package config

import (
	"log/slog"

	"github.com/m-mizutani/kagemusha/pkg/domain/types"
	"github.com/m-mizutani/kagemusha/pkg/service/llm"
	"github.com/urfave/cli/v3"
)

// LLM holds the credentials for LLM providers. Providers without
// credentials are simply unavailable at runtime; the server still
// starts so that registry and routing endpoints work without any
// LLM configured.
type LLM struct {
	claudeAPIKey   string
	openaiAPIKey   string
	geminiProject  string
	geminiLocation string
}

// Flags returns CLI flags for LLM provider credentials
func (x *LLM) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "claude-api-key",
			Category:    "llm",
			Usage:       "Anthropic API key for Claude models",
			Sources:     cli.EnvVars("KAGEMUSHA_CLAUDE_API_KEY"),
			Destination: &x.claudeAPIKey,
		},
		&cli.StringFlag{
			Name:        "openai-api-key",
			Category:    "llm",
			Usage:       "OpenAI API key",
			Sources:     cli.EnvVars("KAGEMUSHA_OPENAI_API_KEY"),
			Destination: &x.openaiAPIKey,
		},
		&cli.StringFlag{
			Name:        "gemini-project-id",
			Category:    "llm",
			Usage:       "Google Cloud project ID for Gemini models",
			Sources:     cli.EnvVars("KAGEMUSHA_GEMINI_PROJECT_ID"),
			Destination: &x.geminiProject,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Category:    "llm",
			Usage:       "Google Cloud location for Gemini models",
			Sources:     cli.EnvVars("KAGEMUSHA_GEMINI_LOCATION"),
			Value:       "us-central1",
			Destination: &x.geminiLocation,
		},
	}
}

// LogValue returns the LLM configuration as a slog.Value, masking secrets
func (x LLM) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("claude_configured", x.claudeAPIKey != ""),
		slog.Bool("openai_configured", x.openaiAPIKey != ""),
		slog.Bool("gemini_configured", x.geminiProject != ""),
		slog.String("gemini_location", x.geminiLocation),
	)
}

// BuildFactory creates an LLM client factory from the configured credentials
func (x *LLM) BuildFactory() *llm.Factory {
	credentials := make(map[types.LLMProvider]llm.Credential)

	if x.claudeAPIKey != "" {
		credentials[types.LLMProviderClaude] = llm.Credential{
			APIKey: x.claudeAPIKey,
		}
	}

	if x.openaiAPIKey != "" {
		credentials[types.LLMProviderOpenAI] = llm.Credential{
			APIKey: x.openaiAPIKey,
		}
	}

	if x.geminiProject != "" {
		credentials[types.LLMProviderGemini] = llm.Credential{
			ProjectID: x.geminiProject,
			Location:  x.geminiLocation,
		}
	}

	return llm.NewFactory(credentials)
}
