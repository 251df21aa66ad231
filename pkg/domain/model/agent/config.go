package agent

import (
	"time"

	"github.com/m-mizutani/kagemusha/pkg/domain/types"
)

// Config is a versioned agent configuration. Once registered it is
// immutable: the registry stores and returns copies, never the caller's
// pointer.
type Config struct {
	Version      string            `json:"version" yaml:"version"`
	SystemPrompt string            `json:"system_prompt" yaml:"system_prompt"`
	Provider     types.LLMProvider `json:"provider" yaml:"provider"`
	Model        string            `json:"model" yaml:"model"`
	Temperature  float64           `json:"temperature" yaml:"temperature"`
	MaxTokens    *int              `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
	Parameters   map[string]any    `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Metadata     *ConfigMetadata   `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// ConfigMetadata holds optional descriptive fields for a config
type ConfigMetadata struct {
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	Author      string    `json:"author,omitempty" yaml:"author,omitempty"`
	Tags        []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Clone returns a deep copy of the config
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := *c

	if c.MaxTokens != nil {
		v := *c.MaxTokens
		clone.MaxTokens = &v
	}

	if c.Parameters != nil {
		clone.Parameters = make(map[string]any, len(c.Parameters))
		for k, v := range c.Parameters {
			clone.Parameters[k] = v
		}
	}

	if c.Metadata != nil {
		meta := *c.Metadata
		if c.Metadata.Tags != nil {
			meta.Tags = append([]string(nil), c.Metadata.Tags...)
		}
		clone.Metadata = &meta
	}

	return &clone
}
