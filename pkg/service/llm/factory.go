package llm

import (
	"context"
	"fmt"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/claude"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/m-mizutani/gollem/llm/openai"
	"github.com/m-mizutani/kagemusha/pkg/domain/types"
	"github.com/m-mizutani/kagemusha/pkg/domain/types/apperr"
)

// Credential holds authentication information for LLM providers
type Credential struct {
	APIKey    string
	ProjectID string // For Gemini/VertexAI
	Location  string // For Gemini/VertexAI
}

// Factory creates and caches LLM clients per provider/model pair
type Factory struct {
	credentials map[types.LLMProvider]Credential

	mu      sync.Mutex
	clients map[string]gollem.LLMClient
}

// NewFactory creates a new LLM factory
func NewFactory(credentials map[types.LLMProvider]Credential) *Factory {
	return &Factory{
		credentials: credentials,
		clients:     make(map[string]gollem.LLMClient),
	}
}

// ReadyProviders returns the providers that have credentials configured
func (f *Factory) ReadyProviders() []types.LLMProvider {
	ready := make([]types.LLMProvider, 0, len(f.credentials))
	for provider, cred := range f.credentials {
		switch provider {
		case types.LLMProviderOpenAI, types.LLMProviderClaude:
			if cred.APIKey != "" {
				ready = append(ready, provider)
			}
		case types.LLMProviderGemini:
			if cred.ProjectID != "" && cred.Location != "" {
				ready = append(ready, provider)
			}
		}
	}
	return ready
}

// CreateClient creates an LLM client for the given provider and model,
// reusing a cached client when one exists
func (f *Factory) CreateClient(ctx context.Context, provider types.LLMProvider, model string) (gollem.LLMClient, error) {
	if !provider.IsValid() {
		return nil, goerr.New("unsupported provider",
			goerr.TV(apperr.LLMProviderKey, provider.String()))
	}
	if model == "" {
		return nil, goerr.New("model is required",
			goerr.TV(apperr.LLMProviderKey, provider.String()))
	}

	cacheKey := fmt.Sprintf("%s:%s", provider, model)

	f.mu.Lock()
	defer f.mu.Unlock()

	if client, exists := f.clients[cacheKey]; exists {
		return client, nil
	}

	cred, exists := f.credentials[provider]
	if !exists {
		return nil, goerr.Wrap(apperr.ErrLLMNotConfigured, "no credentials configured for provider",
			goerr.TV(apperr.LLMProviderKey, provider.String()))
	}

	var client gollem.LLMClient
	var err error

	switch provider {
	case types.LLMProviderGemini:
		if cred.ProjectID == "" {
			return nil, goerr.Wrap(apperr.ErrLLMNotConfigured, "Gemini requires project ID")
		}
		client, err = gemini.New(ctx, cred.ProjectID, cred.Location, gemini.WithModel(model))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create Gemini client")
		}

	case types.LLMProviderClaude:
		if cred.APIKey == "" {
			return nil, goerr.Wrap(apperr.ErrLLMNotConfigured, "Claude requires API key")
		}
		client, err = claude.New(ctx, cred.APIKey, claude.WithModel(model))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create Claude client")
		}

	case types.LLMProviderOpenAI:
		if cred.APIKey == "" {
			return nil, goerr.Wrap(apperr.ErrLLMNotConfigured, "OpenAI requires API key")
		}
		client, err = openai.New(ctx, cred.APIKey, openai.WithModel(model))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create OpenAI client")
		}
	}

	f.clients[cacheKey] = client

	return client, nil
}
