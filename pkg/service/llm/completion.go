package llm

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/kagemusha/pkg/domain/model/agent"
	"github.com/m-mizutani/kagemusha/pkg/domain/model/execution"
	"github.com/m-mizutani/kagemusha/pkg/domain/types"
	"github.com/m-mizutani/kagemusha/pkg/domain/types/apperr"
)

// CostFunc estimates the monetary cost of one completion. Cost
// accounting is the caller's concern; without a CostFunc every result
// reports zero cost.
type CostFunc func(provider types.LLMProvider, model string, inputTokens, outputTokens int) float64

// Client implements interfaces.CompletionClient on top of gollem.
// Provider errors are returned unchanged; there is no retry here.
type Client struct {
	factory *Factory
	costFn  CostFunc
}

// ClientOption is a functional option for Client
type ClientOption func(*Client)

// WithCostFunc sets the cost estimator
func WithCostFunc(fn CostFunc) ClientOption {
	return func(c *Client) {
		c.costFn = fn
	}
}

// NewClient creates a completion client backed by the factory
func NewClient(factory *Factory, opts ...ClientOption) *Client {
	c := &Client{factory: factory}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Complete generates a completion for the given config and input
func (c *Client) Complete(ctx context.Context, cfg *agent.Config, input string) (*execution.Result, error) {
	if cfg == nil {
		return nil, goerr.New("config cannot be nil", goerr.T(apperr.ErrTagValidation))
	}

	llmClient, err := c.factory.CreateClient(ctx, cfg.Provider, cfg.Model)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create LLM client",
			goerr.TV(apperr.VersionKey, cfg.Version))
	}

	ssn, err := llmClient.NewSession(ctx, gollem.WithSessionSystemPrompt(cfg.SystemPrompt))
	if err != nil {
		return nil, goerr.Wrap(apperr.ErrLLMAPIFailed, err.Error(),
			goerr.TV(apperr.LLMProviderKey, cfg.Provider.String()),
			goerr.TV(apperr.LLMModelKey, cfg.Model))
	}

	resp, err := ssn.GenerateContent(ctx, gollem.Text(input))
	if err != nil {
		return nil, goerr.Wrap(err, "LLM generation failed",
			goerr.T(apperr.ErrTagLLMError),
			goerr.TV(apperr.LLMProviderKey, cfg.Provider.String()),
			goerr.TV(apperr.LLMModelKey, cfg.Model))
	}

	result := &execution.Result{
		Output:       strings.Join(resp.Texts, "\n"),
		InputTokens:  resp.InputToken,
		OutputTokens: resp.OutputToken,
	}
	if c.costFn != nil {
		result.Cost = c.costFn(cfg.Provider, cfg.Model, result.InputTokens, result.OutputTokens)
	}

	return result, nil
}
