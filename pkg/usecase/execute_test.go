package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/kagemusha/pkg/adapters/memory"
	"github.com/m-mizutani/kagemusha/pkg/domain/model/agent"
	"github.com/m-mizutani/kagemusha/pkg/domain/model/execution"
	"github.com/m-mizutani/kagemusha/pkg/domain/model/routing"
	"github.com/m-mizutani/kagemusha/pkg/domain/types"
	"github.com/m-mizutani/kagemusha/pkg/domain/types/apperr"
	"github.com/m-mizutani/kagemusha/pkg/service/registry"
	"github.com/m-mizutani/kagemusha/pkg/service/router"
	"github.com/m-mizutani/kagemusha/pkg/usecase"
	"github.com/m-mizutani/kagemusha/pkg/utils/async"
)

// mockCompletion records the config it was called with and returns a
// canned result or error
type mockCompletion struct {
	lastConfig *agent.Config
	result     *execution.Result
	err        error
}

func (m *mockCompletion) Complete(ctx context.Context, cfg *agent.Config, input string) (*execution.Result, error) {
	m.lastConfig = cfg
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func setupExecutor(t *testing.T) (*usecase.UseCases, *mockCompletion, *memory.RecordSink) {
	t.Helper()
	ctx := context.Background()

	reg := registry.New()
	gt.NoError(t, reg.Register(ctx, &agent.Config{
		Version:      "v1.0",
		SystemPrompt: "You are a helpful assistant.",
		Provider:     types.LLMProviderOpenAI,
		Model:        "gpt-4o",
		Temperature:  0.7,
	}))

	rt := router.New(reg)
	completion := &mockCompletion{
		result: &execution.Result{
			Output:       "hello there",
			InputTokens:  12,
			OutputTokens: 4,
			Cost:         0.0003,
		},
	}
	sink := memory.NewRecordSink()

	uc := usecase.New(
		usecase.WithRegistry(reg),
		usecase.WithRouter(rt),
		usecase.WithCompletionClient(completion),
		usecase.WithRecordSink(sink),
	)
	return uc, completion, sink
}

func TestExecute(t *testing.T) {
	// Sync mode makes the sink dispatch synchronous for assertions
	ctx := async.WithSyncMode(context.Background())
	uc, _, sink := setupExecutor(t)

	record, err := uc.Execute(ctx, &routing.Context{UserID: "u1", Input: "hi"}, "")
	gt.NoError(t, err)
	gt.V(t, record).NotNil()
	gt.Equal(t, record.Version, "v1.0")
	gt.Equal(t, record.Output, "hello there")
	gt.Equal(t, record.InputTokens, 12)
	gt.Equal(t, record.OutputTokens, 4)
	gt.Equal(t, record.Cost, 0.0003)
	gt.Equal(t, record.UserID, types.UserID("u1"))
	gt.True(t, record.ID.IsValid())

	gt.Equal(t, sink.Len(ctx), 1)
	gt.Equal(t, sink.List(ctx)[0].Version, "v1.0")
}

func TestExecuteAppliesTenantOverrides(t *testing.T) {
	ctx := async.WithSyncMode(context.Background())
	uc, completion, _ := setupExecutor(t)

	temp := 0.1
	model := "gpt-4o-mini"
	gt.NoError(t, uc.Router().SetTenantConfig(ctx, "acme", &routing.TenantConfig{
		Overrides: &routing.Overrides{Temperature: &temp, Model: &model},
	}))

	_, err := uc.Execute(ctx, &routing.Context{UserID: "u1", TenantID: "acme", Input: "hi"}, "")
	gt.NoError(t, err)

	gt.V(t, completion.lastConfig).NotNil()
	gt.Equal(t, completion.lastConfig.Temperature, 0.1)
	gt.Equal(t, completion.lastConfig.Model, "gpt-4o-mini")

	// The registered config itself stays untouched
	cfg, ok := uc.Registry().Get(ctx, "v1.0")
	gt.True(t, ok)
	gt.Equal(t, cfg.Temperature, 0.7)
	gt.Equal(t, cfg.Model, "gpt-4o")
}

func TestExecutePropagatesProviderError(t *testing.T) {
	ctx := async.WithSyncMode(context.Background())
	uc, completion, sink := setupExecutor(t)
	completion.err = goerr.New("provider is on fire")

	record, err := uc.Execute(ctx, &routing.Context{UserID: "u1", Input: "hi"}, "")
	gt.Error(t, err)

	// The failed execution is still recorded
	gt.V(t, record).NotNil()
	gt.Equal(t, sink.Len(ctx), 1)
	failed := sink.List(ctx)[0]
	gt.Equal(t, failed.Error, "provider is on fire")
	gt.Equal(t, failed.Output, "")
}

func TestExecuteResolutionFailure(t *testing.T) {
	ctx := async.WithSyncMode(context.Background())
	uc, _, sink := setupExecutor(t)

	_, err := uc.Execute(ctx, &routing.Context{UserID: "u1", Version: "v9.9", Input: "hi"}, "")
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, apperr.ErrTagVersionNotFound))
	gt.Equal(t, sink.Len(ctx), 0)
}

func TestExecuteSinkFailureDoesNotFailRequest(t *testing.T) {
	ctx := async.WithSyncMode(context.Background())
	uc, _, _ := setupExecutor(t)

	failing := &failingSink{}
	uc2 := usecase.New(
		usecase.WithRegistry(uc.Registry()),
		usecase.WithRouter(uc.Router()),
		usecase.WithCompletionClient(&mockCompletion{result: &execution.Result{Output: "ok"}}),
		usecase.WithRecordSink(failing),
	)

	record, err := uc2.Execute(ctx, &routing.Context{UserID: "u1", Input: "hi"}, "")
	gt.NoError(t, err)
	gt.Equal(t, record.Output, "ok")
}

type failingSink struct{}

func (s *failingSink) Put(ctx context.Context, record *execution.Record) error {
	return goerr.New("sink unavailable")
}

func TestExecuteClock(t *testing.T) {
	ctx := async.WithSyncMode(context.Background())
	uc, _, _ := setupExecutor(t)

	fixed := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	uc2 := usecase.New(
		usecase.WithRegistry(uc.Registry()),
		usecase.WithRouter(uc.Router()),
		usecase.WithCompletionClient(&mockCompletion{result: &execution.Result{Output: "ok"}}),
		usecase.WithClock(func() time.Time { return fixed }),
	)

	record, err := uc2.Execute(ctx, &routing.Context{UserID: "u1", Input: "hi"}, "")
	gt.NoError(t, err)
	gt.Equal(t, record.Timestamp, fixed)
	gt.Equal(t, record.Duration, time.Duration(0))
}
