package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/kagemusha/pkg/domain/model/agent"
	"github.com/m-mizutani/kagemusha/pkg/domain/model/execution"
	"github.com/m-mizutani/kagemusha/pkg/domain/model/routing"
	"github.com/m-mizutani/kagemusha/pkg/domain/types"
	"github.com/m-mizutani/kagemusha/pkg/domain/types/apperr"
	"github.com/m-mizutani/kagemusha/pkg/utils/async"
)

// Execute resolves the effective version for the execution context,
// applies tenant overrides to the resolved config, delegates completion
// to the provider capability and forwards a record to the sink. The
// sink is fire-and-forget: its failure never fails the request.
// Provider errors propagate unchanged to the caller, still recorded.
func (uc *UseCases) Execute(ctx context.Context, ectx *routing.Context, strategy routing.Strategy) (*execution.Record, error) {
	if uc.registry == nil || uc.router == nil {
		return nil, goerr.New("executor is not fully configured", goerr.T(apperr.ErrTagInternal))
	}
	if uc.completion == nil {
		return nil, goerr.Wrap(apperr.ErrLLMNotConfigured, "no completion client")
	}

	version, err := uc.router.ResolveVersion(ctx, ectx, strategy)
	if err != nil {
		return nil, goerr.Wrap(err, "version resolution failed")
	}

	cfg, ok := uc.registry.Get(ctx, version)
	if !ok {
		// Resolution and registry state raced; surfaces as not-found
		return nil, goerr.Wrap(apperr.ErrVersionNotFound, "resolved version disappeared",
			goerr.TV(apperr.VersionKey, version))
	}

	if ectx.TenantID.IsValid() {
		if tenant, ok := uc.router.TenantConfig(ctx, ectx.TenantID); ok {
			applyOverrides(cfg, tenant.Overrides)
		}
	}

	record := &execution.Record{
		ID:        types.NewExecutionID(ctx),
		Timestamp: uc.now(),
		UserID:    ectx.UserID,
		TenantID:  ectx.TenantID,
		Version:   version,
		Input:     ectx.Input,
	}

	result, execErr := uc.completion.Complete(ctx, cfg, ectx.Input)
	record.Duration = uc.now().Sub(record.Timestamp)

	if execErr != nil {
		record.Error = execErr.Error()
		uc.emit(ctx, record)
		return record, goerr.Wrap(execErr, "completion failed",
			goerr.TV(apperr.VersionKey, version),
			goerr.TV(apperr.UserIDKey, ectx.UserID))
	}

	record.Output = result.Output
	record.InputTokens = result.InputTokens
	record.OutputTokens = result.OutputTokens
	record.Cost = result.Cost

	uc.emit(ctx, record)
	return record, nil
}

// emit forwards the record to the sink without blocking the request
func (uc *UseCases) emit(ctx context.Context, record *execution.Record) {
	if uc.sink == nil {
		return
	}

	recordCopy := *record
	async.Dispatch(ctx, func(ctx context.Context) error {
		return uc.sink.Put(ctx, &recordCopy)
	})
}

// applyOverrides applies tenant execution overrides field by field onto
// a config copy. Unlike tenant config replacement (whole-object), this
// is deliberately a field-level merge at execution time.
func applyOverrides(cfg *agent.Config, overrides *routing.Overrides) {
	if overrides == nil {
		return
	}

	if overrides.Temperature != nil {
		cfg.Temperature = *overrides.Temperature
	}
	if overrides.MaxTokens != nil {
		v := *overrides.MaxTokens
		cfg.MaxTokens = &v
	}
	if overrides.Model != nil {
		cfg.Model = *overrides.Model
	}
}
