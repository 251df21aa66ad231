package logsink

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/kagemusha/pkg/domain/model/execution"
)

// Sink writes execution records to the structured logger carried by the
// context. Record persistence beyond the log stream is out of scope for
// the core; anything that needs durable records implements
// interfaces.RecordSink itself.
type Sink struct{}

// New creates a new log sink
func New() *Sink {
	return &Sink{}
}

// Put logs one execution record
func (s *Sink) Put(ctx context.Context, record *execution.Record) error {
	if record == nil {
		return nil
	}

	attrs := []any{
		slog.String("id", record.ID.String()),
		slog.Time("timestamp", record.Timestamp),
		slog.String("user_id", record.UserID.String()),
		slog.String("version", record.Version),
		slog.Int("input_tokens", record.InputTokens),
		slog.Int("output_tokens", record.OutputTokens),
		slog.Float64("cost", record.Cost),
		slog.Duration("duration", record.Duration),
	}
	if record.TenantID.IsValid() {
		attrs = append(attrs, slog.String("tenant_id", record.TenantID.String()))
	}

	if record.Error != "" {
		attrs = append(attrs, slog.String("error", record.Error))
		ctxlog.From(ctx).Warn("agent execution failed", attrs...)
		return nil
	}

	ctxlog.From(ctx).Info("agent execution", attrs...)
	return nil
}
