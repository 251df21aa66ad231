package interfaces

import (
	"context"

	"github.com/m-mizutani/kagemusha/pkg/domain/model/agent"
	"github.com/m-mizutani/kagemusha/pkg/domain/model/execution"
)

// CompletionClient is the narrow contract to an LLM completion
// capability. Provider errors are returned unchanged; the core never
// retries.
type CompletionClient interface {
	Complete(ctx context.Context, cfg *agent.Config, input string) (*execution.Result, error)
}

// RecordSink accepts execution records. The core treats it as
// fire-and-forget and does not depend on it succeeding.
type RecordSink interface {
	Put(ctx context.Context, record *execution.Record) error
}
