package execution

import (
	"time"

	"github.com/m-mizutani/kagemusha/pkg/domain/types"
)

// Result is what a completion capability returns for one request
type Result struct {
	Output       string  `json:"output"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	Cost         float64 `json:"cost"`
}

// Record is the structured log entry produced for every execution,
// successful or not. It is handed to a RecordSink fire-and-forget.
type Record struct {
	ID           types.ExecutionID `json:"id"`
	Timestamp    time.Time         `json:"timestamp"`
	UserID       types.UserID      `json:"user_id"`
	TenantID     types.TenantID    `json:"tenant_id,omitempty"`
	Version      string            `json:"version"`
	Input        string            `json:"input"`
	Output       string            `json:"output,omitempty"`
	InputTokens  int               `json:"input_tokens"`
	OutputTokens int               `json:"output_tokens"`
	Cost         float64           `json:"cost"`
	Duration     time.Duration     `json:"duration"`
	Error        string            `json:"error,omitempty"`
}
