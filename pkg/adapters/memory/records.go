package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/kagemusha/pkg/domain/model/execution"
)

// RecordSink is an in-memory implementation of interfaces.RecordSink,
// used by tests and the demo server
type RecordSink struct {
	mu      sync.RWMutex
	records []*execution.Record
}

// NewRecordSink creates a new in-memory record sink
func NewRecordSink() *RecordSink {
	return &RecordSink{}
}

// Put stores an execution record
func (s *RecordSink) Put(ctx context.Context, record *execution.Record) error {
	if record == nil {
		return goerr.New("record cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Store a copy to avoid external modifications
	recordCopy := *record
	s.records = append(s.records, &recordCopy)
	return nil
}

// List returns a snapshot of all stored records
func (s *RecordSink) List(ctx context.Context) []*execution.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]*execution.Record, 0, len(s.records))
	for _, r := range s.records {
		recordCopy := *r
		records = append(records, &recordCopy)
	}
	return records
}

// Len returns the number of stored records
func (s *RecordSink) Len(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
