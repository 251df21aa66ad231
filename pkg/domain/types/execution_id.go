package types

import (
	"context"

	"github.com/google/uuid"
)

type ExecutionID string

func NewExecutionID(ctx context.Context) ExecutionID {
	return ExecutionID(newUUID(ctx))
}

func (id ExecutionID) String() string {
	return string(id)
}

// IsValid checks if the ExecutionID is valid
func (id ExecutionID) IsValid() bool {
	if id == "" {
		return false
	}
	_, err := uuid.Parse(string(id))
	return err == nil
}
