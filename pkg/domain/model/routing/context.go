package routing

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/kagemusha/pkg/domain/types"
	"github.com/m-mizutani/kagemusha/pkg/domain/types/apperr"
)

// Context describes one incoming request for version resolution. It is
// transient: constructed per request and never persisted.
type Context struct {
	UserID   types.UserID   `json:"user_id"`
	TenantID types.TenantID `json:"tenant_id,omitempty"`

	// Version is an explicit override. When set it wins over every
	// routing strategy.
	Version string `json:"version,omitempty"`

	Input string         `json:"input"`
	Vars  map[string]any `json:"vars,omitempty"`
}

// Validate checks the required fields of the context
func (c *Context) Validate() error {
	if c == nil {
		return goerr.New("execution context cannot be nil", goerr.T(apperr.ErrTagRequiredField))
	}

	if !c.UserID.IsValid() {
		return goerr.Wrap(apperr.ErrUserIDRequired, "invalid execution context")
	}

	return nil
}
