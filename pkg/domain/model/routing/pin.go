package routing

import (
	"time"

	"github.com/m-mizutani/kagemusha/pkg/domain/types"
)

// UserPin forces resolution to a specific version for one user until it
// is removed or superseded by a migration. One pin per user; a later pin
// overwrites the earlier one.
type UserPin struct {
	UserID    types.UserID `json:"user_id"`
	Version   string       `json:"version"`
	CreatedAt time.Time    `json:"created_at"`
	Reason    string       `json:"reason,omitempty"`
}
