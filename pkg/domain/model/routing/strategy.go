package routing

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/kagemusha/pkg/domain/types/apperr"
)

// Strategy names a floor in the resolution fallthrough chain. Each
// strategy starts the chain at a different point and falls through the
// remaining layers:
//
//	pin            -> user pin, tenant default, global default, latest
//	tenant-default -> tenant default, global default, latest
//	global-default -> global default, latest
//	latest         -> latest only
type Strategy string

const (
	StrategyPin           Strategy = "pin"
	StrategyTenantDefault Strategy = "tenant-default"
	StrategyGlobalDefault Strategy = "global-default"
	StrategyLatest        Strategy = "latest"

	// DefaultStrategy is used when a caller does not specify one
	DefaultStrategy = StrategyPin
)

// IsValid checks if the strategy is valid
func (s Strategy) IsValid() bool {
	switch s {
	case StrategyPin, StrategyTenantDefault, StrategyGlobalDefault, StrategyLatest:
		return true
	default:
		return false
	}
}

// String returns the string representation of the strategy
func (s Strategy) String() string {
	return string(s)
}

// StrategyFromString converts a string to Strategy. An empty string maps
// to DefaultStrategy; unknown tokens pass through for ValidateStrategy
// to reject.
func StrategyFromString(s string) Strategy {
	if s == "" {
		return DefaultStrategy
	}
	return Strategy(s)
}

// ValidateStrategy validates a routing strategy token
func ValidateStrategy(s Strategy) error {
	if !s.IsValid() {
		return goerr.Wrap(apperr.ErrInvalidStrategy, "validation failed",
			goerr.TV(apperr.StrategyKey, s.String()))
	}
	return nil
}
