package routing

import (
	"github.com/m-mizutani/kagemusha/pkg/domain/types"
)

// TenantConfig holds per-tenant routing configuration. Setting a tenant
// config replaces the previous one wholesale; there is no field-level
// merge at write time. The Overrides fields, in contrast, are applied
// field by field at execution time.
type TenantConfig struct {
	TenantID       types.TenantID  `json:"tenant_id" yaml:"tenant_id"`
	DefaultVersion string          `json:"default_version,omitempty" yaml:"default_version,omitempty"`
	Overrides      *Overrides      `json:"overrides,omitempty" yaml:"overrides,omitempty"`
	CostLimits     *CostLimits     `json:"cost_limits,omitempty" yaml:"cost_limits,omitempty"`
	Features       map[string]bool `json:"features,omitempty" yaml:"features,omitempty"`
}

// Overrides is a partial override of execution parameters. Nil fields
// leave the resolved config untouched.
type Overrides struct {
	Temperature *float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
	Model       *string  `json:"model,omitempty" yaml:"model,omitempty"`
}

// CostLimits holds advisory spend thresholds. The core records them but
// does not enforce them.
type CostLimits struct {
	Daily   *float64 `json:"daily,omitempty" yaml:"daily,omitempty"`
	Monthly *float64 `json:"monthly,omitempty" yaml:"monthly,omitempty"`
}

// Clone returns a deep copy of the tenant config
func (c *TenantConfig) Clone() *TenantConfig {
	if c == nil {
		return nil
	}

	clone := *c

	if c.Overrides != nil {
		o := *c.Overrides
		if c.Overrides.Temperature != nil {
			v := *c.Overrides.Temperature
			o.Temperature = &v
		}
		if c.Overrides.MaxTokens != nil {
			v := *c.Overrides.MaxTokens
			o.MaxTokens = &v
		}
		if c.Overrides.Model != nil {
			v := *c.Overrides.Model
			o.Model = &v
		}
		clone.Overrides = &o
	}

	if c.CostLimits != nil {
		clone.CostLimits = c.CostLimits.clone()
	}

	if c.Features != nil {
		clone.Features = make(map[string]bool, len(c.Features))
		for k, v := range c.Features {
			clone.Features[k] = v
		}
	}

	return &clone
}

func (l *CostLimits) clone() *CostLimits {
	if l == nil {
		return nil
	}
	c := *l
	if l.Daily != nil {
		v := *l.Daily
		c.Daily = &v
	}
	if l.Monthly != nil {
		v := *l.Monthly
		c.Monthly = &v
	}
	return &c
}
