package routing

// GlobalConfig is the process-wide routing default. At most one instance
// is active per router.
type GlobalConfig struct {
	DefaultVersion    string      `json:"default_version" yaml:"default_version"`
	AvailableVersions []string    `json:"available_versions,omitempty" yaml:"available_versions,omitempty"`
	CostLimits        *CostLimits `json:"cost_limits,omitempty" yaml:"cost_limits,omitempty"`
}

// Clone returns a deep copy of the global config
func (c *GlobalConfig) Clone() *GlobalConfig {
	if c == nil {
		return nil
	}

	clone := *c
	if c.AvailableVersions != nil {
		clone.AvailableVersions = append([]string(nil), c.AvailableVersions...)
	}
	if c.CostLimits != nil {
		clone.CostLimits = c.CostLimits.clone()
	}
	return &clone
}
