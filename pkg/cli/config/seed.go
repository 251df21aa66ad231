package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/kagemusha/pkg/domain/model/agent"
	"github.com/m-mizutani/kagemusha/pkg/domain/model/routing"
	"github.com/m-mizutani/kagemusha/pkg/domain/types"
	"github.com/m-mizutani/kagemusha/pkg/domain/types/apperr"
	"github.com/m-mizutani/kagemusha/pkg/service/registry"
	"github.com/m-mizutani/kagemusha/pkg/service/router"
	"gopkg.in/yaml.v3"
)

// Seed describes the initial state loaded at startup: registered
// versions, the global config, tenant configs, and user pins. Entries
// are applied in that order so pins and tenant defaults can refer to
// versions declared in the same file.
type Seed struct {
	Versions []*agent.Config         `yaml:"versions"`
	Global   *routing.GlobalConfig   `yaml:"global,omitempty"`
	Tenants  []*routing.TenantConfig `yaml:"tenants,omitempty"`
	Pins     []*SeedPin              `yaml:"pins,omitempty"`
}

// SeedPin pins a user to a version at startup
type SeedPin struct {
	UserID  string `yaml:"user_id"`
	Version string `yaml:"version"`
	Reason  string `yaml:"reason,omitempty"`
}

// LoadSeed reads and parses a seed file
func LoadSeed(path string) (*Seed, error) {
	raw, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read seed file", goerr.V("path", path))
	}

	var seed Seed
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return nil, goerr.Wrap(err, "failed to parse seed file", goerr.V("path", path))
	}

	return &seed, nil
}

// Apply registers the seeded state into the registry and router. Any
// invalid entry aborts startup with an error naming the entry.
func (s *Seed) Apply(ctx context.Context, reg *registry.Registry, rt *router.Router) error {
	for i, cfg := range s.Versions {
		if cfg == nil {
			return goerr.New("seeded version entry is empty",
				goerr.T(apperr.ErrTagValidation),
				goerr.V("index", i),
			)
		}
		if err := reg.Register(ctx, cfg); err != nil {
			return goerr.Wrap(err, "failed to register seeded version",
				goerr.TV(apperr.VersionKey, cfg.Version),
			)
		}
	}

	if s.Global != nil {
		if err := rt.SetGlobalConfig(ctx, s.Global); err != nil {
			return goerr.Wrap(err, "failed to apply seeded global config")
		}
	}

	for i, t := range s.Tenants {
		if t == nil {
			return goerr.New("seeded tenant entry is empty",
				goerr.T(apperr.ErrTagValidation),
				goerr.V("index", i),
			)
		}
		if t.TenantID == "" {
			return goerr.New("seeded tenant config is missing tenant_id",
				goerr.T(apperr.ErrTagValidation),
				goerr.V("index", i),
			)
		}
		if err := rt.SetTenantConfig(ctx, t.TenantID, t); err != nil {
			return goerr.Wrap(err, "failed to apply seeded tenant config",
				goerr.TV(apperr.TenantIDKey, t.TenantID),
			)
		}
	}

	for i, p := range s.Pins {
		if p == nil {
			return goerr.New("seeded pin entry is empty",
				goerr.T(apperr.ErrTagValidation),
				goerr.V("index", i),
			)
		}
		if p.UserID == "" {
			return goerr.New("seeded pin is missing user_id",
				goerr.T(apperr.ErrTagValidation),
				goerr.V("index", i),
			)
		}
		if err := rt.PinUser(ctx, types.UserID(p.UserID), p.Version, p.Reason); err != nil {
			return goerr.Wrap(err, "failed to apply seeded pin",
				goerr.TV(apperr.UserIDKey, types.UserID(p.UserID)),
				goerr.TV(apperr.VersionKey, p.Version),
			)
		}
	}

	return nil
}
