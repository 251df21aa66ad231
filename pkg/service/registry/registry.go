package registry

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/kagemusha/pkg/domain/model/agent"
	"github.com/m-mizutani/kagemusha/pkg/domain/types/apperr"
)

// Registry holds immutable agent configurations keyed by version
// identifier, plus a single current default version. It is safe for
// concurrent use; every operation is synchronous and in-memory.
type Registry struct {
	mu             sync.RWMutex
	configs        map[string]*agent.Config
	defaultVersion string
}

// New creates an empty registry
func New() *Registry {
	return &Registry{
		configs: make(map[string]*agent.Config),
	}
}

// Register validates the config and stores it under its version
// identifier, overwriting any prior config with the same identifier.
// The first version ever registered becomes the default version.
func (r *Registry) Register(ctx context.Context, cfg *agent.Config) error {
	if err := agent.ValidateConfig(cfg); err != nil {
		return goerr.Wrap(err, "config validation failed")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Store a copy so later mutation by the caller cannot reach in
	r.configs[cfg.Version] = cfg.Clone()

	if r.defaultVersion == "" {
		r.defaultVersion = cfg.Version
	}

	return nil
}

// Get returns the config registered under version, or false when the
// version is unknown. Missing versions are not an error here; existence
// checks at mutation points are.
func (r *Registry) Get(ctx context.Context, version string) (*agent.Config, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, ok := r.configs[version]
	if !ok {
		return nil, false
	}
	return cfg.Clone(), true
}

// Has reports whether version is registered
func (r *Registry) Has(ctx context.Context, version string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.configs[version]
	return ok
}

// Versions returns a snapshot of all registered version identifiers,
// sorted for determinism
func (r *Registry) Versions(ctx context.Context) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	versions := make([]string, 0, len(r.configs))
	for v := range r.configs {
		versions = append(versions, v)
	}
	sort.Strings(versions)
	return versions
}

// SetDefaultVersion updates the default pointer. The version must
// already be registered.
func (r *Registry) SetDefaultVersion(ctx context.Context, version string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.configs[version]; !ok {
		return goerr.Wrap(apperr.ErrVersionNotFound, "cannot set default version",
			goerr.TV(apperr.VersionKey, version))
	}

	r.defaultVersion = version
	return nil
}

// DefaultVersion returns the current default version, or false when no
// default has been set
func (r *Registry) DefaultVersion(ctx context.Context) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.defaultVersion == "" {
		return "", false
	}
	return r.defaultVersion, true
}

// LatestVersion returns the highest registered version by semantic
// version ranking. Identifiers that do not match the version pattern are
// skipped; when none match, the current default wins, then an arbitrary
// registered version. Returns false only when the registry is empty.
func (r *Registry) LatestVersion(ctx context.Context) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.configs) == 0 {
		return "", false
	}

	var (
		best      string
		bestSemer agent.Version
		found     bool
	)
	for id := range r.configs {
		parsed, ok := agent.ParseVersion(id)
		if !ok {
			continue
		}
		if !found || parsed.Compare(bestSemer) > 0 {
			best = id
			bestSemer = parsed
			found = true
		}
	}
	if found {
		return best, true
	}

	if r.defaultVersion != "" {
		return r.defaultVersion, true
	}

	// No ranked candidate and no default: any registered version will
	// do, picked deterministically.
	ids := make([]string, 0, len(r.configs))
	for id := range r.configs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids[0], true
}

// Remove deletes a registered version and reports whether it was
// present. Removing the current default version is rejected; the caller
// must reassign the default first.
func (r *Registry) Remove(ctx context.Context, version string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if version != "" && version == r.defaultVersion {
		return false, goerr.Wrap(apperr.ErrDefaultVersionInUse, "reassign the default first",
			goerr.TV(apperr.VersionKey, version))
	}

	_, ok := r.configs[version]
	delete(r.configs, version)
	return ok, nil
}

// List returns a snapshot of all registered configs
func (r *Registry) List(ctx context.Context) []*agent.Config {
	r.mu.RLock()
	defer r.mu.RUnlock()

	versions := make([]string, 0, len(r.configs))
	for v := range r.configs {
		versions = append(versions, v)
	}
	sort.Strings(versions)

	configs := make([]*agent.Config, 0, len(versions))
	for _, v := range versions {
		configs = append(configs, r.configs[v].Clone())
	}
	return configs
}

// Clear empties the registry and clears the default pointer. This is an
// explicit full reset, not part of normal request handling.
func (r *Registry) Clear(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.configs = make(map[string]*agent.Config)
	r.defaultVersion = ""
}
