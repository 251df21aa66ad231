package router

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/kagemusha/pkg/domain/model/routing"
	"github.com/m-mizutani/kagemusha/pkg/domain/types"
	"github.com/m-mizutani/kagemusha/pkg/domain/types/apperr"
	"github.com/m-mizutani/kagemusha/pkg/service/registry"
)

// Router resolves the effective version for a request context using a
// priority-ordered fallthrough chain: explicit override, user pin,
// tenant default, global default, latest registered version. It owns
// the pin and tenant maps and holds a reference to (not ownership of)
// one Registry, used only for existence checks and default lookups.
type Router struct {
	registry *registry.Registry

	mu      sync.RWMutex
	pins    map[types.UserID]*routing.UserPin
	tenants map[types.TenantID]*routing.TenantConfig
	global  *routing.GlobalConfig

	now func() time.Time
}

// Option is a functional option for Router
type Option func(*Router)

// WithClock replaces the wall clock used for pin timestamps. For testing.
func WithClock(now func() time.Time) Option {
	return func(r *Router) {
		r.now = now
	}
}

// New creates a router bound to the given registry
func New(reg *registry.Registry, opts ...Option) *Router {
	r := &Router{
		registry: reg,
		pins:     make(map[types.UserID]*routing.UserPin),
		tenants:  make(map[types.TenantID]*routing.TenantConfig),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetGlobalConfig stores the global routing config and, deliberately,
// forces the registry's own default version to the same value so the
// two defaults stay in lockstep. Sharp edge: a later independent
// Registry.SetDefaultVersion call desyncs them again.
func (r *Router) SetGlobalConfig(ctx context.Context, cfg *routing.GlobalConfig) error {
	if cfg == nil {
		return goerr.New("global config cannot be nil", goerr.T(apperr.ErrTagValidation))
	}

	// Sync the registry first: SetDefaultVersion validates the version
	// under the registry's own lock, and once it is the default a
	// concurrent Remove refuses it. Replacing r.global only after that
	// succeeds keeps the two defaults in lockstep even when the version
	// is removed mid-call.
	if err := r.registry.SetDefaultVersion(ctx, cfg.DefaultVersion); err != nil {
		return goerr.Wrap(err, "global default version is not registered",
			goerr.TV(apperr.VersionKey, cfg.DefaultVersion))
	}

	r.mu.Lock()
	r.global = cfg.Clone()
	r.mu.Unlock()

	return nil
}

// GlobalConfig returns the active global config, or false when none has
// been set
func (r *Router) GlobalConfig(ctx context.Context) (*routing.GlobalConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.global == nil {
		return nil, false
	}
	return r.global.Clone(), true
}

// PinUser creates or overwrites the pin for userID. The pinned version
// must be registered.
func (r *Router) PinUser(ctx context.Context, userID types.UserID, version, reason string) error {
	if !r.registry.Has(ctx, version) {
		return goerr.Wrap(apperr.ErrVersionNotFound, "cannot pin user to unregistered version",
			goerr.TV(apperr.UserIDKey, userID),
			goerr.TV(apperr.VersionKey, version))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.pins[userID] = &routing.UserPin{
		UserID:    userID,
		Version:   version,
		CreatedAt: r.now(),
		Reason:    reason,
	}
	return nil
}

// UnpinUser removes the pin for userID and reports whether one existed
func (r *Router) UnpinUser(ctx context.Context, userID types.UserID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.pins[userID]
	delete(r.pins, userID)
	return ok
}

// UserPin returns the pin for userID, or false when the user is unpinned
func (r *Router) UserPin(ctx context.Context, userID types.UserID) (*routing.UserPin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pin, ok := r.pins[userID]
	if !ok {
		return nil, false
	}
	p := *pin
	return &p, true
}

// SetTenantConfig replaces the tenant's config wholesale; there is no
// field-level merge. A configured default version must be registered.
func (r *Router) SetTenantConfig(ctx context.Context, tenantID types.TenantID, cfg *routing.TenantConfig) error {
	if cfg == nil {
		return goerr.New("tenant config cannot be nil", goerr.T(apperr.ErrTagValidation))
	}

	if cfg.DefaultVersion != "" && !r.registry.Has(ctx, cfg.DefaultVersion) {
		return goerr.Wrap(apperr.ErrVersionNotFound, "tenant default version is not registered",
			goerr.TV(apperr.TenantIDKey, tenantID),
			goerr.TV(apperr.VersionKey, cfg.DefaultVersion))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := cfg.Clone()
	stored.TenantID = tenantID
	r.tenants[tenantID] = stored
	return nil
}

// TenantConfig returns the config for tenantID, or false when the
// tenant has none
func (r *Router) TenantConfig(ctx context.Context, tenantID types.TenantID) (*routing.TenantConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, ok := r.tenants[tenantID]
	if !ok {
		return nil, false
	}
	return cfg.Clone(), true
}

// ResolveVersion returns the effective version for the given execution
// context. An explicit override on the context always wins regardless of
// strategy. Otherwise the strategy picks the floor of the fallthrough
// chain; an empty strategy means routing.DefaultStrategy. Resolution
// never returns an empty version silently: when nothing applies the
// error is tagged not-found.
func (r *Router) ResolveVersion(ctx context.Context, ectx *routing.Context, strategy routing.Strategy) (string, error) {
	if err := ectx.Validate(); err != nil {
		return "", err
	}

	if ectx.Version != "" {
		if !r.registry.Has(ctx, ectx.Version) {
			return "", goerr.Wrap(apperr.ErrVersionNotFound, "explicit version override is not registered",
				goerr.TV(apperr.VersionKey, ectx.Version),
				goerr.TV(apperr.UserIDKey, ectx.UserID))
		}
		return ectx.Version, nil
	}

	if strategy == "" {
		strategy = routing.DefaultStrategy
	}
	if err := routing.ValidateStrategy(strategy); err != nil {
		return "", err
	}

	r.mu.RLock()

	if strategy == routing.StrategyPin {
		if pin, ok := r.pins[ectx.UserID]; ok {
			version := pin.Version
			r.mu.RUnlock()
			return version, nil
		}
	}

	if strategy == routing.StrategyPin || strategy == routing.StrategyTenantDefault {
		if ectx.TenantID.IsValid() {
			if tenant, ok := r.tenants[ectx.TenantID]; ok && tenant.DefaultVersion != "" {
				version := tenant.DefaultVersion
				r.mu.RUnlock()
				return version, nil
			}
		}
	}

	if strategy != routing.StrategyLatest {
		if r.global != nil && r.global.DefaultVersion != "" {
			version := r.global.DefaultVersion
			r.mu.RUnlock()
			return version, nil
		}
	}

	r.mu.RUnlock()

	latest, ok := r.registry.LatestVersion(ctx)
	if !ok {
		return "", goerr.Wrap(apperr.ErrNoVersionAvailable, "resolution exhausted all fallbacks",
			goerr.TV(apperr.UserIDKey, ectx.UserID),
			goerr.TV(apperr.StrategyKey, strategy.String()))
	}
	return latest, nil
}

// UsersPinnedTo returns the users currently pinned to exactly the given
// version, sorted for determinism
func (r *Router) UsersPinnedTo(ctx context.Context, version string) []types.UserID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var users []types.UserID
	for userID, pin := range r.pins {
		if pin.Version == version {
			users = append(users, userID)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i] < users[j] })
	return users
}

// MigrateUsers re-pins every user currently pinned to fromVersion onto
// toVersion and returns the number of users moved. The target version is
// validated before any pin is touched, so a not-found failure leaves all
// pins intact. Users are re-pinned one at a time from a snapshot: if the
// process is interrupted partway the operation is safe to re-run, and a
// completed migration re-run moves zero users.
func (r *Router) MigrateUsers(ctx context.Context, fromVersion, toVersion string) (int, error) {
	if !r.registry.Has(ctx, toVersion) {
		return 0, goerr.Wrap(apperr.ErrVersionNotFound, "migration target is not registered",
			goerr.TV(apperr.FromVersionKey, fromVersion),
			goerr.TV(apperr.ToVersionKey, toVersion))
	}

	r.mu.RLock()
	var affected []types.UserID
	for userID, pin := range r.pins {
		if pin.Version == fromVersion {
			affected = append(affected, userID)
		}
	}
	r.mu.RUnlock()
	sort.Slice(affected, func(i, j int) bool { return affected[i] < affected[j] })

	reason := fmt.Sprintf("migrated from %s", fromVersion)

	moved := 0
	for _, userID := range affected {
		r.mu.Lock()
		// A concurrent unpin or re-pin since the snapshot skips the user
		if pin, ok := r.pins[userID]; ok && pin.Version == fromVersion {
			r.pins[userID] = &routing.UserPin{
				UserID:    userID,
				Version:   toVersion,
				CreatedAt: r.now(),
				Reason:    reason,
			}
			moved++
		}
		r.mu.Unlock()
	}

	return moved, nil
}

// Rollback is migration in the safety direction. It carries no
// additional semantics over MigrateUsers.
func (r *Router) Rollback(ctx context.Context, fromVersion, toVersion string) (int, error) {
	return r.MigrateUsers(ctx, fromVersion, toVersion)
}
