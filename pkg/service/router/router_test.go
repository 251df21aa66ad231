package router_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/kagemusha/pkg/domain/model/agent"
	"github.com/m-mizutani/kagemusha/pkg/domain/model/routing"
	"github.com/m-mizutani/kagemusha/pkg/domain/types"
	"github.com/m-mizutani/kagemusha/pkg/domain/types/apperr"
	"github.com/m-mizutani/kagemusha/pkg/service/registry"
	"github.com/m-mizutani/kagemusha/pkg/service/router"
)

func newConfig(version string) *agent.Config {
	return &agent.Config{
		Version:      version,
		SystemPrompt: "You are a helpful assistant.",
		Provider:     types.LLMProviderClaude,
		Model:        "claude-sonnet-4",
		Temperature:  0.5,
	}
}

func setupRouter(t *testing.T, versions ...string) (*registry.Registry, *router.Router) {
	t.Helper()
	ctx := context.Background()
	reg := registry.New()
	for _, v := range versions {
		gt.NoError(t, reg.Register(ctx, newConfig(v)))
	}
	return reg, router.New(reg)
}

func TestPinUser(t *testing.T) {
	ctx := context.Background()
	_, rt := setupRouter(t, "v1.0", "v2.1")

	t.Run("pin and query by version", func(t *testing.T) {
		gt.NoError(t, rt.PinUser(ctx, "u", "v2.1", "beta tester"))

		pin, ok := rt.UserPin(ctx, "u")
		gt.True(t, ok)
		gt.Equal(t, pin.Version, "v2.1")
		gt.Equal(t, pin.Reason, "beta tester")

		gt.Equal(t, rt.UsersPinnedTo(ctx, "v2.1"), []types.UserID{"u"})
	})

	t.Run("re-pin overwrites", func(t *testing.T) {
		gt.NoError(t, rt.PinUser(ctx, "u", "v1.0", ""))
		pin, ok := rt.UserPin(ctx, "u")
		gt.True(t, ok)
		gt.Equal(t, pin.Version, "v1.0")
		gt.Equal(t, len(rt.UsersPinnedTo(ctx, "v2.1")), 0)
	})

	t.Run("unpin removes", func(t *testing.T) {
		gt.True(t, rt.UnpinUser(ctx, "u"))
		_, ok := rt.UserPin(ctx, "u")
		gt.False(t, ok)
		gt.False(t, rt.UnpinUser(ctx, "u"))
	})

	t.Run("unregistered version is rejected", func(t *testing.T) {
		err := rt.PinUser(ctx, "u", "v9.9", "")
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, apperr.ErrTagVersionNotFound))
		_, ok := rt.UserPin(ctx, "u")
		gt.False(t, ok)
	})
}

func TestSetGlobalConfig(t *testing.T) {
	ctx := context.Background()
	reg, rt := setupRouter(t, "v1.0", "v2.0")

	t.Run("syncs the registry default", func(t *testing.T) {
		gt.NoError(t, rt.SetGlobalConfig(ctx, &routing.GlobalConfig{DefaultVersion: "v2.0"}))

		cfg, ok := rt.GlobalConfig(ctx)
		gt.True(t, ok)
		gt.Equal(t, cfg.DefaultVersion, "v2.0")

		def, ok := reg.DefaultVersion(ctx)
		gt.True(t, ok)
		gt.Equal(t, def, "v2.0")
	})

	t.Run("unregistered default is rejected", func(t *testing.T) {
		err := rt.SetGlobalConfig(ctx, &routing.GlobalConfig{DefaultVersion: "v9.9"})
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, apperr.ErrTagVersionNotFound))

		cfg, ok := rt.GlobalConfig(ctx)
		gt.True(t, ok)
		gt.Equal(t, cfg.DefaultVersion, "v2.0")
	})

	t.Run("failed registry sync leaves both defaults untouched", func(t *testing.T) {
		err := rt.SetGlobalConfig(ctx, &routing.GlobalConfig{DefaultVersion: "gone"})
		gt.Error(t, err)

		cfg, ok := rt.GlobalConfig(ctx)
		gt.True(t, ok)
		gt.Equal(t, cfg.DefaultVersion, "v2.0")

		def, ok := reg.DefaultVersion(ctx)
		gt.True(t, ok)
		gt.Equal(t, def, "v2.0")
	})
}

func TestSetTenantConfig(t *testing.T) {
	ctx := context.Background()
	_, rt := setupRouter(t, "v1.0", "v2.0")

	t.Run("stores tenant config", func(t *testing.T) {
		gt.NoError(t, rt.SetTenantConfig(ctx, "acme", &routing.TenantConfig{DefaultVersion: "v1.0"}))

		cfg, ok := rt.TenantConfig(ctx, "acme")
		gt.True(t, ok)
		gt.Equal(t, cfg.TenantID, types.TenantID("acme"))
		gt.Equal(t, cfg.DefaultVersion, "v1.0")
	})

	t.Run("replacement is whole-object", func(t *testing.T) {
		temp := 0.2
		gt.NoError(t, rt.SetTenantConfig(ctx, "acme", &routing.TenantConfig{
			Overrides: &routing.Overrides{Temperature: &temp},
		}))

		cfg, ok := rt.TenantConfig(ctx, "acme")
		gt.True(t, ok)
		gt.Equal(t, cfg.DefaultVersion, "") // not merged from the prior config
		gt.V(t, cfg.Overrides).NotNil()
	})

	t.Run("unregistered default version is rejected", func(t *testing.T) {
		err := rt.SetTenantConfig(ctx, "acme", &routing.TenantConfig{DefaultVersion: "v9.9"})
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, apperr.ErrTagVersionNotFound))
	})

	t.Run("default version is optional", func(t *testing.T) {
		gt.NoError(t, rt.SetTenantConfig(ctx, "globex", &routing.TenantConfig{
			Features: map[string]bool{"streaming": true},
		}))
	})
}

func TestResolveVersionPriority(t *testing.T) {
	ctx := context.Background()
	_, rt := setupRouter(t, "v1.0", "v2.0", "v2.1", "v3.0")

	// Explicit override, pin, tenant default and global default all
	// different; peel them off one by one.
	gt.NoError(t, rt.PinUser(ctx, "u", "v2.1", ""))
	gt.NoError(t, rt.SetTenantConfig(ctx, "acme", &routing.TenantConfig{DefaultVersion: "v2.0"}))
	gt.NoError(t, rt.SetGlobalConfig(ctx, &routing.GlobalConfig{DefaultVersion: "v1.0"}))

	ectx := &routing.Context{UserID: "u", TenantID: "acme", Version: "v3.0", Input: "hi"}

	t.Run("explicit override wins", func(t *testing.T) {
		v, err := rt.ResolveVersion(ctx, ectx, "")
		gt.NoError(t, err)
		gt.Equal(t, v, "v3.0")
	})

	t.Run("then the user pin", func(t *testing.T) {
		ectx.Version = ""
		v, err := rt.ResolveVersion(ctx, ectx, "")
		gt.NoError(t, err)
		gt.Equal(t, v, "v2.1")
	})

	t.Run("then the tenant default", func(t *testing.T) {
		gt.True(t, rt.UnpinUser(ctx, "u"))
		v, err := rt.ResolveVersion(ctx, ectx, "")
		gt.NoError(t, err)
		gt.Equal(t, v, "v2.0")
	})

	t.Run("then the global default", func(t *testing.T) {
		gt.NoError(t, rt.SetTenantConfig(ctx, "acme", &routing.TenantConfig{}))
		v, err := rt.ResolveVersion(ctx, ectx, "")
		gt.NoError(t, err)
		gt.Equal(t, v, "v1.0")
	})
}

func TestResolveVersionStrategies(t *testing.T) {
	ctx := context.Background()
	_, rt := setupRouter(t, "v1.0", "v2.0", "v2.1", "v3.0")

	gt.NoError(t, rt.PinUser(ctx, "u", "v2.1", ""))
	gt.NoError(t, rt.SetTenantConfig(ctx, "acme", &routing.TenantConfig{DefaultVersion: "v2.0"}))
	gt.NoError(t, rt.SetGlobalConfig(ctx, &routing.GlobalConfig{DefaultVersion: "v1.0"}))

	ectx := &routing.Context{UserID: "u", TenantID: "acme", Input: "hi"}

	t.Run("tenant-default skips the pin", func(t *testing.T) {
		v, err := rt.ResolveVersion(ctx, ectx, routing.StrategyTenantDefault)
		gt.NoError(t, err)
		gt.Equal(t, v, "v2.0")
	})

	t.Run("global-default skips pin and tenant", func(t *testing.T) {
		v, err := rt.ResolveVersion(ctx, ectx, routing.StrategyGlobalDefault)
		gt.NoError(t, err)
		gt.Equal(t, v, "v1.0")
	})

	t.Run("latest skips all overrides", func(t *testing.T) {
		v, err := rt.ResolveVersion(ctx, ectx, routing.StrategyLatest)
		gt.NoError(t, err)
		gt.Equal(t, v, "v3.0")
	})

	t.Run("explicit override beats every strategy", func(t *testing.T) {
		withOverride := &routing.Context{UserID: "u", Version: "v2.1", Input: "hi"}
		v, err := rt.ResolveVersion(ctx, withOverride, routing.StrategyLatest)
		gt.NoError(t, err)
		gt.Equal(t, v, "v2.1")
	})

	t.Run("unknown strategy is rejected", func(t *testing.T) {
		_, err := rt.ResolveVersion(ctx, ectx, routing.Strategy("round-robin"))
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, apperr.ErrTagInvalidArgument))
	})
}

func TestResolveVersionFallbacks(t *testing.T) {
	ctx := context.Background()

	t.Run("unregistered explicit override fails", func(t *testing.T) {
		_, rt := setupRouter(t, "v1.0")
		ectx := &routing.Context{UserID: "x", Version: "v9.9", Input: "hi"}
		_, err := rt.ResolveVersion(ctx, ectx, "")
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, apperr.ErrTagVersionNotFound))
	})

	t.Run("single version resolves via latest fallback", func(t *testing.T) {
		_, rt := setupRouter(t, "v1.0")
		ectx := &routing.Context{UserID: "x", Input: "hi"}
		v, err := rt.ResolveVersion(ctx, ectx, "")
		gt.NoError(t, err)
		gt.Equal(t, v, "v1.0")
	})

	t.Run("empty registry fails with not-found", func(t *testing.T) {
		_, rt := setupRouter(t)
		ectx := &routing.Context{UserID: "x", Input: "hi"}
		_, err := rt.ResolveVersion(ctx, ectx, "")
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, apperr.ErrTagVersionNotFound))
	})

	t.Run("missing user ID fails", func(t *testing.T) {
		_, rt := setupRouter(t, "v1.0")
		_, err := rt.ResolveVersion(ctx, &routing.Context{Input: "hi"}, "")
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, apperr.ErrTagRequiredField))
	})
}

func TestMigrateUsers(t *testing.T) {
	ctx := context.Background()
	_, rt := setupRouter(t, "v2.0", "v2.1")

	for _, u := range []types.UserID{"u1", "u2", "u3"} {
		gt.NoError(t, rt.PinUser(ctx, u, "v2.1", ""))
	}
	gt.NoError(t, rt.PinUser(ctx, "u4", "v2.0", ""))

	t.Run("moves every pinned user", func(t *testing.T) {
		moved, err := rt.MigrateUsers(ctx, "v2.1", "v2.0")
		gt.NoError(t, err)
		gt.Equal(t, moved, 3)

		gt.Equal(t, len(rt.UsersPinnedTo(ctx, "v2.1")), 0)
		gt.Equal(t, rt.UsersPinnedTo(ctx, "v2.0"), []types.UserID{"u1", "u2", "u3", "u4"})

		pin, ok := rt.UserPin(ctx, "u1")
		gt.True(t, ok)
		gt.Equal(t, pin.Reason, "migrated from v2.1")
	})

	t.Run("re-run is idempotent", func(t *testing.T) {
		moved, err := rt.MigrateUsers(ctx, "v2.1", "v2.0")
		gt.NoError(t, err)
		gt.Equal(t, moved, 0)
	})

	t.Run("unregistered target leaves pins untouched", func(t *testing.T) {
		_, err := rt.MigrateUsers(ctx, "v2.0", "v9.9")
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, apperr.ErrTagVersionNotFound))
		gt.Equal(t, len(rt.UsersPinnedTo(ctx, "v2.0")), 4)
	})

	t.Run("rollback has the same contract", func(t *testing.T) {
		moved, err := rt.Rollback(ctx, "v2.0", "v2.1")
		gt.NoError(t, err)
		gt.Equal(t, moved, 4)
		gt.Equal(t, len(rt.UsersPinnedTo(ctx, "v2.0")), 0)
	})
}

func TestRouterClock(t *testing.T) {
	ctx := context.Background()
	reg := registry.New()
	gt.NoError(t, reg.Register(ctx, newConfig("v1.0")))

	fixed := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	rt := router.New(reg, router.WithClock(func() time.Time { return fixed }))

	gt.NoError(t, rt.PinUser(ctx, "u", "v1.0", ""))
	pin, ok := rt.UserPin(ctx, "u")
	gt.True(t, ok)
	gt.Equal(t, pin.CreatedAt, fixed)
}
