package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/kagemusha/pkg/domain/model/routing"
	"github.com/m-mizutani/kagemusha/pkg/domain/types"
	"github.com/m-mizutani/kagemusha/pkg/domain/types/apperr"
)

// PinRequest pins a user to a version
type PinRequest struct {
	Version string `json:"version"`
	Reason  string `json:"reason,omitempty"`
}

// UnpinResponse reports whether a pin existed
type UnpinResponse struct {
	Removed bool `json:"removed"`
}

// PinnedUsersResponse lists users pinned to a version
type PinnedUsersResponse struct {
	Version string         `json:"version"`
	UserIDs []types.UserID `json:"user_ids"`
}

// MigrateRequest moves pinned users between versions
type MigrateRequest struct {
	FromVersion string `json:"from_version"`
	ToVersion   string `json:"to_version"`
}

// MigrateResponse reports how many users were moved
type MigrateResponse struct {
	Migrated int `json:"migrated"`
}

// ResolveRequest resolves the effective version for a context
type ResolveRequest struct {
	UserID   types.UserID   `json:"user_id"`
	TenantID types.TenantID `json:"tenant_id,omitempty"`
	Version  string         `json:"version,omitempty"`
	Strategy string         `json:"strategy,omitempty"`
}

// ResolveResponse carries the resolved version
type ResolveResponse struct {
	Version string `json:"version"`
}

func (s *Server) handleSetGlobalConfig(w http.ResponseWriter, r *http.Request) {
	var cfg routing.GlobalConfig
	if err := decodeJSON(r, &cfg); err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.uc.Router().SetGlobalConfig(r.Context(), &cfg); err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusNoContent, nil)
}

func (s *Server) handleGetGlobalConfig(w http.ResponseWriter, r *http.Request) {
	cfg, ok := s.uc.Router().GlobalConfig(r.Context())
	if !ok {
		handleError(w, r, goerr.New("global config is not set", goerr.T(apperr.ErrTagNotFound)))
		return
	}

	respondJSON(w, r, http.StatusOK, cfg)
}

func (s *Server) handleSetTenantConfig(w http.ResponseWriter, r *http.Request) {
	tenantID := types.TenantID(chi.URLParam(r, "tenantID"))

	var cfg routing.TenantConfig
	if err := decodeJSON(r, &cfg); err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.uc.Router().SetTenantConfig(r.Context(), tenantID, &cfg); err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusNoContent, nil)
}

func (s *Server) handleGetTenantConfig(w http.ResponseWriter, r *http.Request) {
	tenantID := types.TenantID(chi.URLParam(r, "tenantID"))

	cfg, ok := s.uc.Router().TenantConfig(r.Context(), tenantID)
	if !ok {
		handleError(w, r, goerr.New("tenant config is not set",
			goerr.T(apperr.ErrTagTenantNotFound),
			goerr.TV(apperr.TenantIDKey, tenantID)))
		return
	}

	respondJSON(w, r, http.StatusOK, cfg)
}

func (s *Server) handlePinUser(w http.ResponseWriter, r *http.Request) {
	userID := types.UserID(chi.URLParam(r, "userID"))

	var req PinRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.uc.Router().PinUser(r.Context(), userID, req.Version, req.Reason); err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusNoContent, nil)
}

func (s *Server) handleGetUserPin(w http.ResponseWriter, r *http.Request) {
	userID := types.UserID(chi.URLParam(r, "userID"))

	pin, ok := s.uc.Router().UserPin(r.Context(), userID)
	if !ok {
		handleError(w, r, goerr.New("user is not pinned",
			goerr.T(apperr.ErrTagPinNotFound),
			goerr.TV(apperr.UserIDKey, userID)))
		return
	}

	respondJSON(w, r, http.StatusOK, pin)
}

func (s *Server) handleUnpinUser(w http.ResponseWriter, r *http.Request) {
	userID := types.UserID(chi.URLParam(r, "userID"))

	removed := s.uc.Router().UnpinUser(r.Context(), userID)
	respondJSON(w, r, http.StatusOK, &UnpinResponse{Removed: removed})
}

func (s *Server) handleUsersPinnedTo(w http.ResponseWriter, r *http.Request) {
	version := r.URL.Query().Get("version")
	if version == "" {
		handleError(w, r, goerr.New("version query parameter is required",
			goerr.T(apperr.ErrTagRequiredField)))
		return
	}

	users := s.uc.Router().UsersPinnedTo(r.Context(), version)
	if users == nil {
		users = []types.UserID{}
	}

	respondJSON(w, r, http.StatusOK, &PinnedUsersResponse{Version: version, UserIDs: users})
}

func (s *Server) handleMigrate(w http.ResponseWriter, r *http.Request) {
	s.migrate(w, r, s.uc.Router().MigrateUsers)
}

func (s *Server) handleRollback(w http.ResponseWriter, r *http.Request) {
	s.migrate(w, r, s.uc.Router().Rollback)
}

func (s *Server) migrate(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, from, to string) (int, error)) {
	var req MigrateRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	moved, err := op(r.Context(), req.FromVersion, req.ToVersion)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, &MigrateResponse{Migrated: moved})
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	ectx := &routing.Context{
		UserID:   req.UserID,
		TenantID: req.TenantID,
		Version:  req.Version,
	}

	version, err := s.uc.Router().ResolveVersion(r.Context(), ectx, routing.StrategyFromString(req.Strategy))
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, &ResolveResponse{Version: version})
}
