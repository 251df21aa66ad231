package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/kagemusha/pkg/domain/model/agent"
	"github.com/m-mizutani/kagemusha/pkg/domain/types/apperr"
)

// VersionListResponse represents the versions listing
type VersionListResponse struct {
	Versions       []*agent.Config `json:"versions"`
	DefaultVersion string          `json:"default_version,omitempty"`
	LatestVersion  string          `json:"latest_version,omitempty"`
}

// SetDefaultVersionRequest names the version to make default
type SetDefaultVersionRequest struct {
	Version string `json:"version"`
}

// RemoveVersionResponse reports whether the version was present
type RemoveVersionResponse struct {
	Removed bool `json:"removed"`
}

func (s *Server) handleRegisterVersion(w http.ResponseWriter, r *http.Request) {
	var cfg agent.Config
	if err := decodeJSON(r, &cfg); err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.uc.Registry().Register(r.Context(), &cfg); err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusCreated, &cfg)
}

func (s *Server) handleListVersions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp := &VersionListResponse{
		Versions: s.uc.Registry().List(ctx),
	}
	if def, ok := s.uc.Registry().DefaultVersion(ctx); ok {
		resp.DefaultVersion = def
	}
	if latest, ok := s.uc.Registry().LatestVersion(ctx); ok {
		resp.LatestVersion = latest
	}

	respondJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleGetVersion(w http.ResponseWriter, r *http.Request) {
	version := chi.URLParam(r, "version")

	cfg, ok := s.uc.Registry().Get(r.Context(), version)
	if !ok {
		handleError(w, r, goerr.Wrap(apperr.ErrVersionNotFound, "no such version",
			goerr.TV(apperr.VersionKey, version)))
		return
	}

	respondJSON(w, r, http.StatusOK, cfg)
}

func (s *Server) handleRemoveVersion(w http.ResponseWriter, r *http.Request) {
	version := chi.URLParam(r, "version")

	removed, err := s.uc.Registry().Remove(r.Context(), version)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, &RemoveVersionResponse{Removed: removed})
}

func (s *Server) handleSetDefaultVersion(w http.ResponseWriter, r *http.Request) {
	var req SetDefaultVersionRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.uc.Registry().SetDefaultVersion(r.Context(), req.Version); err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusNoContent, nil)
}
