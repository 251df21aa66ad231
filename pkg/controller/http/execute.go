package http

import (
	"net/http"

	"github.com/m-mizutani/kagemusha/pkg/domain/model/routing"
	"github.com/m-mizutani/kagemusha/pkg/domain/types"
)

// ExecuteRequest runs one agent completion
type ExecuteRequest struct {
	UserID   types.UserID   `json:"user_id"`
	TenantID types.TenantID `json:"tenant_id,omitempty"`
	Version  string         `json:"version,omitempty"`
	Strategy string         `json:"strategy,omitempty"`
	Input    string         `json:"input"`
	Vars     map[string]any `json:"vars,omitempty"`
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	var req ExecuteRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	ectx := &routing.Context{
		UserID:   req.UserID,
		TenantID: req.TenantID,
		Version:  req.Version,
		Input:    req.Input,
		Vars:     req.Vars,
	}

	record, err := s.uc.Execute(r.Context(), ectx, routing.StrategyFromString(req.Strategy))
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, record)
}
