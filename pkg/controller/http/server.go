package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/kagemusha/pkg/usecase"
	"github.com/m-mizutani/kagemusha/pkg/utils/safe"
)

// Server represents the HTTP admin server
type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
}

// Options is a functional option for Server
type Options func(*Server)

// New creates a new HTTP server around the use cases
func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Apply middleware
	r.Use(loggingMiddleware)
	r.Use(panicRecoveryMiddleware)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/versions", func(r chi.Router) {
			r.Post("/", s.handleRegisterVersion)
			r.Get("/", s.handleListVersions)
			r.Put("/default", s.handleSetDefaultVersion)
			r.Get("/{version}", s.handleGetVersion)
			r.Delete("/{version}", s.handleRemoveVersion)
		})

		r.Route("/global", func(r chi.Router) {
			r.Put("/", s.handleSetGlobalConfig)
			r.Get("/", s.handleGetGlobalConfig)
		})

		r.Route("/tenants", func(r chi.Router) {
			r.Put("/{tenantID}", s.handleSetTenantConfig)
			r.Get("/{tenantID}", s.handleGetTenantConfig)
		})

		r.Route("/pins", func(r chi.Router) {
			r.Get("/", s.handleUsersPinnedTo)
			r.Put("/{userID}", s.handlePinUser)
			r.Get("/{userID}", s.handleGetUserPin)
			r.Delete("/{userID}", s.handleUnpinUser)
		})

		r.Post("/migrate", s.handleMigrate)
		r.Post("/rollback", s.handleRollback)
		r.Post("/resolve", s.handleResolve)
		r.Post("/execute", s.handleExecute)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		safe.Write(r.Context(), w, []byte("OK"))
	})

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
