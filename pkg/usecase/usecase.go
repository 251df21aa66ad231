package usecase

import (
	"time"

	"github.com/m-mizutani/kagemusha/pkg/domain/interfaces"
	"github.com/m-mizutani/kagemusha/pkg/service/registry"
	"github.com/m-mizutani/kagemusha/pkg/service/router"
)

// UseCases holds the executor and its collaborators
type UseCases struct {
	registry   *registry.Registry
	router     *router.Router
	completion interfaces.CompletionClient
	sink       interfaces.RecordSink
	now        func() time.Time
}

// Option is a functional option for UseCases
type Option func(*UseCases)

// WithRegistry sets the version registry
func WithRegistry(reg *registry.Registry) Option {
	return func(uc *UseCases) {
		uc.registry = reg
	}
}

// WithRouter sets the version router
func WithRouter(rt *router.Router) Option {
	return func(uc *UseCases) {
		uc.router = rt
	}
}

// WithCompletionClient sets the completion capability
func WithCompletionClient(client interfaces.CompletionClient) Option {
	return func(uc *UseCases) {
		uc.completion = client
	}
}

// WithRecordSink sets the execution record sink
func WithRecordSink(sink interfaces.RecordSink) Option {
	return func(uc *UseCases) {
		uc.sink = sink
	}
}

// WithClock replaces the wall clock. For testing.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

// New creates the use cases
func New(opts ...Option) *UseCases {
	uc := &UseCases{
		now: time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Registry returns the bound registry
func (uc *UseCases) Registry() *registry.Registry {
	return uc.registry
}

// Router returns the bound router
func (uc *UseCases) Router() *router.Router {
	return uc.router
}
