package platform

import (
	"context"

	"github.com/MrSnakeDoc/scout/internal/domain"
)

// Fetcher is the contract every marketplace adapter implements.
//
// Fetch must honor the caller-supplied context deadline, must return
// an error on internal failure rather than partial or garbled
// listings, and must not mutate any state outside its return value.
// The pipeline treats every adapter as independently faulty: slow,
// failing or empty adapters never affect their siblings.
type Fetcher interface {
	Fetch(ctx context.Context, query string, maxResults int) ([]domain.Listing, error)
}

// Registry holds the configured marketplace adapters. It is built once
// at process start and passed by reference into the aggregator - a
// plain dependency, never ambient global state.
//
// The registry is immutable after construction, so concurrent reads
// need no locking.
type Registry struct {
	fetchers map[string]Fetcher
	order    []string
}

func NewRegistry() *Registry {
	return &Registry{
		fetchers: make(map[string]Fetcher),
	}
}

// Register adds an adapter under its platform name. Registering the
// same name twice replaces the previous adapter.
func (r *Registry) Register(name string, f Fetcher) {
	if _, exists := r.fetchers[name]; !exists {
		r.order = append(r.order, name)
	}
	r.fetchers[name] = f
}

// Get returns the adapter for a platform name.
func (r *Registry) Get(name string) (Fetcher, bool) {
	f, ok := r.fetchers[name]
	return f, ok
}

// Names returns the registered platform names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered adapters.
func (r *Registry) Len() int {
	return len(r.fetchers)
}
