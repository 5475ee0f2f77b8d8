package expansion

import (
	"sort"
	"sync"

	"github.com/sievelabs/sieve-core/internal/core/domain"
	"github.com/sievelabs/sieve-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ExpanderRegistry = (*Registry)(nil)

// Registry implements ExpanderRegistry keyed by search dimension.
// Registering a second expander for the same dimension replaces the first.
type Registry struct {
	mu        sync.RWMutex
	expanders map[domain.IntentKind]driven.QueryExpander
}

// NewRegistry creates an empty expander registry.
func NewRegistry() *Registry {
	return &Registry{
		expanders: make(map[domain.IntentKind]driven.QueryExpander),
	}
}

// Register registers an expander for its dimension.
func (r *Registry) Register(expander driven.QueryExpander) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.expanders[expander.Kind()] = expander
}

// Get retrieves the expander for a search dimension.
// Returns nil if none is registered.
func (r *Registry) Get(kind domain.IntentKind) driven.QueryExpander {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.expanders[kind]
}

// List returns all registered dimensions, sorted for determinism.
func (r *Registry) List() []domain.IntentKind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]domain.IntentKind, 0, len(r.expanders))
	for kind := range r.expanders {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// DefaultRegistry creates a registry with the four built-in expanders.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register(&KeywordExpander{})
	r.Register(&TagExpander{})
	r.Register(&FileTypeExpander{})
	r.Register(&ColumnExpander{})

	return r
}
