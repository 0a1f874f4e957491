package lifecycle

import (
	"sync"

	"service-delivery-agent/internal/domain"
)

// Registry tracks the feeds currently streaming to agents, so mutating
// request paths can patch an agent's live view without waiting for the
// next change signal.
type Registry struct {
	mu    sync.Mutex
	feeds map[string]map[*Feed]struct{}
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{feeds: make(map[string]map[*Feed]struct{})}
}

// Add registers a feed under its agent and returns the removal func.
func (r *Registry) Add(f *Feed) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	agentID := f.AgentID()
	set, ok := r.feeds[agentID]
	if !ok {
		set = make(map[*Feed]struct{})
		r.feeds[agentID] = set
	}
	set[f] = struct{}{}

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(set, f)
		if len(set) == 0 {
			delete(r.feeds, agentID)
		}
	}
}

// ApplyClaim moves the claimed order into Active on every live feed of
// the claiming agent.
func (r *Registry) ApplyClaim(agentID string, o domain.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for f := range r.feeds[agentID] {
		f.ApplyClaim(o)
	}
}
