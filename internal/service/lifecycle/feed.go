package lifecycle

import (
	"context"
	"sync"

	"service-delivery-agent/internal/domain"
	"service-delivery-agent/internal/logx"
)

type lister interface {
	List(ctx context.Context, agentID string) (domain.OrderLists, error)
}

// Feed is one agent's live view of the order board. It holds the last
// known lists and refreshes them when a change signal arrives. A failed
// refresh keeps the old data and marks the view stale instead of
// wiping it.
type Feed struct {
	svc     lister
	agentID string
	logger  logx.Logger
	nudges  chan struct{}

	mu    sync.RWMutex
	lists domain.OrderLists
	stale bool
}

// NewFeed creates a Feed for one agent.
func NewFeed(svc lister, agentID string, logger logx.Logger) *Feed {
	return &Feed{
		svc:     svc,
		agentID: agentID,
		logger:  logger,
		nudges:  make(chan struct{}, 1),
	}
}

// AgentID returns the agent this feed belongs to.
func (f *Feed) AgentID() string { return f.agentID }

// Refresh reloads the lists from the service. On failure the previous
// lists survive and the feed turns stale until a refresh succeeds.
func (f *Feed) Refresh(ctx context.Context) error {
	lists, err := f.svc.List(ctx, f.agentID)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.stale = true
		f.logger.Warn("feed refresh failed",
			logx.String("agent_id", f.agentID),
			logx.Err(err),
		)
		return err
	}
	f.lists = lists
	f.stale = false
	return nil
}

// Snapshot returns a copy of the current lists and whether they are
// stale.
func (f *Feed) Snapshot() (domain.OrderLists, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := domain.OrderLists{
		Active:    append([]domain.Order(nil), f.lists.Active...),
		Available: append([]domain.Order(nil), f.lists.Available...),
	}
	return out, f.stale
}

// ApplyClaim optimistically moves a just-claimed order from Available
// to the front of Active, so the view reflects the claim before the
// next refresh arrives. A running feed re-renders immediately.
func (f *Feed) ApplyClaim(o domain.Order) {
	f.patchClaim(o)
	select {
	case f.nudges <- struct{}{}:
	default:
	}
}

func (f *Feed) patchClaim(o domain.Order) {
	f.mu.Lock()
	defer f.mu.Unlock()

	kept := f.lists.Available[:0]
	for _, a := range f.lists.Available {
		if a.ID != o.ID {
			kept = append(kept, a)
		}
	}
	f.lists.Available = kept

	for i := range f.lists.Active {
		if f.lists.Active[i].ID == o.ID {
			f.lists.Active[i] = o
			return
		}
	}
	f.lists.Active = append([]domain.Order{o}, f.lists.Active...)
}

// Run refreshes once, then keeps refreshing on every change signal
// until the context ends or the signal channel closes. onRefresh, if
// not nil, runs after each refresh attempt, successful or not, so the
// caller can re-render from the latest snapshot.
func (f *Feed) Run(ctx context.Context, signals <-chan struct{}, onRefresh func()) {
	refresh := func() {
		_ = f.Refresh(ctx)
		if onRefresh != nil {
			onRefresh()
		}
	}
	refresh()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-signals:
			if !ok {
				return
			}
			refresh()
		case <-f.nudges:
			// an optimistic patch landed, resend without a refetch
			if onRefresh != nil {
				onRefresh()
			}
		}
	}
}
