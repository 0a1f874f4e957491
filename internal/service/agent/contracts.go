package agent

import (
	"context"

	"service-delivery-agent/internal/domain"
)

type agentRepository interface {
	Get(ctx context.Context, id string) (*domain.Agent, error)
	Create(ctx context.Context, a *domain.Agent) error
	UpdatePartial(ctx context.Context, u domain.PartialAgentUpdate) (bool, error)
}

// presenceStore tracks agent liveness.
type presenceStore interface {
	SetOnline(ctx context.Context, agentID string) error
	SetOffline(ctx context.Context, agentID string) error
	IsOnline(ctx context.Context, agentID string) (bool, error)
}
