package message

import (
	"context"

	"service-delivery-agent/internal/domain"
)

type messageRepository interface {
	Insert(ctx context.Context, m *domain.Message) error
	ListByOrder(ctx context.Context, orderID string) ([]domain.Message, error)
	ListByAgent(ctx context.Context, agentID string) ([]domain.Message, error)
}

// orderGetter looks up the order a message thread belongs to.
type orderGetter interface {
	Get(ctx context.Context, id string) (*domain.Order, error)
}
