//go:generate mockgen -source=contracts.go -destination=lifecycle_mocks_test.go -package=lifecycle_test

package lifecycle

import (
	"context"
	"time"

	"service-delivery-agent/internal/domain"
	"service-delivery-agent/internal/ports/ordertx"
)

type orderRepository interface {
	Get(ctx context.Context, id string) (*domain.Order, error)
	ListActiveByAgent(ctx context.Context, agentID string) ([]domain.Order, error)
	ListAvailable(ctx context.Context) ([]domain.Order, error)
	Claim(ctx context.Context, orderID, agentID string, at time.Time) (*domain.Order, error)
	StartTransit(ctx context.Context, orderID, agentID string) (*domain.Order, error)
}

// txRunner runs a function inside a repository transaction.
type txRunner interface {
	WithTx(ctx context.Context, fn func(tx ordertx.Repository) error) error
}

// changePublisher signals other processes that order state changed.
type changePublisher interface {
	OrdersChanged(ctx context.Context)
}

// eventPublisher emits an order status event to downstream consumers.
type eventPublisher interface {
	PublishStatus(ctx context.Context, o *domain.Order) error
}
