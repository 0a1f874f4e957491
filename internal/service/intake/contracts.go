package intake

import (
	"context"

	"service-delivery-agent/internal/domain"
	"service-delivery-agent/internal/gateway/marketplace"
)

// marketplaceGateway fetches order details from the marketplace.
type marketplaceGateway interface {
	GetByID(ctx context.Context, id string) (*marketplace.Order, error)
}

// orderStore is the subset of the order repository intake writes to.
type orderStore interface {
	Insert(ctx context.Context, o *domain.Order) (bool, error)
	DeletePending(ctx context.Context, orderID string) (bool, error)
}

// changePublisher signals other processes that order state changed.
type changePublisher interface {
	OrdersChanged(ctx context.Context)
}
