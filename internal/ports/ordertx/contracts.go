package ordertx

import (
	"context"
	"time"

	"service-delivery-agent/internal/domain"
)

// Repository is the transactional slice of the order store used to finish
// a delivery: the conditional completion write and the earnings credit
// must land atomically.
type Repository interface {
	CompleteOrder(ctx context.Context, orderID, agentID string, at time.Time) (*domain.Order, error)
	CreditEarnings(ctx context.Context, agentID string, amount float64) error
}

// Runner is a transaction runner
type Runner interface {
	WithTx(ctx context.Context, fn func(tx Repository) error) error
}
