package intake

import (
	"context"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"service-delivery-agent/internal/apperr"
	"service-delivery-agent/internal/domain"
	"service-delivery-agent/internal/gateway/marketplace"
	"service-delivery-agent/internal/logx"
)

// Processor applies marketplace order events to the local store. A
// "created" or "pending" event pulls the order from the marketplace and
// mirrors it locally; "canceled" and "deleted" drop the local copy if
// no agent has claimed it yet. Unknown actions are skipped.
type Processor struct {
	gateway marketplaceGateway
	store   orderStore
	changes changePublisher
	events  *prometheus.CounterVec
	logger  logx.Logger
	factory *actionFactory
}

// NewProcessor creates an intake Processor.
func NewProcessor(gw marketplaceGateway, store orderStore, changes changePublisher, events *prometheus.CounterVec, logger logx.Logger) *Processor {
	p := &Processor{
		gateway: gw,
		store:   store,
		changes: changes,
		events:  events,
		logger:  logger,
	}
	p.factory = newActionFactory(p.onCreated, p.onRemoved)
	return p
}

// Handle processes a single marketplace event.
func (p *Processor) Handle(ctx context.Context, e Event) error {
	if strings.TrimSpace(e.OrderID) == "" {
		return apperr.Invalid
	}
	fn, ok := p.factory.get(e.Action)
	if !ok {
		p.count("skipped")
		return nil
	}
	return fn(ctx, e)
}

func (p *Processor) onCreated(ctx context.Context, e Event) error {
	ord, err := p.gateway.GetByID(ctx, e.OrderID)
	if err != nil {
		// a marketplace 4xx will not heal on redelivery, drop the event
		if !marketplace.IsRetryable(err) {
			p.logger.Warn("marketplace rejected order fetch",
				logx.String("order_id", e.OrderID),
				logx.Err(err),
			)
			p.count("rejected")
			return Permanent(err)
		}
		return err
	}
	if ord == nil {
		// the marketplace no longer knows the order, nothing to mirror
		p.logger.Warn("order vanished from marketplace",
			logx.String("order_id", e.OrderID),
		)
		p.count("vanished")
		return nil
	}

	inserted, err := p.store.Insert(ctx, mapOrder(ord))
	if err != nil {
		return err
	}
	if !inserted {
		p.count("duplicate")
		return nil
	}

	p.logger.Info("order mirrored",
		logx.String("event", "order_mirrored"),
		logx.String("order_id", ord.ID),
	)
	p.count("created")
	if p.changes != nil {
		p.changes.OrdersChanged(ctx)
	}
	return nil
}

func (p *Processor) onRemoved(ctx context.Context, e Event) error {
	deleted, err := p.store.DeletePending(ctx, e.OrderID)
	if err != nil {
		return err
	}
	if !deleted {
		// already claimed or never mirrored, leave it alone
		p.count("remove_skipped")
		return nil
	}

	p.logger.Info("order removed",
		logx.String("event", "order_removed"),
		logx.String("order_id", e.OrderID),
	)
	p.count("removed")
	if p.changes != nil {
		p.changes.OrdersChanged(ctx)
	}
	return nil
}

func (p *Processor) count(action string) {
	if p.events != nil {
		p.events.WithLabelValues(action).Inc()
	}
}

func mapOrder(o *marketplace.Order) *domain.Order {
	createdAt := o.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return &domain.Order{
		ID:              o.ID,
		CustomerID:      o.CustomerID,
		CustomerName:    o.CustomerName,
		CustomerContact: o.CustomerContact,
		DeliveryAddress: o.DeliveryAddress,
		Description:     o.Description,
		Status:          domain.StatusPending,
		DeliveryCode:    o.DeliveryCode,
		Amount:          o.Amount,
		DeliveryFee:     o.DeliveryFee,
		Location:        o.Location,
		CreatedAt:       createdAt,
	}
}
