package lifecycle

import (
	"context"
	"strings"
	"time"

	"service-delivery-agent/internal/apperr"
	"service-delivery-agent/internal/domain"
	"service-delivery-agent/internal/logx"
	"service-delivery-agent/internal/ports/ordertx"
)

type counter interface {
	Inc()
}

// Counters are optional operation counters. Nil fields are skipped.
type Counters struct {
	ClaimConflicts counter
	CodeRejections counter
	Deliveries     counter
}

// Service drives an order through its lifecycle:
// pending -> assigned -> on_transit -> delivered.
//
// Writes go through conditional updates in the repository, so two agents
// racing for the same order cannot both win: the loser's update matches
// zero rows and surfaces as a conflict here.
type Service struct {
	repo             orderRepository
	tx               txRunner
	changes          changePublisher
	events           eventPublisher
	counters         Counters
	operationTimeout time.Duration
	logger           logx.Logger
	now              func() time.Time
}

// NewService creates a lifecycle Service.
func NewService(repo orderRepository, tx txRunner, changes changePublisher, events eventPublisher, counters Counters, timeout time.Duration, logger logx.Logger) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{
		repo:             repo,
		tx:               tx,
		changes:          changes,
		events:           events,
		counters:         counters,
		operationTimeout: timeout,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// List returns the agent's view of the order board: orders they are
// currently working plus unclaimed pending orders.
func (s *Service) List(ctx context.Context, agentID string) (domain.OrderLists, error) {
	agentID, err := validateID(agentID)
	if err != nil {
		return domain.OrderLists{}, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	active, err := s.repo.ListActiveByAgent(ctx, agentID)
	if err != nil {
		return domain.OrderLists{}, err
	}
	available, err := s.repo.ListAvailable(ctx)
	if err != nil {
		return domain.OrderLists{}, err
	}
	return domain.OrderLists{Active: active, Available: available}, nil
}

// Get returns a single order by ID.
func (s *Service) Get(ctx context.Context, orderID string) (*domain.Order, error) {
	orderID, err := validateID(orderID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	o, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperr.NotFound
	}
	return o, nil
}

// Claim assigns a pending order to the agent. Exactly one agent wins a
// contested claim; the losers get apperr.AlreadyClaimed. Claiming an order
// the agent already holds is a no-op that returns the current state.
func (s *Service) Claim(ctx context.Context, orderID, agentID string) (*domain.Order, error) {
	orderID, err := validateID(orderID)
	if err != nil {
		return nil, err
	}
	agentID, err = validateID(agentID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	o, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperr.NotFound
	}
	if o.OwnedBy(agentID) {
		return o, nil
	}
	if o.Status != domain.StatusPending || o.AgentID != nil {
		return nil, apperr.AlreadyClaimed
	}

	claimed, err := s.repo.Claim(ctx, orderID, agentID, s.now())
	if err != nil {
		return nil, err
	}
	if claimed == nil {
		// lost the race between the read above and the conditional write
		if s.counters.ClaimConflicts != nil {
			s.counters.ClaimConflicts.Inc()
		}
		return nil, apperr.AlreadyClaimed
	}

	s.logger.Info("order claimed",
		logx.String("event", "order_claimed"),
		logx.String("order_id", claimed.ID),
		logx.String("agent_id", agentID),
	)
	s.notifyChanged(ctx, claimed)

	return claimed, nil
}

// StartTransit moves an assigned order to on_transit. Only the owning
// agent can do this, and only from the assigned status.
func (s *Service) StartTransit(ctx context.Context, orderID, agentID string) (*domain.Order, error) {
	orderID, err := validateID(orderID)
	if err != nil {
		return nil, err
	}
	agentID, err = validateID(agentID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	o, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperr.NotFound
	}
	if !o.OwnedBy(agentID) || o.Status != domain.StatusAssigned {
		return nil, apperr.InvalidTransition
	}

	moved, err := s.repo.StartTransit(ctx, orderID, agentID)
	if err != nil {
		return nil, err
	}
	if moved == nil {
		return nil, apperr.InvalidTransition
	}

	s.logger.Info("order on transit",
		logx.String("event", "order_on_transit"),
		logx.String("order_id", moved.ID),
		logx.String("agent_id", agentID),
	)
	s.notifyChanged(ctx, moved)

	return moved, nil
}

// Complete marks an on_transit order delivered, gated by the delivery
// code the customer presents. The status write and the agent's earnings
// credit happen in one transaction.
func (s *Service) Complete(ctx context.Context, orderID, agentID, code string) (*domain.Order, error) {
	orderID, err := validateID(orderID)
	if err != nil {
		return nil, err
	}
	agentID, err = validateID(agentID)
	if err != nil {
		return nil, err
	}
	if code == "" {
		return nil, apperr.Invalid
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	o, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperr.NotFound
	}
	// ownership first: a non-owner never learns the order's status
	if !o.OwnedBy(agentID) {
		return nil, apperr.InvalidTransition
	}
	if o.Status == domain.StatusDelivered {
		return nil, apperr.AlreadyDelivered
	}
	if o.Status != domain.StatusOnTransit {
		return nil, apperr.InvalidTransition
	}
	// exact, case-sensitive match
	if o.DeliveryCode != code {
		if s.counters.CodeRejections != nil {
			s.counters.CodeRejections.Inc()
		}
		return nil, apperr.InvalidCode
	}

	var completed *domain.Order
	err = s.tx.WithTx(ctx, func(tx ordertx.Repository) error {
		var txErr error
		completed, txErr = tx.CompleteOrder(ctx, orderID, agentID, s.now())
		if txErr != nil {
			return txErr
		}
		if completed == nil {
			return apperr.AlreadyDelivered
		}
		if completed.DeliveryFee != nil && *completed.DeliveryFee > 0 {
			return tx.CreditEarnings(ctx, agentID, *completed.DeliveryFee)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.counters.Deliveries != nil {
		s.counters.Deliveries.Inc()
	}
	s.logger.Info("order delivered",
		logx.String("event", "order_delivered"),
		logx.String("order_id", completed.ID),
		logx.String("agent_id", agentID),
	)
	s.notifyChanged(ctx, completed)

	return completed, nil
}

func (s *Service) notifyChanged(ctx context.Context, o *domain.Order) {
	if s.events != nil {
		if err := s.events.PublishStatus(ctx, o); err != nil {
			s.logger.Warn("publish status event",
				logx.String("order_id", o.ID),
				logx.Err(err),
			)
		}
	}
	if s.changes != nil {
		s.changes.OrdersChanged(ctx)
	}
}

func validateID(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", apperr.Invalid
	}
	return id, nil
}
