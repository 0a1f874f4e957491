package handlers

import (
	"context"

	"service-delivery-agent/internal/domain"
	"service-delivery-agent/internal/notify"
	"service-delivery-agent/internal/service/agent"
	"service-delivery-agent/internal/service/lifecycle"
	"service-delivery-agent/internal/service/message"
)

type orderUsecase interface {
	List(ctx context.Context, agentID string) (domain.OrderLists, error)
	Get(ctx context.Context, orderID string) (*domain.Order, error)
	Claim(ctx context.Context, orderID, agentID string) (*domain.Order, error)
	StartTransit(ctx context.Context, orderID, agentID string) (*domain.Order, error)
	Complete(ctx context.Context, orderID, agentID, code string) (*domain.Order, error)
}

// NewOrderUsecase wires a lifecycle Service into an orderUsecase.
func NewOrderUsecase(svc *lifecycle.Service) orderUsecase {
	return svc
}

type agentUsecase interface {
	Register(ctx context.Context, in agent.RegisterInput) (*domain.Agent, error)
	Get(ctx context.Context, id string) (*domain.Agent, error)
	UpdateProfile(ctx context.Context, u domain.PartialAgentUpdate) error
	SetOnline(ctx context.Context, id string) error
	SetOffline(ctx context.Context, id string) error
}

// NewAgentUsecase wires an agent Service into an agentUsecase.
func NewAgentUsecase(svc *agent.Service) agentUsecase {
	return svc
}

type messageUsecase interface {
	Send(ctx context.Context, orderID, senderID, text string) (*domain.Message, error)
	Thread(ctx context.Context, orderID string) (*domain.MessageThread, error)
	ListForAgent(ctx context.Context, agentID string) ([]domain.MessageThread, error)
}

// NewMessageUsecase wires a message Service into a messageUsecase.
func NewMessageUsecase(svc *message.Service) messageUsecase {
	return svc
}

// NewFeedLister adapts the lifecycle Service for the events stream.
func NewFeedLister(svc *lifecycle.Service) feedLister {
	return svc
}

// NewFeedRegistry adapts the lifecycle Registry for the events stream.
func NewFeedRegistry(reg *lifecycle.Registry) feedRegistry {
	return reg
}

// NewFeedPatcher adapts the lifecycle Registry for the claim path.
func NewFeedPatcher(reg *lifecycle.Registry) feedPatcher {
	return reg
}

// NewChangeListener adapts the notify Bus for the events stream.
func NewChangeListener(b *notify.Bus) changeListener {
	return b
}
