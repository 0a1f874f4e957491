package message

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"service-delivery-agent/internal/apperr"
	"service-delivery-agent/internal/domain"
	"service-delivery-agent/internal/logx"
)

// Service handles in-order chat between the assigned agent and the
// customer. Messages are always attached to an order, and only the two
// parties of that order may write to its thread.
type Service struct {
	messages         messageRepository
	orders           orderGetter
	operationTimeout time.Duration
	logger           logx.Logger
}

// NewService creates a message Service.
func NewService(messages messageRepository, orders orderGetter, timeout time.Duration, logger logx.Logger) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{
		messages:         messages,
		orders:           orders,
		operationTimeout: timeout,
		logger:           logger,
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// Send posts a message to the order's thread. The receiver is the other
// party of the order, so the caller only names themselves.
func (s *Service) Send(ctx context.Context, orderID, senderID, text string) (*domain.Message, error) {
	orderID = strings.TrimSpace(orderID)
	senderID = strings.TrimSpace(senderID)
	text = strings.TrimSpace(text)
	if orderID == "" || senderID == "" || text == "" {
		return nil, apperr.Invalid
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperr.NotFound
	}

	receiverID, err := otherParty(o, senderID)
	if err != nil {
		return nil, err
	}

	m := &domain.Message{
		ID:         uuid.NewString(),
		OrderID:    orderID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
	}
	if err := s.messages.Insert(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Thread returns the order together with its full message history.
func (s *Service) Thread(ctx context.Context, orderID string) (*domain.MessageThread, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, apperr.Invalid
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperr.NotFound
	}

	msgs, err := s.messages.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &domain.MessageThread{Order: *o, Messages: msgs}, nil
}

// ListForAgent returns the agent's threads, most recently active first.
func (s *Service) ListForAgent(ctx context.Context, agentID string) ([]domain.MessageThread, error) {
	agentID = strings.TrimSpace(agentID)
	if agentID == "" {
		return nil, apperr.Invalid
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	msgs, err := s.messages.ListByAgent(ctx, agentID)
	if err != nil {
		return nil, err
	}

	byOrder := make(map[string][]domain.Message)
	var orderIDs []string
	for _, m := range msgs {
		if _, seen := byOrder[m.OrderID]; !seen {
			orderIDs = append(orderIDs, m.OrderID)
		}
		byOrder[m.OrderID] = append(byOrder[m.OrderID], m)
	}

	threads := make([]domain.MessageThread, 0, len(orderIDs))
	for _, id := range orderIDs {
		o, err := s.orders.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if o == nil {
			// order was removed, the thread is an orphan
			continue
		}
		threads = append(threads, domain.MessageThread{Order: *o, Messages: byOrder[id]})
	}

	sort.SliceStable(threads, func(i, j int) bool {
		return lastMessageAt(threads[i]).After(lastMessageAt(threads[j]))
	})
	return threads, nil
}

func lastMessageAt(t domain.MessageThread) time.Time {
	if len(t.Messages) == 0 {
		return time.Time{}
	}
	return t.Messages[len(t.Messages)-1].CreatedAt
}

func otherParty(o *domain.Order, senderID string) (string, error) {
	switch {
	case o.AgentID != nil && senderID == *o.AgentID:
		return o.CustomerID, nil
	case senderID == o.CustomerID:
		if o.AgentID == nil {
			// nobody is working the order yet
			return "", apperr.Invalid
		}
		return *o.AgentID, nil
	default:
		return "", apperr.Invalid
	}
}
