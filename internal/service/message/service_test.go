package message_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"service-delivery-agent/internal/apperr"
	"service-delivery-agent/internal/domain"
	"service-delivery-agent/internal/service/message"
	testlog "service-delivery-agent/internal/testutil"
)

type stubMessages struct {
	inserted  []*domain.Message
	byOrderFn func(ctx context.Context, orderID string) ([]domain.Message, error)
	byAgentFn func(ctx context.Context, agentID string) ([]domain.Message, error)
}

func (s *stubMessages) Insert(_ context.Context, m *domain.Message) error {
	m.CreatedAt = time.Now().UTC()
	s.inserted = append(s.inserted, m)
	return nil
}

func (s *stubMessages) ListByOrder(ctx context.Context, orderID string) ([]domain.Message, error) {
	if s.byOrderFn == nil {
		return nil, nil
	}
	return s.byOrderFn(ctx, orderID)
}

func (s *stubMessages) ListByAgent(ctx context.Context, agentID string) ([]domain.Message, error) {
	if s.byAgentFn == nil {
		return nil, nil
	}
	return s.byAgentFn(ctx, agentID)
}

type stubOrders struct {
	orders map[string]*domain.Order
}

func (s *stubOrders) Get(_ context.Context, id string) (*domain.Order, error) {
	return s.orders[id], nil
}

func assignedOrder(id, agentID, customerID string) *domain.Order {
	return &domain.Order{
		ID:         id,
		CustomerID: customerID,
		Status:     domain.StatusAssigned,
		AgentID:    &agentID,
	}
}

func TestSend_AgentToCustomer(t *testing.T) {
	t.Parallel()

	msgs := &stubMessages{}
	orders := &stubOrders{orders: map[string]*domain.Order{
		"ord-1": assignedOrder("ord-1", "agent-1", "cus-1"),
	}}

	svc := message.NewService(msgs, orders, time.Second, testlog.New().Logger())

	got, err := svc.Send(context.Background(), "ord-1", "agent-1", " on my way ")
	require.NoError(t, err)
	require.Equal(t, "cus-1", got.ReceiverID)
	require.Equal(t, "on my way", got.Text)
	require.NotEmpty(t, got.ID)
	require.Len(t, msgs.inserted, 1)
}

func TestSend_CustomerToAgent(t *testing.T) {
	t.Parallel()

	msgs := &stubMessages{}
	orders := &stubOrders{orders: map[string]*domain.Order{
		"ord-1": assignedOrder("ord-1", "agent-1", "cus-1"),
	}}

	svc := message.NewService(msgs, orders, time.Second, testlog.New().Logger())

	got, err := svc.Send(context.Background(), "ord-1", "cus-1", "gate 4")
	require.NoError(t, err)
	require.Equal(t, "agent-1", got.ReceiverID)
}

func TestSend_NonParticipant(t *testing.T) {
	t.Parallel()

	orders := &stubOrders{orders: map[string]*domain.Order{
		"ord-1": assignedOrder("ord-1", "agent-1", "cus-1"),
	}}

	svc := message.NewService(&stubMessages{}, orders, time.Second, testlog.New().Logger())

	_, err := svc.Send(context.Background(), "ord-1", "stranger", "hi")
	require.ErrorIs(t, err, apperr.Invalid)
}

func TestSend_UnassignedOrder(t *testing.T) {
	t.Parallel()

	orders := &stubOrders{orders: map[string]*domain.Order{
		"ord-1": {ID: "ord-1", CustomerID: "cus-1", Status: domain.StatusPending},
	}}

	svc := message.NewService(&stubMessages{}, orders, time.Second, testlog.New().Logger())

	// the customer has no counterpart until an agent claims the order
	_, err := svc.Send(context.Background(), "ord-1", "cus-1", "hello?")
	require.ErrorIs(t, err, apperr.Invalid)
}

func TestSend_OrderMissing(t *testing.T) {
	t.Parallel()

	svc := message.NewService(&stubMessages{}, &stubOrders{}, time.Second, testlog.New().Logger())

	_, err := svc.Send(context.Background(), "missing", "agent-1", "hi")
	require.ErrorIs(t, err, apperr.NotFound)
}

func TestThread(t *testing.T) {
	t.Parallel()

	msgs := &stubMessages{byOrderFn: func(_ context.Context, orderID string) ([]domain.Message, error) {
		return []domain.Message{
			{ID: "m1", OrderID: orderID, Text: "first"},
			{ID: "m2", OrderID: orderID, Text: "second"},
		}, nil
	}}
	orders := &stubOrders{orders: map[string]*domain.Order{
		"ord-1": assignedOrder("ord-1", "agent-1", "cus-1"),
	}}

	svc := message.NewService(msgs, orders, time.Second, testlog.New().Logger())

	th, err := svc.Thread(context.Background(), "ord-1")
	require.NoError(t, err)
	require.Equal(t, "ord-1", th.Order.ID)
	require.Len(t, th.Messages, 2)
}

func TestThread_OrderMissing(t *testing.T) {
	t.Parallel()

	svc := message.NewService(&stubMessages{}, &stubOrders{}, time.Second, testlog.New().Logger())

	_, err := svc.Thread(context.Background(), "missing")
	require.ErrorIs(t, err, apperr.NotFound)
}

func TestListForAgent_GroupsAndSortsByRecency(t *testing.T) {
	t.Parallel()

	base := time.Now().UTC()
	msgs := &stubMessages{byAgentFn: func(context.Context, string) ([]domain.Message, error) {
		return []domain.Message{
			{ID: "m1", OrderID: "ord-1", Text: "old", CreatedAt: base.Add(-time.Hour)},
			{ID: "m2", OrderID: "ord-2", Text: "newer", CreatedAt: base.Add(-time.Minute)},
			{ID: "m3", OrderID: "ord-1", Text: "newest", CreatedAt: base},
		}, nil
	}}
	orders := &stubOrders{orders: map[string]*domain.Order{
		"ord-1": assignedOrder("ord-1", "agent-1", "cus-1"),
		"ord-2": assignedOrder("ord-2", "agent-1", "cus-2"),
	}}

	svc := message.NewService(msgs, orders, time.Second, testlog.New().Logger())

	threads, err := svc.ListForAgent(context.Background(), "agent-1")
	require.NoError(t, err)
	require.Len(t, threads, 2)
	require.Equal(t, "ord-1", threads[0].Order.ID)
	require.Len(t, threads[0].Messages, 2)
	require.Equal(t, "ord-2", threads[1].Order.ID)
}

func TestListForAgent_SkipsOrphanThreads(t *testing.T) {
	t.Parallel()

	msgs := &stubMessages{byAgentFn: func(context.Context, string) ([]domain.Message, error) {
		return []domain.Message{
			{ID: "m1", OrderID: "gone", Text: "?", CreatedAt: time.Now()},
		}, nil
	}}

	svc := message.NewService(msgs, &stubOrders{}, time.Second, testlog.New().Logger())

	threads, err := svc.ListForAgent(context.Background(), "agent-1")
	require.NoError(t, err)
	require.Empty(t, threads)
}
