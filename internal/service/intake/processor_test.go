package intake_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"service-delivery-agent/internal/apperr"
	"service-delivery-agent/internal/domain"
	"service-delivery-agent/internal/gateway/marketplace"
	"service-delivery-agent/internal/metrics"
	"service-delivery-agent/internal/service/intake"
	testlog "service-delivery-agent/internal/testutil"
)

type stubGateway struct {
	fn func(ctx context.Context, id string) (*marketplace.Order, error)
}

func (s *stubGateway) GetByID(ctx context.Context, id string) (*marketplace.Order, error) {
	if s.fn == nil {
		return nil, nil
	}
	return s.fn(ctx, id)
}

type stubStore struct {
	insertFn func(ctx context.Context, o *domain.Order) (bool, error)
	deleteFn func(ctx context.Context, orderID string) (bool, error)
}

func (s *stubStore) Insert(ctx context.Context, o *domain.Order) (bool, error) {
	if s.insertFn == nil {
		return false, nil
	}
	return s.insertFn(ctx, o)
}

func (s *stubStore) DeletePending(ctx context.Context, orderID string) (bool, error) {
	if s.deleteFn == nil {
		return false, nil
	}
	return s.deleteFn(ctx, orderID)
}

type changesStub struct{ n int }

func (c *changesStub) OrdersChanged(context.Context) { c.n++ }

func marketOrder(id string) *marketplace.Order {
	fee := 120.0
	return &marketplace.Order{
		ID:              id,
		CustomerID:      "cus-1",
		CustomerName:    "Jane",
		CustomerContact: "+254700000001",
		DeliveryAddress: "12 Riverside Dr",
		DeliveryCode:    "DEL-1234",
		DeliveryFee:     &fee,
		CreatedAt:       time.Now().UTC(),
	}
}

func TestHandle_Created_MirrorsOrder(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{fn: func(_ context.Context, id string) (*marketplace.Order, error) {
		return marketOrder(id), nil
	}}
	var stored *domain.Order
	store := &stubStore{insertFn: func(_ context.Context, o *domain.Order) (bool, error) {
		stored = o
		return true, nil
	}}
	changes := &changesStub{}
	events := metrics.NewIntakeEventsTotal()

	p := intake.NewProcessor(gw, store, changes, events, testlog.New().Logger())

	err := p.Handle(context.Background(), intake.Event{OrderID: "ord-1", Action: " CREATED "})
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Equal(t, domain.StatusPending, stored.Status)
	require.Equal(t, "DEL-1234", stored.DeliveryCode)
	require.Equal(t, 1, changes.n)
	require.Equal(t, 1.0, testutil.ToFloat64(events.WithLabelValues("created")))
}

func TestHandle_Created_DuplicateDoesNotNotify(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{fn: func(_ context.Context, id string) (*marketplace.Order, error) {
		return marketOrder(id), nil
	}}
	store := &stubStore{insertFn: func(context.Context, *domain.Order) (bool, error) {
		return false, nil
	}}
	changes := &changesStub{}

	p := intake.NewProcessor(gw, store, changes, nil, testlog.New().Logger())

	err := p.Handle(context.Background(), intake.Event{OrderID: "ord-1", Action: "created"})
	require.NoError(t, err)
	require.Zero(t, changes.n)
}

func TestHandle_Created_VanishedOrderIsSkipped(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{fn: func(context.Context, string) (*marketplace.Order, error) {
		return nil, nil
	}}
	store := &stubStore{insertFn: func(context.Context, *domain.Order) (bool, error) {
		panic("must not insert a vanished order")
	}}

	p := intake.NewProcessor(gw, store, nil, nil, testlog.New().Logger())

	err := p.Handle(context.Background(), intake.Event{OrderID: "ord-1", Action: "pending"})
	require.NoError(t, err)
}

func TestHandle_Created_GatewayErrorPropagates(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{fn: func(context.Context, string) (*marketplace.Order, error) {
		return nil, errors.New("marketplace down")
	}}

	p := intake.NewProcessor(gw, &stubStore{}, nil, nil, testlog.New().Logger())

	err := p.Handle(context.Background(), intake.Event{OrderID: "ord-1", Action: "created"})
	require.Error(t, err)

	var perm intake.PermanentError
	require.False(t, errors.As(err, &perm), "transport failures must redeliver")
}

func TestHandle_Created_MarketplaceRejectionIsPermanent(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{fn: func(context.Context, string) (*marketplace.Order, error) {
		return nil, fmt.Errorf("marketplace gateway: GetByID: %w", &marketplace.StatusError{Code: http.StatusForbidden})
	}}
	events := metrics.NewIntakeEventsTotal()

	p := intake.NewProcessor(gw, &stubStore{}, nil, events, testlog.New().Logger())

	err := p.Handle(context.Background(), intake.Event{OrderID: "ord-1", Action: "created"})
	require.Error(t, err)

	var perm intake.PermanentError
	require.True(t, errors.As(err, &perm), "a 4xx must not redeliver forever")
	require.Equal(t, 1.0, testutil.ToFloat64(events.WithLabelValues("rejected")))
}

func TestHandle_Created_ServerFaultRedelivers(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{fn: func(context.Context, string) (*marketplace.Order, error) {
		return nil, fmt.Errorf("marketplace gateway: GetByID: %w", &marketplace.StatusError{Code: http.StatusBadGateway})
	}}

	p := intake.NewProcessor(gw, &stubStore{}, nil, nil, testlog.New().Logger())

	err := p.Handle(context.Background(), intake.Event{OrderID: "ord-1", Action: "created"})
	require.Error(t, err)

	var perm intake.PermanentError
	require.False(t, errors.As(err, &perm))
}

func TestHandle_Canceled_RemovesPending(t *testing.T) {
	t.Parallel()

	var deletedID string
	store := &stubStore{deleteFn: func(_ context.Context, orderID string) (bool, error) {
		deletedID = orderID
		return true, nil
	}}
	changes := &changesStub{}

	p := intake.NewProcessor(&stubGateway{}, store, changes, nil, testlog.New().Logger())

	err := p.Handle(context.Background(), intake.Event{OrderID: "ord-1", Action: "canceled"})
	require.NoError(t, err)
	require.Equal(t, "ord-1", deletedID)
	require.Equal(t, 1, changes.n)
}

func TestHandle_Canceled_ClaimedOrderStays(t *testing.T) {
	t.Parallel()

	store := &stubStore{deleteFn: func(context.Context, string) (bool, error) {
		return false, nil
	}}
	changes := &changesStub{}

	p := intake.NewProcessor(&stubGateway{}, store, changes, nil, testlog.New().Logger())

	err := p.Handle(context.Background(), intake.Event{OrderID: "ord-1", Action: "deleted"})
	require.NoError(t, err)
	require.Zero(t, changes.n)
}

func TestHandle_UnknownActionIsSkipped(t *testing.T) {
	t.Parallel()

	events := metrics.NewIntakeEventsTotal()
	p := intake.NewProcessor(&stubGateway{}, &stubStore{}, nil, events, testlog.New().Logger())

	err := p.Handle(context.Background(), intake.Event{OrderID: "ord-1", Action: "completed_elsewhere"})
	require.NoError(t, err)
	require.Equal(t, 1.0, testutil.ToFloat64(events.WithLabelValues("skipped")))
}

func TestHandle_EmptyOrderID(t *testing.T) {
	t.Parallel()

	p := intake.NewProcessor(&stubGateway{}, &stubStore{}, nil, nil, testlog.New().Logger())

	err := p.Handle(context.Background(), intake.Event{OrderID: "  ", Action: "created"})
	require.ErrorIs(t, err, apperr.Invalid)
}
