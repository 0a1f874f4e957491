package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"service-delivery-agent/internal/domain"
	"service-delivery-agent/internal/ports/ordertx"
)

const orderColumns = `id, customer_id, customer_name, customer_contact, delivery_address,
       description, status, delivery_code, agent_id, amount, delivery_fee, location,
       created_at, confirmed_at, delivered_at`

// OrderRepo represents the order repository.
type OrderRepo struct {
	db *pgxpool.Pool
}

// NewOrderRepo creates a new OrderRepo.
func NewOrderRepo(db *pgxpool.Pool) *OrderRepo {
	return &OrderRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.ID, &o.CustomerID, &o.CustomerName, &o.CustomerContact, &o.DeliveryAddress,
		&o.Description, &o.Status, &o.DeliveryCode, &o.AgentID, &o.Amount, &o.DeliveryFee,
		&o.Location, &o.CreatedAt, &o.ConfirmedAt, &o.DeliveredAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Get returns an order by its ID, or nil when it does not exist.
func (r *OrderRepo) Get(ctx context.Context, id string) (*domain.Order, error) {
	row := r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order %q: %w", id, err)
	}
	return o, nil
}

func (r *OrderRepo) list(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

// ListActiveByAgent returns the agent's undelivered orders, newest first.
func (r *OrderRepo) ListActiveByAgent(ctx context.Context, agentID string) ([]domain.Order, error) {
	orders, err := r.list(ctx, `
        SELECT `+orderColumns+`
        FROM orders
        WHERE agent_id = $1 AND status <> $2
        ORDER BY created_at DESC
    `, agentID, string(domain.StatusDelivered))
	if err != nil {
		return nil, fmt.Errorf("list active orders for agent %q: %w", agentID, err)
	}
	return orders, nil
}

// ListAvailable returns unclaimed pending orders, newest first.
func (r *OrderRepo) ListAvailable(ctx context.Context) ([]domain.Order, error) {
	orders, err := r.list(ctx, `
        SELECT `+orderColumns+`
        FROM orders
        WHERE status = $1 AND agent_id IS NULL
        ORDER BY created_at DESC
    `, string(domain.StatusPending))
	if err != nil {
		return nil, fmt.Errorf("list available orders: %w", err)
	}
	return orders, nil
}

// Claim conditionally assigns a pending, unclaimed order to the agent.
// The WHERE clause is the race-safety boundary: two concurrent claims can
// never both match. Returns nil when the condition matched no row.
func (r *OrderRepo) Claim(ctx context.Context, orderID, agentID string, at time.Time) (*domain.Order, error) {
	row := r.db.QueryRow(ctx, `
        UPDATE orders
        SET agent_id = $2, status = $3, confirmed_at = $4, updated_at = now()
        WHERE id = $1 AND status = $5 AND agent_id IS NULL
        RETURNING `+orderColumns+`
    `, orderID, agentID, string(domain.StatusAssigned), at, string(domain.StatusPending))

	o, err := scanOrder(row)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("claim order %q: %w", orderID, err)
	}
	return o, nil
}

// StartTransit conditionally moves the agent's assigned order to on_transit.
// Returns nil when the condition matched no row.
func (r *OrderRepo) StartTransit(ctx context.Context, orderID, agentID string) (*domain.Order, error) {
	row := r.db.QueryRow(ctx, `
        UPDATE orders
        SET status = $3, updated_at = now()
        WHERE id = $1 AND agent_id = $2 AND status = $4
        RETURNING `+orderColumns+`
    `, orderID, agentID, string(domain.StatusOnTransit), string(domain.StatusAssigned))

	o, err := scanOrder(row)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("start transit for order %q: %w", orderID, err)
	}
	return o, nil
}

// Insert stores a new order coming from the marketplace. An order that
// already exists is left untouched; it may have been claimed since the
// event was produced. Returns true when a row was inserted.
func (r *OrderRepo) Insert(ctx context.Context, o *domain.Order) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        INSERT INTO orders (`+orderColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
        ON CONFLICT (id) DO NOTHING
    `, o.ID, o.CustomerID, o.CustomerName, o.CustomerContact, o.DeliveryAddress,
		o.Description, string(o.Status), o.DeliveryCode, o.AgentID, o.Amount,
		o.DeliveryFee, o.Location, o.CreatedAt, o.ConfirmedAt, o.DeliveredAt)
	if err != nil {
		return false, fmt.Errorf("insert order %q: %w", o.ID, err)
	}
	return ct.RowsAffected() > 0, nil
}

// DeletePending removes an order only while it is still unclaimed. A
// cancellation arriving after a claim is ignored. Returns true when a
// row was removed.
func (r *OrderRepo) DeletePending(ctx context.Context, orderID string) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        DELETE FROM orders
        WHERE id = $1 AND status = $2 AND agent_id IS NULL
    `, orderID, string(domain.StatusPending))
	if err != nil {
		return false, fmt.Errorf("delete pending order %q: %w", orderID, err)
	}
	return ct.RowsAffected() > 0, nil
}

// WithTx opens a transaction and executes fn within it.
func (r *OrderRepo) WithTx(ctx context.Context, fn func(tx ordertx.Repository) error) (err error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			err = tx.Rollback(ctx)
			if err != nil {
				panic(err)
			}
			panic(p)
		}
	}()

	wrapped := &TxRepo{tx: tx}

	if err := fn(wrapped); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback tx: %w (original error: %s)", rbErr, err.Error())
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// TxRepo represents a transaction-scoped order repository.
type TxRepo struct {
	tx pgx.Tx
}

// CompleteOrder conditionally marks the agent's in-transit order delivered.
// Returns nil when the condition matched no row (the order changed
// underneath, e.g. a duplicate completion).
func (r *TxRepo) CompleteOrder(ctx context.Context, orderID, agentID string, at time.Time) (*domain.Order, error) {
	row := r.tx.QueryRow(ctx, `
        UPDATE orders
        SET status = $3, delivered_at = $4, updated_at = now()
        WHERE id = $1 AND agent_id = $2 AND status = $5
        RETURNING `+orderColumns+`
    `, orderID, agentID, string(domain.StatusDelivered), at, string(domain.StatusOnTransit))

	o, err := scanOrder(row)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("complete order %q: %w", orderID, err)
	}
	return o, nil
}

// CreditEarnings adds the delivery fee to the agent's earnings balance.
func (r *TxRepo) CreditEarnings(ctx context.Context, agentID string, amount float64) error {
	ct, err := r.tx.Exec(ctx, `
        UPDATE agents
        SET earnings = earnings + $2, updated_at = now()
        WHERE id = $1
    `, agentID, amount)
	if err != nil {
		return fmt.Errorf("credit earnings for agent %q: %w", agentID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("agent %q not found", agentID)
	}
	return nil
}
