package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"service-delivery-agent/internal/domain"
)

// MessageRepo represents the message repository.
type MessageRepo struct{ db *pgxpool.Pool }

// NewMessageRepo creates a new MessageRepo.
func NewMessageRepo(db *pgxpool.Pool) *MessageRepo { return &MessageRepo{db: db} }

// Insert appends a message to an order's thread.
func (r *MessageRepo) Insert(ctx context.Context, m *domain.Message) error {
	err := r.db.QueryRow(ctx, `
        INSERT INTO messages (id, order_id, sender_id, receiver_id, message_text)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING created_at
    `, m.ID, m.OrderID, m.SenderID, m.ReceiverID, m.Text).Scan(&m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert message for order %q: %w", m.OrderID, err)
	}
	return nil
}

// ListByOrder returns an order's thread ordered by creation time ascending.
func (r *MessageRepo) ListByOrder(ctx context.Context, orderID string) ([]domain.Message, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, order_id, sender_id, receiver_id, message_text, created_at
        FROM messages
        WHERE order_id = $1
        ORDER BY created_at ASC
    `, orderID)
	if err != nil {
		return nil, fmt.Errorf("list messages for order %q: %w", orderID, err)
	}
	defer rows.Close()
	return collectMessages(rows)
}

// ListByAgent returns every message the agent sent or received, ordered by
// creation time ascending so threads assemble naturally.
func (r *MessageRepo) ListByAgent(ctx context.Context, agentID string) ([]domain.Message, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, order_id, sender_id, receiver_id, message_text, created_at
        FROM messages
        WHERE sender_id = $1 OR receiver_id = $1
        ORDER BY created_at ASC
    `, agentID)
	if err != nil {
		return nil, fmt.Errorf("list messages for agent %q: %w", agentID, err)
	}
	defer rows.Close()
	return collectMessages(rows)
}

type messageRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func collectMessages(rows messageRows) ([]domain.Message, error) {
	out := make([]domain.Message, 0)
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.OrderID, &m.SenderID, &m.ReceiverID, &m.Text, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
