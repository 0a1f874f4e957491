package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"service-delivery-agent/internal/apperr"
	"service-delivery-agent/internal/domain"
)

// AgentRepo represents the agent repository.
type AgentRepo struct{ db *pgxpool.Pool }

// NewAgentRepo creates a new AgentRepo.
func NewAgentRepo(db *pgxpool.Pool) *AgentRepo { return &AgentRepo{db: db} }

// Get returns an agent by ID, or nil when it does not exist.
func (r *AgentRepo) Get(ctx context.Context, id string) (*domain.Agent, error) {
	var a domain.Agent
	err := r.db.QueryRow(ctx, `
        SELECT id, full_name, phone, national_id, location, profile_picture, earnings, created_at
        FROM agents WHERE id = $1
    `, id).Scan(&a.ID, &a.FullName, &a.Phone, &a.NationalID, &a.Location,
		&a.ProfilePicture, &a.Earnings, &a.CreatedAt)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get agent %q: %w", id, err)
	}
	return &a, nil
}

// Create stores a new agent profile.
func (r *AgentRepo) Create(ctx context.Context, a *domain.Agent) error {
	err := r.db.QueryRow(ctx, `
        INSERT INTO agents (id, full_name, phone, national_id, location, profile_picture, earnings)
        VALUES ($1, $2, $3, $4, $5, $6, 0)
        RETURNING created_at
    `, a.ID, a.FullName, a.Phone, a.NationalID, a.Location, a.ProfilePicture).Scan(&a.CreatedAt)
	if err != nil {
		if IsDuplicate(err) {
			return apperr.Conflict
		}
		return fmt.Errorf("create agent: %w", err)
	}
	return nil
}

// UpdatePartial applies a partial update to an agent profile and returns
// true if a row was affected.
func (r *AgentRepo) UpdatePartial(ctx context.Context, u domain.PartialAgentUpdate) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE agents
        SET
            full_name       = COALESCE($2, full_name),
            phone           = COALESCE($3, phone),
            national_id     = COALESCE($4, national_id),
            location        = COALESCE($5, location),
            profile_picture = COALESCE($6, profile_picture),
            updated_at      = now()
        WHERE id = $1
    `, u.ID, u.FullName, u.Phone, u.NationalID, u.Location, u.ProfilePicture)

	if err != nil {
		if IsDuplicate(err) {
			return false, apperr.Conflict
		}
		return false, fmt.Errorf("update agent %q: %w", u.ID, err)
	}
	return ct.RowsAffected() > 0, nil
}
