package agent

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"service-delivery-agent/internal/apperr"
	"service-delivery-agent/internal/domain"
	"service-delivery-agent/internal/logx"
)

// Service manages delivery agent profiles and liveness.
type Service struct {
	repo             agentRepository
	presence         presenceStore
	operationTimeout time.Duration
	logger           logx.Logger
}

// NewService creates an agent Service.
func NewService(repo agentRepository, presence presenceStore, timeout time.Duration, logger logx.Logger) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{
		repo:             repo,
		presence:         presence,
		operationTimeout: timeout,
		logger:           logger,
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// RegisterInput holds the fields needed to register an agent.
type RegisterInput struct {
	FullName   string
	Phone      string
	NationalID string
	Location   string
}

// Register creates a new agent profile.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.Agent, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Phone = strings.TrimSpace(in.Phone)
	in.NationalID = strings.TrimSpace(in.NationalID)
	if in.FullName == "" || in.NationalID == "" {
		return nil, apperr.Invalid
	}
	if !domain.ValidatePhone(in.Phone) {
		return nil, apperr.Invalid
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	a := &domain.Agent{
		ID:         uuid.NewString(),
		FullName:   in.FullName,
		Phone:      in.Phone,
		NationalID: in.NationalID,
		Location:   strings.TrimSpace(in.Location),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info("agent registered",
		logx.String("event", "agent_registered"),
		logx.String("agent_id", a.ID),
	)

	return a, nil
}

// Get returns an agent profile with its current online flag.
func (s *Service) Get(ctx context.Context, id string) (*domain.Agent, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperr.Invalid
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperr.NotFound
	}

	if s.presence != nil {
		online, err := s.presence.IsOnline(ctx, id)
		if err != nil {
			// presence is advisory, the profile still loads
			s.logger.Warn("presence lookup failed",
				logx.String("agent_id", id),
				logx.Err(err),
			)
		} else {
			a.Online = online
		}
	}
	return a, nil
}

// UpdateProfile applies a partial profile update.
func (s *Service) UpdateProfile(ctx context.Context, u domain.PartialAgentUpdate) error {
	u.ID = strings.TrimSpace(u.ID)
	if u.ID == "" {
		return apperr.Invalid
	}
	if u.Phone != nil && !domain.ValidatePhone(*u.Phone) {
		return apperr.Invalid
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	ok, err := s.repo.UpdatePartial(ctx, u)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound
	}
	return nil
}

// SetOnline marks the agent online.
func (s *Service) SetOnline(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperr.Invalid
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.presence.SetOnline(ctx, id)
}

// SetOffline marks the agent offline.
func (s *Service) SetOffline(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperr.Invalid
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.presence.SetOffline(ctx, id)
}
