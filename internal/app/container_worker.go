package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/dig"

	"service-delivery-agent/internal/config"
	"service-delivery-agent/internal/gateway/marketplace"
	"service-delivery-agent/internal/logx"
	"service-delivery-agent/internal/notify"
	"service-delivery-agent/internal/repository"
	"service-delivery-agent/internal/service/intake"
	"service-delivery-agent/internal/transport/kafka"
)

// WorkerContainerBuilder builds the intake worker's dig container.
type WorkerContainerBuilder struct {
	dbConnect func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error)
	logFatalf func(string, ...interface{})
}

// NewWorkerContainerBuilder returns a new worker container builder
func NewWorkerContainerBuilder() *WorkerContainerBuilder {
	return &WorkerContainerBuilder{
		dbConnect: connectDbWithRetry,
		logFatalf: log.Fatalf,
	}
}

// WithDBConnect sets the database connection function
func (b *WorkerContainerBuilder) WithDBConnect(
	fn func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error),
) *WorkerContainerBuilder {
	if fn != nil {
		b.dbConnect = fn
	}
	return b
}

// WithLogFatalf sets the log.Fatalf function
func (b *WorkerContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *WorkerContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// MustBuild builds and returns a new dig container
func (b *WorkerContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx)
	if err != nil {
		b.logFatalf("failed to build worker container: %v", err)
	}
	return container
}

func (b *WorkerContainerBuilder) build(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerDb(container, b.dbConnect); err != nil {
		return nil, fmt.Errorf("DB: %w", err)
	}
	if err := registerWorkerBus(container); err != nil {
		return nil, fmt.Errorf("bus: %w", err)
	}
	if err := registerIntake(container); err != nil {
		return nil, fmt.Errorf("intake: %w", err)
	}
	return container, nil
}

// MustBuildWorkerContainer builds and returns a new worker dig container
func MustBuildWorkerContainer(ctx context.Context) *dig.Container {
	return NewWorkerContainerBuilder().MustBuild(ctx)
}

// registerWorkerBus provides the change bus best effort: the worker
// keeps mirroring orders even when Redis is down, API instances just
// stop getting push refreshes until it comes back.
func registerWorkerBus(container *dig.Container) error {
	return provideAll(container,
		func(cfg *config.Config, logger logx.Logger) *notify.Bus {
			client, err := notify.NewRedisClient(cfg.Redis.Addr)
			if err != nil {
				logger.Warn("redis unavailable, change signals disabled", logx.Err(err))
				return nil
			}
			return notify.New(client, cfg.Redis.Channel, logger)
		},
	)
}

func registerIntake(container *dig.Container) error {
	return provideAll(container,
		func(cfg *config.Config, logger logx.Logger) (*marketplace.RetryingGateway, error) {
			mc := cfg.Marketplace
			if mc.BaseURL == "" {
				return nil, fmt.Errorf("marketplace base URL is required")
			}
			gw := marketplace.NewHTTPGateway(&http.Client{Timeout: mc.Timeout}, mc.BaseURL)
			return marketplace.NewRetryingGateway(gw, logger, marketplaceRetriesTotal, marketplace.RetryConfig{
				MaxAttempts: mc.MaxAttempts,
				BaseDelay:   mc.BaseDelay,
				MaxDelay:    mc.MaxDelay,
			}), nil
		},
		repository.NewOrderRepo,
		func(gw *marketplace.RetryingGateway, repo *repository.OrderRepo, bus *notify.Bus, logger logx.Logger) *intake.Processor {
			return intake.NewProcessor(gw, repo, bus, intakeEventsTotal, logger)
		},
		func(cfg *config.Config, logger logx.Logger, p *intake.Processor) (*kafka.Consumer, error) {
			return kafka.NewConsumer(logger, cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.OrdersTopic, p.Handle)
		},
	)
}
