package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/dig"

	"service-delivery-agent/internal/config"
	"service-delivery-agent/internal/http/handlers"
	"service-delivery-agent/internal/http/middleware/ratelimit"
	"service-delivery-agent/internal/http/router"
	"service-delivery-agent/internal/logx"
	"service-delivery-agent/internal/notify"
	"service-delivery-agent/internal/presence"
	"service-delivery-agent/internal/repository"
	"service-delivery-agent/internal/service/agent"
	"service-delivery-agent/internal/service/lifecycle"
	"service-delivery-agent/internal/service/message"
	"service-delivery-agent/internal/transport/kafka"
)

const serviceTimeout = 3 * time.Second

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	dbConnect func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error)
	logFatalf func(string, ...interface{})
}

// NewContainerBuilder returns a new dig container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		dbConnect: connectDbWithRetry,
		logFatalf: log.Fatalf,
	}
}

// WithDBConnect sets the database connection function
func (b *ContainerBuilder) WithDBConnect(
	fn func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error),
) *ContainerBuilder {
	if fn != nil {
		b.dbConnect = fn
	}
	return b
}

// WithLogFatalf sets the log.Fatalf function
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// MustBuild builds and returns a new dig container
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

// build builds and returns a new dig container
func (b *ContainerBuilder) build(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerDb(container, b.dbConnect); err != nil {
		return nil, fmt.Errorf("DB: %w", err)
	}
	if err := registerRedis(container); err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	if err := registerService(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	if err := registerHTTP(container); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	return container, nil
}

// MustBuildContainer builds and returns a new dig container
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

func registerCore(container *dig.Container, ctx context.Context) error {
	return provideAll(container,
		func() context.Context { return ctx },
		func() *log.Logger { return log.Default() },
		NewLogger,
		config.Load,
	)
}

func registerDb(
	container *dig.Container,
	dbConnect func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error),
) error {
	providerDB := func(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
		return dbConnect(ctx, cfg.DB.DSN(), 10, time.Second)
	}
	return provideAll(container, providerDB)
}

func registerRedis(container *dig.Container) error {
	return provideAll(container,
		func(cfg *config.Config) (*redis.Client, error) {
			return notify.NewRedisClient(cfg.Redis.Addr)
		},
		func(client *redis.Client, cfg *config.Config, logger logx.Logger) *notify.Bus {
			return notify.New(client, cfg.Redis.Channel, logger)
		},
		func(client *redis.Client, cfg *config.Config) *presence.Store {
			return presence.New(client, cfg.Redis.PresenceTTL)
		},
	)
}

func registerService(container *dig.Container) error {
	return provideAll(container,
		repository.NewOrderRepo,
		repository.NewAgentRepo,
		repository.NewMessageRepo,
		func(cfg *config.Config) (*kafka.Producer, error) {
			return kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.StatusTopic)
		},
		lifecycle.NewRegistry,
		func(repo *repository.OrderRepo, bus *notify.Bus, producer *kafka.Producer, logger logx.Logger) *lifecycle.Service {
			counters := lifecycle.Counters{
				ClaimConflicts: claimConflictsTotal,
				CodeRejections: codeRejectionsTotal,
				Deliveries:     deliveriesTotal,
			}
			return lifecycle.NewService(repo, repo, bus, producer, counters, serviceTimeout, logger)
		},
		func(repo *repository.AgentRepo, store *presence.Store, logger logx.Logger) *agent.Service {
			return agent.NewService(repo, store, serviceTimeout, logger)
		},
		func(msgs *repository.MessageRepo, orders *repository.OrderRepo, logger logx.Logger) *message.Service {
			return message.NewService(msgs, orders, serviceTimeout, logger)
		},
	)
}

func registerHTTP(container *dig.Container) error {
	serverProvider := func(cfg *config.Config, mux http.Handler) *http.Server {
		// no WriteTimeout: the events stream keeps its response open
		return &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
	}
	routerProvider := func(
		logger logx.Logger,
		base *handlers.Handlers,
		orders *handlers.OrderHandler,
		agents *handlers.AgentHandler,
		messages *handlers.MessageHandler,
		events *handlers.EventsHandler,
		rl *ratelimit.Middleware,
	) http.Handler {
		return router.New(router.Deps{
			Logger:    logger,
			Base:      base,
			Orders:    orders,
			Agents:    agents,
			Messages:  messages,
			Events:    events,
			RateLimit: rl,
		})
	}
	return provideAll(container,
		handlers.New,
		handlers.NewOrderUsecase,
		handlers.NewOrderHandler,
		handlers.NewAgentUsecase,
		handlers.NewAgentHandler,
		handlers.NewMessageUsecase,
		handlers.NewMessageHandler,
		handlers.NewFeedLister,
		handlers.NewFeedRegistry,
		handlers.NewFeedPatcher,
		handlers.NewChangeListener,
		handlers.NewEventsHandler,
		newRateLimitClock,
		newRateLimiter,
		newRateLimitMiddleware,
		routerProvider,
		serverProvider,
	)
}
