package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"service-delivery-agent/internal/http/handlers"
	"service-delivery-agent/internal/http/middleware"
	"service-delivery-agent/internal/http/middleware/ratelimit"
	"service-delivery-agent/internal/logx"
)

// Deps carries everything the router mounts.
type Deps struct {
	Logger    logx.Logger
	Base      *handlers.Handlers
	Orders    *handlers.OrderHandler
	Agents    *handlers.AgentHandler
	Messages  *handlers.MessageHandler
	Events    *handlers.EventsHandler
	RateLimit *ratelimit.Middleware
}

// New constructs a chi-based http.Handler with base middleware and routes.
func New(d Deps) http.Handler {
	if d.RateLimit == nil {
		d.RateLimit = ratelimit.New(d.Logger, nil, nil)
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Observability(d.Logger))

	r.Get("/ping", d.Base.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(d.Base.HealthcheckHead))
	r.Handle("/metrics", promhttp.Handler())
	r.NotFound(http.HandlerFunc(d.Base.NotFound))

	// The events stream holds the connection open, so the request
	// timeout applies only to the plain API routes below.
	r.Get("/events", d.Events.Stream)

	r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(5 * time.Second))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", d.Orders.List)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", d.Orders.GetByID)
				r.With(d.RateLimit.Handler()).Post("/claim", d.Orders.Claim)
				r.Post("/transit", d.Orders.StartTransit)
				r.Post("/complete", d.Orders.Complete)
				r.Get("/messages", d.Messages.Thread)
				r.Post("/messages", d.Messages.Send)
			})
		})

		r.Route("/agents", func(r chi.Router) {
			r.Post("/", d.Agents.Register)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", d.Agents.GetByID)
				r.Patch("/", d.Agents.Update)
				r.Post("/online", d.Agents.Online)
				r.Post("/offline", d.Agents.Offline)
				r.Get("/messages", d.Messages.ListForAgent)
			})
		})
	})

	return r
}
