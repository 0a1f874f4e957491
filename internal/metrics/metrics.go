package metrics

import "github.com/prometheus/client_golang/prometheus"

// NewRateLimitExceededTotal returns a Prometheus counter for the number of rejected HTTP requests due to rate limiting
func NewRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of rejected HTTP requests due to rate limiting",
	})
}

// NewGatewayRetriesTotal returns a Prometheus counter for the number of retry attempts performed by the marketplace gateway
func NewGatewayRetriesTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gateway_retries_total",
		Help: "Total number of retry attempts performed by the marketplace gateway",
	})
}

// NewClaimConflictsTotal returns a Prometheus counter for claims lost to another agent
func NewClaimConflictsTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "order_claim_conflicts_total",
		Help: "Total number of claim attempts rejected because the order was already claimed",
	})
}

// NewDeliveriesCompletedTotal returns a Prometheus counter for completed deliveries
func NewDeliveriesCompletedTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "deliveries_completed_total",
		Help: "Total number of orders marked delivered",
	})
}

// NewDeliveryCodeRejectedTotal returns a Prometheus counter for rejected delivery codes
func NewDeliveryCodeRejectedTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "delivery_code_rejected_total",
		Help: "Total number of completion attempts rejected due to a wrong delivery code",
	})
}

// NewIntakeEventsTotal returns a Prometheus counter vector for consumed marketplace order events by action
func NewIntakeEventsTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "intake_events_total",
		Help: "Total number of marketplace order events consumed, by action",
	}, []string{"action"})
}
