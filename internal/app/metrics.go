package app

import (
	"github.com/prometheus/client_golang/prometheus"

	"service-delivery-agent/internal/metrics"
)

var (
	claimConflictsTotal     = metrics.NewClaimConflictsTotal()
	codeRejectionsTotal     = metrics.NewDeliveryCodeRejectedTotal()
	deliveriesTotal         = metrics.NewDeliveriesCompletedTotal()
	rateLimitExceededTotal  = metrics.NewRateLimitExceededTotal()
	marketplaceRetriesTotal = metrics.NewGatewayRetriesTotal()
	intakeEventsTotal       = metrics.NewIntakeEventsTotal()
)

func init() {
	prometheus.MustRegister(
		claimConflictsTotal,
		codeRejectionsTotal,
		deliveriesTotal,
		rateLimitExceededTotal,
		marketplaceRetriesTotal,
		intakeEventsTotal,
	)
}
