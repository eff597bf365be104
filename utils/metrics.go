package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics
var (
	WizardTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guide_wizard_transitions_total",
			Help: "Wizard step transitions by event",
		},
		[]string{"event", "from", "to"},
	)
	WizardRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guide_wizard_rejections_total",
			Help: "Wizard events that did not advance the session",
		},
		[]string{"event", "reason"},
	)
	GatewayRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guide_gateway_requests_total",
			Help: "Calls to the upstream guide API by outcome",
		},
		[]string{"operation", "outcome"},
	)
	GatewayDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "guide_gateway_request_duration_seconds",
			Help:    "Round trip time of upstream guide API calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)
