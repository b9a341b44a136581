package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "negocia_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"path", "method", "status"},
	)

	// GatewayCalls tracks calls against the Bellinati upstream
	GatewayCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "negocia_gateway_calls_total",
			Help: "Number of upstream gateway calls",
		},
		[]string{"operation", "status"},
	)

	// CacheHits tracks user-record cache hits/misses
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "negocia_cache_hits_total",
			Help: "Number of user cache hits and misses",
		},
		[]string{"result"},
	)

	// Escalations tracks transbordo events by tag
	Escalations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "negocia_escalations_total",
			Help: "Number of escalations recorded, by tag",
		},
		[]string{"tag"},
	)

	// SyncRuns tracks per-user sync outcomes
	SyncRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "negocia_sync_users_total",
			Help: "Number of users processed by the sync orchestrator",
		},
		[]string{"status"},
	)

	// NotificationsDropped counts events dropped by a full notify queue
	NotificationsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "negocia_notifications_dropped_total",
			Help: "Number of notification events dropped because the queue was full",
		},
	)

	// ActiveConnections tracks active connections
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "negocia_active_connections",
			Help: "Number of active connections",
		},
	)
)
