package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// ReactionTogglesTotal counts toggle outcomes by target type and result.
	ReactionTogglesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "commons_reaction_toggles_total",
		Help: "Total number of reaction toggles by target type and outcome",
	}, []string{"target_type", "outcome"})

	// CountPushFailures counts failed reaction-count pushes to the content service.
	CountPushFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "commons_count_push_failures_total",
		Help: "Total number of failed reaction count pushes by target type",
	}, []string{"target_type"})

	// PeerRequestLatency records latency of outbound calls to peer services.
	PeerRequestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "commons_peer_request_latency_seconds",
		Help:    "Outbound peer service request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"peer", "operation"})

	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "commons_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "commons_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// AdminActionsTotal counts orchestrated admin actions by action and result.
	AdminActionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "commons_admin_actions_total",
		Help: "Total number of orchestrated admin actions by action and result",
	}, []string{"action", "result"})
)

// Toggle outcome labels for ReactionTogglesTotal.
const (
	ToggleOutcomeCreated = "created"
	ToggleOutcomeUpdated = "updated"
	ToggleOutcomeRemoved = "removed"
)

// DatabaseMetrics wraps DB access for recording query latency.
type DatabaseMetrics struct {
	db *gorm.DB
}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics(db *gorm.DB) *DatabaseMetrics {
	return &DatabaseMetrics{db: db}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation, table string, start time.Time) {
	latency := time.Since(start).Seconds()
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(latency)
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, table, start)
	}
}

// ObservePeerRequest records the latency of an outbound peer call.
func ObservePeerRequest(peer, operation string, start time.Time) {
	PeerRequestLatency.WithLabelValues(peer, operation).Observe(time.Since(start).Seconds())
}
