// Package metrics provides Prometheus metrics for the rating platform.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns every Prometheus collector the platform registers.
type Manager struct {
	namespace string
	subsystem string
	registry  *prometheus.Registry

	// Business metrics.
	ratingsAccepted     prometheus.Counter
	ratingsRejected     *prometheus.CounterVec
	permissionGrants    prometheus.Counter
	permissionRevokes   prometheus.Counter
	commitmentsConsumed prometheus.Counter
	rewardUnitsIssued   prometheus.Counter
	scoreQueries        *prometheus.CounterVec

	// Directory gauges.
	registeredAccounts prometheus.Gauge
	trackedItems       prometheus.Gauge

	// HTTP metrics.
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace overrides the metric namespace.
func WithNamespace(ns string) Option {
	return func(m *Manager) {
		if ns != "" {
			m.namespace = ns
		}
	}
}

// WithRegistry overrides the registry the collectors attach to.
func WithRegistry(r *prometheus.Registry) Option {
	return func(m *Manager) {
		if r != nil {
			m.registry = r
		}
	}
}

// NewManager creates a metrics manager and registers all collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "drp",
		subsystem: "rating",
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	auto := promauto.With(m.registry)

	m.ratingsAccepted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "ratings_accepted_total",
		Help: "Ratings appended to an item ledger.",
	})
	m.ratingsRejected = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "ratings_rejected_total",
		Help: "Ratings rejected, partitioned by reason.",
	}, []string{"reason"})
	m.permissionGrants = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "permission_grants_total",
		Help: "Successful grant operations.",
	})
	m.permissionRevokes = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "permission_revokes_total",
		Help: "Successful revoke operations.",
	})
	m.commitmentsConsumed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "commitments_consumed_total",
		Help: "Commitments cleared by an exact-amount payment.",
	})
	m.rewardUnitsIssued = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "reward_units_issued_total",
		Help: "Incentive token units credited to raters.",
	})
	m.scoreQueries = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "score_queries_total",
		Help: "Score computations, partitioned by scoring function label.",
	}, []string{"function"})

	m.registeredAccounts = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: "directory",
		Name: "registered_accounts",
		Help: "Accounts currently registered.",
	})
	m.trackedItems = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: "directory",
		Name: "tracked_items",
		Help: "Items currently tracked.",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "http",
		Name: "requests_total",
		Help: "HTTP requests, partitioned by endpoint, method and status.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: "http",
		Name:    "request_duration_ms",
		Help:    "HTTP request duration in milliseconds.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
	}, []string{"endpoint", "method", "status"})

	return m
}

// Handler returns an HTTP handler exposing the manager's registry.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

var globalManager = NewManager()

// Get returns the global metrics manager.
func Get() *Manager { return globalManager }

// RecordRatingAccepted increments the accepted-ratings counter.
func RecordRatingAccepted() { globalManager.ratingsAccepted.Inc() }

// RecordRatingRejected increments the rejected-ratings counter for a reason.
func RecordRatingRejected(reason string) {
	globalManager.ratingsRejected.WithLabelValues(reason).Inc()
}

// RecordPermissionGrant increments the grant counter.
func RecordPermissionGrant() { globalManager.permissionGrants.Inc() }

// RecordPermissionRevoke increments the revoke counter.
func RecordPermissionRevoke() { globalManager.permissionRevokes.Inc() }

// RecordCommitmentConsumed increments the consumed-commitments counter.
func RecordCommitmentConsumed() { globalManager.commitmentsConsumed.Inc() }

// RecordRewardIssued adds the credited units to the reward counter.
func RecordRewardIssued(units uint64) {
	globalManager.rewardUnitsIssued.Add(float64(units))
}

// RecordScoreQuery increments the score-query counter for a function label.
func RecordScoreQuery(function string) {
	globalManager.scoreQueries.WithLabelValues(function).Inc()
}

// SetRegisteredAccounts updates the account gauge.
func SetRegisteredAccounts(n int) {
	globalManager.registeredAccounts.Set(float64(n))
}

// SetTrackedItems updates the item gauge.
func SetTrackedItems(n int) {
	globalManager.trackedItems.Set(float64(n))
}

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration observes an HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
}
