package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// DashboardMetrics contains Prometheus metrics for the city list and its
// persistent store.
type DashboardMetrics struct {
	registry *prometheus.Registry

	trackedCities     prometheus.Gauge
	operationsTotal   *prometheus.CounterVec
	storeOpsTotal     *prometheus.CounterVec
	storeOpsDuration  *prometheus.HistogramVec
	notificationTotal *prometheus.CounterVec
}

// NewDashboardMetrics creates and registers dashboard metrics
func NewDashboardMetrics(registry *prometheus.Registry) (*DashboardMetrics, error) {
	m := &DashboardMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *DashboardMetrics) initMetrics() {
	m.trackedCities = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dashboard_tracked_cities",
		Help: "Number of cities currently on the dashboard",
	})

	m.operationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_operations_total",
			Help: "Total number of dashboard operations by outcome",
		},
		[]string{"operation", "outcome"}, // outcome: added, duplicate, not_found, removed, noop...
	)

	m.storeOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_store_operations_total",
			Help: "Total number of persistent store operations",
		},
		[]string{"operation", "status"},
	)

	m.storeOpsDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "dashboard_store_operation_duration_seconds",
			Help: "Time taken by persistent store operations",
			// 1ms to ~0.5s
			Buckets: prometheus.ExponentialBuckets(BucketStart1ms, BucketFactor2, BucketCount10),
		},
		[]string{"operation"},
	)

	m.notificationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_notifications_total",
			Help: "Total number of city list change notifications",
		},
		[]string{"status"},
	)
}

// Describe implements the Collector interface
func (m *DashboardMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.trackedCities.Describe(ch)
	m.operationsTotal.Describe(ch)
	m.storeOpsTotal.Describe(ch)
	m.storeOpsDuration.Describe(ch)
	m.notificationTotal.Describe(ch)
}

// Collect implements the Collector interface
func (m *DashboardMetrics) Collect(ch chan<- prometheus.Metric) {
	m.trackedCities.Collect(ch)
	m.operationsTotal.Collect(ch)
	m.storeOpsTotal.Collect(ch)
	m.storeOpsDuration.Collect(ch)
	m.notificationTotal.Collect(ch)
}

// SetTrackedCities sets the number of tracked cities
func (m *DashboardMetrics) SetTrackedCities(n int) {
	m.trackedCities.Set(float64(n))
}

// RecordOperation records the outcome of a dashboard operation
func (m *DashboardMetrics) RecordOperation(operation, outcome string) {
	m.operationsTotal.WithLabelValues(operation, outcome).Inc()
}

// RecordStoreOperation records a persistent store operation
func (m *DashboardMetrics) RecordStoreOperation(operation, status string, seconds float64) {
	m.storeOpsTotal.WithLabelValues(operation, status).Inc()
	m.storeOpsDuration.WithLabelValues(operation).Observe(seconds)
}

// RecordNotification records a change notification attempt
func (m *DashboardMetrics) RecordNotification(status string) {
	m.notificationTotal.WithLabelValues(status).Inc()
}
