package feed

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metric names exposed by the feed pipeline.
const (
	metricRequestsTotal   = "driftline_feed_requests_total"
	metricRequestDuration = "driftline_feed_request_duration_seconds"
	metricPoolSize        = "driftline_feed_candidate_pool_size"
	metricItemsServed     = "driftline_feed_items_served_total"
)

// PromMetrics holds the feed pipeline collectors. Collectors are created
// unregistered; call Register to attach them to a registry.
type PromMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration prometheus.Histogram
	poolSize        prometheus.Histogram
	itemsServed     prometheus.Counter
}

// NewPromMetrics creates the feed collectors.
func NewPromMetrics() *PromMetrics {
	return &PromMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricRequestsTotal,
				Help: "Feed requests by outcome.",
			},
			[]string{"status"},
		),
		requestDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    metricRequestDuration,
				Help:    "End-to-end feed assembly latency.",
				Buckets: prometheus.DefBuckets,
			},
		),
		poolSize: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    metricPoolSize,
				Help:    "Candidate pool size after exclusions.",
				Buckets: []float64{0, 10, 25, 50, 100, 250, 500, 1000},
			},
		),
		itemsServed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricItemsServed,
				Help: "Total feed items returned to viewers.",
			},
		),
	}
}

// Register attaches all collectors to the given registry.
func (m *PromMetrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.requestsTotal,
		m.requestDuration,
		m.poolSize,
		m.itemsServed,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObserveRequest records one completed feed request.
func (m *PromMetrics) ObserveRequest(status string, elapsed time.Duration, poolSize, served int) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(status).Inc()
	m.requestDuration.Observe(elapsed.Seconds())
	m.poolSize.Observe(float64(poolSize))
	m.itemsServed.Add(float64(served))
}
