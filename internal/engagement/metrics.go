package engagement

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metric names as constants for consistency.
const (
	MetricScoreTotal        = "engagement_score_total"
	MetricScoreDistribution = "engagement_score_distribution"
	MetricConfigSwapsTotal  = "engagement_config_swaps_total"
)

// PromMetrics contains Prometheus metrics for engagement scoring.
// All operations are thread-safe.
type PromMetrics struct {
	scoreTotal        prometheus.Counter
	scoreDistribution prometheus.Histogram
	configSwapsTotal  *prometheus.CounterVec
}

// NewPromMetrics creates and returns a new PromMetrics instance with all
// collectors initialized. The metrics are not registered; call Register to
// register them with a registry.
func NewPromMetrics() *PromMetrics {
	return &PromMetrics{
		scoreTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricScoreTotal,
			Help: "Total number of engagement scoring calls",
		}),
		scoreDistribution: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricScoreDistribution,
			Help:    "Histogram of computed engagement scores",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 75, 100},
		}),
		configSwapsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricConfigSwapsTotal,
			Help: "Total number of engagement configuration swaps by preset",
		}, []string{"preset"}),
	}
}

// Register registers all metrics with the given registry.
// Returns an error if registration fails.
func (m *PromMetrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.scoreTotal,
		m.scoreDistribution,
		m.configSwapsTotal,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObserveScore records one scoring call and its result.
func (m *PromMetrics) ObserveScore(score float64) {
	if m == nil {
		return
	}
	m.scoreTotal.Inc()
	m.scoreDistribution.Observe(score)
}

// ObserveConfigSwap records one configuration swap.
func (m *PromMetrics) ObserveConfigSwap(preset string) {
	if m == nil {
		return
	}
	m.configSwapsTotal.WithLabelValues(preset).Inc()
}
