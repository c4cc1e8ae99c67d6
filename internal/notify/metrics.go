package notify

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the notification scheduler.
type Metrics struct {
	// TriggersArmed is the current number of armed triggers.
	TriggersArmed prometheus.Gauge

	// DeliveredTotal counts delivery attempts by result.
	DeliveredTotal *prometheus.CounterVec

	// RearmDuration is the time a full re-arm pass takes.
	RearmDuration prometheus.Histogram

	// RearmTotal counts full re-arm passes.
	RearmTotal prometheus.Counter
}

// NewMetrics creates and registers scheduler metrics. Call at most once per
// process; pass nil to the scheduler to disable metrics entirely.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		TriggersArmed: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "triggers_armed",
			Help:      "Current number of armed notification triggers",
		}),
		DeliveredTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_delivered_total",
			Help:      "Total notification delivery attempts",
		}, []string{"result"}),
		RearmDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rearm_duration_seconds",
			Help:      "Duration of full trigger re-arm passes",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1},
		}),
		RearmTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rearm_passes_total",
			Help:      "Total full trigger re-arm passes",
		}),
	}
}

func (m *Metrics) setArmed(n int) {
	if m != nil {
		m.TriggersArmed.Set(float64(n))
	}
}

func (m *Metrics) incDelivered(result string) {
	if m != nil {
		m.DeliveredTotal.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) observeRearm(seconds float64) {
	if m != nil {
		m.RearmDuration.Observe(seconds)
		m.RearmTotal.Inc()
	}
}
