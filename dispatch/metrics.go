package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsRegisterer is where dispatcher collectors are registered when
// metrics are enabled.
type MetricsRegisterer = prometheus.Registerer

// metricsSet holds the dispatcher's prometheus collectors.
type metricsSet struct {
	submitted prometheus.Counter
	completed prometheus.Counter
	failed    *prometheus.CounterVec
	inFlight  prometheus.Gauge
	duration  prometheus.Histogram
}

func newMetricsSet(reg MetricsRegisterer) (*metricsSet, error) {
	m := &metricsSet{
		submitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tanglebridge_tasks_submitted_total",
			Help: "Total number of tasks submitted to the dispatcher.",
		}),
		completed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tanglebridge_tasks_completed_total",
			Help: "Total number of tasks that delivered a successful outcome.",
		}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tanglebridge_tasks_failed_total",
			Help: "Total number of tasks that delivered a failure outcome.",
		}, []string{"kind"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tanglebridge_tasks_in_flight",
			Help: "Number of tasks submitted but not yet delivered.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tanglebridge_task_duration_seconds",
			Help:    "Task execution latency from dequeue to outcome.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	for _, c := range []prometheus.Collector{
		m.submitted, m.completed, m.failed, m.inFlight, m.duration,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}
