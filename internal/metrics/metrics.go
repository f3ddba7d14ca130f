// internal/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "meal_map"

// Metrics records load and lookup activity. A nil *Metrics records
// nothing.
type Metrics struct {
	loadDuration  *prometheus.HistogramVec
	loadFailures  *prometheus.CounterVec
	recordsLoaded *prometheus.GaugeVec
	lookups       *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		loadDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "load_duration_seconds",
			Help:      "Time spent loading and aggregating a session.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),
		loadFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "load_failures_total",
			Help:      "Failed session loads by dataset and reason.",
		}, []string{"dataset", "reason"}),
		recordsLoaded: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "records_loaded",
			Help:      "Records held by the current session per dataset.",
		}, []string{"dataset"}),
		lookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookups_total",
			Help:      "Slot lookups by result.",
		}, []string{"result"}),
	}
}

func (m *Metrics) ObserveLoad(d time.Duration, ok bool) {
	if m == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "failed"
	}
	m.loadDuration.WithLabelValues(status).Observe(d.Seconds())
}

func (m *Metrics) LoadFailed(dataset, reason string) {
	if m == nil {
		return
	}
	m.loadFailures.WithLabelValues(dataset, reason).Inc()
}

func (m *Metrics) SetRecords(dataset string, n int) {
	if m == nil {
		return
	}
	m.recordsLoaded.WithLabelValues(dataset).Set(float64(n))
}

func (m *Metrics) Lookup(hit bool) {
	if m == nil {
		return
	}
	result := "hit"
	if !hit {
		result = "miss"
	}
	m.lookups.WithLabelValues(result).Inc()
}
