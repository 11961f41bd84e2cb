package lru

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics of one cache. A nil *Metrics records
// nothing.
type Metrics struct {
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	Hits      prometheus.Counter
	Misses    prometheus.Counter
	Adds      prometheus.Counter
	Evictions prometheus.Counter
	Size      prometheus.Gauge
}

// NewMetrics creates metrics under namespace and registers them with reg.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total cache requests by operation",
		}, []string{"op"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Round trip from enqueue to reply, by operation",
			Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05, .1},
		}, []string{"op"}),
		Hits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hits_total",
			Help:      "Total Get calls that found their key",
		}),
		Misses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "misses_total",
			Help:      "Total Get calls that did not find their key",
		}),
		Adds: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "adds_total",
			Help:      "Total Add calls, updates included",
		}),
		Evictions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evictions_total",
			Help:      "Total entries evicted to respect capacity",
		}),
		Size: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "entries",
			Help:      "Current number of cached entries",
		}),
	}
}

func (m *Metrics) request(op opcode, start time.Time) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(op.String()).Inc()
	m.RequestDuration.WithLabelValues(op.String()).Observe(time.Since(start).Seconds())
}

func (m *Metrics) hit() {
	if m != nil {
		m.Hits.Inc()
	}
}

func (m *Metrics) miss() {
	if m != nil {
		m.Misses.Inc()
	}
}

func (m *Metrics) added() {
	if m != nil {
		m.Adds.Inc()
	}
}

func (m *Metrics) evicted(n int) {
	if m != nil && n > 0 {
		m.Evictions.Add(float64(n))
	}
}

func (m *Metrics) setSize(n int) {
	if m != nil {
		m.Size.Set(float64(n))
	}
}
