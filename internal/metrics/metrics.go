package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

// Metrics - счетчики операций над постами. Нулевой указатель допустим: все методы становятся no-op.
type Metrics struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	persist    *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blog_post_operations_total",
			Help: "Number of post mutations by operation and result.",
		}, []string{"op", "result"}),
		persist: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "blog_post_persist_seconds",
			Help:    "Time spent writing the full post collection.",
			Buckets: prometheus.DefBuckets,
		}, []string{"result"}),
	}
	m.registry.MustRegister(m.operations, m.persist)
	return m
}

func (m *Metrics) ObserveOperation(op, result string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op, result).Inc()
}

func (m *Metrics) ObservePersist(d time.Duration, err error) {
	if m == nil {
		return
	}
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	m.persist.WithLabelValues(result).Observe(d.Seconds())
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
