package session

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts session cache traffic. All counters are optional: a nil
// *Metrics on the session disables collection entirely.
type Metrics struct {
	CacheHits     *prometheus.CounterVec
	CacheMisses   *prometheus.CounterVec
	Fetches       *prometheus.CounterVec
	Invalidations *prometheus.CounterVec
}

// NewMetrics creates and registers the session counters.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "moneydiary",
			Subsystem: "session",
			Name:      "cache_hits_total",
			Help:      "Reads served from the session cache.",
		}, []string{"namespace"}),
		CacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "moneydiary",
			Subsystem: "session",
			Name:      "cache_misses_total",
			Help:      "Reads that fell through to the data service.",
		}, []string{"namespace"}),
		Fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "moneydiary",
			Subsystem: "session",
			Name:      "fetches_total",
			Help:      "Data service calls by operation.",
		}, []string{"operation"}),
		Invalidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "moneydiary",
			Subsystem: "session",
			Name:      "invalidations_total",
			Help:      "Cache invalidations by key prefix.",
		}, []string{"prefix"}),
	}
	reg.MustRegister(m.CacheHits, m.CacheMisses, m.Fetches, m.Invalidations)
	return m
}

func (m *Metrics) hit(namespace string) {
	if m != nil {
		m.CacheHits.WithLabelValues(namespace).Inc()
	}
}

func (m *Metrics) miss(namespace string) {
	if m != nil {
		m.CacheMisses.WithLabelValues(namespace).Inc()
	}
}

func (m *Metrics) fetch(operation string) {
	if m != nil {
		m.Fetches.WithLabelValues(operation).Inc()
	}
}

func (m *Metrics) invalidate(prefix string) {
	if m != nil {
		m.Invalidations.WithLabelValues(prefix).Inc()
	}
}
