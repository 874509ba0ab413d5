package services

import "github.com/prometheus/client_golang/prometheus"

// Metrics collects counters for the store and query engine. A nil
// *Metrics disables collection; every method is nil-safe.
type Metrics struct {
	queryCacheHits   prometheus.Counter
	queryCacheMisses prometheus.Counter
	queriesExecuted  prometheus.Counter
	mutations        *prometheus.CounterVec
}

// NewMetrics builds the metric set and registers it when reg is
// non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		queryCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "relate_query_cache_hits_total",
			Help: "Relationship queries answered from the result cache.",
		}),
		queryCacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "relate_query_cache_misses_total",
			Help: "Relationship queries that fell through to the database.",
		}),
		queriesExecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "relate_queries_executed_total",
			Help: "SQL queries executed by the query engine.",
		}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "relate_mutations_total",
			Help: "Relationship store mutations by operation.",
		}, []string{"op"}),
	}

	if reg != nil {
		reg.MustRegister(m.queryCacheHits, m.queryCacheMisses, m.queriesExecuted, m.mutations)
	}
	return m
}

func (m *Metrics) cacheHit() {
	if m != nil {
		m.queryCacheHits.Inc()
	}
}

func (m *Metrics) cacheMiss() {
	if m != nil {
		m.queryCacheMisses.Inc()
	}
}

func (m *Metrics) queryExecuted() {
	if m != nil {
		m.queriesExecuted.Inc()
	}
}

func (m *Metrics) mutation(op string) {
	if m != nil {
		m.mutations.WithLabelValues(op).Inc()
	}
}
