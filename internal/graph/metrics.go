package graph

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts statements and transaction outcomes. A nil *Metrics is valid and records nothing.
type Metrics struct {
	statements   *prometheus.CounterVec
	transactions *prometheus.CounterVec
	duration     prometheus.Histogram
}

// NewMetrics registers the execution metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		statements: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "forensics",
			Subsystem: "graph",
			Name:      "statements_total",
			Help:      "Statements sent to the graph store, by outcome.",
		}, []string{"outcome"}),
		transactions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "forensics",
			Subsystem: "graph",
			Name:      "transactions_total",
			Help:      "Finished graph transactions, by outcome.",
		}, []string{"outcome"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "forensics",
			Subsystem: "graph",
			Name:      "execute_duration_seconds",
			Help:      "Time spent executing a statement or a batch against the store.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
	}
}

func (m *Metrics) observeExecute(statements int, took time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.statements.WithLabelValues(outcome).Add(float64(statements))
	m.duration.Observe(took.Seconds())
}

func (m *Metrics) observeTransaction(outcome string) {
	if m == nil {
		return
	}
	m.transactions.WithLabelValues(outcome).Inc()
}
