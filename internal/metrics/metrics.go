// Package metrics records statement execution counts and latencies.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "schemakit"

// Status labels.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Metrics holds the collectors for one executor. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	Statements *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg. A nil reg leaves
// them unregistered, which is what tests usually want. Collectors already
// registered by another executor are reused.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Statements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "statements_total",
			Help:      "DDL statements executed, by dialect, operation and status.",
		}, []string{"dialect", "op", "status"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "statement_duration_seconds",
			Help:      "Time spent executing DDL statements.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"dialect", "op"}),
	}
	if reg == nil {
		return m, nil
	}

	var err error
	if m.Statements, err = register(reg, m.Statements); err != nil {
		return nil, err
	}
	if m.Duration, err = register(reg, m.Duration); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// Observe records one statement.
func (m *Metrics) Observe(dialect, op string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	status := StatusOK
	if err != nil {
		status = StatusError
	}
	m.Statements.WithLabelValues(dialect, op, status).Inc()
	m.Duration.WithLabelValues(dialect, op).Observe(elapsed.Seconds())
}
