package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserve(t *testing.T) {
	m, err := New(nil)
	if err != nil {
		t.Fatal(err)
	}

	m.Observe("sqlite", "create_table", time.Millisecond, nil)
	m.Observe("sqlite", "create_table", time.Millisecond, nil)
	m.Observe("sqlite", "drop_table", time.Millisecond, errors.New("boom"))

	if got := promtest.ToFloat64(m.Statements.WithLabelValues("sqlite", "create_table", StatusOK)); got != 2 {
		t.Errorf("ok count = %v, want 2", got)
	}
	if got := promtest.ToFloat64(m.Statements.WithLabelValues("sqlite", "drop_table", StatusError)); got != 1 {
		t.Errorf("error count = %v, want 1", got)
	}
	if got := promtest.CollectAndCount(m.Duration); got != 2 {
		t.Errorf("histogram series = %d, want 2", got)
	}
}

func TestObserveNil(t *testing.T) {
	var m *Metrics
	m.Observe("sqlite", "create_table", time.Millisecond, nil)
}

func TestNewReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()

	first, err := New(reg)
	if err != nil {
		t.Fatal(err)
	}
	second, err := New(reg)
	if err != nil {
		t.Fatalf("second New() failed: %v", err)
	}

	second.Observe("postgres", "add_column", time.Millisecond, nil)
	if got := promtest.ToFloat64(first.Statements.WithLabelValues("postgres", "add_column", StatusOK)); got != 1 {
		t.Errorf("shared count = %v, want 1", got)
	}
}
