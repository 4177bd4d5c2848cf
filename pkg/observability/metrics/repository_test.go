package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistry_HasRuntimeCollectors(t *testing.T) {
	r := NewRegistry()
	families, err := r.Gatherer().Gather()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(families) == 0 {
		t.Fatal("expected runtime metric families")
	}
}

func TestRepositoryMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRepositoryMetrics(reg)

	m.ObserveOperation("manufacturers", "create")
	m.ObserveOperation("manufacturers", "create")
	m.ObserveError("injectors", "query")

	ops := testutil.ToFloat64(m.operations.WithLabelValues("manufacturers", "create"))
	if ops != 2 {
		t.Fatalf("expected 2 operations, got %v", ops)
	}
	errs := testutil.ToFloat64(m.errors.WithLabelValues("injectors", "query"))
	if errs != 1 {
		t.Fatalf("expected 1 error, got %v", errs)
	}
}

func TestRegistry_Handler(t *testing.T) {
	if NewRegistry().Handler() == nil {
		t.Fatal("expected non-nil handler")
	}
}
