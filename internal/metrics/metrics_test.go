package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_RegisterOnFreshRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ObserveCompute(PathFast, time.Now())
	m.Fallback("rsi")
	m.CacheLookup(true)
	m.CacheLookup(false)
	m.CacheLookup(false)
	m.CacheState(2, 5)
	m.Fit(7, true)

	if got := testutil.ToFloat64(m.ComputeTotal.WithLabelValues(PathFast)); got != 1 {
		t.Errorf("fast computations = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.FallbacksTotal.WithLabelValues("rsi")); got != 1 {
		t.Errorf("fallbacks = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.CacheMisses); got != 2 {
		t.Errorf("misses = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.CacheSize); got != 5 {
		t.Errorf("cache size = %v, want 5", got)
	}
	if got := testutil.ToFloat64(m.CalibrationSingular); got != 1 {
		t.Errorf("singular fits = %v, want 1", got)
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.ObserveCompute(PathReference, time.Now())
	m.Fallback("x")
	m.CacheLookup(true)
	m.CacheState(1, 1)
	m.Fit(1, false)
	m.Saved("file")
	m.Invalid()
	m.Signal("HOLD")
}
