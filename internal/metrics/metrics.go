// Package metrics defines the Prometheus collectors for the feature core.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Path labels for indicator computations.
const (
	PathFast      = "fast"
	PathReference = "reference"
)

// Metrics holds all Prometheus metrics for the feature core.
type Metrics struct {
	// Indicator engine metrics
	ComputeDur     *prometheus.HistogramVec // labels: path
	ComputeTotal   *prometheus.CounterVec   // labels: path
	FallbacksTotal *prometheus.CounterVec   // labels: indicator
	InvalidInputs  prometheus.Counter
	SignalsTotal   *prometheus.CounterVec // labels: action

	// Result cache metrics
	CacheHits      prometheus.Counter
	CacheMisses    prometheus.Counter
	CacheEvictions prometheus.Counter
	CacheSize      prometheus.Gauge

	// Calibration metrics
	CalibrationFits       prometheus.Counter
	CalibrationIterations prometheus.Histogram
	CalibrationSingular   prometheus.Counter
	CalibrationSaves      *prometheus.CounterVec // labels: store
}

// NewMetrics creates all collectors and registers them on reg.
// A nil reg uses the Prometheus default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		ComputeDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "featcore_indicator_compute_seconds",
			Help:    "Indicator set computation latency",
			Buckets: []float64{0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}, []string{"path"}),
		ComputeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "featcore_indicator_computations_total",
			Help: "Indicator computations by kernel path",
		}, []string{"path"}),
		FallbacksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "featcore_indicator_fallbacks_total",
			Help: "Fast kernel failures recovered by the reference kernel",
		}, []string{"indicator"}),
		InvalidInputs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "featcore_invalid_input_total",
			Help: "Requests rejected by bar validation",
		}),
		SignalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "featcore_signals_total",
			Help: "Trading signals derived, by action",
		}, []string{"action"}),

		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "featcore_cache_hits_total",
			Help: "Indicator cache hits",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "featcore_cache_misses_total",
			Help: "Indicator cache misses",
		}),
		CacheEvictions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "featcore_cache_evictions_total",
			Help: "Indicator cache entries evicted by insertion order",
		}),
		CacheSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "featcore_cache_entries",
			Help: "Current indicator cache occupancy",
		}),

		CalibrationFits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "featcore_calibration_fits_total",
			Help: "Platt calibration fits run",
		}),
		CalibrationIterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "featcore_calibration_iterations",
			Help:    "Newton iterations per calibration fit",
			Buckets: []float64{1, 2, 5, 10, 20, 30, 40, 50},
		}),
		CalibrationSingular: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "featcore_calibration_singular_total",
			Help: "Calibration fits stopped on a singular Hessian",
		}),
		CalibrationSaves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "featcore_calibration_saves_total",
			Help: "Calibration records persisted, by store",
		}, []string{"store"}),
	}

	reg.MustRegister(
		m.ComputeDur,
		m.ComputeTotal,
		m.FallbacksTotal,
		m.InvalidInputs,
		m.SignalsTotal,
		m.CacheHits,
		m.CacheMisses,
		m.CacheEvictions,
		m.CacheSize,
		m.CalibrationFits,
		m.CalibrationIterations,
		m.CalibrationSingular,
		m.CalibrationSaves,
	)

	return m
}

// ObserveCompute records one indicator computation on path.
// Safe to call on a nil *Metrics.
func (m *Metrics) ObserveCompute(path string, start time.Time) {
	if m == nil {
		return
	}
	m.ComputeDur.WithLabelValues(path).Observe(time.Since(start).Seconds())
	m.ComputeTotal.WithLabelValues(path).Inc()
}

// Fallback counts a fast-kernel failure for indicator.
func (m *Metrics) Fallback(indicator string) {
	if m == nil {
		return
	}
	m.FallbacksTotal.WithLabelValues(indicator).Inc()
}

// Invalid counts a rejected request.
func (m *Metrics) Invalid() {
	if m == nil {
		return
	}
	m.InvalidInputs.Inc()
}

// Signal counts a derived signal.
func (m *Metrics) Signal(action string) {
	if m == nil {
		return
	}
	m.SignalsTotal.WithLabelValues(action).Inc()
}

// CacheLookup counts a cache hit or miss.
func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHits.Inc()
	} else {
		m.CacheMisses.Inc()
	}
}

// CacheState records evictions and the current occupancy after an insert.
func (m *Metrics) CacheState(evicted, size int) {
	if m == nil {
		return
	}
	m.CacheEvictions.Add(float64(evicted))
	m.CacheSize.Set(float64(size))
}

// Fit records a calibration fit.
func (m *Metrics) Fit(iterations int, singular bool) {
	if m == nil {
		return
	}
	m.CalibrationFits.Inc()
	m.CalibrationIterations.Observe(float64(iterations))
	if singular {
		m.CalibrationSingular.Inc()
	}
}

// Saved counts a calibration record write to store.
func (m *Metrics) Saved(store string) {
	if m == nil {
		return
	}
	m.CalibrationSaves.WithLabelValues(store).Inc()
}
