package calibration

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/aminchedo/Project-X-sub001/internal/metrics"
)

// Calibrator serves the stored model from memory. The record is read from
// the store on first use; a missing record yields Identity.
type Calibrator struct {
	store Store
	log   *zap.Logger
	m     *metrics.Metrics

	mu     sync.RWMutex
	loaded bool
	model  Model
}

// NewCalibrator wraps store. log and m may be nil.
func NewCalibrator(store Store, log *zap.Logger, m *metrics.Metrics) *Calibrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Calibrator{store: store, log: log.Named("calibration"), m: m}
}

// Model returns the cached model, loading it on first call. A failed load
// is not cached and is retried next call.
func (c *Calibrator) Model(ctx context.Context) (Model, error) {
	c.mu.RLock()
	if c.loaded {
		m := c.model
		c.mu.RUnlock()
		return m, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return c.model, nil
	}
	m, err := c.store.Load(ctx)
	switch {
	case errors.Is(err, ErrNotFound):
		c.log.Info("no stored calibration, using identity", zap.String("store", c.store.Kind()))
		m = Identity
	case err != nil:
		return Model{}, err
	}
	c.model, c.loaded = m, true
	return m, nil
}

// Probability calibrates one raw score.
func (c *Calibrator) Probability(ctx context.Context, score float64) (float64, error) {
	m, err := c.Model(ctx)
	if err != nil {
		return 0, err
	}
	return Apply(score, m), nil
}

// Update saves m and makes it the cached model.
func (c *Calibrator) Update(ctx context.Context, m Model) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.store.Save(ctx, m); err != nil {
		return err
	}
	c.m.Saved(c.store.Kind())
	c.model, c.loaded = m, true
	return nil
}

// Fit fits a model to scores and labels, then stores and caches it.
func (c *Calibrator) Fit(ctx context.Context, scores []float64, labels []int, opts FitOptions) (Model, FitReport, error) {
	m, rep, err := Fit(scores, labels, opts)
	if err != nil {
		return Model{}, rep, err
	}
	c.m.Fit(rep.Iterations, rep.Singular())
	if rep.Singular() {
		c.log.Warn("calibration fit stopped early", zap.Int("iterations", rep.Iterations), zap.Error(rep.Err))
	}
	c.log.Info("calibration fitted",
		zap.Float64("A", m.A),
		zap.Float64("B", m.B),
		zap.Int("iterations", rep.Iterations),
		zap.Bool("converged", rep.Converged),
	)
	if err := c.Update(ctx, m); err != nil {
		return m, rep, err
	}
	return m, rep, nil
}
