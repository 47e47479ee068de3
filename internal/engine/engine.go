// Package engine validates bar series, computes indicator sets through the
// fast or reference kernel, caches results and derives trading signals.
package engine

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"github.com/aminchedo/Project-X-sub001/internal/cache"
	"github.com/aminchedo/Project-X-sub001/internal/indicator"
	"github.com/aminchedo/Project-X-sub001/internal/metrics"
	"github.com/aminchedo/Project-X-sub001/internal/model"
	"github.com/aminchedo/Project-X-sub001/internal/strategy"
)

// Fingerprint modes.
const (
	// FingerprintTail keys on (last timestamp, last close, bar count). Two
	// different histories that end identically collide.
	FingerprintTail = "tail"
	// FingerprintRolling additionally hashes every close.
	FingerprintRolling = "rolling"
)

// Options configures an Engine.
type Options struct {
	MinBars     int    `mapstructure:"min_bars" validate:"min=1"`
	FastMinBars int    `mapstructure:"fast_min_bars" validate:"min=1"`
	DisableFast bool   `mapstructure:"disable_fast"`
	Fingerprint string `mapstructure:"fingerprint" validate:"oneof=tail rolling"`

	Indicators indicator.Settings  `mapstructure:"indicators"`
	Thresholds strategy.Thresholds `mapstructure:"thresholds"`
}

// DefaultOptions returns a 50-bar minimum, fast path from 50 bars and
// tail fingerprinting.
func DefaultOptions() Options {
	return Options{
		MinBars:     50,
		FastMinBars: 50,
		Fingerprint: FingerprintTail,
		Indicators:  indicator.DefaultSettings(),
		Thresholds:  strategy.DefaultThresholds(),
	}
}

// Fingerprint identifies a bar series for caching.
type Fingerprint struct {
	LastTS    int64
	LastClose float64
	Count     int
	Digest    uint64 // zero unless rolling fingerprinting is enabled
}

// SetCache is the result cache type injected into the engine.
type SetCache = cache.Cache[Fingerprint, indicator.Set]

// NewSetCache creates a result cache with the given capacity.
func NewSetCache(capacity int) *SetCache {
	return cache.New[Fingerprint, indicator.Set](capacity)
}

// Engine is safe for concurrent use; its only mutable state is the injected
// cache. Returned sets are shared with the cache and must not be modified.
type Engine struct {
	opts  Options
	cache *SetCache
	fast  indicator.Kernel
	ref   indicator.Kernel
	log   *zap.Logger
	m     *metrics.Metrics
}

// New creates an Engine. A nil cache disables caching, a nil logger logs
// nowhere and a nil metrics set records nothing.
func New(opts Options, c *SetCache, log *zap.Logger, m *metrics.Metrics) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		opts:  opts,
		cache: c,
		fast:  indicator.Fast{},
		ref:   indicator.Reference{},
		log:   log.Named("engine"),
		m:     m,
	}
}

// withFastKernel replaces the fast kernel. Tests use it to inject failures.
func (e *Engine) withFastKernel(k indicator.Kernel) *Engine {
	e.fast = k
	return e
}

// Validate fails with model.ErrInvalidInput if bars are too few or carry NaN.
func (e *Engine) Validate(bars []model.Bar) error {
	if len(bars) < e.opts.MinBars {
		return fmt.Errorf("%w: %d bars, need at least %d", model.ErrInvalidInput, len(bars), e.opts.MinBars)
	}
	for i, b := range bars {
		if b.HasNaN() {
			return fmt.Errorf("%w: NaN in bar %d", model.ErrInvalidInput, i)
		}
	}
	return nil
}

// FingerprintOf computes the cache key for bars under the configured mode.
func (e *Engine) FingerprintOf(bars []model.Bar) Fingerprint {
	if len(bars) == 0 {
		return Fingerprint{}
	}
	last := bars[len(bars)-1]
	fp := Fingerprint{LastTS: last.TS.UnixNano(), LastClose: last.Close, Count: len(bars)}
	if e.opts.Fingerprint == FingerprintRolling {
		h := xxhash.New()
		var buf [8]byte
		for _, b := range bars {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(b.Close))
			_, _ = h.Write(buf[:])
		}
		fp.Digest = h.Sum64()
	}
	return fp
}

func (e *Engine) useFast(n int) bool {
	return !e.opts.DisableFast && n >= e.opts.FastMinBars
}

// ComputeAll returns the full named indicator set for bars.
func (e *Engine) ComputeAll(bars []model.Bar) (indicator.Set, error) {
	if err := e.Validate(bars); err != nil {
		e.m.Invalid()
		return nil, err
	}

	fp := e.FingerprintOf(bars)
	if e.cache != nil {
		if set, ok := e.cache.Get(fp); ok {
			e.m.CacheLookup(true)
			return set, nil
		}
		e.m.CacheLookup(false)
	}

	set, err := e.computeSet(bars)
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		evicted := e.cache.Put(fp, set)
		if evicted > 0 {
			e.log.Debug("cache eviction", zap.Int("evicted", evicted), zap.Int("size", e.cache.Len()))
		}
		e.m.CacheState(evicted, e.cache.Len())
	}
	return set, nil
}

func (e *Engine) computeSet(bars []model.Bar) (indicator.Set, error) {
	if e.useFast(len(bars)) {
		start := time.Now()
		set, err := indicator.ComputeSet(e.fast, bars, e.opts.Indicators)
		if err == nil {
			e.m.ObserveCompute(metrics.PathFast, start)
			return set, nil
		}
		e.fallback("all", err)
	}
	start := time.Now()
	set, err := indicator.ComputeSet(e.ref, bars, e.opts.Indicators)
	if err != nil {
		return nil, fmt.Errorf("reference kernel: %w", err)
	}
	e.m.ObserveCompute(metrics.PathReference, start)
	return set, nil
}

func (e *Engine) fallback(name string, err error) {
	e.log.Warn("computation fallback",
		zap.String("indicator", name),
		zap.String("from", e.fast.Name()),
		zap.String("to", e.ref.Name()),
		zap.Error(err),
	)
	e.m.Fallback(name)
}

// ComputeColumns decodes a column-oriented payload and computes the full set.
// Missing columns fail with model.ErrInvalidInput.
func (e *Engine) ComputeColumns(cols map[string][]float64) (indicator.Set, error) {
	bars, err := model.FromColumns(cols)
	if err != nil {
		e.m.Invalid()
		return nil, err
	}
	return e.ComputeAll(bars)
}

// Signal computes the full set and aggregates it into a trading signal using
// the configured thresholds.
func (e *Engine) Signal(bars []model.Bar) (strategy.TradingSignal, error) {
	return e.SignalWith(bars, e.opts.Thresholds)
}

// SignalWith is Signal with caller-supplied thresholds.
func (e *Engine) SignalWith(bars []model.Bar, th strategy.Thresholds) (strategy.TradingSignal, error) {
	set, err := e.ComputeAll(bars)
	if err != nil {
		return strategy.TradingSignal{}, err
	}
	sig := strategy.Derive(set, bars[len(bars)-1].Close, th)
	e.m.Signal(string(sig.Action))
	return sig, nil
}

// IsInvalidInput reports whether err is a validation failure.
func IsInvalidInput(err error) bool { return errors.Is(err, model.ErrInvalidInput) }
