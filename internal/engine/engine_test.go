package engine

import (
	"errors"
	"math"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/aminchedo/Project-X-sub001/internal/indicator"
	"github.com/aminchedo/Project-X-sub001/internal/metrics"
	"github.com/aminchedo/Project-X-sub001/internal/model"
	"github.com/aminchedo/Project-X-sub001/internal/strategy"
)

func testBars(n int, seed int64) []model.Bar {
	rng := rand.New(rand.NewSource(seed))
	bars := make([]model.Bar, n)
	price := 250.0
	ts := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		open := price
		closePx := open + rng.NormFloat64()*1.2
		bars[i] = model.Bar{
			TS:     ts.Add(time.Duration(i) * time.Hour),
			Open:   open,
			High:   math.Max(open, closePx) + rng.Float64(),
			Low:    math.Min(open, closePx) - rng.Float64(),
			Close:  closePx,
			Volume: 100,
		}
		price = closePx
	}
	return bars
}

func newTestEngine(t *testing.T, opts Options, capacity int) (*Engine, *metrics.Metrics) {
	t.Helper()
	m := metrics.NewMetrics(prometheus.NewRegistry())
	var c *SetCache
	if capacity > 0 {
		c = NewSetCache(capacity)
	}
	return New(opts, c, nil, m), m
}

// failingKernel is the fast kernel with a broken RSI.
type failingKernel struct{ indicator.Fast }

func (failingKernel) Name() string { return "failing" }

func (failingKernel) RSI([]float64, int) (indicator.Series, error) {
	return nil, indicator.ErrKernel
}

// ──── Validation ────

func TestValidate_TooFewBars(t *testing.T) {
	e, m := newTestEngine(t, DefaultOptions(), 0)
	_, err := e.ComputeAll(testBars(49, 1))
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if got := testutil.ToFloat64(m.InvalidInputs); got != 1 {
		t.Errorf("invalid input counter = %v, want 1", got)
	}
}

func TestValidate_NaN(t *testing.T) {
	e, _ := newTestEngine(t, DefaultOptions(), 0)
	bars := testBars(60, 1)
	bars[30].Volume = math.NaN()
	if _, err := e.ComputeAll(bars); !IsInvalidInput(err) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestComputeColumns_MissingColumn(t *testing.T) {
	e, _ := newTestEngine(t, DefaultOptions(), 0)
	cols := map[string][]float64{"ts": {1}, "open": {1}, "high": {1}, "low": {1}, "close": {1}}
	if _, err := e.ComputeColumns(cols); !IsInvalidInput(err) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

// ──── Path selection ────

func TestComputeAll_FastMatchesReference(t *testing.T) {
	bars := testBars(300, 5)
	fastEng, _ := newTestEngine(t, DefaultOptions(), 0)
	refOpts := DefaultOptions()
	refOpts.DisableFast = true
	refEng, _ := newTestEngine(t, refOpts, 0)

	fast, err := fastEng.ComputeAll(bars)
	if err != nil {
		t.Fatal(err)
	}
	ref, err := refEng.ComputeAll(bars)
	if err != nil {
		t.Fatal(err)
	}
	for name, r := range ref {
		f := fast[name]
		for i := range r {
			if math.IsNaN(r[i]) && math.IsNaN(f[i]) {
				continue
			}
			scale := math.Max(1, math.Abs(r[i]))
			if math.Abs(r[i]-f[i]) > 1e-6*scale {
				t.Fatalf("%s[%d]: fast %.10f ref %.10f", name, i, f[i], r[i])
			}
		}
	}
}

func TestComputeAll_FallbackToReference(t *testing.T) {
	e, m := newTestEngine(t, DefaultOptions(), 0)
	e.withFastKernel(failingKernel{})

	set, err := e.ComputeAll(testBars(80, 2))
	if err != nil {
		t.Fatalf("fallback should not surface an error: %v", err)
	}
	if len(set[indicator.NameRSI]) != 80 {
		t.Fatalf("rsi len = %d", len(set[indicator.NameRSI]))
	}
	if got := testutil.ToFloat64(m.FallbacksTotal.WithLabelValues("all")); got != 1 {
		t.Errorf("fallbacks = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ComputeTotal.WithLabelValues(metrics.PathReference)); got != 1 {
		t.Errorf("reference computations = %v, want 1", got)
	}
}

// ──── Caching ────

func TestComputeAll_CacheHit(t *testing.T) {
	e, m := newTestEngine(t, DefaultOptions(), 4)
	bars := testBars(60, 3)
	if _, err := e.ComputeAll(bars); err != nil {
		t.Fatal(err)
	}
	if _, err := e.ComputeAll(bars); err != nil {
		t.Fatal(err)
	}
	if got := testutil.ToFloat64(m.CacheHits); got != 1 {
		t.Errorf("cache hits = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ComputeTotal.WithLabelValues(metrics.PathFast)); got != 1 {
		t.Errorf("fast computations = %v, want 1", got)
	}
}

func TestComputeAll_CacheBounded(t *testing.T) {
	e, _ := newTestEngine(t, DefaultOptions(), 3)
	for seed := int64(0); seed < 10; seed++ {
		if _, err := e.ComputeAll(testBars(55+int(seed), seed)); err != nil {
			t.Fatal(err)
		}
		if e.cache.Len() > e.cache.Cap() {
			t.Fatalf("cache len %d exceeds cap %d", e.cache.Len(), e.cache.Cap())
		}
	}
}

func TestFingerprint_TailCollidesRollingDoesNot(t *testing.T) {
	a := testBars(60, 10)
	b := testBars(60, 11)
	b[len(b)-1] = a[len(a)-1]

	tail, _ := newTestEngine(t, DefaultOptions(), 0)
	if tail.FingerprintOf(a) != tail.FingerprintOf(b) {
		t.Error("tail fingerprints of identically-ending histories should collide")
	}

	opts := DefaultOptions()
	opts.Fingerprint = FingerprintRolling
	rolling, _ := newTestEngine(t, opts, 0)
	if rolling.FingerprintOf(a) == rolling.FingerprintOf(b) {
		t.Error("rolling fingerprints should separate different histories")
	}
	if rolling.FingerprintOf(a) != rolling.FingerprintOf(a) {
		t.Error("rolling fingerprint must be deterministic")
	}
}

func TestComputeAll_Concurrent(t *testing.T) {
	e, _ := newTestEngine(t, DefaultOptions(), 2)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 5; i++ {
				if _, err := e.ComputeAll(testBars(60, int64(g%3))); err != nil {
					t.Error(err)
					return
				}
			}
		}(g)
	}
	wg.Wait()
	if e.cache.Len() > 2 {
		t.Fatalf("cache len %d exceeds cap", e.cache.Len())
	}
}

// ──── Single indicator ────

func TestComputeSingle_MatchesSet(t *testing.T) {
	e, _ := newTestEngine(t, DefaultOptions(), 0)
	bars := testBars(120, 4)
	set, err := e.ComputeAll(bars)
	if err != nil {
		t.Fatal(err)
	}

	rsi, err := e.ComputeSingle(bars, "RSI", Params{})
	if err != nil {
		t.Fatal(err)
	}
	hist, err := e.ComputeSingle(bars, "macd", Params{Output: "hist"})
	if err != nil {
		t.Fatal(err)
	}
	lower, err := e.ComputeSingle(bars, "bb", Params{Period: 20, Output: "lower"})
	if err != nil {
		t.Fatal(err)
	}
	for i := range bars {
		if rsi[i] != set[indicator.NameRSI][i] {
			t.Fatalf("rsi[%d] differs", i)
		}
		if !(math.IsNaN(hist[i]) && math.IsNaN(set[indicator.NameMACDHist][i])) && hist[i] != set[indicator.NameMACDHist][i] {
			t.Fatalf("macd hist[%d] differs", i)
		}
		if !(math.IsNaN(lower[i]) && math.IsNaN(set[indicator.NameBBLower][i])) && lower[i] != set[indicator.NameBBLower][i] {
			t.Fatalf("bb lower[%d] differs", i)
		}
	}
}

func TestComputeSingle_InvalidRequests(t *testing.T) {
	e, _ := newTestEngine(t, DefaultOptions(), 0)
	bars := testBars(60, 4)

	if _, err := e.ComputeSingle(bars, "vwap", Params{}); !IsInvalidInput(err) {
		t.Errorf("unknown indicator: %v", err)
	}
	if _, err := e.ComputeSingle(bars, "bollinger", Params{Mult: -1}); !IsInvalidInput(err) {
		t.Errorf("negative mult: %v", err)
	}
	if _, err := e.ComputeSingle(bars, "rsi", Params{Output: "upper"}); err != nil {
		t.Errorf("single-output indicator ignores Output, got %v", err)
	}
	if _, err := e.ComputeSingle(bars, "stoch", Params{Output: "hist"}); !IsInvalidInput(err) {
		t.Errorf("unproduced output: %v", err)
	}
	if _, err := e.ComputeSingle(bars[:10], "ema", Params{}); !IsInvalidInput(err) {
		t.Errorf("short bars: %v", err)
	}
}

func TestParams_Resolve(t *testing.T) {
	p, err := Params{}.Resolve("bollinger")
	if err != nil {
		t.Fatal(err)
	}
	if p.Period != 20 || p.Mult != 2 || p.Fast != 12 || p.AFMax != 0.2 {
		t.Errorf("unexpected defaults %+v", p)
	}
	p, _ = Params{Period: 7}.Resolve("rsi")
	if p.Period != 7 {
		t.Errorf("explicit period overridden: %d", p.Period)
	}
}

// ──── Signal ────

func TestSignal_Shape(t *testing.T) {
	e, m := newTestEngine(t, DefaultOptions(), 0)
	sig, err := e.Signal(testBars(200, 8))
	if err != nil {
		t.Fatal(err)
	}
	if len(sig.Components) != 4 {
		t.Fatalf("components = %d, want 4", len(sig.Components))
	}
	switch sig.Action {
	case strategy.ActionBuy, strategy.ActionSell, strategy.ActionHold:
	default:
		t.Errorf("unexpected action %q", sig.Action)
	}
	if sig.Confidence < 0 || sig.Confidence > 1 {
		t.Errorf("confidence %v outside [0,1]", sig.Confidence)
	}
	if got := testutil.ToFloat64(m.SignalsTotal.WithLabelValues(string(sig.Action))); got != 1 {
		t.Errorf("signal counter = %v, want 1", got)
	}
}

func TestSignal_StrongUptrend(t *testing.T) {
	bars := make([]model.Bar, 120)
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		c := 100 + float64(i)
		bars[i] = model.Bar{TS: ts.Add(time.Duration(i) * time.Minute), Open: c - 0.5, High: c + 0.5, Low: c - 1, Close: c, Volume: 1}
	}
	e, _ := newTestEngine(t, DefaultOptions(), 0)
	sig, err := e.Signal(bars)
	if err != nil {
		t.Fatal(err)
	}
	var stack strategy.Component
	for _, c := range sig.Components {
		if c.Name == strategy.ComponentEMAStack {
			stack = c
		}
	}
	if stack.Value != 1 {
		t.Errorf("EMA stack in uptrend = %+v, want bull stack", stack)
	}
}
