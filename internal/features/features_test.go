package features

import (
	"math"
	"testing"

	"github.com/aminchedo/Project-X-sub001/internal/model"
)

func ohlc(o, h, l, c float64) model.Bar {
	return model.Bar{Open: o, High: h, Low: l, Close: c}
}

func hl(high, low float64) model.Bar {
	return ohlc((high+low)/2, high, low, (high+low)/2)
}

func assertClose(t *testing.T, label string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s: got %.6f, want %.6f", label, got, want)
	}
}

func trendConfig() Config {
	cfg := DefaultConfig()
	cfg.Left, cfg.Right = 1, 1
	return cfg
}

// ──── HTF_TREND ────

func TestTrend_FlatOnMonotonic(t *testing.T) {
	bars := make([]model.Bar, 12)
	for i := range bars {
		bars[i] = hl(100+float64(i), 99+float64(i))
	}
	if got := Trend(bars, trendConfig()); got != 0 {
		t.Errorf("monotonic trend = %d, want 0", got)
	}
}

func TestTrend_BOSDown(t *testing.T) {
	// High pivot at 1, low pivots at 2 and 4: CHOCH_UP, CHOCH_DOWN, BOS_DOWN.
	bars := []model.Bar{
		hl(10, 9), hl(12, 9.5), hl(11, 8), hl(10.5, 8.5), hl(10, 7), hl(9.8, 7.5),
	}
	if got := Trend(bars, trendConfig()); got != -1 {
		t.Errorf("trend = %d, want -1", got)
	}
}

func TestTrend_BOSUpWinsTies(t *testing.T) {
	// Zig-zag: both sides produce BOS events; BOS_UP is checked first.
	var bars []model.Bar
	for i := 0; i < 6; i++ {
		base := 100 + float64(i)
		bars = append(bars, hl(base+1, base), hl(base+3, base+1), hl(base+1, base-1))
	}
	if got := Trend(bars, trendConfig()); got != 1 {
		t.Errorf("trend = %d, want 1", got)
	}
}

// ──── LTF features ────

func TestCompute_ZoneScoreMitigated(t *testing.T) {
	ltf := []model.Bar{
		ohlc(100, 101, 99, 100.5),
		ohlc(100.5, 101, 98, 98.5),
		ohlc(99, 104, 99, 103.5),
	}
	v := Compute(nil, ltf, 0, 2, DefaultConfig())
	if v.FVGATR != 0 {
		t.Errorf("FVG_ATR = %v, want 0", v.FVGATR)
	}
	// bos capped at 1, no gap, momentum 1 bar, mitigated by the impulse.
	assertClose(t, "SMC_ZQS", v.SMCZQS, (0.4+0.3*0.25)*0.6, 1e-12)
	if v.HTFTrend != 0 {
		t.Errorf("empty HTF trend = %d", v.HTFTrend)
	}
}

func TestCompute_ZoneScoreWithGap(t *testing.T) {
	ltf := []model.Bar{
		ohlc(100, 101, 99, 100.5),
		ohlc(100.5, 101, 98, 98.5),
		ohlc(101.5, 105, 101.5, 104.5),
	}
	v := Compute(nil, ltf, 0, 2, DefaultConfig())
	assertClose(t, "FVG_ATR", v.FVGATR, 0.25, 1e-12)
	assertClose(t, "SMC_ZQS", v.SMCZQS, 0.4+0.3*0.25+0.3*0.25, 1e-12)
}

func TestCompute_NoOrderBlock(t *testing.T) {
	ltf := []model.Bar{
		ohlc(100, 101, 99.5, 100.8),
		ohlc(100.8, 102, 100.5, 101.7),
		ohlc(101.7, 103, 101.5, 102.9),
	}
	if v := Compute(nil, ltf, 0, 1, DefaultConfig()); v.SMCZQS != 0 {
		t.Errorf("SMC_ZQS = %v, want 0 without an opposing candle", v.SMCZQS)
	}
}

func TestCompute_EmptyLTF(t *testing.T) {
	if v := Compute(nil, nil, 1, 1, DefaultConfig()); v != (FeatureVector{}) {
		t.Errorf("empty input = %+v, want zero vector", v)
	}
}

func TestLiquidityNear(t *testing.T) {
	// Highs 100 and 100.05 cluster at 100.025; the last close is 99.8.
	ltf := []model.Bar{
		ohlc(99, 100, 98, 99.5),
		ohlc(99.5, 100.05, 97, 99.6),
		ohlc(99.6, 99.9, 96, 99.8),
	}
	cfg := DefaultConfig()
	if !LiquidityNear(ltf, 1, cfg) {
		t.Error("cluster 0.225 away should be near at 1 ATR")
	}
	if LiquidityNear(ltf, 0.1, cfg) {
		t.Error("cluster 0.225 away should be far at 0.1 ATR")
	}
	if LiquidityNear(ltf, 0, cfg) {
		t.Error("zero ATR falls back to the tolerance fraction of price")
	}
	if v := Compute(nil, ltf, 0, 1, cfg); v.LiqNear != 1 {
		t.Errorf("LIQ_NEAR = %d, want 1", v.LiqNear)
	}
}

func TestFeatureVector_Map(t *testing.T) {
	m := FeatureVector{HTFTrend: -1, FVGATR: 0.5, SMCZQS: 0.7, LiqNear: 1}.Map()
	if len(m) != 4 {
		t.Fatalf("map has %d keys", len(m))
	}
	if m[KeyHTFTrend] != -1 || m[KeyFVGATR] != 0.5 || m[KeySMCZQS] != 0.7 || m[KeyLiqNear] != 1 {
		t.Errorf("map = %v", m)
	}
}
