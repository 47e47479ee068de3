package indicator

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/aminchedo/Project-X-sub001/internal/model"
)

// ────────────────────────────────────────────────────────────
// Helpers
// ────────────────────────────────────────────────────────────

func assertClose(t *testing.T, label string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s: got %.6f, want %.6f (tol=%.6f, diff=%.6f)", label, got, want, tol, math.Abs(got-want))
	}
}

func assertNaN(t *testing.T, label string, got float64) {
	t.Helper()
	if !math.IsNaN(got) {
		t.Errorf("%s: got %.6f, want NaN", label, got)
	}
}

func hlc(high, low, close float64) model.Bar {
	return model.Bar{Open: close, High: high, Low: low, Close: close}
}

// synthBars returns a deterministic random walk with consistent OHLC ranges.
func synthBars(n int, seed int64) []model.Bar {
	rng := rand.New(rand.NewSource(seed))
	bars := make([]model.Bar, n)
	price := 100.0
	ts := time.Date(2024, 1, 2, 9, 15, 0, 0, time.UTC)
	for i := range bars {
		open := price
		drift := math.Sin(float64(i)/9.0) * 0.6
		closePx := open + drift + rng.NormFloat64()*0.8
		if closePx < 1 {
			closePx = 1
		}
		wick := math.Abs(rng.NormFloat64()) * 0.5
		bars[i] = model.Bar{
			TS:     ts.Add(time.Duration(i) * time.Minute),
			Open:   open,
			High:   math.Max(open, closePx) + wick,
			Low:    math.Min(open, closePx) - math.Abs(rng.NormFloat64())*0.5,
			Close:  closePx,
			Volume: 1000 + rng.Float64()*500,
		}
		price = closePx
	}
	return bars
}
