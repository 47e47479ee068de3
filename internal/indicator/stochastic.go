package indicator

import (
	"math"

	"github.com/aminchedo/Project-X-sub001/internal/model"
)

// Stochastic calculates the smoothed stochastic oscillator.
// Raw %K = (close - lowest low) / (highest high - lowest low) * 100 over the
// trailing window, 50 when that range is zero. %K is SMA(raw, smoothK) and
// %D is SMA(%K, smoothD).
type Stochastic struct {
	period int
	highs  []float64
	lows   []float64
	idx    int
	count  int
	k      *SMA
	d      *SMA
}

// NewStochastic creates a stochastic oscillator (typically 14, 3, 3).
func NewStochastic(period, smoothK, smoothD int) *Stochastic {
	if period < 1 {
		period = 1
	}
	return &Stochastic{
		period: period,
		highs:  make([]float64, period),
		lows:   make([]float64, period),
		k:      NewSMA(smoothK),
		d:      NewSMA(smoothD),
	}
}

func (s *Stochastic) Name() string { return "STOCH" }

func (s *Stochastic) Update(bar model.Bar) {
	s.highs[s.idx] = bar.High
	s.lows[s.idx] = bar.Low
	s.idx = (s.idx + 1) % s.period
	s.count++

	raw := math.NaN()
	if s.count >= s.period {
		hh, ll := s.highs[0], s.lows[0]
		for i := 1; i < s.period; i++ {
			hh = math.Max(hh, s.highs[i])
			ll = math.Min(ll, s.lows[i])
		}
		raw = rawK(bar.Close, hh, ll)
	}
	s.k.Add(raw)
	s.d.Add(s.k.Value())
}

func rawK(close, hh, ll float64) float64 {
	if hh == ll {
		return 50.0
	}
	return (close - ll) / (hh - ll) * 100.0
}

// Value returns smoothed %K.
func (s *Stochastic) Value() float64 { return s.k.Value() }

// D returns %D.
func (s *Stochastic) D() float64  { return s.d.Value() }
func (s *Stochastic) Ready() bool { return s.d.Ready() }
