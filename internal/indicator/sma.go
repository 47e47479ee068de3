package indicator

import (
	"math"

	"github.com/aminchedo/Project-X-sub001/internal/model"
)

// SMA calculates Simple Moving Average over a rolling window.
// Seeded with the window mean, then advanced incrementally:
// sma = sma_prev + (v - v_dropped) / period.
// Leading NaN inputs are skipped so SMA can smooth another indicator's output.
type SMA struct {
	period  int
	buf     []float64 // preallocated circular buffer
	idx     int       // current write position
	count   int       // defined values received
	sum     float64
	current float64
}

// NewSMA creates a new SMA indicator with the given period.
func NewSMA(period int) *SMA {
	if period < 1 {
		period = 1
	}
	return &SMA{
		period:  period,
		buf:     make([]float64, period),
		current: math.NaN(),
	}
}

func (s *SMA) Name() string { return "SMA" }

// Update feeds the bar's close.
func (s *SMA) Update(bar model.Bar) { s.Add(bar.Close) }

// Add feeds a raw value.
func (s *SMA) Add(v float64) {
	if s.count == 0 && math.IsNaN(v) {
		return
	}
	p := float64(s.period)
	if s.count >= s.period {
		old := s.buf[s.idx]
		s.current += (v - old) / p
	} else {
		s.sum += v
		if s.count+1 == s.period {
			s.current = s.sum / p
		}
	}
	s.buf[s.idx] = v
	s.idx = (s.idx + 1) % s.period
	s.count++
}

func (s *SMA) Value() float64 { return s.current }
func (s *SMA) Ready() bool    { return s.count >= s.period }

// Window returns the trailing window in arrival order. Only meaningful once Ready.
func (s *SMA) Window() []float64 {
	out := make([]float64, 0, s.period)
	for k := 0; k < s.period; k++ {
		out = append(out, s.buf[(s.idx+k)%s.period])
	}
	return out
}

// Reset clears the SMA state for reuse.
func (s *SMA) Reset() {
	s.idx = 0
	s.count = 0
	s.sum = 0
	s.current = math.NaN()
	for i := range s.buf {
		s.buf[i] = 0
	}
}
