package indicator

import (
	"math"

	"github.com/aminchedo/Project-X-sub001/internal/model"
)

// Bollinger calculates SMA-centred bands at mult population standard
// deviations of the trailing window.
type Bollinger struct {
	mid   *SMA
	mult  float64
	upper float64
	lower float64
}

// NewBollinger creates Bollinger bands (typically 20, 2.0).
func NewBollinger(period int, mult float64) *Bollinger {
	return &Bollinger{mid: NewSMA(period), mult: mult, upper: math.NaN(), lower: math.NaN()}
}

func (b *Bollinger) Name() string { return "BB" }

func (b *Bollinger) Update(bar model.Bar) { b.Add(bar.Close) }

// Add feeds a raw close.
func (b *Bollinger) Add(v float64) {
	b.mid.Add(v)
	if !b.mid.Ready() {
		return
	}
	sd := popStdDev(b.mid.Window())
	b.upper = b.mid.Value() + b.mult*sd
	b.lower = b.mid.Value() - b.mult*sd
}

func popStdDev(window []float64) float64 {
	mean := 0.0
	for _, v := range window {
		mean += v
	}
	mean /= float64(len(window))
	ss := 0.0
	for _, v := range window {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(window)))
}

// Value returns the middle band.
func (b *Bollinger) Value() float64 { return b.mid.Value() }
func (b *Bollinger) Upper() float64 { return b.upper }
func (b *Bollinger) Lower() float64 { return b.lower }
func (b *Bollinger) Ready() bool    { return b.mid.Ready() }
