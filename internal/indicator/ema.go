package indicator

import (
	"math"

	"github.com/aminchedo/Project-X-sub001/internal/model"
)

// EMA calculates Exponential Moving Average.
// O(1) per update. Seeded with the SMA of the first period values; leading
// NaN inputs are skipped so EMA-of-EMA compositions seed after their input does.
type EMA struct {
	period     int
	multiplier float64
	current    float64
	count      int
	sum        float64
}

// NewEMA creates a new EMA indicator with the given period.
func NewEMA(period int) *EMA {
	if period < 1 {
		period = 1
	}
	return &EMA{
		period:     period,
		multiplier: 2.0 / float64(period+1),
		current:    math.NaN(),
	}
}

func (e *EMA) Name() string { return "EMA" }

// Update feeds the bar's close.
func (e *EMA) Update(bar model.Bar) { e.Add(bar.Close) }

// Add feeds a raw value.
func (e *EMA) Add(v float64) {
	if e.count == 0 && math.IsNaN(v) {
		return
	}
	e.count++

	if e.count <= e.period {
		// Accumulate for initial SMA seed
		e.sum += v
		if e.count == e.period {
			e.current = e.sum / float64(e.period)
		}
		return
	}

	e.current = (v-e.current)*e.multiplier + e.current
}

func (e *EMA) Value() float64 { return e.current }
func (e *EMA) Ready() bool    { return e.count >= e.period }

// Reset clears the EMA state for reuse.
func (e *EMA) Reset() {
	e.current = math.NaN()
	e.count = 0
	e.sum = 0
}
