package indicator

import (
	"math"

	"github.com/aminchedo/Project-X-sub001/internal/model"
)

// trueRange is max(high-low, |high-prevClose|, |low-prevClose|).
func trueRange(high, low, prevClose float64) float64 {
	tr := high - low
	if v := math.Abs(high - prevClose); v > tr {
		tr = v
	}
	if v := math.Abs(low - prevClose); v > tr {
		tr = v
	}
	return tr
}

// ATR calculates Average True Range. The first true range is taken at the
// second bar; the mean of the first period of them seeds the value at bar
// index period, then Wilder smoothing applies.
type ATR struct {
	count     int
	prevClose float64
	smooth    Wilder
	current   float64
}

// NewATR creates a new ATR indicator (typically period 14).
func NewATR(period int) *ATR {
	return &ATR{smooth: NewWilder(period), current: math.NaN()}
}

func (a *ATR) Name() string { return "ATR" }

func (a *ATR) Update(bar model.Bar) {
	a.count++
	if a.count > 1 {
		a.smooth, a.current = a.smooth.Next(trueRange(bar.High, bar.Low, a.prevClose))
	}
	a.prevClose = bar.Close
}

func (a *ATR) Value() float64 { return a.current }
func (a *ATR) Ready() bool    { return a.smooth.Ready() }
