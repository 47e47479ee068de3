package indicator

import (
	"math"

	"github.com/aminchedo/Project-X-sub001/internal/model"
)

// directionalMove returns +DM and -DM for one bar. Only the larger positive
// move counts; ties give zero for both.
func directionalMove(high, low, prevHigh, prevLow float64) (plus, minus float64) {
	up := high - prevHigh
	down := prevLow - low
	if up > down && up > 0 {
		plus = up
	}
	if down > up && down > 0 {
		minus = down
	}
	return plus, minus
}

func diFrom(dm, tr float64) float64 {
	if tr == 0 {
		return 0
	}
	return dm / tr * 100.0
}

func dxFrom(plusDI, minusDI float64) float64 {
	sum := plusDI + minusDI
	if sum == 0 {
		return 0
	}
	return math.Abs(plusDI-minusDI) / sum * 100.0
}

// ADX calculates the Average Directional Index with +DI/-DI.
// TR, +DM and -DM are Wilder-smoothed from a period-length seed mean, which
// lands at bar index period. ADX is Wilder-smoothed DX seeded with the first DX.
type ADX struct {
	count               int
	prevHigh, prevLow   float64
	prevClose           float64
	tr, plusDM, minusDM Wilder
	adx                 Wilder
	current             float64
	plusDI, minusDI     float64
}

// NewADX creates an ADX indicator (typically period 14).
func NewADX(period int) *ADX {
	w := NewWilder(period)
	return &ADX{
		tr: w, plusDM: w, minusDM: w,
		adx:     Wilder{Period: w.Period, Seed: 1},
		current: math.NaN(),
		plusDI:  math.NaN(),
		minusDI: math.NaN(),
	}
}

func (a *ADX) Name() string { return "ADX" }

func (a *ADX) Update(bar model.Bar) {
	a.count++
	if a.count > 1 {
		pdm, mdm := directionalMove(bar.High, bar.Low, a.prevHigh, a.prevLow)
		var str, spdm, smdm float64
		a.tr, str = a.tr.Next(trueRange(bar.High, bar.Low, a.prevClose))
		a.plusDM, spdm = a.plusDM.Next(pdm)
		a.minusDM, smdm = a.minusDM.Next(mdm)
		if a.tr.Ready() {
			a.plusDI = diFrom(spdm, str)
			a.minusDI = diFrom(smdm, str)
			a.adx, a.current = a.adx.Next(dxFrom(a.plusDI, a.minusDI))
		}
	}
	a.prevHigh, a.prevLow, a.prevClose = bar.High, bar.Low, bar.Close
}

func (a *ADX) Value() float64   { return a.current }
func (a *ADX) PlusDI() float64  { return a.plusDI }
func (a *ADX) MinusDI() float64 { return a.minusDI }
func (a *ADX) Ready() bool      { return a.adx.Ready() }
