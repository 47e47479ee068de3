// Package indicator provides technical indicator calculations over bar data.
//
// Every indicator exists twice. The streaming accumulators in this package
// (SMA, EMA, Wilder, RSI, ATR, MACD, Bollinger, Stochastic, PSAR, ADX) are
// folded bar by bar by the Reference kernel; the Fast kernel computes the same
// series with batch slice kernels. Both return full-length arrays: entries
// inside an indicator's warm-up are NaN, except RSI which reports 50.
package indicator

import (
	"errors"
	"fmt"
	"math"

	"github.com/aminchedo/Project-X-sub001/internal/model"
)

// ErrKernel marks a batch kernel failure. The engine recovers from it by
// switching to the reference kernel.
var ErrKernel = errors.New("indicator kernel failed")

// NeutralRSI is the RSI value reported during warm-up.
const NeutralRSI = 50.0

// Series is an indicator array index-aligned to its input bars.
type Series []float64

// Last returns the final entry, or NaN for an empty series.
func (s Series) Last() float64 {
	if len(s) == 0 {
		return math.NaN()
	}
	return s[len(s)-1]
}

// At returns s[len(s)-1-back], or NaN when out of range.
func (s Series) At(back int) float64 {
	i := len(s) - 1 - back
	if i < 0 || i >= len(s) {
		return math.NaN()
	}
	return s[i]
}

// Indicator is the interface for all streaming technical indicators.
type Indicator interface {
	// Name returns the indicator name (e.g., "SMA", "ADX").
	Name() string

	// Update feeds the next bar and recalculates.
	Update(bar model.Bar)

	// Value returns the current primary output. NaN (50 for RSI) until Ready.
	Value() float64

	// Ready returns true once the warm-up has been consumed.
	Ready() bool
}

// MACDSeries holds the three MACD outputs.
type MACDSeries struct {
	Line, Signal, Hist Series
}

// Bands holds Bollinger band outputs.
type Bands struct {
	Upper, Middle, Lower Series
}

// StochSeries holds the smoothed %K and %D lines.
type StochSeries struct {
	K, D Series
}

// DMISeries holds ADX and the two directional indicators.
type DMISeries struct {
	ADX, PlusDI, MinusDI Series
}

// Kernel computes indicator arrays. Reference and Fast implement it and are
// numerically interchangeable wherever both are defined.
type Kernel interface {
	Name() string
	SMA(values []float64, period int) (Series, error)
	EMA(values []float64, period int) (Series, error)
	RSI(closes []float64, period int) (Series, error)
	MACD(closes []float64, fast, slow, signal int) (MACDSeries, error)
	ATR(highs, lows, closes []float64, period int) (Series, error)
	Bollinger(closes []float64, period int, mult float64) (Bands, error)
	Stochastic(highs, lows, closes []float64, period, smoothK, smoothD int) (StochSeries, error)
	PSAR(highs, lows []float64, afStart, afStep, afMax float64) (Series, error)
	ADX(highs, lows, closes []float64, period int) (DMISeries, error)
}

func filled(n int, v float64) Series {
	out := make(Series, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func nanSeries(n int) Series { return filled(n, math.NaN()) }

// firstDefined returns the index of the first non-NaN value, or len(values).
func firstDefined(values []float64) int {
	for i, v := range values {
		if !math.IsNaN(v) {
			return i
		}
	}
	return len(values)
}

func kernelErr(name string, r any) error {
	return fmt.Errorf("%w: %s: %v", ErrKernel, name, r)
}
