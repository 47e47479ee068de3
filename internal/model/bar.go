// Package model holds the bar types shared by the indicator, structure and
// feature packages.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidInput is the one failure class surfaced to callers: missing
// columns, NaN prices or too few bars.
var ErrInvalidInput = errors.New("invalid input")

// Bar is one OHLCV price bar. Sequences are chronological and every
// algorithm in this module is index-aligned to them.
type Bar struct {
	TS     time.Time `json:"ts"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Up reports whether the bar closed above its open.
func (b Bar) Up() bool { return b.Close > b.Open }

// Body returns the absolute open-to-close distance.
func (b Bar) Body() float64 { return math.Abs(b.Close - b.Open) }

// HasNaN reports whether any OHLCV field is NaN.
func (b Bar) HasNaN() bool {
	return math.IsNaN(b.Open) || math.IsNaN(b.High) || math.IsNaN(b.Low) ||
		math.IsNaN(b.Close) || math.IsNaN(b.Volume)
}

// JSON returns the JSON-encoded bar (ignoring errors for hot-path usage).
func (b Bar) JSON() []byte {
	out, _ := json.Marshal(b)
	return out
}

// Columns is the column-oriented view of a bar sequence.
type Columns struct {
	Open, High, Low, Close, Volume []float64
}

// Split extracts OHLCV columns from bars.
func Split(bars []Bar) Columns {
	n := len(bars)
	c := Columns{
		Open:   make([]float64, n),
		High:   make([]float64, n),
		Low:    make([]float64, n),
		Close:  make([]float64, n),
		Volume: make([]float64, n),
	}
	for i, b := range bars {
		c.Open[i] = b.Open
		c.High[i] = b.High
		c.Low[i] = b.Low
		c.Close[i] = b.Close
		c.Volume[i] = b.Volume
	}
	return c
}

// Closes returns the close column.
func Closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// Highs returns the high column.
func Highs(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.High
	}
	return out
}

// Lows returns the low column.
func Lows(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Low
	}
	return out
}

// RequiredColumns names the columns a column-oriented bar payload must carry.
var RequiredColumns = []string{"ts", "open", "high", "low", "close", "volume"}

// FromColumns builds bars from a column map keyed by RequiredColumns.
// The "ts" column holds unix seconds. Missing columns or ragged lengths
// fail with ErrInvalidInput.
func FromColumns(cols map[string][]float64) ([]Bar, error) {
	for _, name := range RequiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrInvalidInput, name)
		}
	}
	n := len(cols["close"])
	for _, name := range RequiredColumns {
		if len(cols[name]) != n {
			return nil, fmt.Errorf("%w: column %q has %d rows, want %d", ErrInvalidInput, name, len(cols[name]), n)
		}
	}
	bars := make([]Bar, n)
	for i := range bars {
		bars[i] = Bar{
			TS:     time.Unix(int64(cols["ts"][i]), 0).UTC(),
			Open:   cols["open"][i],
			High:   cols["high"][i],
			Low:    cols["low"][i],
			Close:  cols["close"][i],
			Volume: cols["volume"][i],
		}
	}
	return bars, nil
}
