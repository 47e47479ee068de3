package indicator

import (
	"math"

	"github.com/aminchedo/Project-X-sub001/internal/model"
)

// MACD is EMA(fast) - EMA(slow) with an EMA signal line over the MACD line.
type MACD struct {
	fast, slow *EMA
	signal     *EMA
	line       float64
	sig        float64
}

// NewMACD creates a MACD indicator (typically 12, 26, 9).
func NewMACD(fast, slow, signal int) *MACD {
	return &MACD{
		fast:   NewEMA(fast),
		slow:   NewEMA(slow),
		signal: NewEMA(signal),
		line:   math.NaN(),
		sig:    math.NaN(),
	}
}

func (m *MACD) Name() string { return "MACD" }

func (m *MACD) Update(bar model.Bar) { m.Add(bar.Close) }

// Add feeds a raw close.
func (m *MACD) Add(v float64) {
	m.fast.Add(v)
	m.slow.Add(v)
	m.line = m.fast.Value() - m.slow.Value()
	m.signal.Add(m.line)
	m.sig = m.signal.Value()
}

// Value returns the MACD line.
func (m *MACD) Value() float64 { return m.line }

// Signal returns the signal line.
func (m *MACD) Signal() float64 { return m.sig }

// Hist returns line minus signal.
func (m *MACD) Hist() float64 { return m.line - m.sig }

func (m *MACD) Ready() bool { return m.signal.Ready() }
