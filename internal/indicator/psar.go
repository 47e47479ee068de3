package indicator

import (
	"math"

	"github.com/aminchedo/Project-X-sub001/internal/model"
)

// PSARState is the Parabolic SAR scan state. Next is a pure transition so
// the scan can be replayed or chunked from any saved state.
type PSARState struct {
	Start, Step, Max float64

	Count     int
	Up        bool
	SAR       float64
	EP        float64 // extreme point of the current trend
	AF        float64 // acceleration factor
	PrevHigh1 float64
	PrevHigh2 float64
	PrevLow1  float64
	PrevLow2  float64
}

// NewPSARState returns the initial state for the given acceleration settings.
// The scan starts in an uptrend with SAR at the first bar's low.
func NewPSARState(start, step, max float64) PSARState {
	return PSARState{Start: start, Step: step, Max: max}
}

// Next consumes one bar's high/low and returns the advanced state and SAR.
func (s PSARState) Next(high, low float64) (PSARState, float64) {
	s.Count++
	if s.Count == 1 {
		s.Up = true
		s.SAR = low
		s.EP = high
		s.AF = s.Start
		s.PrevHigh1, s.PrevHigh2 = high, high
		s.PrevLow1, s.PrevLow2 = low, low
		return s, s.SAR
	}

	sar := s.SAR + s.AF*(s.EP-s.SAR)
	if s.Up {
		sar = math.Min(sar, s.PrevLow1)
		if s.Count > 2 {
			sar = math.Min(sar, s.PrevLow2)
		}
		if low < sar {
			s.Up = false
			sar = s.EP
			s.EP = low
			s.AF = s.Start
		} else if high > s.EP {
			s.EP = high
			s.AF = math.Min(s.AF+s.Step, s.Max)
		}
	} else {
		sar = math.Max(sar, s.PrevHigh1)
		if s.Count > 2 {
			sar = math.Max(sar, s.PrevHigh2)
		}
		if high > sar {
			s.Up = true
			sar = s.EP
			s.EP = high
			s.AF = s.Start
		} else if low < s.EP {
			s.EP = low
			s.AF = math.Min(s.AF+s.Step, s.Max)
		}
	}

	s.SAR = sar
	s.PrevHigh2, s.PrevHigh1 = s.PrevHigh1, high
	s.PrevLow2, s.PrevLow1 = s.PrevLow1, low
	return s, sar
}

// PSAR wraps PSARState as a streaming indicator.
type PSAR struct {
	state   PSARState
	current float64
}

// NewPSAR creates a Parabolic SAR (typically 0.02, 0.02, 0.2).
func NewPSAR(start, step, max float64) *PSAR {
	return &PSAR{state: NewPSARState(start, step, max), current: math.NaN()}
}

func (p *PSAR) Name() string { return "PSAR" }

func (p *PSAR) Update(bar model.Bar) {
	p.state, p.current = p.state.Next(bar.High, bar.Low)
}

func (p *PSAR) Value() float64 { return p.current }
func (p *PSAR) Ready() bool    { return p.state.Count > 0 }

// Uptrend reports the current trend direction.
func (p *PSAR) Uptrend() bool { return p.state.Up }
