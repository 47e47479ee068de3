package smc

import (
	"math"

	"github.com/aminchedo/Project-X-sub001/internal/model"
)

// ZoneType is demand (support) or supply (resistance).
type ZoneType string

const (
	Demand ZoneType = "demand"
	Supply ZoneType = "supply"
)

// Zone is an order block: the range of the last opposing candle before an
// impulse. Low <= High.
type Zone struct {
	Type   ZoneType `json:"type"`
	Low    float64  `json:"low"`
	High   float64  `json:"high"`
	Source int      `json:"source"`
}

// Height returns High - Low.
func (z Zone) Height() float64 { return z.High - z.Low }

// Mid returns the zone midpoint.
func (z Zone) Mid() float64 { return (z.High + z.Low) / 2 }

// Direction of an impulse move.
type Direction int

const (
	Up Direction = iota
	Down
)

// OrderBlockLookback is how many bars before the impulse are searched.
const OrderBlockLookback = 5

// FindOrderBlock scans up to OrderBlockLookback bars before impulse, newest
// first, for a candle whose body opposes the impulse. A bearish candle before
// an up impulse gives a demand zone; a bullish candle before a down impulse
// gives a supply zone.
func FindOrderBlock(bars []model.Bar, impulse int, dir Direction) (Zone, bool) {
	if impulse <= 0 || impulse >= len(bars) {
		return Zone{}, false
	}
	stop := max(impulse-OrderBlockLookback, 0)
	for j := impulse - 1; j >= stop; j-- {
		b := bars[j]
		switch {
		case dir == Up && b.Close < b.Open:
			return Zone{Type: Demand, Low: b.Low, High: b.High, Source: j}, true
		case dir == Down && b.Close > b.Open:
			return Zone{Type: Supply, Low: b.Low, High: b.High, Source: j}, true
		}
	}
	return Zone{}, false
}

// IsMitigated reports whether any bar after the zone's source overlaps it.
func IsMitigated(bars []model.Bar, z Zone) bool {
	for i := z.Source + 1; i < len(bars); i++ {
		if bars[i].Low <= z.High && bars[i].High >= z.Low {
			return true
		}
	}
	return false
}

// MitigatedPenalty scales the quality of a mitigated zone.
const MitigatedPenalty = 0.6

// ZoneQuality scores a zone in [0, 1]:
// 0.4*min(1,bosStrength) + 0.3*min(1,fvgSizeATR) + 0.3*min(1,momentumBars/4),
// scaled by MitigatedPenalty when the zone has been mitigated.
func ZoneQuality(bosStrength, fvgSizeATR float64, momentumBars int, mitigated bool) float64 {
	score := 0.4*unit(bosStrength) + 0.3*unit(fvgSizeATR) + 0.3*unit(float64(momentumBars)/4)
	if mitigated {
		score *= MitigatedPenalty
	}
	return score
}

// unit clamps v to [0, 1], mapping NaN to 0.
func unit(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return math.Min(1, v)
}

// Flip names a supply/demand role reversal.
type Flip int

const (
	DemandToSupply Flip = iota
	SupplyToDemand
)

// ValidFlip reports whether a zone has flipped role: demand to supply needs a
// liquidity grab and a close below the zone's low, supply to demand a grab
// and a close above its high.
func ValidFlip(flip Flip, z Zone, liquidityGrab bool, close float64) bool {
	if !liquidityGrab {
		return false
	}
	switch flip {
	case DemandToSupply:
		return close < z.Low
	case SupplyToDemand:
		return close > z.High
	}
	return false
}
