package smc

import "github.com/aminchedo/Project-X-sub001/internal/model"

// GapType is the direction of a fair value gap.
type GapType string

const (
	Bull GapType = "bull"
	Bear GapType = "bear"
)

// FVG is a three-bar imbalance centred on Index. Bottom < Top and Size > 0.
type FVG struct {
	Index  int     `json:"index"`
	Type   GapType `json:"type"`
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
	Size   float64 `json:"size"`
}

// DetectFVG compares bars i-1 and i+1 around every interior bar i. A bullish
// gap has low[i+1] > high[i-1]; a bearish gap has high[i+1] < low[i-1].
// With atr > 0, gaps smaller than minFraction*atr are dropped.
func DetectFVG(bars []model.Bar, atr, minFraction float64) []FVG {
	var out []FVG
	for i := 1; i+1 < len(bars); i++ {
		prev, next := bars[i-1], bars[i+1]
		var g FVG
		switch {
		case next.Low > prev.High:
			g = FVG{Index: i, Type: Bull, Top: next.Low, Bottom: prev.High}
		case next.High < prev.Low:
			g = FVG{Index: i, Type: Bear, Top: prev.Low, Bottom: next.High}
		default:
			continue
		}
		g.Size = g.Top - g.Bottom
		if atr > 0 && g.Size < minFraction*atr {
			continue
		}
		out = append(out, g)
	}
	return out
}

// LargestFVG returns the gap with the greatest size.
func LargestFVG(gaps []FVG) (FVG, bool) {
	if len(gaps) == 0 {
		return FVG{}, false
	}
	best := gaps[0]
	for _, g := range gaps[1:] {
		if g.Size > best.Size {
			best = g
		}
	}
	return best, true
}
