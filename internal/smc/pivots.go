// Package smc detects market structure in a bar series: pivots, swing
// labels, break-of-structure and change-of-character events, fair value gaps,
// equal-high/low liquidity clusters, order-block zones and their mitigation,
// zone quality, entry pricing and supply/demand flips.
//
// Everything is index-aligned to the input bars. "Not found" results are
// reported as (value, false) or empty slices, never as errors.
package smc

import "github.com/aminchedo/Project-X-sub001/internal/model"

// PivotKind distinguishes swing highs from swing lows.
type PivotKind int

const (
	High PivotKind = iota
	Low
)

func (k PivotKind) String() string {
	if k == High {
		return "High"
	}
	return "Low"
}

// MarshalText encodes the kind by name.
func (k PivotKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Pivot is a local extreme. Price is the bar's high for High pivots and its
// low for Low pivots.
type Pivot struct {
	Index int       `json:"index"`
	Kind  PivotKind `json:"kind"`
	Price float64   `json:"price"`
}

// Pivots finds bars in [left, n-right) whose high strictly exceeds every high
// in the left and right windows (High pivots), or whose low is strictly below
// every low there (Low pivots). A bar can be both; its High pivot is listed
// first. The result is ordered by index.
func Pivots(bars []model.Bar, left, right int) []Pivot {
	left, right = max(left, 0), max(right, 0)
	n := len(bars)
	if n < left+right+1 {
		return nil
	}
	out := make([]Pivot, 0, n/5)
	for i := left; i < n-right; i++ {
		hi, lo := true, true
		for j := i - left; j <= i+right; j++ {
			if j == i {
				continue
			}
			if bars[j].High >= bars[i].High {
				hi = false
			}
			if bars[j].Low <= bars[i].Low {
				lo = false
			}
			if !hi && !lo {
				break
			}
		}
		if hi {
			out = append(out, Pivot{Index: i, Kind: High, Price: bars[i].High})
		}
		if lo {
			out = append(out, Pivot{Index: i, Kind: Low, Price: bars[i].Low})
		}
	}
	return out
}
