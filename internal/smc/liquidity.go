package smc

import (
	"iter"
	"math"

	"github.com/aminchedo/Project-X-sub001/internal/model"
)

// LevelKind says whether a liquidity cluster formed on highs or lows.
type LevelKind string

const (
	LevelHigh LevelKind = "high"
	LevelLow  LevelKind = "low"
)

// LevelPoint is one member of a liquidity cluster.
type LevelPoint struct {
	Index int     `json:"index"`
	Price float64 `json:"price"`
}

// LiquidityLevel is a group of at least two near-equal extremes. Level is
// the mean of the member prices.
type LiquidityLevel struct {
	Kind   LevelKind    `json:"kind"`
	Points []LevelPoint `json:"points"`
	Level  float64      `json:"level"`
}

// EqualLevels scans prices in order, growing a group while each point lies
// within tolFrac of the group's running mean. When a point breaks tolerance
// the group is emitted if it holds two or more points and a new group starts
// at the breaking point. A trailing group is flushed at the end.
//
// The sequence is lazy and can be ranged over any number of times.
func EqualLevels(prices []float64, kind LevelKind, tolFrac float64) iter.Seq[LiquidityLevel] {
	return func(yield func(LiquidityLevel) bool) {
		var group []LevelPoint
		ref := 0.0
		emit := func() bool {
			if len(group) < 2 {
				return true
			}
			pts := make([]LevelPoint, len(group))
			copy(pts, group)
			return yield(LiquidityLevel{Kind: kind, Points: pts, Level: ref})
		}
		for i, p := range prices {
			if len(group) > 0 && within(p, ref, tolFrac) {
				group = append(group, LevelPoint{Index: i, Price: p})
				ref += (p - ref) / float64(len(group))
				continue
			}
			if !emit() {
				return
			}
			group = append(group[:0], LevelPoint{Index: i, Price: p})
			ref = p
		}
		emit()
	}
}

func within(p, ref, tolFrac float64) bool {
	if ref == 0 {
		return p == 0
	}
	return math.Abs(p-ref) <= tolFrac*math.Abs(ref)
}

// EqualHighs clusters bar highs.
func EqualHighs(bars []model.Bar, tolFrac float64) iter.Seq[LiquidityLevel] {
	return EqualLevels(model.Highs(bars), LevelHigh, tolFrac)
}

// EqualLows clusters bar lows.
func EqualLows(bars []model.Bar, tolFrac float64) iter.Seq[LiquidityLevel] {
	return EqualLevels(model.Lows(bars), LevelLow, tolFrac)
}

// LiquidityGrab reports whether any bar from index from onward swept the
// level and closed back on the original side: above-and-back-below for high
// clusters, below-and-back-above for low clusters.
func LiquidityGrab(bars []model.Bar, from int, lvl LiquidityLevel) bool {
	for i := max(from, 0); i < len(bars); i++ {
		b := bars[i]
		switch lvl.Kind {
		case LevelHigh:
			if b.High > lvl.Level && b.Close < lvl.Level {
				return true
			}
		case LevelLow:
			if b.Low < lvl.Level && b.Close > lvl.Level {
				return true
			}
		}
	}
	return false
}
