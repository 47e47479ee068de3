package smc

import "github.com/aminchedo/Project-X-sub001/internal/model"

// Options tune a structure analysis.
type Options struct {
	Left  int `mapstructure:"left" validate:"min=1"`
	Right int `mapstructure:"right" validate:"min=1"`
	// ATR enables the FVG size filter when positive.
	ATR float64 `mapstructure:"-"`
	// MinFVGATR is the minimum gap size as a fraction of ATR.
	MinFVGATR float64 `mapstructure:"min_fvg_atr" validate:"gte=0"`
	// LiquidityTol is the relative tolerance for equal highs/lows.
	LiquidityTol float64 `mapstructure:"liquidity_tol" validate:"gt=0,lt=1"`
}

// DefaultOptions uses 2-bar pivot windows, a 0.1 ATR gap filter and 0.1%
// liquidity tolerance.
func DefaultOptions() Options {
	return Options{Left: 2, Right: 2, MinFVGATR: 0.1, LiquidityTol: 0.001}
}

// Analysis is the structural read of one bar series.
type Analysis struct {
	Pivots []Pivot          `json:"pivots"`
	Swings []SwingTag       `json:"swings"`
	Events []StructureEvent `json:"events"`
	FVGs   []FVG            `json:"fvgs"`
	Levels []LiquidityLevel `json:"levels,omitempty"`
}

// Analyze runs pivots, swing labels, structure events and unfiltered FVG
// detection.
func Analyze(bars []model.Bar, left, right int) Analysis {
	opts := DefaultOptions()
	opts.Left, opts.Right = left, right
	opts.LiquidityTol = 0
	return AnalyzeWith(bars, opts)
}

// AnalyzeWith runs the full analysis. Liquidity clusters are collected only
// when opts.LiquidityTol is positive.
func AnalyzeWith(bars []model.Bar, opts Options) Analysis {
	pivots := Pivots(bars, opts.Left, opts.Right)
	swings := LabelSwings(pivots)
	a := Analysis{
		Pivots: pivots,
		Swings: swings,
		Events: StructureEvents(swings),
		FVGs:   DetectFVG(bars, opts.ATR, opts.MinFVGATR),
	}
	if opts.LiquidityTol > 0 {
		for lvl := range EqualHighs(bars, opts.LiquidityTol) {
			a.Levels = append(a.Levels, lvl)
		}
		for lvl := range EqualLows(bars, opts.LiquidityTol) {
			a.Levels = append(a.Levels, lvl)
		}
	}
	return a
}
