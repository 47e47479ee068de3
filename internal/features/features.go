// Package features condenses a higher-timeframe and a lower-timeframe bar
// series into the small numeric vector consumed by the scoring layer.
package features

import (
	"math"

	"github.com/aminchedo/Project-X-sub001/internal/model"
	"github.com/aminchedo/Project-X-sub001/internal/smc"
)

// External feature names.
const (
	KeyHTFTrend = "HTF_TREND"
	KeyFVGATR   = "FVG_ATR"
	KeySMCZQS   = "SMC_ZQS"
	KeyLiqNear  = "LIQ_NEAR"
)

// FeatureVector holds the aggregated structural features.
type FeatureVector struct {
	HTFTrend int     `json:"HTF_TREND"`
	FVGATR   float64 `json:"FVG_ATR"`
	SMCZQS   float64 `json:"SMC_ZQS"`
	LiqNear  int     `json:"LIQ_NEAR"`
}

// Map returns the vector keyed by external feature name.
func (v FeatureVector) Map() map[string]float64 {
	return map[string]float64{
		KeyHTFTrend: float64(v.HTFTrend),
		KeyFVGATR:   v.FVGATR,
		KeySMCZQS:   v.SMCZQS,
		KeyLiqNear:  float64(v.LiqNear),
	}
}

// Config tunes the aggregation.
type Config struct {
	Left  int `mapstructure:"left" validate:"min=1"`
	Right int `mapstructure:"right" validate:"min=1"`
	// TrendEvents is how many of the latest HTF structure events decide the trend.
	TrendEvents int `mapstructure:"trend_events" validate:"min=1"`
	// MinFVGATR drops LTF gaps smaller than this fraction of the LTF ATR.
	MinFVGATR    float64 `mapstructure:"min_fvg_atr" validate:"gte=0"`
	LiquidityTol float64 `mapstructure:"liquidity_tol" validate:"gt=0,lt=1"`
	// LiqNearATR is the distance, in LTF ATRs, within which a cluster counts
	// as near the current price.
	LiqNearATR float64 `mapstructure:"liq_near_atr" validate:"gt=0"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		Left:         2,
		Right:        2,
		TrendEvents:  5,
		LiquidityTol: 0.001,
		LiqNearATR:   1,
	}
}

// Compute derives the feature vector. Missing structure yields zeros; it
// never fails. The HTF ATR is accepted alongside the LTF one but no current
// feature reads it.
func Compute(htf, ltf []model.Bar, _, atrLTF float64, cfg Config) FeatureVector {
	var v FeatureVector
	v.HTFTrend = Trend(htf, cfg)
	if len(ltf) == 0 {
		return v
	}

	var fvgATR float64
	if atrLTF > 0 {
		if g, ok := smc.LargestFVG(smc.DetectFVG(ltf, atrLTF, cfg.MinFVGATR)); ok {
			fvgATR = g.Size / atrLTF
		}
	}
	v.FVGATR = fvgATR
	v.SMCZQS = zoneScore(ltf, atrLTF, fvgATR)
	if LiquidityNear(ltf, atrLTF, cfg) {
		v.LiqNear = 1
	}
	return v
}

// Trend reads the latest HTF structure events: +1 when any is BOS_UP, else
// -1 when any is BOS_DOWN, else 0.
func Trend(htf []model.Bar, cfg Config) int {
	events := smc.StructureEvents(smc.LabelSwings(smc.Pivots(htf, cfg.Left, cfg.Right)))
	recent := events[max(len(events)-cfg.TrendEvents, 0):]
	for _, ev := range recent {
		if ev.Type == smc.BOSUp {
			return 1
		}
	}
	for _, ev := range recent {
		if ev.Type == smc.BOSDown {
			return -1
		}
	}
	return 0
}

// zoneScore grades the order block behind the last LTF bar, treating that
// bar as the impulse in its own direction.
func zoneScore(ltf []model.Bar, atr, fvgATR float64) float64 {
	last := len(ltf) - 1
	dir := smc.Down
	if ltf[last].Up() {
		dir = smc.Up
	}
	z, ok := smc.FindOrderBlock(ltf, last, dir)
	if !ok {
		return 0
	}
	var bos float64
	if atr > 0 {
		bos = ltf[last].Body() / atr
	}
	return smc.ZoneQuality(bos, fvgATR, momentum(ltf), smc.IsMitigated(ltf, z))
}

// momentum counts the trailing run of bars sharing the last bar's direction.
func momentum(bars []model.Bar) int {
	last := len(bars) - 1
	up := bars[last].Up()
	n := 0
	for i := last; i >= 0 && bars[i].Up() == up; i-- {
		n++
	}
	return n
}

// LiquidityNear reports whether any LTF equal-high or equal-low cluster sits
// within cfg.LiqNearATR*atr of the last close. With no usable ATR the
// clustering tolerance fraction of price is used instead.
func LiquidityNear(ltf []model.Bar, atr float64, cfg Config) bool {
	if len(ltf) == 0 {
		return false
	}
	price := ltf[len(ltf)-1].Close
	reach := cfg.LiqNearATR * atr
	if atr <= 0 || math.IsNaN(atr) {
		reach = cfg.LiquidityTol * math.Abs(price)
	}
	for lvl := range smc.EqualHighs(ltf, cfg.LiquidityTol) {
		if math.Abs(lvl.Level-price) <= reach {
			return true
		}
	}
	for lvl := range smc.EqualLows(ltf, cfg.LiquidityTol) {
		if math.Abs(lvl.Level-price) <= reach {
			return true
		}
	}
	return false
}
