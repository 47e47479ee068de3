// Package goal conditions weights and thresholds on a trading goal.
//
// Goals are a closed set. Each maps through a static profile table to
// per-component weight multipliers, additive threshold deltas and a risk
// scale.
package goal

import (
	"maps"
	"strings"

	"github.com/aminchedo/Project-X-sub001/internal/features"
	"github.com/aminchedo/Project-X-sub001/internal/strategy"
)

// Goal is a trading intent.
type Goal int

const (
	Auto Goal = iota
	Continuation
	Reversal
	numGoals
)

var names = [numGoals]string{"auto", "continuation", "reversal"}

func (g Goal) String() string {
	if g < 0 || g >= numGoals {
		return names[Auto]
	}
	return names[g]
}

// Parse maps a name to a Goal, case-insensitively.
func Parse(name string) (Goal, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for g, n := range names {
		if n == name {
			return Goal(g), true
		}
	}
	return Auto, false
}

// Resolve picks the effective goal. "auto" becomes Continuation when the
// higher-timeframe trend is non-zero and Reversal otherwise. Unrecognised
// names fall back to Auto, which is returned as is.
func Resolve(name string, htfTrend int) Goal {
	g, ok := Parse(name)
	if !ok {
		return Auto
	}
	if g == Auto {
		if htfTrend != 0 {
			return Continuation
		}
		return Reversal
	}
	return g
}

// Profile is the static adjustment set of one goal.
type Profile struct {
	Weights    map[string]float64 `json:"weights"`
	Thresholds map[string]float64 `json:"thresholds"`
	RiskScale  float64            `json:"risk_scale"`
}

var profiles = [numGoals]Profile{
	Auto: {RiskScale: 1},
	Continuation: {
		Weights: map[string]float64{
			strategy.ComponentEMAStack:  1.3,
			strategy.ComponentMACD:      1.2,
			strategy.ComponentRSI:       0.8,
			strategy.ComponentBollinger: 0.8,
			features.KeyHTFTrend:        1.3,
			features.KeySMCZQS:          1.2,
		},
		Thresholds: map[string]float64{
			strategy.KeyRSIOversold:   -5,
			strategy.KeyRSIOverbought: 5,
			strategy.KeyAction:        -0.05,
		},
		RiskScale: 1,
	},
	Reversal: {
		Weights: map[string]float64{
			strategy.ComponentRSI:       1.3,
			strategy.ComponentBollinger: 1.3,
			strategy.ComponentEMAStack:  0.7,
			strategy.ComponentMACD:      0.9,
			features.KeyLiqNear:         1.3,
			features.KeySMCZQS:          1.1,
		},
		Thresholds: map[string]float64{
			strategy.KeyRSISoftOversold:   -5,
			strategy.KeyRSISoftOverbought: 5,
			strategy.KeyAction:            0.05,
		},
		RiskScale: 0.7,
	},
}

// Apply returns copies of g's weight multipliers and threshold deltas and its
// risk scale. Out-of-range goals use the Auto profile.
func Apply(g Goal) (weights, deltas map[string]float64, risk float64) {
	if g < 0 || g >= numGoals {
		g = Auto
	}
	p := profiles[g]
	weights, deltas = maps.Clone(p.Weights), maps.Clone(p.Thresholds)
	if weights == nil {
		weights = map[string]float64{}
	}
	if deltas == nil {
		deltas = map[string]float64{}
	}
	return weights, deltas, p.RiskScale
}

// Merge applies g to base tables: weights are multiplied (a key missing from
// base counts as 1) and thresholds shifted (a missing key counts as 0). The
// inputs are not modified.
func Merge(g Goal, baseWeights, baseThresholds map[string]float64) (weights, thresholds map[string]float64, risk float64) {
	mult, deltas, risk := Apply(g)
	weights = maps.Clone(baseWeights)
	if weights == nil {
		weights = map[string]float64{}
	}
	for k, m := range mult {
		w, ok := weights[k]
		if !ok {
			w = 1
		}
		weights[k] = w * m
	}
	thresholds = maps.Clone(baseThresholds)
	if thresholds == nil {
		thresholds = map[string]float64{}
	}
	for k, d := range deltas {
		thresholds[k] += d
	}
	return weights, thresholds, risk
}

// Thresholds shifts typed signal thresholds by g's deltas.
func Thresholds(g Goal, base strategy.Thresholds) strategy.Thresholds {
	_, merged, _ := Merge(g, nil, base.Map())
	return strategy.ThresholdsFromMap(base, merged)
}
