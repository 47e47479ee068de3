// Package strategy turns an indicator set into directional sub-signals and an
// aggregate trading action.
//
// Each sub-signal is a value in [-1, 1] plus a reason tag. The aggregate is
// their mean: above the action threshold it is BUY, below its negation SELL,
// otherwise HOLD. Confidence is the aggregate's magnitude.
package strategy

import (
	"math"

	"github.com/aminchedo/Project-X-sub001/internal/indicator"
)

// Action represents a trading action.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionHold Action = "HOLD"
)

// Reason tags attached to sub-signals.
const (
	ReasonInsufficient      = "insufficient_data"
	ReasonRSIOversold       = "rsi_oversold"
	ReasonRSIOverbought     = "rsi_overbought"
	ReasonRSISoftOversold   = "rsi_soft_oversold"
	ReasonRSISoftOverbought = "rsi_soft_overbought"
	ReasonRSINeutral        = "rsi_neutral"
	ReasonMACDCrossUp       = "macd_cross_up"
	ReasonMACDCrossDown     = "macd_cross_down"
	ReasonMACDPositive      = "macd_positive"
	ReasonMACDNegative      = "macd_negative"
	ReasonMACDFlat          = "macd_flat"
	ReasonEMABull           = "ema_bull_stack"
	ReasonEMABear           = "ema_bear_stack"
	ReasonEMAMixed          = "ema_mixed"
	ReasonBBLower           = "bb_lower_breach"
	ReasonBBUpper           = "bb_upper_breach"
	ReasonBBInside          = "bb_inside"
)

// Component names.
const (
	ComponentRSI       = "rsi"
	ComponentMACD      = "macd"
	ComponentEMAStack  = "ema_stack"
	ComponentBollinger = "bollinger"
)

// Component is one directional sub-signal.
type Component struct {
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Reason string  `json:"reason"`
}

// TradingSignal is the aggregate decision over all components.
type TradingSignal struct {
	Action     Action      `json:"action"`
	Confidence float64     `json:"confidence"`
	Aggregate  float64     `json:"aggregate"`
	Components []Component `json:"components"`
}

// Thresholds parameterise the sub-signals and the action cut-off.
type Thresholds struct {
	RSIOversold       float64 `mapstructure:"rsi_oversold" validate:"gte=0,lte=100"`
	RSIOverbought     float64 `mapstructure:"rsi_overbought" validate:"gte=0,lte=100,gtfield=RSIOversold"`
	RSISoftOversold   float64 `mapstructure:"rsi_soft_oversold" validate:"gte=0,lte=100"`
	RSISoftOverbought float64 `mapstructure:"rsi_soft_overbought" validate:"gte=0,lte=100"`
	Action            float64 `mapstructure:"action" validate:"gte=0,lte=1"`
}

// DefaultThresholds returns 30/70 hard and 40/60 soft RSI zones with a 0.3
// action cut-off.
func DefaultThresholds() Thresholds {
	return Thresholds{
		RSIOversold:       30,
		RSIOverbought:     70,
		RSISoftOversold:   40,
		RSISoftOverbought: 60,
		Action:            0.3,
	}
}

// Threshold keys used when thresholds are adjusted as a keyed table.
const (
	KeyRSIOversold       = "rsi_oversold"
	KeyRSIOverbought     = "rsi_overbought"
	KeyRSISoftOversold   = "rsi_soft_oversold"
	KeyRSISoftOverbought = "rsi_soft_overbought"
	KeyAction            = "action"
)

// Map returns the thresholds as a keyed table.
func (th Thresholds) Map() map[string]float64 {
	return map[string]float64{
		KeyRSIOversold:       th.RSIOversold,
		KeyRSIOverbought:     th.RSIOverbought,
		KeyRSISoftOversold:   th.RSISoftOversold,
		KeyRSISoftOverbought: th.RSISoftOverbought,
		KeyAction:            th.Action,
	}
}

// ThresholdsFromMap reads a keyed table, keeping base values for absent keys.
func ThresholdsFromMap(base Thresholds, m map[string]float64) Thresholds {
	pick := func(key string, def float64) float64 {
		if v, ok := m[key]; ok {
			return v
		}
		return def
	}
	return Thresholds{
		RSIOversold:       pick(KeyRSIOversold, base.RSIOversold),
		RSIOverbought:     pick(KeyRSIOverbought, base.RSIOverbought),
		RSISoftOversold:   pick(KeyRSISoftOversold, base.RSISoftOversold),
		RSISoftOverbought: pick(KeyRSISoftOverbought, base.RSISoftOverbought),
		Action:            pick(KeyAction, base.Action),
	}
}

// RSIZone scores the latest RSI against hard and soft zones.
func RSIZone(rsi float64, th Thresholds) Component {
	c := Component{Name: ComponentRSI}
	switch {
	case math.IsNaN(rsi):
		c.Reason = ReasonInsufficient
	case rsi < th.RSIOversold:
		c.Value, c.Reason = 1, ReasonRSIOversold
	case rsi > th.RSIOverbought:
		c.Value, c.Reason = -1, ReasonRSIOverbought
	case rsi < th.RSISoftOversold:
		c.Value, c.Reason = 0.5, ReasonRSISoftOversold
	case rsi > th.RSISoftOverbought:
		c.Value, c.Reason = -0.5, ReasonRSISoftOverbought
	default:
		c.Reason = ReasonRSINeutral
	}
	return c
}

// MACDHist scores the histogram's zero-cross between prev and curr, falling
// back to its sign.
func MACDHist(prev, curr float64) Component {
	c := Component{Name: ComponentMACD}
	switch {
	case math.IsNaN(curr):
		c.Reason = ReasonInsufficient
	case !math.IsNaN(prev) && prev <= 0 && curr > 0:
		c.Value, c.Reason = 1, ReasonMACDCrossUp
	case !math.IsNaN(prev) && prev >= 0 && curr < 0:
		c.Value, c.Reason = -1, ReasonMACDCrossDown
	case curr > 0:
		c.Value, c.Reason = 0.5, ReasonMACDPositive
	case curr < 0:
		c.Value, c.Reason = -0.5, ReasonMACDNegative
	default:
		c.Reason = ReasonMACDFlat
	}
	return c
}

// EMAStack scores the ordering of fast, mid and slow EMAs.
func EMAStack(fast, mid, slow float64) Component {
	c := Component{Name: ComponentEMAStack}
	switch {
	case math.IsNaN(fast) || math.IsNaN(mid) || math.IsNaN(slow):
		c.Reason = ReasonInsufficient
	case fast > mid && mid > slow:
		c.Value, c.Reason = 1, ReasonEMABull
	case fast < mid && mid < slow:
		c.Value, c.Reason = -1, ReasonEMABear
	default:
		c.Reason = ReasonEMAMixed
	}
	return c
}

// BollingerBreach scores a close outside the bands.
func BollingerBreach(close, upper, lower float64) Component {
	c := Component{Name: ComponentBollinger}
	switch {
	case math.IsNaN(close) || math.IsNaN(upper) || math.IsNaN(lower):
		c.Reason = ReasonInsufficient
	case close < lower:
		c.Value, c.Reason = 1, ReasonBBLower
	case close > upper:
		c.Value, c.Reason = -1, ReasonBBUpper
	default:
		c.Reason = ReasonBBInside
	}
	return c
}

// Aggregate averages components into a TradingSignal.
func Aggregate(components []Component, th Thresholds) TradingSignal {
	sig := TradingSignal{Action: ActionHold, Components: components}
	if len(components) == 0 {
		return sig
	}
	sum := 0.0
	for _, c := range components {
		sum += c.Value
	}
	sig.Aggregate = sum / float64(len(components))
	sig.Confidence = math.Abs(sig.Aggregate)
	switch {
	case sig.Aggregate > th.Action:
		sig.Action = ActionBuy
	case sig.Aggregate < -th.Action:
		sig.Action = ActionSell
	}
	return sig
}

// EMA periods used by the stack ordering component.
const (
	StackFast = 12
	StackMid  = 26
	StackSlow = 50
)

// Derive reads the latest values from set and aggregates the four components.
// Missing entries count as insufficient data.
func Derive(set indicator.Set, close float64, th Thresholds) TradingSignal {
	latest := func(name string, back int) float64 {
		s, ok := set[name]
		if !ok {
			return math.NaN()
		}
		return s.At(back)
	}
	components := []Component{
		RSIZone(latest(indicator.NameRSI, 0), th),
		MACDHist(latest(indicator.NameMACDHist, 1), latest(indicator.NameMACDHist, 0)),
		EMAStack(
			latest(indicator.EMAName(StackFast), 0),
			latest(indicator.EMAName(StackMid), 0),
			latest(indicator.EMAName(StackSlow), 0),
		),
		BollingerBreach(close, latest(indicator.NameBBUpper, 0), latest(indicator.NameBBLower, 0)),
	}
	return Aggregate(components, th)
}
