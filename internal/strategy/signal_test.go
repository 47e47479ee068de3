package strategy

import (
	"math"
	"testing"

	"github.com/aminchedo/Project-X-sub001/internal/indicator"
)

func TestRSIZone(t *testing.T) {
	th := DefaultThresholds()
	cases := []struct {
		rsi    float64
		value  float64
		reason string
	}{
		{25, 1, ReasonRSIOversold},
		{75, -1, ReasonRSIOverbought},
		{35, 0.5, ReasonRSISoftOversold},
		{65, -0.5, ReasonRSISoftOverbought},
		{50, 0, ReasonRSINeutral},
		{30, 0.5, ReasonRSISoftOversold},
		{math.NaN(), 0, ReasonInsufficient},
	}
	for _, c := range cases {
		got := RSIZone(c.rsi, th)
		if got.Value != c.value || got.Reason != c.reason {
			t.Errorf("RSIZone(%v) = %v/%s, want %v/%s", c.rsi, got.Value, got.Reason, c.value, c.reason)
		}
	}
}

func TestMACDHist(t *testing.T) {
	if c := MACDHist(-0.1, 0.2); c.Value != 1 || c.Reason != ReasonMACDCrossUp {
		t.Errorf("cross up: %+v", c)
	}
	if c := MACDHist(0.1, -0.2); c.Value != -1 || c.Reason != ReasonMACDCrossDown {
		t.Errorf("cross down: %+v", c)
	}
	if c := MACDHist(0.1, 0.2); c.Value != 0.5 {
		t.Errorf("positive: %+v", c)
	}
	if c := MACDHist(-0.1, -0.2); c.Value != -0.5 {
		t.Errorf("negative: %+v", c)
	}
	if c := MACDHist(math.NaN(), 0.2); c.Value != 0.5 {
		t.Errorf("no previous hist falls back to sign: %+v", c)
	}
	if c := MACDHist(0.1, math.NaN()); c.Reason != ReasonInsufficient {
		t.Errorf("undefined hist: %+v", c)
	}
}

func TestEMAStackAndBollinger(t *testing.T) {
	if c := EMAStack(3, 2, 1); c.Value != 1 {
		t.Errorf("bull stack: %+v", c)
	}
	if c := EMAStack(1, 2, 3); c.Value != -1 {
		t.Errorf("bear stack: %+v", c)
	}
	if c := EMAStack(2, 3, 1); c.Value != 0 || c.Reason != ReasonEMAMixed {
		t.Errorf("mixed stack: %+v", c)
	}
	if c := BollingerBreach(9, 12, 10); c.Value != 1 {
		t.Errorf("lower breach: %+v", c)
	}
	if c := BollingerBreach(13, 12, 10); c.Value != -1 {
		t.Errorf("upper breach: %+v", c)
	}
	if c := BollingerBreach(11, 12, 10); c.Value != 0 {
		t.Errorf("inside: %+v", c)
	}
}

func TestAggregate_Actions(t *testing.T) {
	th := DefaultThresholds()
	buy := Aggregate([]Component{{Value: 1}, {Value: 0.5}, {Value: 0}, {Value: 0}}, th)
	if buy.Action != ActionBuy || math.Abs(buy.Confidence-0.375) > 1e-12 {
		t.Errorf("buy: %+v", buy)
	}
	sell := Aggregate([]Component{{Value: -1}, {Value: -1}, {Value: 0.5}, {Value: 0}}, th)
	if sell.Action != ActionSell || math.Abs(sell.Confidence-0.375) > 1e-12 {
		t.Errorf("sell: %+v", sell)
	}
	hold := Aggregate([]Component{{Value: 1}, {Value: -1}, {Value: 0.5}, {Value: 0}}, th)
	if hold.Action != ActionHold {
		t.Errorf("hold: %+v", hold)
	}
	// Exactly at the threshold is not a breach.
	edge := Aggregate([]Component{{Value: 0.3}}, th)
	if edge.Action != ActionHold {
		t.Errorf("aggregate equal to threshold should HOLD: %+v", edge)
	}
}

func TestDerive_FromSet(t *testing.T) {
	set := indicator.Set{
		indicator.NameRSI:      {50, 25},
		indicator.NameMACDHist: {-0.5, 0.5},
		indicator.EMAName(12):  {0, 3},
		indicator.EMAName(26):  {0, 2},
		indicator.EMAName(50):  {0, 1},
		indicator.NameBBUpper:  {0, 12},
		indicator.NameBBLower:  {0, 10},
	}
	sig := Derive(set, 9, DefaultThresholds())
	if sig.Action != ActionBuy || sig.Aggregate != 1 {
		t.Errorf("all-bullish set: %+v", sig)
	}
	if len(sig.Components) != 4 {
		t.Fatalf("components = %d, want 4", len(sig.Components))
	}
}

func TestThresholdsMapRoundTrip(t *testing.T) {
	base := DefaultThresholds()
	m := base.Map()
	m[KeyAction] = 0.4
	got := ThresholdsFromMap(base, m)
	if got.Action != 0.4 || got.RSIOversold != 30 {
		t.Errorf("unexpected thresholds %+v", got)
	}
	if kept := ThresholdsFromMap(base, nil); kept != base {
		t.Errorf("empty map should keep base: %+v", kept)
	}
}
