package goal

import (
	"math"
	"testing"

	"github.com/aminchedo/Project-X-sub001/internal/strategy"
)

func TestResolve(t *testing.T) {
	if g := Resolve("auto", 1); g != Continuation {
		t.Errorf("auto with trend 1 = %s, want continuation", g)
	}
	if g := Resolve("auto", -1); g != Continuation {
		t.Errorf("auto with trend -1 = %s, want continuation", g)
	}
	if g := Resolve("auto", 0); g != Reversal {
		t.Errorf("auto with trend 0 = %s, want reversal", g)
	}
	if g := Resolve("bogus", 1); g != Auto {
		t.Errorf("unknown goal = %s, want auto", g)
	}
	if g := Resolve(" Reversal ", 1); g != Reversal {
		t.Errorf("explicit goal = %s, want reversal", g)
	}
	if Auto.String() != "auto" || Goal(42).String() != "auto" {
		t.Error("String should name auto for Auto and out-of-range goals")
	}
}

func TestApply_ReturnsCopies(t *testing.T) {
	w, d, risk := Apply(Continuation)
	if risk != 1 {
		t.Errorf("continuation risk = %v", risk)
	}
	w[strategy.ComponentRSI] = 99
	d[strategy.KeyAction] = 99
	w2, d2, _ := Apply(Continuation)
	if w2[strategy.ComponentRSI] == 99 || d2[strategy.KeyAction] == 99 {
		t.Error("Apply leaked the static table")
	}

	w, d, risk = Apply(Auto)
	if len(w) != 0 || len(d) != 0 || risk != 1 {
		t.Errorf("auto profile = %v %v %v, want neutral", w, d, risk)
	}
	if _, _, risk := Apply(Reversal); risk >= 1 {
		t.Errorf("reversal risk = %v, want reduced", risk)
	}
}

func TestMerge(t *testing.T) {
	baseW := map[string]float64{strategy.ComponentRSI: 2, "custom": 0.5}
	baseT := map[string]float64{strategy.KeyAction: 0.3}
	w, th, risk := Merge(Reversal, baseW, baseT)

	if math.Abs(w[strategy.ComponentRSI]-2.6) > 1e-12 {
		t.Errorf("rsi weight = %v, want 2*1.3", w[strategy.ComponentRSI])
	}
	if w["custom"] != 0.5 {
		t.Errorf("untouched weight changed: %v", w["custom"])
	}
	if w[strategy.ComponentEMAStack] != 0.7 {
		t.Errorf("absent base weight should count as 1: %v", w[strategy.ComponentEMAStack])
	}
	if math.Abs(th[strategy.KeyAction]-0.35) > 1e-12 {
		t.Errorf("action threshold = %v", th[strategy.KeyAction])
	}
	if th[strategy.KeyRSISoftOversold] != -5 {
		t.Errorf("absent base threshold should count as 0: %v", th[strategy.KeyRSISoftOversold])
	}
	if risk != 0.7 {
		t.Errorf("risk = %v", risk)
	}
	if baseW[strategy.ComponentRSI] != 2 || len(baseT) != 1 {
		t.Error("Merge modified its inputs")
	}
}

func TestThresholds_Typed(t *testing.T) {
	base := strategy.DefaultThresholds()
	got := Thresholds(Continuation, base)
	if got.RSIOversold != 25 || got.RSIOverbought != 75 {
		t.Errorf("rsi zones = %v/%v, want 25/75", got.RSIOversold, got.RSIOverbought)
	}
	if math.Abs(got.Action-0.25) > 1e-12 {
		t.Errorf("action = %v", got.Action)
	}
	if got.RSISoftOversold != base.RSISoftOversold {
		t.Error("unadjusted threshold changed")
	}
	if Thresholds(Auto, base) != base {
		t.Error("auto must leave thresholds unchanged")
	}
}
