package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"go.uber.org/zap"

	"github.com/aminchedo/Project-X-sub001/config"
	"github.com/aminchedo/Project-X-sub001/internal/calibration"
	"github.com/aminchedo/Project-X-sub001/internal/engine"
	"github.com/aminchedo/Project-X-sub001/internal/features"
	"github.com/aminchedo/Project-X-sub001/internal/goal"
	"github.com/aminchedo/Project-X-sub001/internal/indicator"
	"github.com/aminchedo/Project-X-sub001/internal/logger"
	"github.com/aminchedo/Project-X-sub001/internal/model"
	"github.com/aminchedo/Project-X-sub001/internal/smc"
	"github.com/aminchedo/Project-X-sub001/internal/strategy"
)

type app struct {
	cfg *config.Config
	eng *engine.Engine
	cal *calibration.Calibrator
	log *zap.Logger
}

// Report is the JSON document printed for one analysis.
type Report struct {
	TraceID     string                 `json:"trace_id,omitempty"`
	Bars        int                    `json:"bars"`
	Indicators  map[string]float64     `json:"indicators"`
	Signal      strategy.TradingSignal `json:"signal"`
	Structure   smc.Analysis           `json:"structure"`
	Zone        *ZoneReport            `json:"zone,omitempty"`
	Features    features.FeatureVector `json:"features"`
	Goal        GoalReport             `json:"goal"`
	Probability *float64               `json:"probability,omitempty"`
}

// ZoneReport is the order block behind the last bar and its entry.
type ZoneReport struct {
	Zone      smc.Zone  `json:"zone"`
	Mitigated bool      `json:"mitigated"`
	Entry     smc.Entry `json:"entry"`
}

// GoalReport carries the resolved goal and its adjustments.
type GoalReport struct {
	Name       string              `json:"name"`
	Weights    map[string]float64  `json:"weights"`
	Thresholds strategy.Thresholds `json:"thresholds"`
	RiskScale  float64             `json:"risk_scale"`
}

func (a *app) analyze(ctx context.Context, ltfPath, htfPath, goalName string, score float64) (*Report, error) {
	ltf, err := readBars(ltfPath)
	if err != nil {
		return nil, err
	}
	htf := ltf
	if htfPath != "" {
		if htf, err = readBars(htfPath); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	set, err := a.eng.ComputeAll(ltf)
	if err != nil {
		return nil, fmt.Errorf("ltf indicators: %w", err)
	}
	atrLTF := set[indicator.NameATR].Last()
	atrHTF := math.NaN()
	if htr, err := a.eng.ComputeSingle(htf, indicator.NameATR, engine.Params{}); err == nil {
		atrHTF = htr.Last()
	} else {
		a.log.Debug("htf atr unavailable", zap.Error(err))
	}

	fv := features.Compute(htf, ltf, atrHTF, atrLTF, a.cfg.Features)
	g := goal.Resolve(goalName, fv.HTFTrend)
	weights, _, risk := goal.Merge(g, baseWeights(), nil)
	th := goal.Thresholds(g, a.cfg.Engine.Thresholds)

	sig, err := a.eng.SignalWith(ltf, th)
	if err != nil {
		return nil, err
	}

	opts := a.cfg.SMC
	opts.ATR = atrLTF
	r := &Report{
		TraceID:    logger.TraceID(ctx),
		Bars:       len(ltf),
		Indicators: lastValues(set),
		Signal:     sig,
		Structure:  smc.AnalyzeWith(ltf, opts),
		Zone:       a.zone(ltf, atrLTF),
		Features:   fv,
		Goal:       GoalReport{Name: g.String(), Weights: weights, Thresholds: th, RiskScale: risk},
	}
	if !math.IsNaN(score) {
		p, err := a.cal.Probability(ctx, score)
		if err != nil {
			return nil, fmt.Errorf("calibrate: %w", err)
		}
		r.Probability = &p
	}
	a.log.Info("analysis complete",
		zap.Int("bars", len(ltf)),
		zap.String("action", string(sig.Action)),
		zap.String("goal", g.String()),
		zap.Int("htf_trend", fv.HTFTrend),
	)
	return r, nil
}

func (a *app) zone(ltf []model.Bar, atr float64) *ZoneReport {
	last := len(ltf) - 1
	dir := smc.Down
	if ltf[last].Up() {
		dir = smc.Up
	}
	z, ok := smc.FindOrderBlock(ltf, last, dir)
	if !ok {
		return nil
	}
	return &ZoneReport{
		Zone:      z,
		Mitigated: smc.IsMitigated(ltf, z),
		Entry:     smc.EntryPrice(z, atr, a.cfg.Entry),
	}
}

// baseWeights gives every signal component and feature equal weight.
func baseWeights() map[string]float64 {
	return map[string]float64{
		strategy.ComponentRSI:       1,
		strategy.ComponentMACD:      1,
		strategy.ComponentEMAStack:  1,
		strategy.ComponentBollinger: 1,
		features.KeyHTFTrend:        1,
		features.KeyFVGATR:          1,
		features.KeySMCZQS:          1,
		features.KeyLiqNear:         1,
	}
}

// lastValues reports the latest defined value of every series.
func lastValues(set indicator.Set) map[string]float64 {
	out := make(map[string]float64, len(set))
	for name, s := range set {
		if v := s.Last(); !math.IsNaN(v) {
			out[name] = v
		}
	}
	return out
}

// FitInput is the labelled sample file accepted by --fit.
type FitInput struct {
	Scores []float64 `json:"scores"`
	Labels []int     `json:"labels"`
}

// FitOutput is printed after a calibration fit.
type FitOutput struct {
	Model  calibration.Model     `json:"model"`
	Report calibration.FitReport `json:"report"`
}

func runFit(ctx context.Context, cal *calibration.Calibrator, path string, opts calibration.FitOptions) (*FitOutput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read samples: %w", err)
	}
	var in FitInput
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("%w: decode samples: %v", model.ErrInvalidInput, err)
	}
	m, rep, err := cal.Fit(ctx, in.Scores, in.Labels, opts)
	if err != nil {
		return nil, err
	}
	return &FitOutput{Model: m, Report: rep}, nil
}

// readBars decodes a column-oriented bar file: an object of equal-length
// arrays keyed ts, open, high, low, close, volume (ts in unix seconds).
func readBars(path string) ([]model.Bar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bars: %w", err)
	}
	var cols map[string][]float64
	if err := json.Unmarshal(data, &cols); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", model.ErrInvalidInput, path, err)
	}
	return model.FromColumns(cols)
}
