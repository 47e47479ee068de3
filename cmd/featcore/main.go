// cmd/featcore computes indicators, a trading signal, market structure,
// aggregated features, goal adjustments and a calibrated probability for a
// bar file and prints the result as JSON.
//
// Usage:
//
//	go run ./cmd/featcore --bars=ltf.json --htf=htf.json --goal=auto --score=0.4
//	go run ./cmd/featcore --fit=labelled.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/aminchedo/Project-X-sub001/config"
	"github.com/aminchedo/Project-X-sub001/internal/calibration"
	"github.com/aminchedo/Project-X-sub001/internal/engine"
	"github.com/aminchedo/Project-X-sub001/internal/logger"
	"github.com/aminchedo/Project-X-sub001/internal/metrics"
)

func main() {
	cfgPath := flag.String("config", "", "Path to a YAML config file (default: ./configs/featcore.yaml if present)")
	barsPath := flag.String("bars", "", "Lower-timeframe bar file (column JSON)")
	htfPath := flag.String("htf", "", "Higher-timeframe bar file (default: same as --bars)")
	goalName := flag.String("goal", "", "Goal override: auto, continuation or reversal")
	score := flag.Float64("score", math.NaN(), "Raw score to calibrate")
	fitPath := flag.String("fit", "", "Fit and store calibration from a {scores, labels} JSON file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[featcore] config: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.Init("featcore", cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[featcore] logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	ctx = logger.WithTraceID(ctx, logger.NewTraceID())
	log = logger.WithTrace(ctx, log)

	store, closeStore, err := openStore(cfg.Calibration)
	if err != nil {
		log.Fatal("calibration store", zap.Error(err))
	}
	defer closeStore()

	m := metrics.NewMetrics(nil)
	cal := calibration.NewCalibrator(store, log, m)

	var out any
	switch {
	case *fitPath != "":
		out, err = runFit(ctx, cal, *fitPath, cfg.Calibration.Fit)
	case *barsPath != "":
		app := &app{
			cfg: cfg,
			eng: engine.New(cfg.Engine, engine.NewSetCache(cfg.Cache.Capacity), log, m),
			cal: cal,
			log: log,
		}
		goal := cfg.Goal.Name
		if *goalName != "" {
			goal = *goalName
		}
		out, err = app.analyze(ctx, *barsPath, *htfPath, goal, *score)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		if engine.IsInvalidInput(err) {
			log.Error("invalid input", zap.Error(err))
			os.Exit(2)
		}
		log.Fatal("featcore failed", zap.Error(err))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatal("encode output", zap.Error(err))
	}
}

func openStore(cfg config.CalibrationConfig) (calibration.Store, func(), error) {
	switch cfg.Store {
	case "sqlite":
		s, err := calibration.OpenSQLite(cfg.Path, cfg.Record)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	default:
		return calibration.NewFileStore(cfg.Path), func() {}, nil
	}
}
