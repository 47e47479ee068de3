package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Engine.MinBars != 50 || cfg.Engine.FastMinBars != 50 {
		t.Errorf("engine bars = %d/%d", cfg.Engine.MinBars, cfg.Engine.FastMinBars)
	}
	if cfg.Engine.Fingerprint != "tail" {
		t.Errorf("fingerprint = %q", cfg.Engine.Fingerprint)
	}
	if got := cfg.Engine.Indicators.EMAPeriods; len(got) != 3 || got[2] != 50 {
		t.Errorf("ema periods = %v", got)
	}
	if cfg.Engine.Thresholds.Action != 0.3 || cfg.Engine.Thresholds.RSIOverbought != 70 {
		t.Errorf("thresholds = %+v", cfg.Engine.Thresholds)
	}
	if cfg.Cache.Capacity != 128 {
		t.Errorf("cache capacity = %d", cfg.Cache.Capacity)
	}
	if cfg.Calibration.Store != "file" || cfg.Calibration.Fit.MaxIter != 50 {
		t.Errorf("calibration = %+v", cfg.Calibration)
	}
	if cfg.Features.TrendEvents != 5 || cfg.Goal.Name != "auto" {
		t.Errorf("features/goal = %+v %+v", cfg.Features, cfg.Goal)
	}
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "featcore.yaml")
	yaml := strings.Join([]string{
		"engine:",
		"  fingerprint: rolling",
		"  indicators:",
		"    rsi_period: 21",
		"cache:",
		"  capacity: 16",
		"",
	}, "\n")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FEATCORE_CACHE_CAPACITY", "32")
	t.Setenv("FEATCORE_GOAL_NAME", "reversal")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Engine.Fingerprint != "rolling" || cfg.Engine.Indicators.RSIPeriod != 21 {
		t.Errorf("file values not applied: %+v", cfg.Engine)
	}
	if cfg.Engine.Indicators.ATRPeriod != 14 {
		t.Errorf("defaults lost under file: atr = %d", cfg.Engine.Indicators.ATRPeriod)
	}
	if cfg.Cache.Capacity != 32 {
		t.Errorf("env override capacity = %d, want 32", cfg.Cache.Capacity)
	}
	if cfg.Goal.Name != "reversal" {
		t.Errorf("goal = %q", cfg.Goal.Name)
	}
}

func TestLoad_InvalidFails(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FEATCORE_ENGINE_FINGERPRINT", "sha256")
	if _, err := Load(""); err == nil {
		t.Fatal("expected validation error for unknown fingerprint mode")
	}

	t.Setenv("FEATCORE_ENGINE_FINGERPRINT", "tail")
	t.Setenv("FEATCORE_CALIBRATION_STORE", "redis")
	if _, err := Load(""); err == nil {
		t.Fatal("expected validation error for unknown calibration store")
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("explicit config path must exist")
	}
}
