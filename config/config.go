// Package config loads featcore configuration from defaults, an optional
// YAML file, a .env file and FEATCORE_* environment variables, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/aminchedo/Project-X-sub001/internal/calibration"
	"github.com/aminchedo/Project-X-sub001/internal/engine"
	"github.com/aminchedo/Project-X-sub001/internal/features"
	"github.com/aminchedo/Project-X-sub001/internal/indicator"
	"github.com/aminchedo/Project-X-sub001/internal/logger"
	"github.com/aminchedo/Project-X-sub001/internal/smc"
	"github.com/aminchedo/Project-X-sub001/internal/strategy"
)

// EnvPrefix prefixes every environment override, e.g. FEATCORE_CACHE_CAPACITY.
const EnvPrefix = "FEATCORE"

// Config is the full application configuration.
type Config struct {
	Log         logger.Config     `mapstructure:"log"`
	Engine      engine.Options    `mapstructure:"engine"`
	Cache       CacheConfig       `mapstructure:"cache"`
	SMC         smc.Options       `mapstructure:"smc"`
	Entry       smc.EntryOptions  `mapstructure:"entry"`
	Features    features.Config   `mapstructure:"features"`
	Calibration CalibrationConfig `mapstructure:"calibration"`
	Goal        GoalConfig        `mapstructure:"goal"`
}

// CacheConfig sizes the indicator result cache.
type CacheConfig struct {
	Capacity int `mapstructure:"capacity" validate:"min=1"`
}

// CalibrationConfig selects where the Platt record lives.
type CalibrationConfig struct {
	Store  string                 `mapstructure:"store" validate:"oneof=file sqlite"`
	Path   string                 `mapstructure:"path" validate:"required"`
	Record string                 `mapstructure:"record"` // row name for the sqlite store
	Fit    calibration.FitOptions `mapstructure:"fit"`
}

// GoalConfig holds the default goal name. Unknown names resolve to auto.
type GoalConfig struct {
	Name string `mapstructure:"name"`
}

// Load reads configuration. path names a YAML file; when empty, featcore.yaml
// is searched in ./configs and the working directory and may be absent.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("featcore")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every section against its struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file_path", "")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_age", 30)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.compress", false)

	eng := engine.DefaultOptions()
	v.SetDefault("engine.min_bars", eng.MinBars)
	v.SetDefault("engine.fast_min_bars", eng.FastMinBars)
	v.SetDefault("engine.disable_fast", eng.DisableFast)
	v.SetDefault("engine.fingerprint", eng.Fingerprint)

	ind := indicator.DefaultSettings()
	v.SetDefault("engine.indicators.rsi_period", ind.RSIPeriod)
	v.SetDefault("engine.indicators.ema_periods", ind.EMAPeriods)
	v.SetDefault("engine.indicators.sma_periods", ind.SMAPeriods)
	v.SetDefault("engine.indicators.macd_fast", ind.MACDFast)
	v.SetDefault("engine.indicators.macd_slow", ind.MACDSlow)
	v.SetDefault("engine.indicators.macd_signal", ind.MACDSignal)
	v.SetDefault("engine.indicators.atr_period", ind.ATRPeriod)
	v.SetDefault("engine.indicators.bb_period", ind.BBPeriod)
	v.SetDefault("engine.indicators.bb_mult", ind.BBMult)
	v.SetDefault("engine.indicators.stoch_period", ind.StochPeriod)
	v.SetDefault("engine.indicators.stoch_k", ind.StochK)
	v.SetDefault("engine.indicators.stoch_d", ind.StochD)
	v.SetDefault("engine.indicators.psar_start", ind.PSARStart)
	v.SetDefault("engine.indicators.psar_step", ind.PSARStep)
	v.SetDefault("engine.indicators.psar_max", ind.PSARMax)
	v.SetDefault("engine.indicators.adx_period", ind.ADXPeriod)

	for key, val := range strategy.DefaultThresholds().Map() {
		v.SetDefault("engine.thresholds."+key, val)
	}

	v.SetDefault("cache.capacity", 128)

	so := smc.DefaultOptions()
	v.SetDefault("smc.left", so.Left)
	v.SetDefault("smc.right", so.Right)
	v.SetDefault("smc.min_fvg_atr", so.MinFVGATR)
	v.SetDefault("smc.liquidity_tol", so.LiquidityTol)

	eo := smc.DefaultEntryOptions()
	v.SetDefault("entry.min_thickness_atr", eo.MinThicknessATR)
	v.SetDefault("entry.spread", eo.Spread)

	fc := features.DefaultConfig()
	v.SetDefault("features.left", fc.Left)
	v.SetDefault("features.right", fc.Right)
	v.SetDefault("features.trend_events", fc.TrendEvents)
	v.SetDefault("features.min_fvg_atr", fc.MinFVGATR)
	v.SetDefault("features.liquidity_tol", fc.LiquidityTol)
	v.SetDefault("features.liq_near_atr", fc.LiqNearATR)

	fit := calibration.DefaultFitOptions()
	v.SetDefault("calibration.store", "file")
	v.SetDefault("calibration.path", "data/calibration.json")
	v.SetDefault("calibration.record", calibration.DefaultRecord)
	v.SetDefault("calibration.fit.lambda", fit.Lambda)
	v.SetDefault("calibration.fit.max_iter", fit.MaxIter)
	v.SetDefault("calibration.fit.tol", fit.Tol)

	v.SetDefault("goal.name", "auto")
}
