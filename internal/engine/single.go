package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"

	"github.com/aminchedo/Project-X-sub001/internal/indicator"
	"github.com/aminchedo/Project-X-sub001/internal/metrics"
	"github.com/aminchedo/Project-X-sub001/internal/model"
)

var validate = validator.New()

// Params parameterise ComputeSingle. Zero fields take defaults; a zero Period
// takes the named indicator's conventional period. Output selects one array of
// a multi-output indicator and defaults to its primary output.
type Params struct {
	Period  int     `json:"period" validate:"gte=0"`
	Fast    int     `json:"fast" default:"12" validate:"min=1"`
	Slow    int     `json:"slow" default:"26" validate:"min=1"`
	Signal  int     `json:"signal" default:"9" validate:"min=1"`
	Mult    float64 `json:"mult" default:"2" validate:"gt=0"`
	SmoothK int     `json:"smooth_k" default:"3" validate:"min=1"`
	SmoothD int     `json:"smooth_d" default:"3" validate:"min=1"`
	AFStart float64 `json:"af_start" default:"0.02" validate:"gt=0"`
	AFStep  float64 `json:"af_step" default:"0.02" validate:"gte=0"`
	AFMax   float64 `json:"af_max" default:"0.2" validate:"gtefield=AFStart"`
	Output  string  `json:"output" validate:"omitempty,oneof=line signal hist upper middle lower k d adx plus_di minus_di"`
}

var defaultPeriods = map[string]int{
	"rsi":        14,
	"ema":        20,
	"sma":        20,
	"atr":        14,
	"bollinger":  20,
	"stochastic": 14,
	"adx":        14,
}

var aliases = map[string]string{
	"bb":    "bollinger",
	"bands": "bollinger",
	"stoch": "stochastic",
	"sar":   "psar",
	"dmi":   "adx",
}

func normalizeName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if a, ok := aliases[n]; ok {
		return a
	}
	return n
}

// Resolve fills defaults and validates p for the named indicator.
func (p Params) Resolve(name string) (Params, error) {
	if err := defaults.Set(&p); err != nil {
		return p, fmt.Errorf("params defaults: %w", err)
	}
	if p.Period == 0 {
		p.Period = defaultPeriods[normalizeName(name)]
	}
	if err := validate.Struct(p); err != nil {
		return p, fmt.Errorf("%w: params: %v", model.ErrInvalidInput, err)
	}
	return p, nil
}

type singleFn func(k indicator.Kernel, c model.Columns, p Params) (indicator.Series, error)

var singles = map[string]singleFn{
	"rsi": func(k indicator.Kernel, c model.Columns, p Params) (indicator.Series, error) {
		return k.RSI(c.Close, p.Period)
	},
	"ema": func(k indicator.Kernel, c model.Columns, p Params) (indicator.Series, error) {
		return k.EMA(c.Close, p.Period)
	},
	"sma": func(k indicator.Kernel, c model.Columns, p Params) (indicator.Series, error) {
		return k.SMA(c.Close, p.Period)
	},
	"atr": func(k indicator.Kernel, c model.Columns, p Params) (indicator.Series, error) {
		return k.ATR(c.High, c.Low, c.Close, p.Period)
	},
	"psar": func(k indicator.Kernel, c model.Columns, p Params) (indicator.Series, error) {
		return k.PSAR(c.High, c.Low, p.AFStart, p.AFStep, p.AFMax)
	},
	"macd": func(k indicator.Kernel, c model.Columns, p Params) (indicator.Series, error) {
		m, err := k.MACD(c.Close, p.Fast, p.Slow, p.Signal)
		if err != nil {
			return nil, err
		}
		return pick(p.Output, "line", map[string]indicator.Series{"line": m.Line, "signal": m.Signal, "hist": m.Hist})
	},
	"bollinger": func(k indicator.Kernel, c model.Columns, p Params) (indicator.Series, error) {
		b, err := k.Bollinger(c.Close, p.Period, p.Mult)
		if err != nil {
			return nil, err
		}
		return pick(p.Output, "middle", map[string]indicator.Series{"upper": b.Upper, "middle": b.Middle, "lower": b.Lower})
	},
	"stochastic": func(k indicator.Kernel, c model.Columns, p Params) (indicator.Series, error) {
		s, err := k.Stochastic(c.High, c.Low, c.Close, p.Period, p.SmoothK, p.SmoothD)
		if err != nil {
			return nil, err
		}
		return pick(p.Output, "k", map[string]indicator.Series{"k": s.K, "d": s.D})
	},
	"adx": func(k indicator.Kernel, c model.Columns, p Params) (indicator.Series, error) {
		d, err := k.ADX(c.High, c.Low, c.Close, p.Period)
		if err != nil {
			return nil, err
		}
		return pick(p.Output, "adx", map[string]indicator.Series{"adx": d.ADX, "plus_di": d.PlusDI, "minus_di": d.MinusDI})
	},
}

func pick(output, primary string, outs map[string]indicator.Series) (indicator.Series, error) {
	if output == "" {
		output = primary
	}
	s, ok := outs[output]
	if !ok {
		return nil, fmt.Errorf("%w: output %q not produced", model.ErrInvalidInput, output)
	}
	return s, nil
}

// ComputeSingle returns one indicator array for bars. Unknown names, invalid
// params and invalid bars fail with model.ErrInvalidInput.
func (e *Engine) ComputeSingle(bars []model.Bar, name string, p Params) (indicator.Series, error) {
	key := normalizeName(name)
	fn, ok := singles[key]
	if !ok {
		e.m.Invalid()
		return nil, fmt.Errorf("%w: unknown indicator %q", model.ErrInvalidInput, name)
	}
	p, err := p.Resolve(key)
	if err != nil {
		e.m.Invalid()
		return nil, err
	}
	if err := e.Validate(bars); err != nil {
		e.m.Invalid()
		return nil, err
	}

	cols := model.Split(bars)
	if e.useFast(len(bars)) {
		start := time.Now()
		out, err := fn(e.fast, cols, p)
		if err == nil {
			e.m.ObserveCompute(metrics.PathFast, start)
			return out, nil
		}
		if IsInvalidInput(err) {
			return nil, err
		}
		e.fallback(key, err)
	}
	start := time.Now()
	out, err := fn(e.ref, cols, p)
	if err != nil {
		return nil, err
	}
	e.m.ObserveCompute(metrics.PathReference, start)
	return out, nil
}
