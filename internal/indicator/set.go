package indicator

import "github.com/aminchedo/Project-X-sub001/internal/model"

// Set is a named collection of indicator arrays computed over one bar series.
type Set map[string]Series

// Names of the entries in a full Set. EMA and SMA entries carry their period
// as a suffix, e.g. "ema_12".
const (
	NameRSI        = "rsi"
	NameMACD       = "macd"
	NameMACDSignal = "macd_signal"
	NameMACDHist   = "macd_hist"
	NameATR        = "atr"
	NameBBUpper    = "bb_upper"
	NameBBMiddle   = "bb_middle"
	NameBBLower    = "bb_lower"
	NameStochK     = "stoch_k"
	NameStochD     = "stoch_d"
	NamePSAR       = "psar"
	NameADX        = "adx"
	NamePlusDI     = "plus_di"
	NameMinusDI    = "minus_di"
)

// EMAName returns the Set key for an EMA of the given period.
func EMAName(period int) string { return "ema_" + model.Itoa(period) }

// SMAName returns the Set key for an SMA of the given period.
func SMAName(period int) string { return "sma_" + model.Itoa(period) }

// Settings are the parameters used to compute a full Set.
type Settings struct {
	RSIPeriod   int     `mapstructure:"rsi_period" validate:"min=2"`
	EMAPeriods  []int   `mapstructure:"ema_periods" validate:"dive,min=1"`
	SMAPeriods  []int   `mapstructure:"sma_periods" validate:"dive,min=1"`
	MACDFast    int     `mapstructure:"macd_fast" validate:"min=1"`
	MACDSlow    int     `mapstructure:"macd_slow" validate:"min=1"`
	MACDSignal  int     `mapstructure:"macd_signal" validate:"min=1"`
	ATRPeriod   int     `mapstructure:"atr_period" validate:"min=1"`
	BBPeriod    int     `mapstructure:"bb_period" validate:"min=2"`
	BBMult      float64 `mapstructure:"bb_mult" validate:"gt=0"`
	StochPeriod int     `mapstructure:"stoch_period" validate:"min=1"`
	StochK      int     `mapstructure:"stoch_k" validate:"min=1"`
	StochD      int     `mapstructure:"stoch_d" validate:"min=1"`
	PSARStart   float64 `mapstructure:"psar_start" validate:"gt=0"`
	PSARStep    float64 `mapstructure:"psar_step" validate:"gte=0"`
	PSARMax     float64 `mapstructure:"psar_max" validate:"gtefield=PSARStart"`
	ADXPeriod   int     `mapstructure:"adx_period" validate:"min=1"`
}

// DefaultSettings returns the conventional parameter set.
func DefaultSettings() Settings {
	return Settings{
		RSIPeriod:   14,
		EMAPeriods:  []int{12, 26, 50},
		SMAPeriods:  []int{20},
		MACDFast:    12,
		MACDSlow:    26,
		MACDSignal:  9,
		ATRPeriod:   14,
		BBPeriod:    20,
		BBMult:      2.0,
		StochPeriod: 14,
		StochK:      3,
		StochD:      3,
		PSARStart:   0.02,
		PSARStep:    0.02,
		PSARMax:     0.2,
		ADXPeriod:   14,
	}
}

// ComputeSet runs every indicator in s through k. The first kernel error
// aborts the set.
func ComputeSet(k Kernel, bars []model.Bar, s Settings) (Set, error) {
	c := model.Split(bars)
	out := make(Set, 18)

	rsi, err := k.RSI(c.Close, s.RSIPeriod)
	if err != nil {
		return nil, err
	}
	out[NameRSI] = rsi

	for _, p := range s.EMAPeriods {
		ema, err := k.EMA(c.Close, p)
		if err != nil {
			return nil, err
		}
		out[EMAName(p)] = ema
	}
	for _, p := range s.SMAPeriods {
		sma, err := k.SMA(c.Close, p)
		if err != nil {
			return nil, err
		}
		out[SMAName(p)] = sma
	}

	macd, err := k.MACD(c.Close, s.MACDFast, s.MACDSlow, s.MACDSignal)
	if err != nil {
		return nil, err
	}
	out[NameMACD], out[NameMACDSignal], out[NameMACDHist] = macd.Line, macd.Signal, macd.Hist

	atr, err := k.ATR(c.High, c.Low, c.Close, s.ATRPeriod)
	if err != nil {
		return nil, err
	}
	out[NameATR] = atr

	bb, err := k.Bollinger(c.Close, s.BBPeriod, s.BBMult)
	if err != nil {
		return nil, err
	}
	out[NameBBUpper], out[NameBBMiddle], out[NameBBLower] = bb.Upper, bb.Middle, bb.Lower

	st, err := k.Stochastic(c.High, c.Low, c.Close, s.StochPeriod, s.StochK, s.StochD)
	if err != nil {
		return nil, err
	}
	out[NameStochK], out[NameStochD] = st.K, st.D

	psar, err := k.PSAR(c.High, c.Low, s.PSARStart, s.PSARStep, s.PSARMax)
	if err != nil {
		return nil, err
	}
	out[NamePSAR] = psar

	dmi, err := k.ADX(c.High, c.Low, c.Close, s.ADXPeriod)
	if err != nil {
		return nil, err
	}
	out[NameADX], out[NamePlusDI], out[NameMinusDI] = dmi.ADX, dmi.PlusDI, dmi.MinusDI

	return out, nil
}
