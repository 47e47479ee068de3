package indicator

import (
	"math"

	talib "github.com/markcheno/go-talib"
)

// Fast computes indicators with batch kernels over whole slices. SMA, EMA,
// RSI, ATR and Bollinger run on go-talib, MACD composes talib EMAs, and
// Stochastic, PSAR and ADX are single-pass slice loops. talib writes zeros
// into its lookback region; those entries are re-masked to this package's
// sentinels. A panicking kernel is recovered into ErrKernel.
type Fast struct{}

func (Fast) Name() string { return "fast" }

func guard(name string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = kernelErr(name, r)
		}
	}()
	fn()
	return nil
}

// shifted runs a talib moving average over the defined suffix of values and
// re-aligns the result, masking everything before the seed.
func shifted(values []float64, period int, ma func([]float64, int) []float64) Series {
	out := nanSeries(len(values))
	f := firstDefined(values)
	if len(values)-f < period {
		return out
	}
	if period == 1 {
		copy(out[f:], values[f:])
		return out
	}
	res := ma(values[f:], period)
	for i := period - 1; i < len(res); i++ {
		out[f+i] = res[i]
	}
	return out
}

func (Fast) SMA(values []float64, period int) (out Series, err error) {
	if period < 1 {
		return nanSeries(len(values)), nil
	}
	err = guard("sma", func() { out = shifted(values, period, talib.Sma) })
	return out, err
}

func (Fast) EMA(values []float64, period int) (out Series, err error) {
	if period < 1 {
		return nanSeries(len(values)), nil
	}
	err = guard("ema", func() { out = shifted(values, period, talib.Ema) })
	return out, err
}

// RSI reports 100 wherever no price change has happened yet; talib reports 0
// there because it divides by gain+loss.
func (Fast) RSI(closes []float64, period int) (out Series, err error) {
	n := len(closes)
	if period < 2 {
		return nil, kernelErr("rsi", "period below 2")
	}
	if n <= period {
		return filled(n, NeutralRSI), nil
	}
	err = guard("rsi", func() {
		raw := talib.Rsi(closes, period)
		out = filled(n, NeutralRSI)
		flat := true
		for i := 1; i < n; i++ {
			if closes[i] != closes[i-1] {
				flat = false
			}
			if i < period {
				continue
			}
			if flat {
				out[i] = 100.0
				continue
			}
			out[i] = raw[i]
		}
	})
	return out, err
}

func (Fast) MACD(closes []float64, fast, slow, signal int) (out MACDSeries, err error) {
	n := len(closes)
	if fast < 1 || slow < 1 || signal < 1 {
		return MACDSeries{Line: nanSeries(n), Signal: nanSeries(n), Hist: nanSeries(n)}, nil
	}
	err = guard("macd", func() {
		f := shifted(closes, fast, talib.Ema)
		s := shifted(closes, slow, talib.Ema)
		line := make(Series, n)
		for i := range line {
			line[i] = f[i] - s[i]
		}
		sig := shifted(line, signal, talib.Ema)
		hist := make(Series, n)
		for i := range hist {
			hist[i] = line[i] - sig[i]
		}
		out = MACDSeries{Line: line, Signal: sig, Hist: hist}
	})
	return out, err
}

func (Fast) ATR(highs, lows, closes []float64, period int) (out Series, err error) {
	n := min(len(highs), len(lows), len(closes))
	if period < 1 {
		return nanSeries(n), nil
	}
	if n <= period {
		return nanSeries(n), nil
	}
	err = guard("atr", func() {
		raw := talib.Atr(highs[:n], lows[:n], closes[:n], period)
		out = nanSeries(n)
		copy(out[period:], raw[period:])
	})
	return out, err
}

func (Fast) Bollinger(closes []float64, period int, mult float64) (out Bands, err error) {
	n := len(closes)
	if period < 2 {
		return Bands{}, kernelErr("bollinger", "period below 2")
	}
	out = Bands{Upper: nanSeries(n), Middle: nanSeries(n), Lower: nanSeries(n)}
	if n < period {
		return out, nil
	}
	err = guard("bollinger", func() {
		upper, middle, lower := talib.BBands(closes, period, mult, mult, talib.SMA)
		copy(out.Upper[period-1:], upper[period-1:])
		copy(out.Middle[period-1:], middle[period-1:])
		copy(out.Lower[period-1:], lower[period-1:])
	})
	return out, err
}

// rollingExtremes returns trailing-window highest high and lowest low using
// monotonic index deques.
func rollingExtremes(highs, lows []float64, period int) (hh, ll Series) {
	n := len(highs)
	hh, ll = nanSeries(n), nanSeries(n)
	maxQ := make([]int, 0, period)
	minQ := make([]int, 0, period)
	for i := 0; i < n; i++ {
		for len(maxQ) > 0 && highs[maxQ[len(maxQ)-1]] <= highs[i] {
			maxQ = maxQ[:len(maxQ)-1]
		}
		maxQ = append(maxQ, i)
		if maxQ[0] <= i-period {
			maxQ = maxQ[1:]
		}
		for len(minQ) > 0 && lows[minQ[len(minQ)-1]] >= lows[i] {
			minQ = minQ[:len(minQ)-1]
		}
		minQ = append(minQ, i)
		if minQ[0] <= i-period {
			minQ = minQ[1:]
		}
		if i >= period-1 {
			hh[i] = highs[maxQ[0]]
			ll[i] = lows[minQ[0]]
		}
	}
	return hh, ll
}

func (Fast) Stochastic(highs, lows, closes []float64, period, smoothK, smoothD int) (out StochSeries, err error) {
	n := min(len(highs), len(lows), len(closes))
	if period < 1 || smoothK < 1 || smoothD < 1 {
		return StochSeries{K: nanSeries(n), D: nanSeries(n)}, nil
	}
	err = guard("stochastic", func() {
		hh, ll := rollingExtremes(highs[:n], lows[:n], period)
		raw := nanSeries(n)
		for i := period - 1; i < n; i++ {
			raw[i] = rawK(closes[i], hh[i], ll[i])
		}
		k := shifted(raw, smoothK, talib.Sma)
		out = StochSeries{K: k, D: shifted(k, smoothD, talib.Sma)}
	})
	return out, err
}

func (Fast) PSAR(highs, lows []float64, afStart, afStep, afMax float64) (Series, error) {
	n := min(len(highs), len(lows))
	out := make(Series, n)
	if n == 0 {
		return out, nil
	}
	up := true
	sar, ep, af := lows[0], highs[0], afStart
	out[0] = sar
	for i := 1; i < n; i++ {
		sar += af * (ep - sar)
		if up {
			sar = math.Min(sar, lows[i-1])
			if i > 1 {
				sar = math.Min(sar, lows[i-2])
			}
			if lows[i] < sar {
				up, sar, ep, af = false, ep, lows[i], afStart
			} else if highs[i] > ep {
				ep = highs[i]
				af = math.Min(af+afStep, afMax)
			}
		} else {
			sar = math.Max(sar, highs[i-1])
			if i > 1 {
				sar = math.Max(sar, highs[i-2])
			}
			if highs[i] > sar {
				up, sar, ep, af = true, ep, highs[i], afStart
			} else if lows[i] < ep {
				ep = lows[i]
				af = math.Min(af+afStep, afMax)
			}
		}
		out[i] = sar
	}
	return out, nil
}

// wilderSlice smooths x[from:], seeding with the mean of its first seed
// values. Entries before the seed lands are NaN.
func wilderSlice(x []float64, from, period, seed int) Series {
	out := nanSeries(len(x))
	if len(x)-from < seed {
		return out
	}
	sum := 0.0
	for i := from; i < from+seed; i++ {
		sum += x[i]
	}
	avg := sum / float64(seed)
	out[from+seed-1] = avg
	p := float64(period)
	for i := from + seed; i < len(x); i++ {
		avg = (avg*(p-1) + x[i]) / p
		out[i] = avg
	}
	return out
}

func (Fast) ADX(highs, lows, closes []float64, period int) (DMISeries, error) {
	n := min(len(highs), len(lows), len(closes))
	out := DMISeries{ADX: nanSeries(n), PlusDI: nanSeries(n), MinusDI: nanSeries(n)}
	if period < 1 || n <= period {
		return out, nil
	}
	tr := make([]float64, n)
	pdm := make([]float64, n)
	mdm := make([]float64, n)
	for i := 1; i < n; i++ {
		tr[i] = trueRange(highs[i], lows[i], closes[i-1])
		pdm[i], mdm[i] = directionalMove(highs[i], lows[i], highs[i-1], lows[i-1])
	}
	str := wilderSlice(tr, 1, period, period)
	spdm := wilderSlice(pdm, 1, period, period)
	smdm := wilderSlice(mdm, 1, period, period)
	dx := make([]float64, n)
	for i := period; i < n; i++ {
		out.PlusDI[i] = diFrom(spdm[i], str[i])
		out.MinusDI[i] = diFrom(smdm[i], str[i])
		dx[i] = dxFrom(out.PlusDI[i], out.MinusDI[i])
	}
	out.ADX = wilderSlice(dx, period, period, 1)
	return out, nil
}
