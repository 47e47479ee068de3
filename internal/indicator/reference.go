package indicator

import "github.com/aminchedo/Project-X-sub001/internal/model"

// Reference folds the streaming accumulators over the input one value at a
// time. It never fails.
type Reference struct{}

func (Reference) Name() string { return "reference" }

type adder interface{ Add(v float64) }

func foldValues(values []float64, ind adder, value func() float64) Series {
	out := make(Series, len(values))
	for i, v := range values {
		ind.Add(v)
		out[i] = value()
	}
	return out
}

// zipBars rebuilds bars from parallel columns, truncated to the shortest.
func zipBars(highs, lows, closes []float64) []model.Bar {
	n := min(len(highs), len(lows))
	if closes != nil {
		n = min(n, len(closes))
	}
	bars := make([]model.Bar, n)
	for i := range bars {
		bars[i].High = highs[i]
		bars[i].Low = lows[i]
		if closes != nil {
			bars[i].Close = closes[i]
		}
	}
	return bars
}

func (Reference) SMA(values []float64, period int) (Series, error) {
	if period < 1 {
		return nanSeries(len(values)), nil
	}
	s := NewSMA(period)
	return foldValues(values, s, s.Value), nil
}

func (Reference) EMA(values []float64, period int) (Series, error) {
	if period < 1 {
		return nanSeries(len(values)), nil
	}
	e := NewEMA(period)
	return foldValues(values, e, e.Value), nil
}

func (Reference) RSI(closes []float64, period int) (Series, error) {
	if period < 1 {
		return filled(len(closes), NeutralRSI), nil
	}
	r := NewRSI(period)
	return foldValues(closes, r, r.Value), nil
}

func (Reference) MACD(closes []float64, fast, slow, signal int) (MACDSeries, error) {
	n := len(closes)
	out := MACDSeries{Line: make(Series, n), Signal: make(Series, n), Hist: make(Series, n)}
	if fast < 1 || slow < 1 || signal < 1 {
		return MACDSeries{Line: nanSeries(n), Signal: nanSeries(n), Hist: nanSeries(n)}, nil
	}
	m := NewMACD(fast, slow, signal)
	for i, c := range closes {
		m.Add(c)
		out.Line[i] = m.Value()
		out.Signal[i] = m.Signal()
		out.Hist[i] = m.Hist()
	}
	return out, nil
}

func (Reference) ATR(highs, lows, closes []float64, period int) (Series, error) {
	bars := zipBars(highs, lows, closes)
	if period < 1 {
		return nanSeries(len(bars)), nil
	}
	a := NewATR(period)
	out := make(Series, len(bars))
	for i, b := range bars {
		a.Update(b)
		out[i] = a.Value()
	}
	return out, nil
}

func (Reference) Bollinger(closes []float64, period int, mult float64) (Bands, error) {
	n := len(closes)
	if period < 1 {
		return Bands{Upper: nanSeries(n), Middle: nanSeries(n), Lower: nanSeries(n)}, nil
	}
	out := Bands{Upper: make(Series, n), Middle: make(Series, n), Lower: make(Series, n)}
	b := NewBollinger(period, mult)
	for i, c := range closes {
		b.Add(c)
		out.Middle[i] = b.Value()
		out.Upper[i] = b.Upper()
		out.Lower[i] = b.Lower()
	}
	return out, nil
}

func (Reference) Stochastic(highs, lows, closes []float64, period, smoothK, smoothD int) (StochSeries, error) {
	bars := zipBars(highs, lows, closes)
	n := len(bars)
	if period < 1 || smoothK < 1 || smoothD < 1 {
		return StochSeries{K: nanSeries(n), D: nanSeries(n)}, nil
	}
	out := StochSeries{K: make(Series, n), D: make(Series, n)}
	s := NewStochastic(period, smoothK, smoothD)
	for i, b := range bars {
		s.Update(b)
		out.K[i] = s.Value()
		out.D[i] = s.D()
	}
	return out, nil
}

func (Reference) PSAR(highs, lows []float64, afStart, afStep, afMax float64) (Series, error) {
	n := min(len(highs), len(lows))
	out := make(Series, n)
	state := NewPSARState(afStart, afStep, afMax)
	for i := 0; i < n; i++ {
		state, out[i] = state.Next(highs[i], lows[i])
	}
	return out, nil
}

func (Reference) ADX(highs, lows, closes []float64, period int) (DMISeries, error) {
	bars := zipBars(highs, lows, closes)
	n := len(bars)
	if period < 1 {
		return DMISeries{ADX: nanSeries(n), PlusDI: nanSeries(n), MinusDI: nanSeries(n)}, nil
	}
	out := DMISeries{ADX: make(Series, n), PlusDI: make(Series, n), MinusDI: make(Series, n)}
	a := NewADX(period)
	for i, b := range bars {
		a.Update(b)
		out.ADX[i] = a.Value()
		out.PlusDI[i] = a.PlusDI()
		out.MinusDI[i] = a.MinusDI()
	}
	return out, nil
}
