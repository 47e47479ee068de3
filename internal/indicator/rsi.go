package indicator

import "github.com/aminchedo/Project-X-sub001/internal/model"

// RSI calculates the Relative Strength Index using Wilder's smoothing method.
// Update is O(1) per bar. Value is 50 until period+1 closes have been seen.
type RSI struct {
	period    int
	count     int
	prevClose float64
	gain      Wilder
	loss      Wilder
	current   float64
}

// NewRSI creates a new RSI indicator with the given period (typically 14).
func NewRSI(period int) *RSI {
	if period < 1 {
		period = 1
	}
	return &RSI{
		period:  period,
		gain:    NewWilder(period),
		loss:    NewWilder(period),
		current: NeutralRSI,
	}
}

func (r *RSI) Name() string { return "RSI" }

// Update feeds the bar's close.
func (r *RSI) Update(bar model.Bar) { r.Add(bar.Close) }

// Add feeds a raw close.
func (r *RSI) Add(price float64) {
	r.count++

	if r.count == 1 {
		// First close: just record it, no delta yet
		r.prevClose = price
		return
	}

	delta := price - r.prevClose
	r.prevClose = price

	gain, loss := 0.0, 0.0
	if delta > 0 {
		gain = delta
	} else {
		loss = -delta
	}

	var avgGain, avgLoss float64
	r.gain, avgGain = r.gain.Next(gain)
	r.loss, avgLoss = r.loss.Next(loss)
	if !r.loss.Ready() {
		return
	}
	r.current = rsiFrom(avgGain, avgLoss)
}

func rsiFrom(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - (100.0 / (1.0 + rs))
}

func (r *RSI) Value() float64 { return r.current }
func (r *RSI) Ready() bool    { return r.count > r.period }
