package indicator

import "math"

// Wilder is Wilder's smoothing as a value-typed state transition.
// The first Seed inputs are averaged into the seed; every later input x gives
// avg = (avg*(Period-1) + x) / Period. A zero Seed means Seed = Period.
type Wilder struct {
	Period int
	Seed   int
	Count  int
	Sum    float64
	Avg    float64
}

// NewWilder returns a mean-seeded Wilder smoother.
func NewWilder(period int) Wilder {
	if period < 1 {
		period = 1
	}
	return Wilder{Period: period, Seed: period}
}

func (w Wilder) seed() int {
	if w.Seed < 1 {
		return w.Period
	}
	return w.Seed
}

// Next consumes x and returns the advanced state with its output.
// Output is NaN until the seed has been formed.
func (w Wilder) Next(x float64) (Wilder, float64) {
	w.Count++
	if w.Count <= w.seed() {
		w.Sum += x
		if w.Count < w.seed() {
			return w, math.NaN()
		}
		w.Avg = w.Sum / float64(w.seed())
		return w, w.Avg
	}
	p := float64(w.Period)
	w.Avg = (w.Avg*(p-1) + x) / p
	return w, w.Avg
}

// Ready reports whether the seed has been formed.
func (w Wilder) Ready() bool { return w.Count >= w.seed() }
