package smc

// Side of an entry order.
type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// Method names how an entry price was chosen.
type Method string

const (
	Edge        Method = "edge"
	Equilibrium Method = "equilibrium"
)

// Entry is a priced order against a zone.
type Entry struct {
	Side   Side    `json:"side"`
	Price  float64 `json:"price"`
	Method Method  `json:"method"`
}

// EntryOptions control entry pricing.
type EntryOptions struct {
	// MinThicknessATR is the zone height, in ATRs, below which the zone edge
	// is used instead of its midpoint.
	MinThicknessATR float64 `mapstructure:"min_thickness_atr" validate:"gte=0"`
	// Spread is added to buy prices and subtracted from sell prices.
	Spread float64 `mapstructure:"spread" validate:"gte=0"`
}

// DefaultEntryOptions uses edge pricing for zones thinner than 0.5 ATR.
func DefaultEntryOptions() EntryOptions {
	return EntryOptions{MinThicknessATR: 0.5}
}

// EntryPrice prices an order against z: buys for demand zones, sells for
// supply zones. Thin zones (height/atr below opts.MinThicknessATR) price at
// the favourable edge, the high for sells and the low for buys; thicker zones
// price at the midpoint. A non-positive atr always prices at the midpoint.
func EntryPrice(z Zone, atr float64, opts EntryOptions) Entry {
	e := Entry{Side: Buy, Method: Equilibrium, Price: z.Mid()}
	if z.Type == Supply {
		e.Side = Sell
	}
	if atr > 0 && z.Height()/atr < opts.MinThicknessATR {
		e.Method = Edge
		if e.Side == Sell {
			e.Price = z.High
		} else {
			e.Price = z.Low
		}
	}
	if e.Side == Buy {
		e.Price += opts.Spread
	} else {
		e.Price -= opts.Spread
	}
	return e
}
