package models

// ExchangeRates maps a currency code to its rate relative to one implicit
// base currency. Converting A→B telescopes to rates[A]/rates[B] because both
// legs share the same base.
type ExchangeRates map[string]float64

// DefaultFallbackRates is the canonical EUR-based rate table. Used per-code
// whenever a caller-supplied table is missing an entry.
var DefaultFallbackRates = ExchangeRates{
	"EUR": 1.0,
	"USD": 0.85,
	"GBP": 1.15,
	"CHF": 1.05,
	"JPY": 0.0062,
	"AUD": 0.60,
	"CAD": 0.65,
	"NZD": 0.55,
	"SEK": 0.088,
	"NOK": 0.086,
	"DKK": 0.134,
	"PLN": 0.23,
	"CZK": 0.041,
	"HKD": 0.11,
	"SGD": 0.63,
}

// Clone returns a copy of the rate table.
func (r ExchangeRates) Clone() ExchangeRates {
	out := make(ExchangeRates, len(r))
	for code, rate := range r {
		out[code] = rate
	}
	return out
}
