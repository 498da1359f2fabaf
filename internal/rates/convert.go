package rates

import "vytraty/internal/core"

// FindRate picks the rate for the base/quote pair out of a batch, preferring
// the sell rate and falling back to the cross rate. A missing pair yields 0;
// that is the documented fallback, not an error.
func FindRate(batch []Snapshot, base, quote int) float64 {
	for _, s := range batch {
		if s.CurrencyCodeA == base && s.CurrencyCodeB == quote {
			if s.RateSell > 0 {
				return s.RateSell
			}
			return s.RateCross
		}
	}
	return 0
}

// Convert divides a UAH amount by the given rate. A zero rate converts to 0.
func Convert(total core.Money, rate float64) float64 {
	if rate <= 0 {
		return 0
	}
	return total.Units() / rate
}
