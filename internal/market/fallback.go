package market

import "time"

// fallbackValues is the published index for Dec 2024 through Dec 2025
// (Dec 1980 = 100).
var fallbackValues = []float64{
	315.19, 315.01, 321.45, 325.55, 322.85, 319.54, 317.43,
	315.62, 313.88, 312.49, 309.28, 307.15, 302.41,
}

// Fallback returns the embedded 13-month series, ascending.
func Fallback() []Observation {
	start := time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC)
	obs := make([]Observation, len(fallbackValues))
	for i, v := range fallbackValues {
		obs[i] = Observation{Date: start.AddDate(0, i, 0), Value: v}
	}
	return obs
}
