// Package indicator computes technical indicators over closing-price
// series using single-pass incremental formulas. All functions return
// arrays the same length as the input, front-padded with a neutral
// default before the warm-up index, and never fail: degenerate inputs
// (empty series, non-positive periods) produce all-default arrays so
// callers can rely on length-matching.
package indicator

import "math"

// Warm-up defaults.
const (
	// RSINeutral fills RSI values before warm-up. Neutral by design:
	// threshold strategies must not see phantom oversold/overbought
	// readings during warm-up.
	RSINeutral = 50.0
)

// SMA computes a simple moving average with a running-sum sliding window.
// Values before index period-1 are left at 0 (undefined before warm-up);
// callers branch on index, not on value.
func SMA(prices []float64, period int) []float64 {
	out := make([]float64, len(prices))
	if period <= 0 || len(prices) == 0 {
		return out
	}

	sum := 0.0
	for i, p := range prices {
		sum += p
		if i >= period {
			sum -= prices[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// RSI computes the relative strength index with Wilder's smoothing.
// The average gain/loss are seeded from the first period deltas, then
// exponentially smoothed: avg = (avg*(period-1) + current) / period.
// Values before warm-up are RSINeutral; avgLoss == 0 yields 100.
func RSI(prices []float64, period int) []float64 {
	out := make([]float64, len(prices))
	for i := range out {
		out[i] = RSINeutral
	}
	if period <= 0 || len(prices) <= period {
		return out
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		delta := prices[i] - prices[i-1]
		if delta > 0 {
			avgGain += delta
		} else {
			avgLoss += -delta
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < len(prices); i++ {
		delta := prices[i] - prices[i-1]
		gain, loss := 0.0, 0.0
		if delta > 0 {
			gain = delta
		} else {
			loss = -delta
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// Bands holds the Bollinger band arrays. All three share the input length.
type Bands struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
}

// Bollinger computes Bollinger bands using sliding sum and sum-of-squares
// for O(1) incremental mean/variance. Variance is floored at 0 to guard
// against negative values from floating-point cancellation.
func Bollinger(prices []float64, period int, mult float64) Bands {
	n := len(prices)
	b := Bands{
		Upper:  make([]float64, n),
		Middle: make([]float64, n),
		Lower:  make([]float64, n),
	}
	if period <= 0 || n == 0 {
		return b
	}

	sum, sumSq := 0.0, 0.0
	for i, p := range prices {
		sum += p
		sumSq += p * p
		if i >= period {
			old := prices[i-period]
			sum -= old
			sumSq -= old * old
		}
		if i >= period-1 {
			mean := sum / float64(period)
			variance := sumSq/float64(period) - mean*mean
			if variance < 0 {
				variance = 0
			}
			std := math.Sqrt(variance)
			b.Middle[i] = mean
			b.Upper[i] = mean + mult*std
			b.Lower[i] = mean - mult*std
		}
	}
	return b
}
