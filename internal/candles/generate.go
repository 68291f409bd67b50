// Package candles provides candle series construction: synthetic
// fixtures for demos and tests, and CSV loading for recorded history.
package candles

import (
	"math/rand"

	"backtest-lab/internal/domain"
)

// Series parameters shared by the synthetic generators.
const defaultIntervalMs = 60000

// Flat returns n identical candles at the given price, spaced one
// minute apart.
func Flat(symbol string, n int, price float64, startMs int64) []domain.Candle {
	out := make([]domain.Candle, n)
	for i := range out {
		out[i] = bar(symbol, startMs+int64(i)*defaultIntervalMs, price, price)
	}
	return out
}

// Trend returns n candles that rise ratePct per bar for pivot bars and
// then fall ratePct per bar. Negative ratePct inverts the shape.
func Trend(symbol string, n, pivot int, ratePct float64, startMs int64) []domain.Candle {
	out := make([]domain.Candle, n)
	price := 100.0
	for i := 0; i < n; i++ {
		prev := price
		if i > 0 {
			if i <= pivot {
				price = prev * (1 + ratePct/100)
			} else {
				price = prev * (1 - ratePct/100)
			}
		}
		out[i] = bar(symbol, startMs+int64(i)*defaultIntervalMs, prev, price)
	}
	return out
}

// RandomWalk returns n candles following a seeded geometric random walk
// with the given per-bar volatility percentage. Same seed, same series.
func RandomWalk(symbol string, n int, volPct float64, seed, startMs int64) []domain.Candle {
	rng := rand.New(rand.NewSource(seed))
	out := make([]domain.Candle, n)
	price := 100.0
	for i := 0; i < n; i++ {
		prev := price
		if i > 0 {
			price = prev * (1 + (rng.Float64()*2-1)*volPct/100)
		}
		out[i] = bar(symbol, startMs+int64(i)*defaultIntervalMs, prev, price)
	}
	return out
}

// bar builds one candle from an open/close pair with a small synthetic
// high/low range and volume.
func bar(symbol string, ts int64, open, close float64) domain.Candle {
	high, low := open, close
	if close > high {
		high = close
	}
	if open < low {
		low = open
	}
	return domain.Candle{
		Symbol:    symbol,
		Timestamp: ts,
		Open:      open,
		High:      high * 1.001,
		Low:       low * 0.999,
		Close:     close,
		Volume:    1000,
		VWAP:      (open + close) / 2,
	}
}
