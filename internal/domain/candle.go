package domain

import (
	"errors"
	"fmt"
)

// Candle represents one OHLCV bar for a symbol over a fixed time bucket.
// Candles are produced externally and are immutable once handed to the engine.
type Candle struct {
	Symbol    string
	Timestamp int64 // Unix milliseconds, bucket open time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	VWAP      float64
}

// Candle ordering errors.
var (
	ErrNoCandles          = errors.New("no candles provided")
	ErrNonMonotonicCandle = errors.New("candle timestamps must be strictly increasing")
)

// ValidateCandles checks the caller contract on a candle sequence:
// at least one candle, strictly increasing timestamps, no duplicates.
// A violation is a programmer error in the caller, not a run condition.
func ValidateCandles(candles []Candle) error {
	if len(candles) == 0 {
		return ErrNoCandles
	}

	for i := 1; i < len(candles); i++ {
		if candles[i].Timestamp <= candles[i-1].Timestamp {
			return fmt.Errorf("%w: index %d (ts=%d) follows index %d (ts=%d)",
				ErrNonMonotonicCandle, i, candles[i].Timestamp, i-1, candles[i-1].Timestamp)
		}
	}
	return nil
}
