// Package book builds and maintains a synthetic leveled order book
// derived from OHLCV candles. The book is not a real depth snapshot:
// it models plausible liquidity around the close price so the fill
// model has a ladder to execute against.
package book

import (
	"backtest-lab/internal/domain"
)

// Synthesizer creates and repositions synthetic books. One synthesizer
// is owned by exactly one simulation run.
type Synthesizer struct {
	levels    int
	spreadBps float64
	depthBase float64 // size of the top level as a fraction of candle volume
	depthStep float64 // per-level size growth away from the touch
}

// NewSynthesizer creates a Synthesizer with the given ladder depth and
// half-spread in basis points.
func NewSynthesizer(levels int, spreadBps float64) *Synthesizer {
	if levels <= 0 {
		levels = domain.DefaultBookLevels
	}
	if spreadBps <= 0 {
		spreadBps = domain.DefaultBookSpreadBps
	}
	return &Synthesizer{
		levels:    levels,
		spreadBps: spreadBps,
		depthBase: 0.1,
		depthStep: 0.5,
	}
}

// Build creates a fresh N-level book around the candle close on first
// sight of a symbol. Level prices step out by one half-spread each;
// sizes grow away from the touch to mimic resting depth.
func (s *Synthesizer) Build(c domain.Candle) *domain.OrderBook {
	mid := c.Close
	halfSpread := mid * s.spreadBps / 10000

	baseSize := c.Volume * s.depthBase / float64(s.levels)
	if baseSize <= 0 {
		baseSize = 1
	}

	bids := make([]domain.BookLevel, s.levels)
	asks := make([]domain.BookLevel, s.levels)
	for i := 0; i < s.levels; i++ {
		step := float64(i + 1)
		size := baseSize * (1 + s.depthStep*float64(i))
		bids[i] = domain.BookLevel{Price: mid - halfSpread*step, Size: size}
		asks[i] = domain.BookLevel{Price: mid + halfSpread*step, Size: size}
	}

	return &domain.OrderBook{
		Symbol:     c.Symbol,
		Bids:       bids,
		Asks:       asks,
		MidPrice:   mid,
		LastUpdate: c.Timestamp,
	}
}

// Update shifts every existing price level by (newClose - previousMid),
// preserving relative depth, so the book rides the close price instead
// of being rebuilt with discontinuous liquidity between bars.
func (s *Synthesizer) Update(b *domain.OrderBook, c domain.Candle) {
	shift := c.Close - b.MidPrice
	for i := range b.Bids {
		b.Bids[i].Price += shift
	}
	for i := range b.Asks {
		b.Asks[i].Price += shift
	}
	b.MidPrice = c.Close
	b.LastUpdate = c.Timestamp
}
