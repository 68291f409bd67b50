package domain

// BookLevel is one price level of the synthetic ladder.
type BookLevel struct {
	Price float64
	Size  float64
}

// OrderBook is a synthetic leveled book derived from candles, not a real
// depth snapshot. Bids are ordered descending by price, asks ascending.
// A book is owned exclusively by one simulation run and mutated in place
// as candles arrive.
type OrderBook struct {
	Symbol     string
	Bids       []BookLevel
	Asks       []BookLevel
	MidPrice   float64
	LastUpdate int64 // Unix ms
}

// BestBid returns the highest bid price, or 0 when the side is empty.
func (b *OrderBook) BestBid() float64 {
	if len(b.Bids) == 0 {
		return 0
	}
	return b.Bids[0].Price
}

// BestAsk returns the lowest ask price, or 0 when the side is empty.
func (b *OrderBook) BestAsk() float64 {
	if len(b.Asks) == 0 {
		return 0
	}
	return b.Asks[0].Price
}
