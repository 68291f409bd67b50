// Package ledger maintains the per-symbol running position and the
// capital scalar for one simulation run. Fills are applied one at a
// time; realized P&L and fees flow into capital, which is the sole
// source of truth for final capital.
package ledger

import (
	"math"

	"backtest-lab/internal/domain"
)

// Application is the outcome of applying one fill.
type Application struct {
	RealizedPnL float64
	EntryExit   string // domain.TradeEntry | domain.TradeExit
}

// Ledger tracks one symbol's position and the running capital.
// Owned exclusively by a single simulation loop instance.
type Ledger struct {
	position domain.Position
	capital  float64
}

// New creates a ledger with the given starting capital.
func New(initialCapital float64) *Ledger {
	return &Ledger{
		position: domain.Position{Side: domain.PositionLong},
		capital:  initialCapital,
	}
}

// Position returns the current position state.
func (l *Ledger) Position() domain.Position {
	return l.position
}

// Capital returns the running capital.
func (l *Ledger) Capital() float64 {
	return l.capital
}

// Apply applies one fill to the position and capital.
//
// Same-direction fills update the average price as a size-weighted
// average and realize nothing. Opposite-direction fills realize P&L
// proportional to the overlapping quantity at
// (fillPrice - avgPrice) * sign(position) * overlap, and the average
// price changes only when the position flips sign (the flipping fill's
// price carries the residual quantity). A fill that exactly flattens
// the position leaves quantity at 0 so same-step processing sees the
// symbol as flat.
func (l *Ledger) Apply(f domain.SimulatedFill) Application {
	signedQty := f.Quantity
	if f.Side == domain.SideSell {
		signedQty = -f.Quantity
	}

	app := Application{EntryExit: domain.TradeEntry}
	pos := &l.position

	switch {
	case pos.Quantity == 0 || sameSign(pos.Quantity, signedQty):
		// Opening or adding: size-weighted average price.
		total := math.Abs(pos.Quantity) + f.Quantity
		pos.AvgPrice = (pos.AvgPrice*math.Abs(pos.Quantity) + f.Price*f.Quantity) / total
		pos.Quantity += signedQty

	default:
		// Reducing, closing or flipping.
		overlap := math.Min(math.Abs(pos.Quantity), f.Quantity)
		app.RealizedPnL = (f.Price - pos.AvgPrice) * sign(pos.Quantity) * overlap
		app.EntryExit = domain.TradeExit

		pos.Quantity += signedQty
		if pos.Quantity == 0 {
			pos.AvgPrice = 0
		} else if !sameSign(pos.Quantity, -signedQty) {
			// Sign flipped: the residual was opened by this fill.
			pos.AvgPrice = f.Price
		}
	}

	if pos.Quantity > 0 {
		pos.Side = domain.PositionLong
	} else if pos.Quantity < 0 {
		pos.Side = domain.PositionShort
	}

	l.capital += app.RealizedPnL - f.Commission
	return app
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

func sameSign(a, b float64) bool {
	return (a > 0 && b > 0) || (a < 0 && b < 0)
}
