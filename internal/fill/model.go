// Package fill decides executions for simulated orders against the
// synthetic book: fill quantity, price with slippage, maker/taker
// classification, commission and latency. All randomness comes from an
// injectable seeded source owned by the model instance, so two engine
// instances never interfere and the same seed reproduces the exact
// fill sequence.
package fill

import (
	"fmt"
	"math/rand"

	"backtest-lab/internal/domain"
)

// Model executes orders for one simulation run. Not safe for use by
// concurrent runs; each run owns its own Model.
type Model struct {
	cfg     domain.SimConfig
	rng     *rand.Rand
	fillSeq int
}

// NewModel creates a fill model with a private RNG seeded from cfg.Seed.
func NewModel(cfg domain.SimConfig) *Model {
	cfg = cfg.Normalize()
	return &Model{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Execute decides fills for one order against the current book, in the
// context of the current candle (stop orders trigger off its high/low).
// A nil or empty book yields zero fills: the driver treats that as a
// legitimate no-fill outcome, not an error.
func (m *Model) Execute(order *domain.SimulatedOrder, book *domain.OrderBook, candle domain.Candle) []domain.SimulatedFill {
	if book == nil || book.Symbol != order.Symbol {
		return nil
	}

	switch order.Type {
	case domain.OrderTypeMarket:
		return m.marketFill(order, book)
	case domain.OrderTypeLimit:
		return m.limitFill(order)
	case domain.OrderTypeStop:
		if !stopTriggered(order, candle) {
			return nil
		}
		// Triggered stops degrade to market execution.
		return m.marketFill(order, book)
	default:
		return nil
	}
}

// marketFill fills the full requested quantity as one aggregate TAKER
// fill at the book's best price on the order's side, adjusted by
// sampled slippage.
func (m *Model) marketFill(order *domain.SimulatedOrder, book *domain.OrderBook) []domain.SimulatedFill {
	var quoted float64
	if order.Side == domain.SideBuy {
		quoted = book.BestAsk()
	} else {
		quoted = book.BestBid()
	}
	if quoted <= 0 {
		return nil
	}

	// Sample slippage uniformly around the configured average so the
	// expectation matches SlippageBps. Always adverse to the order.
	slipBps := m.rng.Float64() * 2 * m.cfg.SlippageBps
	var price float64
	if order.Side == domain.SideBuy {
		price = quoted * (1 + slipBps/10000)
	} else {
		price = quoted * (1 - slipBps/10000)
	}

	return []domain.SimulatedFill{m.buildFill(order, price, price-quoted, domain.LiquidityTaker)}
}

// limitFill fills the full quantity at the limit price with the
// configured probability; maker fills earn the commission discount.
// An unfilled limit order produces zero fills and the caller decides
// whether to resubmit.
func (m *Model) limitFill(order *domain.SimulatedOrder) []domain.SimulatedFill {
	if m.rng.Float64() >= m.cfg.LimitFillProbability {
		return nil
	}
	if order.Price <= 0 {
		return nil
	}
	return []domain.SimulatedFill{m.buildFill(order, order.Price, 0, domain.LiquidityMaker)}
}

// stopTriggered reports whether the candle's range crossed the stop.
func stopTriggered(order *domain.SimulatedOrder, candle domain.Candle) bool {
	if order.StopPrice <= 0 {
		return false
	}
	if order.Side == domain.SideBuy {
		return candle.High >= order.StopPrice
	}
	return candle.Low <= order.StopPrice
}

// buildFill assembles the fill record: commission, latency-adjusted
// timestamp and a sequential fill ID unique within the run.
func (m *Model) buildFill(order *domain.SimulatedOrder, price, slippage float64, liquiditySide string) domain.SimulatedFill {
	commission := order.Quantity * price * m.cfg.CommissionRate
	if liquiditySide == domain.LiquidityMaker {
		commission *= 1 - m.cfg.MakerDiscount
	}

	// Latency shifts the recorded fill timestamp only; it never
	// reorders fills, since the model operates at candle granularity.
	latencyMs := m.cfg.BaseLatencyMs +
		(m.rng.Float64()*2-1)*m.cfg.LatencyVarianceMs +
		m.cfg.SizeLatencyFactor*order.Quantity
	if latencyMs < 0 {
		latencyMs = 0
	}

	m.fillSeq++
	return domain.SimulatedFill{
		FillID:        fmt.Sprintf("%s-f%04d", order.OrderID, m.fillSeq),
		OrderID:       order.OrderID,
		Symbol:        order.Symbol,
		Side:          order.Side,
		Quantity:      order.Quantity,
		Price:         price,
		Commission:    commission,
		Timestamp:     order.Timestamp + int64(latencyMs),
		LiquiditySide: liquiditySide,
		Slippage:      slippage,
	}
}
