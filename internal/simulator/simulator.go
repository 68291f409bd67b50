// Package simulator drives one backtest run: a strictly sequential fold
// over an ordered candle array that wires the book synthesizer, signal
// generator, fill model and ledger together, then reduces the outcome
// into a BacktestResult. A run is single-threaded and deterministic for
// a given (idea, candles, seed); parallelism belongs to the caller at
// run granularity, never inside a run.
package simulator

import (
	"context"
	"fmt"

	"backtest-lab/internal/book"
	"backtest-lab/internal/domain"
	"backtest-lab/internal/fill"
	"backtest-lab/internal/idhash"
	"backtest-lab/internal/ledger"
	"backtest-lab/internal/metrics"
	"backtest-lab/internal/observability"
	"backtest-lab/internal/signal"
)

// defaultPositionFraction sizes entries when the idea carries no
// usable MaxPositionSize.
const defaultPositionFraction = 0.1

// Runner executes backtest runs with a fixed simulation config.
// A Runner is stateless and safe for concurrent Run calls: every run
// owns its own clock, book, fill model and ledger.
type Runner struct {
	cfg domain.SimConfig
}

// NewRunner creates a Runner, normalizing unset config fields to the
// documented defaults.
func NewRunner(cfg domain.SimConfig) *Runner {
	return &Runner{cfg: cfg.Normalize()}
}

// run holds the mutable state of one backtest execution.
type run struct {
	cfg       domain.SimConfig
	idea      *domain.StrategyIdea
	symbol    string
	runID     string
	synth     *book.Synthesizer
	model     *fill.Model
	ledger    *ledger.Ledger
	orderBook *domain.OrderBook
	trades    []domain.Trade
	orderSeq  int
	tradeSeq  int
	clock     int64
	lastTs    int64
}

// Run executes one backtest. The candle sequence must be strictly
// time-ordered (caller contract; violations fail fast with a
// descriptive error). Degenerate conditions (too few candles to clear
// warm-up, zero signals, zero fills) produce a valid zero-trade result,
// never an error.
func (r *Runner) Run(_ context.Context, idea *domain.StrategyIdea, candles []domain.Candle) (*domain.BacktestResult, error) {
	strategyID := idea.ID
	gen := signal.FromIdea(idea)
	if strategyID == "" {
		strategyID = gen.ID()
	}

	if len(candles) == 0 {
		res := metrics.Compute(strategyID, nil, r.cfg.InitialCapital, r.cfg.InitialCapital, domain.Period{})
		res.RunID = idhash.ComputeRunID(strategyID, idea.Symbol(), 0, 0, r.cfg.Seed)
		res.Symbol = idea.Symbol()
		return res, nil
	}
	if err := domain.ValidateCandles(candles); err != nil {
		return nil, fmt.Errorf("run %s: %w", strategyID, err)
	}

	symbol := idea.Symbol()
	if symbol == "" {
		symbol = candles[0].Symbol
	}
	period := domain.Period{
		Start: candles[0].Timestamp,
		End:   candles[len(candles)-1].Timestamp,
	}

	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}
	buy, sell := gen.Signals(closes)

	st := &run{
		cfg:    r.cfg,
		idea:   idea,
		symbol: symbol,
		runID:  idhash.ComputeRunID(strategyID, symbol, period.Start, period.End, r.cfg.Seed),
		synth:  book.NewSynthesizer(r.cfg.BookLevels, r.cfg.BookSpreadBps),
		model:  fill.NewModel(r.cfg),
		ledger: ledger.New(r.cfg.InitialCapital),
	}

	for i, c := range candles {
		st.clock = c.Timestamp

		if st.orderBook == nil {
			st.orderBook = st.synth.Build(c)
		} else {
			st.synth.Update(st.orderBook, c)
		}

		st.step(c, buy[i], sell[i])
		st.checkStopTakeProfit(c)
	}

	st.closeRemaining(candles[len(candles)-1])

	res := metrics.Compute(strategyID, st.trades, r.cfg.InitialCapital, st.ledger.Capital(), period)
	res.RunID = st.runID
	res.Symbol = symbol
	return res, nil
}

// step turns the bar's signals into orders and applies the resulting
// fills. Signals act on the same bar's synthesized book; there is no
// artificial one-bar delay beyond the warm-up window.
func (s *run) step(c domain.Candle, buySignal, sellSignal bool) {
	pos := s.ledger.Position()

	switch {
	case buySignal && pos.IsFlat():
		s.submitMarket(c, domain.SideBuy, s.entryQuantity(c.Close), domain.ExitReasonSignal)
	case buySignal && pos.Quantity < 0:
		s.submitMarket(c, domain.SideBuy, -pos.Quantity, domain.ExitReasonSignal)
	case sellSignal && pos.IsFlat():
		s.submitMarket(c, domain.SideSell, s.entryQuantity(c.Close), domain.ExitReasonSignal)
	case sellSignal && pos.Quantity > 0:
		s.submitMarket(c, domain.SideSell, pos.Quantity, domain.ExitReasonSignal)
	}
}

// entryQuantity sizes a new position from the running capital and the
// idea's MaxPositionSize fraction.
func (s *run) entryQuantity(price float64) float64 {
	if price <= 0 {
		return 0
	}
	frac := s.idea.Risk.MaxPositionSize
	if frac <= 0 || frac > 1 {
		frac = defaultPositionFraction
	}
	return s.ledger.Capital() * frac / price
}

// submitMarket submits one market order through the fill model and
// applies any resulting fills to the ledger.
func (s *run) submitMarket(c domain.Candle, side string, qty float64, reason string) {
	if qty <= 0 {
		return
	}

	s.orderSeq++
	order := &domain.SimulatedOrder{
		OrderID:   fmt.Sprintf("%s-o%04d", s.runID[:8], s.orderSeq),
		Symbol:    s.symbol,
		Side:      side,
		Type:      domain.OrderTypeMarket,
		Quantity:  qty,
		Timestamp: s.clock,
	}

	fills := s.model.Execute(order, s.orderBook, c)
	if len(fills) == 0 {
		observability.DefaultMetrics.OrdersRejected.Inc()
		return
	}
	for _, f := range fills {
		s.applyFill(f, reason)
	}
}

// applyFill pushes a fill through the ledger and appends the ledger
// record to the run's append-only trade log.
func (s *run) applyFill(f domain.SimulatedFill, reason string) {
	app := s.ledger.Apply(f)

	// Latency jitter on fill timestamps must never break the
	// append-order guarantee of the trade log.
	if f.Timestamp < s.lastTs {
		f.Timestamp = s.lastTs
	}
	s.lastTs = f.Timestamp

	trade := domain.Trade{
		ID:        idhash.ComputeTradeID(s.runID, s.symbol, f.Timestamp, s.tradeSeq),
		Symbol:    f.Symbol,
		Side:      f.Side,
		Size:      f.Quantity,
		Price:     f.Price,
		Fee:       f.Commission,
		PnL:       app.RealizedPnL,
		Timestamp: f.Timestamp,
		EntryExit: app.EntryExit,
	}
	if app.EntryExit == domain.TradeExit {
		trade.Reason = reason
	}
	s.tradeSeq++
	s.trades = append(s.trades, trade)
}

// checkStopTakeProfit runs after entries, comparing the bar's close
// against the idea's fractional stop-loss/take-profit thresholds on
// unrealized P&L. A hit force-closes the full position.
func (s *run) checkStopTakeProfit(c domain.Candle) {
	pos := s.ledger.Position()
	if pos.IsFlat() || pos.AvgPrice <= 0 {
		return
	}

	unrealized := (c.Close - pos.AvgPrice) / pos.AvgPrice
	if pos.Quantity < 0 {
		unrealized = -unrealized
	}

	risk := s.idea.Risk
	switch {
	case risk.StopLoss > 0 && unrealized <= -risk.StopLoss:
		s.forceClose(c, c.Close, domain.ExitReasonStopLoss)
	case risk.TakeProfit > 0 && unrealized >= risk.TakeProfit:
		s.forceClose(c, c.Close, domain.ExitReasonTakeProfit)
	}
}

// closeRemaining flattens any open position at the final candle's close.
// The metrics reduction assumes every run ends flat.
func (s *run) closeRemaining(last domain.Candle) {
	if s.ledger.Position().IsFlat() {
		return
	}
	s.forceClose(last, last.Close, domain.ExitReasonEndOfBacktest)
}

// forceClose flattens the full position at the given price with a
// synthetic aggregate fill. Forced closes execute at the reference
// price itself (no slippage sampling) but still pay taker commission.
func (s *run) forceClose(c domain.Candle, price float64, reason string) {
	pos := s.ledger.Position()
	if pos.IsFlat() || price <= 0 {
		return
	}

	qty := pos.Quantity
	side := domain.SideSell
	if qty < 0 {
		side = domain.SideBuy
		qty = -qty
	}

	s.orderSeq++
	f := domain.SimulatedFill{
		FillID:        fmt.Sprintf("%s-o%04d-f0001", s.runID[:8], s.orderSeq),
		OrderID:       fmt.Sprintf("%s-o%04d", s.runID[:8], s.orderSeq),
		Symbol:        s.symbol,
		Side:          side,
		Quantity:      qty,
		Price:         price,
		Commission:    qty * price * s.cfg.CommissionRate,
		Timestamp:     c.Timestamp,
		LiquiditySide: domain.LiquidityTaker,
	}
	s.applyFill(f, reason)
}
