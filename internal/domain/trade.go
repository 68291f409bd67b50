package domain

// Trade is one append-only ledger record. Records are never mutated after
// creation; the trade list of a run is ordered by timestamp.
type Trade struct {
	ID        string
	Symbol    string
	Side      string // SideBuy | SideSell
	Size      float64
	Price     float64
	Fee       float64
	PnL       float64 // realized P&L attributable to this fill; 0 for pure entries
	Timestamp int64   // Unix ms
	EntryExit string  // TradeEntry | TradeExit
	Reason    string  // exit reason code, empty for entries
}

// Entry/exit markers.
const (
	TradeEntry = "ENTRY"
	TradeExit  = "EXIT"
)

// Exit reason codes.
const (
	ExitReasonSignal        = "SIGNAL"
	ExitReasonStopLoss      = "STOP_LOSS"
	ExitReasonTakeProfit    = "TAKE_PROFIT"
	ExitReasonEndOfBacktest = "END_OF_BACKTEST"
)

// IsExit reports whether the record closed or reduced exposure.
// Only exit records carry realized P&L used in performance statistics.
func (t *Trade) IsExit() bool {
	return t.EntryExit == TradeExit
}
