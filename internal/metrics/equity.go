package metrics

import "backtest-lab/internal/domain"

// EquityCurve samples cumulative capital over a run's trade list. Every
// trade moves the running figure (realized P&L minus its fee), but
// points are emitted only where exposure was closed or reduced, plus
// the initial capital at the period start. Trades sharing a timestamp
// collapse into the last point at that timestamp, so the curve is
// strictly time-ordered.
func EquityCurve(runID string, trades []domain.Trade, initial float64, period domain.Period) []domain.EquityPoint {
	curve := []domain.EquityPoint{{
		RunID:     runID,
		Timestamp: period.Start,
		Equity:    initial,
	}}

	running := initial
	for _, t := range trades {
		running += t.PnL - t.Fee
		if !t.IsExit() {
			continue
		}
		p := domain.EquityPoint{RunID: runID, Timestamp: t.Timestamp, Equity: running}
		if last := &curve[len(curve)-1]; last.Timestamp == p.Timestamp {
			*last = p
		} else {
			curve = append(curve, p)
		}
	}
	return curve
}
