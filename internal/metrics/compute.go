// Package metrics reduces a finished run's trade list and capital
// figures into a BacktestResult. Pure computation: every formula guards
// its own arithmetic edge case so no NaN or Infinity propagates, except
// the documented profit-factor Infinity for lossless runs.
package metrics

import (
	"math"

	"backtest-lab/internal/domain"
)

// tradingDaysPerYear annualizes the per-trade Sharpe ratio.
const tradingDaysPerYear = 252

// millisPerDay converts period spans for annualized return.
const millisPerDay = 24 * 60 * 60 * 1000

// Compute reduces trades plus capital figures into a BacktestResult.
// Only EXIT trades enter trade-count and win-rate statistics; trades
// must be in append (chronological) order, which the simulator
// guarantees.
func Compute(strategyID string, trades []domain.Trade, initial, final float64, period domain.Period) *domain.BacktestResult {
	exits := make([]domain.Trade, 0, len(trades))
	for _, t := range trades {
		if t.IsExit() {
			exits = append(exits, t)
		}
	}

	totalReturn := 0.0
	if initial > 0 {
		totalReturn = (final - initial) / initial * 100
	}

	maxDrawdown := computeMaxDrawdown(exits, initial)

	result := &domain.BacktestResult{
		StrategyID:       strategyID,
		Period:           period,
		InitialCapital:   initial,
		FinalCapital:     final,
		TotalReturn:      totalReturn,
		AnnualizedReturn: annualize(totalReturn, initial, final, period),
		SharpeRatio:      computeSharpe(exits, initial),
		MaxDrawdown:      maxDrawdown,
		WinRate:          computeWinRate(exits),
		ProfitFactor:     computeProfitFactor(exits),
		TotalTrades:      len(exits),
		Trades:           trades,
	}

	// Simplified derived figures, reproduced verbatim for output
	// compatibility. Acknowledged placeholders, not statistics.
	calmar := 0.0
	if maxDrawdown != 0 {
		calmar = totalReturn / maxDrawdown
	}
	result.Metrics = domain.RiskMetrics{
		CalmarRatio:  calmar,
		SortinoRatio: result.SharpeRatio * 1.2,
		VaR95:        maxDrawdown * 0.8,
		Beta:         1,
		Alpha:        totalReturn - 5,
	}

	return result
}

// annualize scales the total return to a yearly rate over the period.
// Degenerate periods (zero or negative span) report the total return
// unscaled.
func annualize(totalReturn, initial, final float64, period domain.Period) float64 {
	days := float64(period.End-period.Start) / millisPerDay
	if days <= 0 || initial <= 0 || final <= 0 {
		return totalReturn
	}
	return (math.Pow(final/initial, 365/days) - 1) * 100
}

// computeSharpe calculates mean(perTradeReturn)/stddev * sqrt(252) over
// exit-trade returns relative to initial capital. The deviation
// defaults to 1 with fewer than 2 exits, which keeps the ratio finite
// and conservatively near zero instead of dividing by zero.
func computeSharpe(exits []domain.Trade, initial float64) float64 {
	if len(exits) == 0 || initial <= 0 {
		return 0
	}

	returns := make([]float64, len(exits))
	for i, t := range exits {
		returns[i] = t.PnL / initial
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	stddev := 1.0
	if len(returns) >= 2 {
		sumSq := 0.0
		for _, r := range returns {
			diff := r - mean
			sumSq += diff * diff
		}
		stddev = math.Sqrt(sumSq / float64(len(returns)))
		if stddev == 0 {
			stddev = 1
		}
	}

	return mean / stddev * math.Sqrt(tradingDaysPerYear)
}

// computeWinRate returns winningExits/totalExits as a percentage,
// 0 when there are no exits.
func computeWinRate(exits []domain.Trade) float64 {
	if len(exits) == 0 {
		return 0
	}
	wins := 0
	for _, t := range exits {
		if t.PnL > 0 {
			wins++
		}
	}
	return float64(wins) / float64(len(exits)) * 100
}

// computeProfitFactor returns sumWins/|sumLosses| with the documented
// conventions: +Inf when there are wins and no losses, 0 when neither.
func computeProfitFactor(exits []domain.Trade) float64 {
	var wins, losses float64
	for _, t := range exits {
		if t.PnL > 0 {
			wins += t.PnL
		} else {
			losses += t.PnL
		}
	}

	if losses == 0 {
		if wins > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return wins / math.Abs(losses)
}

// computeMaxDrawdown tracks the running peak of cumulative capital
// after each exit and reports the worst peak-to-trough decline as a
// percentage of the peak.
func computeMaxDrawdown(exits []domain.Trade, initial float64) float64 {
	if len(exits) == 0 || initial <= 0 {
		return 0
	}

	running := initial
	peak := initial
	maxDrawdown := 0.0

	for _, t := range exits {
		running += t.PnL
		if running > peak {
			peak = running
		}
		if peak > 0 {
			drawdown := (peak - running) / peak * 100
			if drawdown > maxDrawdown {
				maxDrawdown = drawdown
			}
		}
	}
	return maxDrawdown
}
