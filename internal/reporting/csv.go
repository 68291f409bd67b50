package reporting

import (
	"fmt"
	"strings"

	"backtest-lab/internal/domain"
)

// RenderResultsCSV renders ranked results as CSV string.
func RenderResultsCSV(results []*domain.BacktestResult) string {
	var sb strings.Builder

	// Header
	sb.WriteString("run_id,strategy_id,symbol,period_start,period_end,")
	sb.WriteString("initial_capital,final_capital,total_return,annualized_return,")
	sb.WriteString("sharpe_ratio,max_drawdown,win_rate,profit_factor,total_trades\n")

	// Rows
	for _, r := range results {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%d,%d,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%d\n",
			r.RunID,
			r.StrategyID,
			r.Symbol,
			r.Period.Start,
			r.Period.End,
			r.InitialCapital,
			r.FinalCapital,
			r.TotalReturn,
			r.AnnualizedReturn,
			r.SharpeRatio,
			r.MaxDrawdown,
			r.WinRate,
			r.ProfitFactor,
			r.TotalTrades,
		))
	}

	return sb.String()
}

// RenderTradesCSV renders one run's trade ledger as CSV string.
func RenderTradesCSV(trades []domain.Trade) string {
	var sb strings.Builder

	sb.WriteString("trade_id,symbol,side,size,price,fee,pnl,timestamp,entry_exit,reason\n")

	for _, t := range trades {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%.6f,%.6f,%.6f,%.6f,%d,%s,%s\n",
			t.ID,
			t.Symbol,
			t.Side,
			t.Size,
			t.Price,
			t.Fee,
			t.PnL,
			t.Timestamp,
			t.EntryExit,
			t.Reason,
		))
	}

	return sb.String()
}
