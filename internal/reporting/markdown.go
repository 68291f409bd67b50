package reporting

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Strategy Sweep Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Symbol: %s | Strategies: %d\n\n", r.Symbol, len(r.Results)))
	sb.WriteString(fmt.Sprintf("Period: %d .. %d (ms)\n\n", r.Period.Start, r.Period.End))

	// Ranking
	sb.WriteString("## Ranking\n\n")
	if len(r.Results) > 0 {
		sb.WriteString("| # | Strategy | Return% | Annualized% | Sharpe | MaxDD% | WinRate% | ProfitFactor | Trades |\n")
		sb.WriteString("|---|----------|---------|-------------|--------|--------|----------|--------------|--------|\n")
		for i, res := range r.Results {
			sb.WriteString(fmt.Sprintf("| %d | %s | %.2f | %.2f | %.4f | %.2f | %.2f | %s | %d |\n",
				i+1, res.StrategyID,
				res.TotalReturn, res.AnnualizedReturn, res.SharpeRatio,
				res.MaxDrawdown, res.WinRate, formatProfitFactor(res.ProfitFactor),
				res.TotalTrades))
		}
	} else {
		sb.WriteString("No results available.\n")
	}
	sb.WriteString("\n")

	// Best strategy detail
	if best := r.Best(); best != nil {
		sb.WriteString("## Best Strategy\n\n")
		sb.WriteString("| Metric | Value |\n")
		sb.WriteString("|--------|-------|\n")
		sb.WriteString(fmt.Sprintf("| Strategy | %s |\n", best.StrategyID))
		sb.WriteString(fmt.Sprintf("| Run ID | %s |\n", best.RunID))
		sb.WriteString(fmt.Sprintf("| Initial Capital | %.2f |\n", best.InitialCapital))
		sb.WriteString(fmt.Sprintf("| Final Capital | %.2f |\n", best.FinalCapital))
		sb.WriteString(fmt.Sprintf("| Total Return | %.2f%% |\n", best.TotalReturn))
		sb.WriteString(fmt.Sprintf("| Sharpe Ratio | %.4f |\n", best.SharpeRatio))
		sb.WriteString(fmt.Sprintf("| Sortino Ratio | %.4f |\n", best.Metrics.SortinoRatio))
		sb.WriteString(fmt.Sprintf("| Calmar Ratio | %.4f |\n", best.Metrics.CalmarRatio))
		sb.WriteString(fmt.Sprintf("| VaR 95 | %.4f |\n", best.Metrics.VaR95))
		sb.WriteString(fmt.Sprintf("| Exit Trades | %d |\n", best.TotalTrades))
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatProfitFactor keeps the lossless +Inf convention readable in
// tables.
func formatProfitFactor(pf float64) string {
	if math.IsInf(pf, 1) {
		return "inf"
	}
	return fmt.Sprintf("%.4f", pf)
}
