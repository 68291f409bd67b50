// Package reporting renders sweep results as CSV and Markdown.
package reporting

import (
	"time"

	"backtest-lab/internal/domain"
)

// Report is the renderable summary of one sweep.
type Report struct {
	GeneratedAt time.Time
	Symbol      string
	Period      domain.Period

	// Results ranked best first, as produced by the orchestrator.
	Results []*domain.BacktestResult
}

// NewReport builds a report over ranked results. Symbol and period are
// taken from the first result; a sweep shares both across all runs.
func NewReport(results []*domain.BacktestResult) *Report {
	r := &Report{
		GeneratedAt: time.Now().UTC(),
		Results:     results,
	}
	if len(results) > 0 {
		r.Symbol = results[0].Symbol
		r.Period = results[0].Period
	}
	return r
}

// Best returns the top-ranked result, nil for an empty report.
func (r *Report) Best() *domain.BacktestResult {
	if len(r.Results) == 0 {
		return nil
	}
	return r.Results[0]
}
