package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"backtest-lab/internal/domain"
	"backtest-lab/internal/storage"
)

// BacktestResultStore implements storage.BacktestResultStore using PostgreSQL.
type BacktestResultStore struct {
	pool *Pool
}

// NewBacktestResultStore creates a new BacktestResultStore.
func NewBacktestResultStore(pool *Pool) *BacktestResultStore {
	return &BacktestResultStore{pool: pool}
}

// Compile-time interface check.
var _ storage.BacktestResultStore = (*BacktestResultStore)(nil)

const resultColumns = `
	run_id, strategy_id, symbol, period_start, period_end,
	initial_capital, final_capital, total_return, annualized_return,
	sharpe_ratio, max_drawdown, win_rate, profit_factor, total_trades,
	calmar_ratio, sortino_ratio, var_95, beta, alpha
`

// Insert adds a new result. Returns ErrDuplicateKey if run_id exists.
func (s *BacktestResultStore) Insert(ctx context.Context, r *domain.BacktestResult) (err error) {
	if r == nil || r.RunID == "" {
		return storage.ErrInvalidInput
	}
	defer observe("results_insert", time.Now(), &err)

	query := `
		INSERT INTO backtest_results (` + resultColumns + `) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9,
			$10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19
		)
	`

	_, err = s.pool.Exec(ctx, query,
		r.RunID, r.StrategyID, r.Symbol, r.Period.Start, r.Period.End,
		r.InitialCapital, r.FinalCapital, r.TotalReturn, r.AnnualizedReturn,
		r.SharpeRatio, r.MaxDrawdown, r.WinRate, r.ProfitFactor, r.TotalTrades,
		r.Metrics.CalmarRatio, r.Metrics.SortinoRatio, r.Metrics.VaR95,
		r.Metrics.Beta, r.Metrics.Alpha,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert backtest result: %w", err)
	}
	return nil
}

// GetByRunID retrieves a result by its run ID. Returns ErrNotFound if not exists.
func (s *BacktestResultStore) GetByRunID(ctx context.Context, runID string) (_ *domain.BacktestResult, err error) {
	defer observe("results_get_by_run_id", time.Now(), &err)

	query := `SELECT ` + resultColumns + ` FROM backtest_results WHERE run_id = $1`

	row := s.pool.QueryRow(ctx, query, runID)
	r, err := scanResult(row)
	if err != nil {
		if isNoRows(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get backtest result by run id: %w", err)
	}
	return r, nil
}

// GetByStrategy retrieves all results for a strategy, ordered by period start ASC.
func (s *BacktestResultStore) GetByStrategy(ctx context.Context, strategyID string) (_ []*domain.BacktestResult, err error) {
	defer observe("results_get_by_strategy", time.Now(), &err)

	query := `
		SELECT ` + resultColumns + `
		FROM backtest_results
		WHERE strategy_id = $1
		ORDER BY period_start ASC, run_id ASC
	`

	rows, err := s.pool.Query(ctx, query, strategyID)
	if err != nil {
		return nil, fmt.Errorf("get backtest results by strategy: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}

// GetAll retrieves all results, ordered by period start ASC.
func (s *BacktestResultStore) GetAll(ctx context.Context) (_ []*domain.BacktestResult, err error) {
	defer observe("results_get_all", time.Now(), &err)

	query := `
		SELECT ` + resultColumns + `
		FROM backtest_results
		ORDER BY period_start ASC, run_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all backtest results: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}

// scanResult scans a single row into a BacktestResult.
func scanResult(row pgx.Row) (*domain.BacktestResult, error) {
	var r domain.BacktestResult

	err := row.Scan(
		&r.RunID, &r.StrategyID, &r.Symbol, &r.Period.Start, &r.Period.End,
		&r.InitialCapital, &r.FinalCapital, &r.TotalReturn, &r.AnnualizedReturn,
		&r.SharpeRatio, &r.MaxDrawdown, &r.WinRate, &r.ProfitFactor, &r.TotalTrades,
		&r.Metrics.CalmarRatio, &r.Metrics.SortinoRatio, &r.Metrics.VaR95,
		&r.Metrics.Beta, &r.Metrics.Alpha,
	)
	if err != nil {
		return nil, err
	}

	return &r, nil
}

// scanResults scans multiple rows into a slice of BacktestResult.
func scanResults(rows pgx.Rows) ([]*domain.BacktestResult, error) {
	var results []*domain.BacktestResult

	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("scan backtest result row: %w", err)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate backtest result rows: %w", err)
	}

	return results, nil
}
