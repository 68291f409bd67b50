package storage

import (
	"context"

	"backtest-lab/internal/domain"
)

// BacktestResultStore provides access to backtest_results storage.
// Stored results do not carry their trade list; trades live in TradeStore.
type BacktestResultStore interface {
	// Insert adds a new result. Returns ErrDuplicateKey if run_id exists.
	Insert(ctx context.Context, r *domain.BacktestResult) error

	// GetByRunID retrieves a result by its run ID. Returns ErrNotFound if not exists.
	GetByRunID(ctx context.Context, runID string) (*domain.BacktestResult, error)

	// GetByStrategy retrieves all results for a strategy, ordered by period start ASC.
	GetByStrategy(ctx context.Context, strategyID string) ([]*domain.BacktestResult, error)

	// GetAll retrieves all results, ordered by period start ASC.
	GetAll(ctx context.Context) ([]*domain.BacktestResult, error)
}

// TradeStore provides access to trades storage.
type TradeStore interface {
	// Insert adds a new trade. Returns ErrDuplicateKey if (run_id, trade_id) exists.
	Insert(ctx context.Context, runID string, t *domain.Trade) error

	// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, runID string, trades []domain.Trade) error

	// GetByRunID retrieves all trades for a run, ordered by timestamp ASC.
	GetByRunID(ctx context.Context, runID string) ([]domain.Trade, error)

	// GetByTimeRange retrieves trades for a run within [start, end] (inclusive).
	GetByTimeRange(ctx context.Context, runID string, start, end int64) ([]domain.Trade, error)
}

// EquityCurveStore provides access to per-run equity curve storage.
type EquityCurveStore interface {
	// InsertBulk adds multiple points. Fails entire batch on duplicate (run_id, timestamp).
	InsertBulk(ctx context.Context, points []domain.EquityPoint) error

	// GetByRunID retrieves all points for a run, ordered by timestamp ASC.
	GetByRunID(ctx context.Context, runID string) ([]domain.EquityPoint, error)
}

// CandleStore provides access to candle history storage.
type CandleStore interface {
	// InsertBulk adds multiple candles. Fails entire batch on duplicate (symbol, timestamp).
	InsertBulk(ctx context.Context, candles []domain.Candle) error

	// GetBySymbol retrieves all candles for a symbol, ordered by timestamp ASC.
	GetBySymbol(ctx context.Context, symbol string) ([]domain.Candle, error)

	// GetByTimeRange retrieves candles for a symbol within [start, end] (inclusive).
	GetByTimeRange(ctx context.Context, symbol string, start, end int64) ([]domain.Candle, error)
}
