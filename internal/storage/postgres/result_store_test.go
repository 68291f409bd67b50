package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backtest-lab/internal/domain"
	"backtest-lab/internal/storage"
	pgstore "backtest-lab/internal/storage/postgres"
)

func resultFixture(runID, strategyID string, periodStart int64) *domain.BacktestResult {
	return &domain.BacktestResult{
		RunID:            runID,
		StrategyID:       strategyID,
		Symbol:           "SOL",
		Period:           domain.Period{Start: periodStart, End: periodStart + 86400000},
		InitialCapital:   10000,
		FinalCapital:     10500,
		TotalReturn:      5,
		AnnualizedReturn: 12.5,
		SharpeRatio:      1.3,
		MaxDrawdown:      2.5,
		WinRate:          60,
		ProfitFactor:     1.8,
		TotalTrades:      10,
		Metrics: domain.RiskMetrics{
			CalmarRatio:  2,
			SortinoRatio: 1.56,
			VaR95:        2,
			Beta:         1,
			Alpha:        0,
		},
	}
}

func TestBacktestResultStore_InsertAndGetByRunID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := pgstore.NewBacktestResultStore(pool)
	ctx := context.Background()

	res := resultFixture("run-001", "trend_10_30", 1700000000000)
	require.NoError(t, store.Insert(ctx, res))

	got, err := store.GetByRunID(ctx, "run-001")
	require.NoError(t, err)

	assert.Equal(t, res.RunID, got.RunID)
	assert.Equal(t, res.StrategyID, got.StrategyID)
	assert.Equal(t, res.Symbol, got.Symbol)
	assert.Equal(t, res.Period, got.Period)
	assert.Equal(t, res.FinalCapital, got.FinalCapital)
	assert.Equal(t, res.SharpeRatio, got.SharpeRatio)
	assert.Equal(t, res.ProfitFactor, got.ProfitFactor)
	assert.Equal(t, res.TotalTrades, got.TotalTrades)
	assert.Equal(t, res.Metrics, got.Metrics)
}

func TestBacktestResultStore_DuplicateKey(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := pgstore.NewBacktestResultStore(pool)
	ctx := context.Background()

	res := resultFixture("run-001", "trend_10_30", 1700000000000)
	require.NoError(t, store.Insert(ctx, res))

	err := store.Insert(ctx, res)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestBacktestResultStore_NotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := pgstore.NewBacktestResultStore(pool)

	_, err := store.GetByRunID(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestBacktestResultStore_GetByStrategyOrdered(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := pgstore.NewBacktestResultStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, resultFixture("run-b", "trend_10_30", 1700000100000)))
	require.NoError(t, store.Insert(ctx, resultFixture("run-a", "trend_10_30", 1700000000000)))
	require.NoError(t, store.Insert(ctx, resultFixture("run-c", "meanrev_14", 1700000000000)))

	got, err := store.GetByStrategy(ctx, "trend_10_30")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "run-a", got[0].RunID)
	assert.Equal(t, "run-b", got[1].RunID)

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
