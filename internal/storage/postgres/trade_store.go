package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"backtest-lab/internal/domain"
	"backtest-lab/internal/storage"
)

// TradeStore implements storage.TradeStore using PostgreSQL.
type TradeStore struct {
	pool *Pool
}

// NewTradeStore creates a new TradeStore.
func NewTradeStore(pool *Pool) *TradeStore {
	return &TradeStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TradeStore = (*TradeStore)(nil)

const tradeInsertQuery = `
	INSERT INTO trades (
		run_id, trade_id, symbol, side, size, price, fee, pnl,
		ts, entry_exit, exit_reason
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8,
		$9, $10, $11
	)
`

const tradeSelectColumns = `
	trade_id, symbol, side, size, price, fee, pnl,
	ts, entry_exit, exit_reason
`

// Insert adds a new trade. Returns ErrDuplicateKey if (run_id, trade_id) exists.
func (s *TradeStore) Insert(ctx context.Context, runID string, t *domain.Trade) (err error) {
	if t == nil || runID == "" || t.ID == "" {
		return storage.ErrInvalidInput
	}
	defer observe("trades_insert", time.Now(), &err)

	_, err = s.pool.Exec(ctx, tradeInsertQuery,
		runID, t.ID, t.Symbol, t.Side, t.Size, t.Price, t.Fee, t.PnL,
		t.Timestamp, t.EntryExit, t.Reason,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert trade: %w", err)
	}
	return nil
}

// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
func (s *TradeStore) InsertBulk(ctx context.Context, runID string, trades []domain.Trade) (err error) {
	if len(trades) == 0 {
		return nil
	}
	if runID == "" {
		return storage.ErrInvalidInput
	}
	defer observe("trades_insert_bulk", time.Now(), &err)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for i := range trades {
		t := &trades[i]
		if t.ID == "" {
			return storage.ErrInvalidInput
		}
		_, err := tx.Exec(ctx, tradeInsertQuery,
			runID, t.ID, t.Symbol, t.Side, t.Size, t.Price, t.Fee, t.PnL,
			t.Timestamp, t.EntryExit, t.Reason,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert trade in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByRunID retrieves all trades for a run, ordered by timestamp ASC.
func (s *TradeStore) GetByRunID(ctx context.Context, runID string) (_ []domain.Trade, err error) {
	defer observe("trades_get_by_run_id", time.Now(), &err)

	query := `
		SELECT ` + tradeSelectColumns + `
		FROM trades
		WHERE run_id = $1
		ORDER BY ts ASC, trade_id ASC
	`

	rows, err := s.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("get trades by run id: %w", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

// GetByTimeRange retrieves trades for a run within [start, end] (inclusive).
func (s *TradeStore) GetByTimeRange(ctx context.Context, runID string, start, end int64) (_ []domain.Trade, err error) {
	defer observe("trades_get_by_time_range", time.Now(), &err)

	query := `
		SELECT ` + tradeSelectColumns + `
		FROM trades
		WHERE run_id = $1 AND ts >= $2 AND ts <= $3
		ORDER BY ts ASC, trade_id ASC
	`

	rows, err := s.pool.Query(ctx, query, runID, start, end)
	if err != nil {
		return nil, fmt.Errorf("get trades by time range: %w", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

// scanTrades scans multiple rows into a slice of Trade.
func scanTrades(rows pgx.Rows) ([]domain.Trade, error) {
	var trades []domain.Trade

	for rows.Next() {
		var t domain.Trade

		err := rows.Scan(
			&t.ID, &t.Symbol, &t.Side, &t.Size, &t.Price, &t.Fee, &t.PnL,
			&t.Timestamp, &t.EntryExit, &t.Reason,
		)
		if err != nil {
			return nil, fmt.Errorf("scan trade row: %w", err)
		}

		trades = append(trades, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trade rows: %w", err)
	}

	return trades, nil
}
