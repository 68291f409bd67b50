package clickhouse

import (
	"context"
	"fmt"

	"backtest-lab/internal/domain"
	"backtest-lab/internal/storage"
)

// EquityCurveStore persists per-run equity curve points in ClickHouse.
type EquityCurveStore struct {
	conn *Conn
}

// NewEquityCurveStore creates a new EquityCurveStore.
func NewEquityCurveStore(conn *Conn) *EquityCurveStore {
	return &EquityCurveStore{conn: conn}
}

// Compile-time interface check.
var _ storage.EquityCurveStore = (*EquityCurveStore)(nil)

// InsertBulk adds multiple points. Fails entire batch on duplicate (run_id, timestamp_ms).
func (s *EquityCurveStore) InsertBulk(ctx context.Context, points []domain.EquityPoint) error {
	if len(points) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	type key struct {
		runID       string
		timestampMs int64
	}
	seen := make(map[key]struct{})
	for i := range points {
		if points[i].RunID == "" {
			return storage.ErrInvalidInput
		}
		k := key{points[i].RunID, points[i].Timestamp}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	// Check for duplicates against existing DB rows
	for i := range points {
		exists, err := s.exists(ctx, points[i].RunID, points[i].Timestamp)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO equity_curve (run_id, timestamp_ms, equity)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for i := range points {
		err = batch.Append(points[i].RunID, uint64(points[i].Timestamp), points[i].Equity)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByRunID retrieves all points for a run, ordered by timestamp ASC.
func (s *EquityCurveStore) GetByRunID(ctx context.Context, runID string) ([]domain.EquityPoint, error) {
	query := `
		SELECT run_id, timestamp_ms, equity
		FROM equity_curve
		WHERE run_id = ?
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query by run id: %w", err)
	}
	defer rows.Close()

	return scanEquityPoints(rows)
}

// exists checks if a point with the given key exists.
func (s *EquityCurveStore) exists(ctx context.Context, runID string, timestampMs int64) (bool, error) {
	query := `
		SELECT count(*) FROM equity_curve
		WHERE run_id = ? AND timestamp_ms = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query, runID, uint64(timestampMs)).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// scanEquityPoints scans multiple rows.
func scanEquityPoints(rows chRows) ([]domain.EquityPoint, error) {
	var points []domain.EquityPoint

	for rows.Next() {
		var p domain.EquityPoint
		var timestampMs uint64

		err := rows.Scan(&p.RunID, &timestampMs, &p.Equity)
		if err != nil {
			return nil, fmt.Errorf("scan equity point row: %w", err)
		}

		p.Timestamp = int64(timestampMs)
		points = append(points, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate equity point rows: %w", err)
	}

	return points, nil
}
