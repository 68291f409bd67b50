package memory

import (
	"context"
	"sort"
	"sync"

	"backtest-lab/internal/domain"
	"backtest-lab/internal/storage"
)

// equityKey identifies one equity point of a run.
type equityKey struct {
	runID     string
	timestamp int64
}

// EquityCurveStore is an in-memory implementation of storage.EquityCurveStore.
type EquityCurveStore struct {
	mu   sync.RWMutex
	data map[equityKey]domain.EquityPoint
}

// NewEquityCurveStore creates a new in-memory equity curve store.
func NewEquityCurveStore() *EquityCurveStore {
	return &EquityCurveStore{
		data: make(map[equityKey]domain.EquityPoint),
	}
}

// InsertBulk adds multiple points. Fails entire batch on duplicate (run_id, timestamp).
func (s *EquityCurveStore) InsertBulk(_ context.Context, points []domain.EquityPoint) error {
	if len(points) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[equityKey]struct{}, len(points))
	for i := range points {
		if points[i].RunID == "" {
			return storage.ErrInvalidInput
		}
		k := equityKey{points[i].RunID, points[i].Timestamp}
		if _, exists := s.data[k]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[k]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[k] = struct{}{}
	}

	for i := range points {
		s.data[equityKey{points[i].RunID, points[i].Timestamp}] = points[i]
	}

	return nil
}

// GetByRunID retrieves all points for a run, ordered by timestamp ASC.
func (s *EquityCurveStore) GetByRunID(_ context.Context, runID string) ([]domain.EquityPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.EquityPoint
	for k, p := range s.data {
		if k.runID == runID {
			result = append(result, p)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp < result[j].Timestamp
	})

	return result, nil
}

var _ storage.EquityCurveStore = (*EquityCurveStore)(nil)
