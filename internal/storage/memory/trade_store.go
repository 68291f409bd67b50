package memory

import (
	"context"
	"sort"
	"sync"

	"backtest-lab/internal/domain"
	"backtest-lab/internal/storage"
)

// tradeKey identifies a trade within a run.
type tradeKey struct {
	runID   string
	tradeID string
}

// TradeStore is an in-memory implementation of storage.TradeStore.
type TradeStore struct {
	mu   sync.RWMutex
	data map[tradeKey]*domain.Trade
}

// NewTradeStore creates a new in-memory trade store.
func NewTradeStore() *TradeStore {
	return &TradeStore{
		data: make(map[tradeKey]*domain.Trade),
	}
}

// Insert adds a new trade. Returns ErrDuplicateKey if (run_id, trade_id) exists.
func (s *TradeStore) Insert(_ context.Context, runID string, t *domain.Trade) error {
	if t == nil || runID == "" || t.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	k := tradeKey{runID, t.ID}
	if _, exists := s.data[k]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *t
	s.data[k] = &copy
	return nil
}

// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
func (s *TradeStore) InsertBulk(_ context.Context, runID string, trades []domain.Trade) error {
	if len(trades) == 0 {
		return nil
	}
	if runID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// First pass: check for duplicates (existing + intra-batch)
	batchKeys := make(map[tradeKey]struct{}, len(trades))
	for i := range trades {
		if trades[i].ID == "" {
			return storage.ErrInvalidInput
		}
		k := tradeKey{runID, trades[i].ID}
		if _, exists := s.data[k]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[k]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[k] = struct{}{}
	}

	// Second pass: insert all
	for i := range trades {
		copy := trades[i]
		s.data[tradeKey{runID, trades[i].ID}] = &copy
	}

	return nil
}

// GetByRunID retrieves all trades for a run, ordered by timestamp ASC.
func (s *TradeStore) GetByRunID(_ context.Context, runID string) ([]domain.Trade, error) {
	return s.collect(runID, func(*domain.Trade) bool { return true })
}

// GetByTimeRange retrieves trades for a run within [start, end] (inclusive).
func (s *TradeStore) GetByTimeRange(_ context.Context, runID string, start, end int64) ([]domain.Trade, error) {
	return s.collect(runID, func(t *domain.Trade) bool {
		return t.Timestamp >= start && t.Timestamp <= end
	})
}

func (s *TradeStore) collect(runID string, keep func(*domain.Trade) bool) ([]domain.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.Trade
	for k, t := range s.data {
		if k.runID == runID && keep(t) {
			result = append(result, *t)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Timestamp != result[j].Timestamp {
			return result[i].Timestamp < result[j].Timestamp
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

var _ storage.TradeStore = (*TradeStore)(nil)
