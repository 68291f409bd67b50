package memory

import (
	"context"
	"sort"
	"sync"

	"backtest-lab/internal/domain"
	"backtest-lab/internal/storage"
)

// BacktestResultStore is an in-memory implementation of storage.BacktestResultStore.
type BacktestResultStore struct {
	mu   sync.RWMutex
	data map[string]*domain.BacktestResult // keyed by run_id
}

// NewBacktestResultStore creates a new in-memory result store.
func NewBacktestResultStore() *BacktestResultStore {
	return &BacktestResultStore{
		data: make(map[string]*domain.BacktestResult),
	}
}

// Insert adds a new result. Returns ErrDuplicateKey if run_id exists.
// The stored copy drops the trade list; trades belong to TradeStore.
func (s *BacktestResultStore) Insert(_ context.Context, r *domain.BacktestResult) error {
	if r == nil || r.RunID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.RunID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *r
	copy.Trades = nil
	s.data[r.RunID] = &copy
	return nil
}

// GetByRunID retrieves a result by its run ID. Returns ErrNotFound if not exists.
func (s *BacktestResultStore) GetByRunID(_ context.Context, runID string) (*domain.BacktestResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.data[runID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *r
	return &copy, nil
}

// GetByStrategy retrieves all results for a strategy, ordered by period start ASC.
func (s *BacktestResultStore) GetByStrategy(_ context.Context, strategyID string) ([]*domain.BacktestResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.BacktestResult
	for _, r := range s.data {
		if r.StrategyID == strategyID {
			copy := *r
			result = append(result, &copy)
		}
	}

	sortResults(result)
	return result, nil
}

// GetAll retrieves all results, ordered by period start ASC.
func (s *BacktestResultStore) GetAll(_ context.Context) ([]*domain.BacktestResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.BacktestResult, 0, len(s.data))
	for _, r := range s.data {
		copy := *r
		result = append(result, &copy)
	}

	sortResults(result)
	return result, nil
}

// sortResults orders by period start, then run_id for a stable order.
func sortResults(rs []*domain.BacktestResult) {
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].Period.Start != rs[j].Period.Start {
			return rs[i].Period.Start < rs[j].Period.Start
		}
		return rs[i].RunID < rs[j].RunID
	})
}

var _ storage.BacktestResultStore = (*BacktestResultStore)(nil)
