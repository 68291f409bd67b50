package memory

import (
	"context"
	"sort"
	"sync"

	"backtest-lab/internal/domain"
	"backtest-lab/internal/storage"
)

// candleKey identifies one candle of a symbol.
type candleKey struct {
	symbol    string
	timestamp int64
}

// CandleStore is an in-memory implementation of storage.CandleStore.
type CandleStore struct {
	mu   sync.RWMutex
	data map[candleKey]domain.Candle
}

// NewCandleStore creates a new in-memory candle store.
func NewCandleStore() *CandleStore {
	return &CandleStore{
		data: make(map[candleKey]domain.Candle),
	}
}

// InsertBulk adds multiple candles. Fails entire batch on duplicate (symbol, timestamp).
func (s *CandleStore) InsertBulk(_ context.Context, candles []domain.Candle) error {
	if len(candles) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[candleKey]struct{}, len(candles))
	for i := range candles {
		if candles[i].Symbol == "" {
			return storage.ErrInvalidInput
		}
		k := candleKey{candles[i].Symbol, candles[i].Timestamp}
		if _, exists := s.data[k]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[k]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[k] = struct{}{}
	}

	for i := range candles {
		s.data[candleKey{candles[i].Symbol, candles[i].Timestamp}] = candles[i]
	}

	return nil
}

// GetBySymbol retrieves all candles for a symbol, ordered by timestamp ASC.
func (s *CandleStore) GetBySymbol(_ context.Context, symbol string) ([]domain.Candle, error) {
	return s.collect(symbol, func(domain.Candle) bool { return true })
}

// GetByTimeRange retrieves candles for a symbol within [start, end] (inclusive).
func (s *CandleStore) GetByTimeRange(_ context.Context, symbol string, start, end int64) ([]domain.Candle, error) {
	return s.collect(symbol, func(c domain.Candle) bool {
		return c.Timestamp >= start && c.Timestamp <= end
	})
}

func (s *CandleStore) collect(symbol string, keep func(domain.Candle) bool) ([]domain.Candle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.Candle
	for k, c := range s.data {
		if k.symbol == symbol && keep(c) {
			result = append(result, c)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp < result[j].Timestamp
	})

	return result, nil
}

var _ storage.CandleStore = (*CandleStore)(nil)
