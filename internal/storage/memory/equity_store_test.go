package memory

import (
	"context"
	"errors"
	"testing"

	"backtest-lab/internal/domain"
	"backtest-lab/internal/storage"
)

func TestEquityCurveStore_InsertBulkAndGet(t *testing.T) {
	store := NewEquityCurveStore()
	ctx := context.Background()

	points := []domain.EquityPoint{
		{RunID: "run1", Timestamp: 2000, Equity: 10100},
		{RunID: "run1", Timestamp: 1000, Equity: 10000},
		{RunID: "run2", Timestamp: 1000, Equity: 10000},
	}
	if err := store.InsertBulk(ctx, points); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetByRunID(ctx, "run1")
	if err != nil {
		t.Fatalf("GetByRunID failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 points, got %d", len(got))
	}
	if got[0].Timestamp != 1000 || got[1].Timestamp != 2000 {
		t.Errorf("Points not ordered: %d, %d", got[0].Timestamp, got[1].Timestamp)
	}
}

func TestEquityCurveStore_DuplicateKey(t *testing.T) {
	store := NewEquityCurveStore()
	ctx := context.Background()

	p := []domain.EquityPoint{{RunID: "run1", Timestamp: 1000, Equity: 10000}}
	if err := store.InsertBulk(ctx, p); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.InsertBulk(ctx, p)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}
