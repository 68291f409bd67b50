package metrics

import (
	"testing"

	"backtest-lab/internal/domain"
)

func TestEquityCurveStartsAtInitial(t *testing.T) {
	curve := EquityCurve("run1", nil, 10000, domain.Period{Start: 1000, End: 2000})
	if len(curve) != 1 {
		t.Fatalf("len = %d, want 1", len(curve))
	}
	if curve[0].Equity != 10000 || curve[0].Timestamp != 1000 {
		t.Fatalf("first point = %+v", curve[0])
	}
}

func TestEquityCurveTracksExits(t *testing.T) {
	trades := []domain.Trade{
		{ID: "t1", Timestamp: 1500, EntryExit: domain.TradeEntry, Fee: 5},
		{ID: "t2", Timestamp: 2500, EntryExit: domain.TradeExit, PnL: 100, Fee: 5},
		{ID: "t3", Timestamp: 3500, EntryExit: domain.TradeEntry, Fee: 5},
		{ID: "t4", Timestamp: 4500, EntryExit: domain.TradeExit, PnL: -50, Fee: 5},
	}
	curve := EquityCurve("run1", trades, 10000, domain.Period{Start: 1000, End: 5000})

	if len(curve) != 3 {
		t.Fatalf("len = %d, want 3", len(curve))
	}
	// Entry fee is charged before the first exit point.
	if got := curve[1].Equity; got != 10090 {
		t.Errorf("after first exit: %v, want 10090", got)
	}
	if got := curve[2].Equity; got != 10030 {
		t.Errorf("after second exit: %v, want 10030", got)
	}
}

func TestEquityCurveCollapsesSameTimestamp(t *testing.T) {
	trades := []domain.Trade{
		{ID: "t1", Timestamp: 1000, EntryExit: domain.TradeEntry},
		{ID: "t2", Timestamp: 1000, EntryExit: domain.TradeExit, PnL: 10},
	}
	curve := EquityCurve("run1", trades, 10000, domain.Period{Start: 1000, End: 2000})

	if len(curve) != 1 {
		t.Fatalf("len = %d, want 1 collapsed point", len(curve))
	}
	if curve[0].Equity != 10010 {
		t.Errorf("collapsed equity = %v, want 10010", curve[0].Equity)
	}
}
