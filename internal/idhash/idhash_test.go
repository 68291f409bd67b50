package idhash

import "testing"

func TestComputeRunID(t *testing.T) {
	tests := []struct {
		name       string
		strategyID string
		symbol     string
		startMs    int64
		endMs      int64
		seed       int64
	}{
		{
			name:       "trend following run",
			strategyID: "TREND_FOLLOWING_10_30",
			symbol:     "BTC-PERP",
			startMs:    1704067200000,
			endMs:      1704153600000,
			seed:       42,
		},
		{
			name:       "empty strategy id",
			strategyID: "",
			symbol:     "ETH-PERP",
			startMs:    0,
			endMs:      0,
			seed:       0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := ComputeRunID(tt.strategyID, tt.symbol, tt.startMs, tt.endMs, tt.seed)
			id2 := ComputeRunID(tt.strategyID, tt.symbol, tt.startMs, tt.endMs, tt.seed)

			if len(id1) != 64 {
				t.Errorf("expected 64-char hash, got %d chars", len(id1))
			}
			if id1 != id2 {
				t.Error("same inputs must produce same run ID")
			}
		})
	}
}

func TestComputeRunID_DifferentInputs(t *testing.T) {
	base := ComputeRunID("s1", "BTC-PERP", 1000, 2000, 1)

	if ComputeRunID("s2", "BTC-PERP", 1000, 2000, 1) == base {
		t.Error("different strategy must change run ID")
	}
	if ComputeRunID("s1", "ETH-PERP", 1000, 2000, 1) == base {
		t.Error("different symbol must change run ID")
	}
	if ComputeRunID("s1", "BTC-PERP", 1000, 2000, 2) == base {
		t.Error("different seed must change run ID")
	}
}

func TestComputeTradeID(t *testing.T) {
	runID := ComputeRunID("s1", "BTC-PERP", 1000, 2000, 1)

	id1 := ComputeTradeID(runID, "BTC-PERP", 1500, 0)
	id2 := ComputeTradeID(runID, "BTC-PERP", 1500, 0)
	if id1 != id2 {
		t.Error("same inputs must produce same trade ID")
	}
	if len(id1) != 64 {
		t.Errorf("expected 64-char hash, got %d chars", len(id1))
	}

	// Same timestamp, different sequence
	id3 := ComputeTradeID(runID, "BTC-PERP", 1500, 1)
	if id3 == id1 {
		t.Error("sequence must disambiguate trades at the same timestamp")
	}
}
