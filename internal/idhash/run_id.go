// Package idhash computes deterministic identifiers.
// All IDs are SHA-256 over pipe-joined fields so that the same inputs
// always map to the same ID regardless of where the run executes.
package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeRunID computes a deterministic backtest run ID.
// Formula: SHA256(strategy_id|symbol|start_ms|end_ms|seed)
// Returns hex-encoded hash (64 characters).
func ComputeRunID(strategyID, symbol string, startMs, endMs, seed int64) string {
	data := fmt.Sprintf("%s|%s|%d|%d|%d", strategyID, symbol, startMs, endMs, seed)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
