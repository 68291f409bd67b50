package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeTradeID computes a deterministic trade ID.
// Formula: SHA256(run_id|symbol|timestamp_ms|sequence)
// The sequence number disambiguates multiple records at the same
// simulated timestamp within one run.
// Returns hex-encoded hash (64 characters).
func ComputeTradeID(runID, symbol string, timestampMs int64, sequence int) string {
	data := fmt.Sprintf("%s|%s|%d|%d", runID, symbol, timestampMs, sequence)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
