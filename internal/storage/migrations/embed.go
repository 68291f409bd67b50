// Package migrations applies the embedded schema files for both
// backends. Files run in lexical order and are written idempotent, so
// re-applying on every startup is safe.
package migrations

import "embed"

// PostgresFS holds the backtest_results and trades schema.
//
//go:embed postgres/*.sql
var PostgresFS embed.FS

// ClickhouseFS holds the candles and equity_curve schema.
//
//go:embed clickhouse/*.sql
var ClickhouseFS embed.FS
