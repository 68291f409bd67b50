// Package main runs a strategy sweep: a grid of strategy ideas
// evaluated over one candle set, ranked and reported.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"backtest-lab/internal/candles"
	"backtest-lab/internal/domain"
	"backtest-lab/internal/observability"
	"backtest-lab/internal/orchestrator"
	"backtest-lab/internal/reporting"
	"backtest-lab/internal/storage"
	chstore "backtest-lab/internal/storage/clickhouse"
	"backtest-lab/internal/storage/memory"
	"backtest-lab/internal/storage/migrations"
	pgstore "backtest-lab/internal/storage/postgres"
)

func main() {
	// Parse flags
	symbol := flag.String("symbol", "SOL", "Symbol to sweep")
	scenarioName := flag.String("scenario", "realistic", "Scenario: optimistic, realistic, pessimistic")
	seed := flag.Int64("seed", 42, "RNG seed shared by every run")
	workers := flag.Int("workers", 4, "Concurrent backtest runs")

	// Candle source
	candlesCSV := flag.String("candles-csv", "", "CSV file with candles")
	synthetic := flag.String("synthetic", "random", "Synthetic series when no CSV: trend, flat, random")
	bars := flag.Int("bars", 500, "Number of synthetic bars")

	// Storage
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string for results and trades")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string for equity curves")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage")
	persist := flag.Bool("persist", false, "Persist results, trades and equity curves")

	// Output
	reportFormat := flag.String("report", "markdown", "Report format: markdown, csv, none")
	metricsAddr := flag.String("metrics-addr", "", "Address for the Prometheus /metrics endpoint, empty disables")
	verbose := flag.Bool("verbose", false, "Verbose output")

	flag.Parse()

	logger := log.New(os.Stderr, "[sweep] ", log.LstdFlags)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, cancelling sweep...", sig)
		cancel()
	}()

	// Metrics endpoint
	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", observability.Handler())
		go func() {
			logger.Printf("Serving metrics on %s/metrics", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				logger.Printf("metrics server: %v", err)
			}
		}()
	}

	// Load candles
	series, err := loadCandles(*candlesCSV, *synthetic, *symbol, *bars, *seed)
	if err != nil {
		logger.Fatalf("load candles: %v", err)
	}
	logger.Printf("Loaded %d candles for %s", len(series), *symbol)

	// Build config
	cfg := scenarioConfig(*scenarioName)
	if cfg == nil {
		logger.Fatalf("Invalid scenario: %s", *scenarioName)
	}
	cfg.Seed = *seed

	// Create stores
	var resultStore storage.BacktestResultStore
	var tradeStore storage.TradeStore
	var equityStore storage.EquityCurveStore

	if *persist {
		if *useMemory {
			resultStore = memory.NewBacktestResultStore()
			tradeStore = memory.NewTradeStore()
			equityStore = memory.NewEquityCurveStore()
		} else {
			if *postgresDSN == "" {
				logger.Fatal("--postgres-dsn is required with --persist (results and trades)")
			}

			pool, err := pgstore.NewPool(ctx, *postgresDSN)
			if err != nil {
				logger.Fatalf("connect to postgres: %v", err)
			}
			defer pool.Close()

			if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
				logger.Fatalf("postgres migrations: %v", err)
			}

			resultStore = pgstore.NewBacktestResultStore(pool)
			tradeStore = pgstore.NewTradeStore(pool)

			if *clickhouseDSN != "" {
				conn, err := migrations.RunClickhouseMigrations(ctx, *clickhouseDSN)
				if err != nil {
					logger.Fatalf("clickhouse migrations: %v", err)
				}
				defer conn.Close()

				equityStore = chstore.NewEquityCurveStore(conn)

				// Archive the candle set next to the equity curves so a
				// stored run can be re-read against its inputs.
				candleStore := chstore.NewCandleStore(conn)
				if err := candleStore.InsertBulk(ctx, series); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
					logger.Fatalf("archive candles: %v", err)
				}
			}
		}
	}

	// Run sweep
	orch := orchestrator.New(orchestrator.Options{
		Config:      *cfg,
		ResultStore: resultStore,
		TradeStore:  tradeStore,
		EquityStore: equityStore,
		Workers:     *workers,
		Verbose:     *verbose,
	})

	started := time.Now()
	sweep, err := orch.Run(ctx, ideaGrid(*symbol), series)
	if err != nil {
		logger.Fatalf("sweep failed: %v", err)
	}
	logger.Printf("Sweep finished in %v: %d results, %d errors",
		time.Since(started).Round(time.Millisecond), len(sweep.Results), len(sweep.Errors))
	for _, e := range sweep.Errors {
		logger.Printf("  error: %s", e)
	}

	// Report
	switch strings.ToLower(*reportFormat) {
	case "markdown":
		fmt.Print(reporting.RenderMarkdown(reporting.NewReport(sweep.Results)))
	case "csv":
		fmt.Print(reporting.RenderResultsCSV(sweep.Results))
	case "none":
	default:
		logger.Fatalf("Invalid report format: %s", *reportFormat)
	}
}

// ideaGrid enumerates the fixed strategy grid of a sweep: trend
// crossovers at several speeds, mean reversion at two band widths, and
// the momentum fallback.
func ideaGrid(symbol string) []*domain.StrategyIdea {
	var ideas []*domain.StrategyIdea

	for _, p := range [][2]float64{{5, 20}, {10, 30}, {20, 50}, {50, 200}} {
		ideas = append(ideas, &domain.StrategyIdea{
			ID:      fmt.Sprintf("trend-%.0f-%.0f", p[0], p[1]),
			Type:    domain.StrategyTypeTrendFollowing,
			Symbols: []string{symbol},
			Parameters: map[string]float64{
				"fastPeriod": p[0],
				"slowPeriod": p[1],
			},
		})
	}

	for _, stddev := range []float64{2, 2.5} {
		ideas = append(ideas, &domain.StrategyIdea{
			ID:      fmt.Sprintf("meanrev-%.1f", stddev),
			Type:    domain.StrategyTypeMeanReversion,
			Symbols: []string{symbol},
			Parameters: map[string]float64{
				"rsiPeriod": 14,
				"bbPeriod":  20,
				"bbStdDev":  stddev,
			},
		})
	}

	ideas = append(ideas, &domain.StrategyIdea{
		ID:      "momentum-14",
		Type:    domain.StrategyTypeAIPrediction,
		Symbols: []string{symbol},
		Parameters: map[string]float64{
			"rsiPeriod": 14,
		},
	})

	return ideas
}

// loadCandles reads candles from a CSV file or generates a synthetic
// series.
func loadCandles(csvPath, synthetic, symbol string, bars int, seed int64) ([]domain.Candle, error) {
	if csvPath != "" {
		return candles.LoadCSV(csvPath, symbol)
	}

	startMs := time.Now().Add(-time.Duration(bars) * time.Minute).UnixMilli()
	switch strings.ToLower(synthetic) {
	case "trend":
		return candles.Trend(symbol, bars, bars/2, 1, startMs), nil
	case "flat":
		return candles.Flat(symbol, bars, 100, startMs), nil
	case "random":
		return candles.RandomWalk(symbol, bars, 2, seed, startMs), nil
	default:
		return nil, fmt.Errorf("unknown synthetic series %q", synthetic)
	}
}

// scenarioConfig returns the predefined scenario config by name.
func scenarioConfig(name string) *domain.SimConfig {
	switch strings.ToLower(name) {
	case "optimistic":
		cfg := domain.SimConfigOptimistic
		return &cfg
	case "realistic":
		cfg := domain.SimConfigRealistic
		return &cfg
	case "pessimistic":
		cfg := domain.SimConfigPessimistic
		return &cfg
	default:
		return nil
	}
}
