package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"backtest-lab/internal/candles"
	"backtest-lab/internal/domain"
	"backtest-lab/internal/simulator"
	"backtest-lab/internal/storage"
	"backtest-lab/internal/storage/migrations"
	pgstore "backtest-lab/internal/storage/postgres"
)

func main() {
	// Parse flags
	strategyType := flag.String("strategy", "", "Strategy: TREND_FOLLOWING, MEAN_REVERSION, AI_PREDICTION (required)")
	symbol := flag.String("symbol", "SOL", "Symbol to backtest")
	scenarioName := flag.String("scenario", "realistic", "Scenario: optimistic, realistic, pessimistic")
	seed := flag.Int64("seed", 42, "RNG seed; same seed reproduces the exact fill sequence")

	// Candle source
	candlesCSV := flag.String("candles-csv", "", "CSV file with candles (timestamp,open,high,low,close,volume,vwap)")
	synthetic := flag.String("synthetic", "", "Synthetic series instead of CSV: trend, flat, random")
	bars := flag.Int("bars", 300, "Number of synthetic bars")

	// Strategy parameters
	smaFast := flag.Float64("sma-fast", 10, "Fast SMA period for TREND_FOLLOWING")
	smaSlow := flag.Float64("sma-slow", 30, "Slow SMA period for TREND_FOLLOWING")
	rsiPeriod := flag.Float64("rsi-period", 14, "RSI period")
	oversold := flag.Float64("rsi-oversold", 30, "RSI oversold threshold")
	overbought := flag.Float64("rsi-overbought", 70, "RSI overbought threshold")
	bbPeriod := flag.Float64("bb-period", 20, "Bollinger band period for MEAN_REVERSION")
	bbStdDev := flag.Float64("bb-stddev", 2, "Bollinger band width in standard deviations")

	// Risk parameters
	stopLoss := flag.Float64("stop-loss", 0, "Stop loss fraction, 0 disables")
	takeProfit := flag.Float64("take-profit", 0, "Take profit fraction, 0 disables")
	maxPosition := flag.Float64("max-position", 0.1, "Position size as a fraction of capital")

	// Storage
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string")
	persistResult := flag.Bool("persist", false, "Persist result and trades to storage")

	// Output
	outputJSON := flag.Bool("json", false, "Output as JSON")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stderr, "[backtest] ", log.LstdFlags)

	// Validate required flags
	if *strategyType == "" {
		logger.Fatal("--strategy is required")
	}
	*strategyType = strings.ToUpper(*strategyType)

	if *candlesCSV == "" && *synthetic == "" {
		logger.Fatal("one of --candles-csv or --synthetic is required")
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	// Load candles
	series, err := loadCandles(*candlesCSV, *synthetic, *symbol, *bars, *seed)
	if err != nil {
		logger.Fatalf("load candles: %v", err)
	}
	logger.Printf("Loaded %d candles for %s", len(series), *symbol)

	// Build config and idea
	cfg := getScenarioConfig(*scenarioName)
	if cfg == nil {
		logger.Fatalf("Invalid scenario: %s. Must be optimistic, realistic, or pessimistic", *scenarioName)
	}
	cfg.Seed = *seed

	idea := &domain.StrategyIdea{
		Type:    *strategyType,
		Symbols: []string{*symbol},
		Parameters: map[string]float64{
			"fastPeriod": *smaFast,
			"slowPeriod": *smaSlow,
			"rsiPeriod":  *rsiPeriod,
			"oversold":   *oversold,
			"overbought": *overbought,
			"bbPeriod":   *bbPeriod,
			"bbStdDev":   *bbStdDev,
		},
		Risk: domain.RiskParameters{
			MaxPositionSize: *maxPosition,
			StopLoss:        *stopLoss,
			TakeProfit:      *takeProfit,
		},
	}

	// Run backtest
	logger.Printf("Running backtest: strategy=%s scenario=%s seed=%d",
		*strategyType, *scenarioName, *seed)

	runner := simulator.NewRunner(*cfg)
	result, err := runner.Run(ctx, idea, series)
	if err != nil {
		logger.Fatalf("backtest failed: %v", err)
	}

	// Persist if requested
	if *persistResult {
		if *postgresDSN == "" {
			logger.Fatal("--postgres-dsn is required with --persist")
		}
		if err := persist(ctx, *postgresDSN, result); err != nil {
			logger.Fatalf("persist result: %v", err)
		}
		logger.Printf("Persisted run %s", result.RunID)
	}

	// Output result
	if *outputJSON {
		output, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			logger.Fatalf("marshal result: %v", err)
		}
		fmt.Println(string(output))
	} else {
		printResult(result)
	}
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

// getScenarioConfig returns the predefined scenario config by name.
func getScenarioConfig(name string) *domain.SimConfig {
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

// persist stores the result and its trades in PostgreSQL.
func persist(ctx context.Context, dsn string, result *domain.BacktestResult) error {
	pool, err := pgstore.NewPool(ctx, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		return err
	}

	if err := pgstore.NewBacktestResultStore(pool).Insert(ctx, result); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			return fmt.Errorf("run %s already stored", result.RunID)
		}
		return err
	}
	return pgstore.NewTradeStore(pool).InsertBulk(ctx, result.RunID, result.Trades)
}

// printResult outputs a human-readable result summary.
func printResult(r *domain.BacktestResult) {
	fmt.Println()
	fmt.Println("=== Backtest Result ===")
	fmt.Printf("Run ID:             %s\n", r.RunID)
	fmt.Printf("Strategy:           %s\n", r.StrategyID)
	fmt.Printf("Symbol:             %s\n", r.Symbol)
	fmt.Printf("Period:             %s .. %s\n",
		time.UnixMilli(r.Period.Start).Format(time.RFC3339),
		time.UnixMilli(r.Period.End).Format(time.RFC3339))
	fmt.Println()

	fmt.Println("Capital:")
	fmt.Printf("  Initial:          %.2f\n", r.InitialCapital)
	fmt.Printf("  Final:            %.2f\n", r.FinalCapital)
	fmt.Printf("  Total Return:     %.2f%%\n", r.TotalReturn)
	fmt.Printf("  Annualized:       %.2f%%\n", r.AnnualizedReturn)
	fmt.Println()

	fmt.Println("Risk:")
	fmt.Printf("  Sharpe Ratio:     %.4f\n", r.SharpeRatio)
	fmt.Printf("  Sortino Ratio:    %.4f\n", r.Metrics.SortinoRatio)
	fmt.Printf("  Calmar Ratio:     %.4f\n", r.Metrics.CalmarRatio)
	fmt.Printf("  Max Drawdown:     %.2f%%\n", r.MaxDrawdown)
	fmt.Printf("  VaR 95:           %.4f\n", r.Metrics.VaR95)
	fmt.Println()

	fmt.Println("Trades:")
	fmt.Printf("  Exit Trades:      %d\n", r.TotalTrades)
	fmt.Printf("  Win Rate:         %.2f%%\n", r.WinRate)
	fmt.Printf("  Profit Factor:    %.4f\n", r.ProfitFactor)
	fmt.Printf("  Records:          %d\n", len(r.Trades))
}
