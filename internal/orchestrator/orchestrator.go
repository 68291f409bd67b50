// Package orchestrator coordinates a strategy sweep: it fans a list of
// strategy ideas over a shared candle set, collects the per-run
// results, ranks them and optionally persists everything to stores.
// Parallelism lives here at run granularity; a single run is always
// sequential.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"backtest-lab/internal/domain"
	"backtest-lab/internal/metrics"
	"backtest-lab/internal/observability"
	"backtest-lab/internal/simulator"
	"backtest-lab/internal/storage"
)

// Orchestrator executes strategy sweeps.
type Orchestrator struct {
	runner *simulator.Runner

	// Stores; any of them may be nil to skip persistence of that kind.
	resultStore storage.BacktestResultStore
	tradeStore  storage.TradeStore
	equityStore storage.EquityCurveStore

	workers int
	verbose bool
}

// Options for creating Orchestrator.
type Options struct {
	// Config is the simulation config shared by every run of a sweep.
	Config domain.SimConfig

	// Optional stores. A nil store skips that persistence step.
	ResultStore storage.BacktestResultStore
	TradeStore  storage.TradeStore
	EquityStore storage.EquityCurveStore

	// Workers bounds concurrent runs; values below 1 mean sequential.
	Workers int

	Verbose bool
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	return &Orchestrator{
		runner:      simulator.NewRunner(opts.Config),
		resultStore: opts.ResultStore,
		tradeStore:  opts.TradeStore,
		equityStore: opts.EquityStore,
		workers:     workers,
		verbose:     opts.Verbose,
	}
}

// SweepResult contains results from one sweep execution.
type SweepResult struct {
	// Results ranked by Sharpe ratio, best first.
	Results []*domain.BacktestResult

	// Errors carries per-run failures; a sweep keeps going past them.
	Errors []string
}

// Run executes the full sweep.
// Phases:
//  1. Fan ideas out over the worker pool, one backtest per idea
//  2. Rank results by Sharpe ratio
//  3. Persist results, trades and equity curves
func (o *Orchestrator) Run(ctx context.Context, ideas []*domain.StrategyIdea, candles []domain.Candle) (*SweepResult, error) {
	started := time.Now()
	sweep := &SweepResult{}

	if len(ideas) == 0 {
		return sweep, nil
	}

	// Phase 1: run every idea
	o.log("Phase 1: Running %d ideas over %d candles (%d workers)...", len(ideas), len(candles), o.workers)
	results, runErrs := o.runAll(ctx, ideas, candles)
	sweep.Errors = append(sweep.Errors, runErrs...)
	o.log("  Completed %d runs (%d errors)", len(results), len(runErrs))

	if err := ctx.Err(); err != nil {
		observability.RecordSweep("canceled", time.Since(started).Seconds(), len(ideas))
		return nil, fmt.Errorf("sweep canceled: %w", err)
	}

	// Phase 2: rank by Sharpe, best first
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].SharpeRatio != results[j].SharpeRatio {
			return results[i].SharpeRatio > results[j].SharpeRatio
		}
		return results[i].RunID < results[j].RunID
	})
	sweep.Results = results

	// Phase 3: persistence
	if o.resultStore != nil || o.tradeStore != nil || o.equityStore != nil {
		o.log("Phase 3: Persisting %d results...", len(results))
		persisted, persistErrs := o.persist(ctx, results)
		sweep.Errors = append(sweep.Errors, persistErrs...)
		o.log("  Persisted %d results (%d errors)", persisted, len(persistErrs))
	}

	o.log("Sweep completed: %d ideas, %d results, %d errors",
		len(ideas), len(sweep.Results), len(sweep.Errors))
	observability.RecordSweep("ok", time.Since(started).Seconds(), len(ideas))

	return sweep, nil
}

// runAll executes one backtest per idea on a bounded worker pool.
// Result order follows idea order before ranking, so a sweep is
// deterministic regardless of worker interleaving. Cancellation is
// honored between runs, never inside one.
func (o *Orchestrator) runAll(ctx context.Context, ideas []*domain.StrategyIdea, candles []domain.Candle) ([]*domain.BacktestResult, []string) {
	slots := make([]*domain.BacktestResult, len(ideas))
	errs := make([]string, len(ideas))

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < o.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			observability.DefaultMetrics.ActiveWorkers.Inc()
			defer observability.DefaultMetrics.ActiveWorkers.Dec()

			// Keep draining after cancellation so the producer
			// never blocks on the unbuffered channel.
			for i := range jobs {
				if ctx.Err() != nil {
					continue
				}
				slots[i], errs[i] = o.runOne(ctx, ideas[i], candles)
			}
		}()
	}

	for i := range ideas {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var results []*domain.BacktestResult
	var failures []string
	for i := range slots {
		if errs[i] != "" {
			failures = append(failures, errs[i])
			continue
		}
		if slots[i] != nil {
			results = append(results, slots[i])
		}
	}
	return results, failures
}

// runOne executes a single backtest and records its metrics.
func (o *Orchestrator) runOne(ctx context.Context, idea *domain.StrategyIdea, candles []domain.Candle) (*domain.BacktestResult, string) {
	started := time.Now()

	res, err := o.runner.Run(ctx, idea, candles)
	if err != nil {
		observability.RecordRun("error", time.Since(started).Seconds(), 0)
		return nil, fmt.Sprintf("run %s: %v", idea.ID, err)
	}

	observability.RecordRun("ok", time.Since(started).Seconds(), len(res.Trades))
	return res, ""
}

// persist stores every result, its trades and its equity curve.
// Duplicate key errors are skipped: a re-run of the same sweep over the
// same candles produces identical run IDs.
func (o *Orchestrator) persist(ctx context.Context, results []*domain.BacktestResult) (int, []string) {
	var persisted int
	var errs []string

	for _, res := range results {
		if err := o.persistOne(ctx, res); err != nil {
			if errors.Is(err, storage.ErrDuplicateKey) {
				continue
			}
			errs = append(errs, fmt.Sprintf("persist %s: %v", res.RunID, err))
			continue
		}
		persisted++
	}

	return persisted, errs
}

func (o *Orchestrator) persistOne(ctx context.Context, res *domain.BacktestResult) error {
	if o.resultStore != nil {
		if err := o.resultStore.Insert(ctx, res); err != nil {
			return fmt.Errorf("insert result: %w", err)
		}
	}

	if o.tradeStore != nil && len(res.Trades) > 0 {
		if err := o.tradeStore.InsertBulk(ctx, res.RunID, res.Trades); err != nil {
			return fmt.Errorf("insert trades: %w", err)
		}
	}

	if o.equityStore != nil {
		curve := metrics.EquityCurve(res.RunID, res.Trades, res.InitialCapital, res.Period)
		if err := o.equityStore.InsertBulk(ctx, curve); err != nil {
			return fmt.Errorf("insert equity curve: %w", err)
		}
	}

	return nil
}

func (o *Orchestrator) log(format string, args ...interface{}) {
	if o.verbose {
		log.Printf("[orchestrator] "+format, args...)
	}
}
