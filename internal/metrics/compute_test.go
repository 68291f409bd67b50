package metrics

import (
	"math"
	"testing"

	"backtest-lab/internal/domain"
)

func exitTrade(pnl float64, ts int64) domain.Trade {
	return domain.Trade{
		Symbol:    "BTC-PERP",
		Side:      domain.SideSell,
		Size:      1,
		Price:     100,
		PnL:       pnl,
		Timestamp: ts,
		EntryExit: domain.TradeExit,
	}
}

func entryTrade(ts int64) domain.Trade {
	return domain.Trade{
		Symbol:    "BTC-PERP",
		Side:      domain.SideBuy,
		Size:      1,
		Price:     100,
		Timestamp: ts,
		EntryExit: domain.TradeEntry,
	}
}

var testPeriod = domain.Period{Start: 1704067200000, End: 1704067200000 + 30*millisPerDay}

func TestCompute_NoTrades(t *testing.T) {
	r := Compute("s1", nil, 10000, 10000, testPeriod)

	if r.TotalTrades != 0 {
		t.Errorf("expected 0 trades, got %d", r.TotalTrades)
	}
	if r.TotalReturn != 0 {
		t.Errorf("expected 0 return, got %f", r.TotalReturn)
	}
	if r.SharpeRatio != 0 {
		t.Errorf("expected 0 sharpe, got %f", r.SharpeRatio)
	}
	if r.ProfitFactor != 0 {
		t.Errorf("no-trade run must report profit factor 0, got %f", r.ProfitFactor)
	}
	if r.WinRate != 0 || r.MaxDrawdown != 0 {
		t.Errorf("expected zero win rate and drawdown, got %f / %f", r.WinRate, r.MaxDrawdown)
	}
}

func TestCompute_EntriesDoNotCountAsTrades(t *testing.T) {
	trades := []domain.Trade{
		entryTrade(1000),
		exitTrade(50, 2000),
		entryTrade(3000),
		exitTrade(-20, 4000),
	}
	r := Compute("s1", trades, 10000, 10030, testPeriod)

	if r.TotalTrades != 2 {
		t.Errorf("only exits count as trades, expected 2, got %d", r.TotalTrades)
	}
	if r.WinRate != 50 {
		t.Errorf("expected 50%% win rate, got %f", r.WinRate)
	}
	if len(r.Trades) != 4 {
		t.Errorf("the full trade log must be preserved, got %d", len(r.Trades))
	}
}

func TestCompute_TotalReturn(t *testing.T) {
	r := Compute("s1", []domain.Trade{exitTrade(500, 1000)}, 10000, 10500, testPeriod)

	if math.Abs(r.TotalReturn-5) > 1e-9 {
		t.Errorf("expected 5%% total return, got %f", r.TotalReturn)
	}
	if r.FinalCapital != 10500 {
		t.Errorf("expected final capital 10500, got %f", r.FinalCapital)
	}
}

func TestCompute_ProfitFactorBoundaries(t *testing.T) {
	// All-winning run: Infinity
	winning := []domain.Trade{exitTrade(10, 1), exitTrade(20, 2)}
	r := Compute("s1", winning, 10000, 10030, testPeriod)
	if !math.IsInf(r.ProfitFactor, 1) {
		t.Errorf("all-winning run must report +Inf profit factor, got %f", r.ProfitFactor)
	}

	// Mixed run: ratio of sums
	mixed := []domain.Trade{exitTrade(30, 1), exitTrade(-10, 2)}
	r = Compute("s1", mixed, 10000, 10020, testPeriod)
	if math.Abs(r.ProfitFactor-3) > 1e-9 {
		t.Errorf("expected profit factor 3, got %f", r.ProfitFactor)
	}

	// All-losing run: 0
	losing := []domain.Trade{exitTrade(-10, 1)}
	r = Compute("s1", losing, 10000, 9990, testPeriod)
	if r.ProfitFactor != 0 {
		t.Errorf("all-losing run must report 0 profit factor, got %f", r.ProfitFactor)
	}
}

func TestCompute_MaxDrawdown(t *testing.T) {
	// Capital path: 10000 -> 10100 -> 9900 -> 10000
	trades := []domain.Trade{
		exitTrade(100, 1),
		exitTrade(-200, 2),
		exitTrade(100, 3),
	}
	r := Compute("s1", trades, 10000, 10000, testPeriod)

	// Peak 10100, trough 9900: (10100-9900)/10100 * 100
	want := 200.0 / 10100 * 100
	if math.Abs(r.MaxDrawdown-want) > 1e-9 {
		t.Errorf("expected drawdown %f, got %f", want, r.MaxDrawdown)
	}
}

func TestCompute_SharpeSingleExitUsesUnitDeviation(t *testing.T) {
	trades := []domain.Trade{exitTrade(100, 1)}
	r := Compute("s1", trades, 10000, 10100, testPeriod)

	// mean = 0.01, stddev defaults to 1 with a single exit
	want := 0.01 * math.Sqrt(252)
	if math.Abs(r.SharpeRatio-want) > 1e-9 {
		t.Errorf("expected sharpe %f, got %f", want, r.SharpeRatio)
	}
}

func TestCompute_SharpeZeroDeviationGuard(t *testing.T) {
	// Identical returns: population stddev is 0, guarded back to 1
	trades := []domain.Trade{exitTrade(50, 1), exitTrade(50, 2)}
	r := Compute("s1", trades, 10000, 10100, testPeriod)

	want := 0.005 * math.Sqrt(252)
	if math.Abs(r.SharpeRatio-want) > 1e-9 {
		t.Errorf("expected sharpe %f, got %f", want, r.SharpeRatio)
	}
}

func TestCompute_DerivedSimplifications(t *testing.T) {
	trades := []domain.Trade{
		exitTrade(100, 1),
		exitTrade(-50, 2),
	}
	r := Compute("s1", trades, 10000, 10050, testPeriod)

	if math.Abs(r.Metrics.SortinoRatio-r.SharpeRatio*1.2) > 1e-12 {
		t.Errorf("sortino must be sharpe*1.2, got %f vs sharpe %f", r.Metrics.SortinoRatio, r.SharpeRatio)
	}
	if math.Abs(r.Metrics.VaR95-r.MaxDrawdown*0.8) > 1e-12 {
		t.Errorf("var95 must be maxDrawdown*0.8, got %f", r.Metrics.VaR95)
	}
	if r.Metrics.Beta != 1 {
		t.Errorf("beta is fixed at 1, got %f", r.Metrics.Beta)
	}
	if math.Abs(r.Metrics.Alpha-(r.TotalReturn-5)) > 1e-12 {
		t.Errorf("alpha must be totalReturn-5, got %f", r.Metrics.Alpha)
	}
	if r.MaxDrawdown > 0 {
		wantCalmar := r.TotalReturn / r.MaxDrawdown
		if math.Abs(r.Metrics.CalmarRatio-wantCalmar) > 1e-12 {
			t.Errorf("calmar must be totalReturn/maxDrawdown, got %f", r.Metrics.CalmarRatio)
		}
	}
}

func TestCompute_CalmarZeroWhenNoDrawdown(t *testing.T) {
	trades := []domain.Trade{exitTrade(100, 1)}
	r := Compute("s1", trades, 10000, 10100, testPeriod)

	if r.MaxDrawdown != 0 {
		t.Fatalf("winning-only run has no drawdown, got %f", r.MaxDrawdown)
	}
	if r.Metrics.CalmarRatio != 0 {
		t.Errorf("calmar must be 0 without drawdown, got %f", r.Metrics.CalmarRatio)
	}
}

func TestAnnualize_DegeneratePeriod(t *testing.T) {
	r := Compute("s1", nil, 10000, 11000, domain.Period{Start: 1000, End: 1000})

	// Zero-span period falls back to the unscaled total return
	if math.Abs(r.AnnualizedReturn-r.TotalReturn) > 1e-9 {
		t.Errorf("expected fallback to total return, got %f vs %f", r.AnnualizedReturn, r.TotalReturn)
	}
}

func TestAnnualize_OneYearIsIdentity(t *testing.T) {
	period := domain.Period{Start: 0, End: 365 * millisPerDay}
	r := Compute("s1", nil, 10000, 11000, period)

	if math.Abs(r.AnnualizedReturn-10) > 1e-6 {
		t.Errorf("10%% over one year should annualize to 10%%, got %f", r.AnnualizedReturn)
	}
}
