// Package signal turns indicator series into categorical buy/sell
// signals per strategy archetype. Generators are pure functions of the
// closing-price series: no I/O, total determinism given identical input.
package signal

import (
	"fmt"

	"backtest-lab/internal/domain"
	"backtest-lab/internal/indicator"
)

// minWarmup is the floor on the warm-up index for every archetype.
// No signal fires before max(minWarmup, relevant indicator periods).
const minWarmup = 50

// Generator produces buy/sell signal arrays aligned with the input
// closing-price series. Both arrays are always false before the
// generator's warm-up index.
type Generator interface {
	// Signals returns parallel buy/sell arrays, same length as closes.
	Signals(closes []float64) (buy, sell []bool)

	// ID returns the generator identifier including parameters.
	ID() string
}

// FromIdea resolves a strategy idea into a typed generator once at run
// start, sanitizing parameters to numerically safe ranges. Unknown
// strategy types (including AI_PREDICTION) fall back to RSI momentum.
func FromIdea(idea *domain.StrategyIdea) Generator {
	switch idea.Type {
	case domain.StrategyTypeTrendFollowing:
		fast, slow := sanitizeSMAPair(
			int(idea.Param("fastPeriod", 10)),
			int(idea.Param("slowPeriod", 30)),
		)
		return &TrendFollowing{Fast: fast, Slow: slow}

	case domain.StrategyTypeMeanReversion:
		oversold, overbought := sanitizeThresholds(
			idea.Param("oversold", 30),
			idea.Param("overbought", 70),
		)
		return &MeanReversion{
			RSIPeriod:  clampInt(int(idea.Param("rsiPeriod", 14)), minRSIPeriod, maxRSIPeriod),
			Oversold:   oversold,
			Overbought: overbought,
			BBPeriod:   clampInt(int(idea.Param("bbPeriod", 20)), minBBPeriod, maxBBPeriod),
			BBStdDev:   clampFloat(idea.Param("bbStdDev", 2), 0.5, 4),
		}

	default:
		oversold, overbought := sanitizeThresholds(
			idea.Param("oversold", 30),
			idea.Param("overbought", 70),
		)
		return &Momentum{
			RSIPeriod:  clampInt(int(idea.Param("rsiPeriod", 14)), minRSIPeriod, maxRSIPeriod),
			Oversold:   oversold,
			Overbought: overbought,
		}
	}
}

// TrendFollowing signals on fast/slow SMA crossovers. A crossing is
// detected by comparing the previous bar (<=/>=) with the current bar
// (strict), so mere ordering without a transition never fires.
type TrendFollowing struct {
	Fast int
	Slow int
}

// ID returns the generator identifier including parameters.
func (g *TrendFollowing) ID() string {
	return fmt.Sprintf("TREND_FOLLOWING_%d_%d", g.Fast, g.Slow)
}

// Signals implements Generator.
func (g *TrendFollowing) Signals(closes []float64) (buy, sell []bool) {
	n := len(closes)
	buy = make([]bool, n)
	sell = make([]bool, n)

	fast := indicator.SMA(closes, g.Fast)
	slow := indicator.SMA(closes, g.Slow)

	warmup := g.Slow
	if warmup < minWarmup {
		warmup = minWarmup
	}

	for i := warmup; i < n; i++ {
		if fast[i-1] <= slow[i-1] && fast[i] > slow[i] {
			buy[i] = true
		}
		if fast[i-1] >= slow[i-1] && fast[i] < slow[i] {
			sell[i] = true
		}
	}
	return buy, sell
}

// MeanReversion signals when price pierces a Bollinger band AND RSI
// confirms the extreme. Both conditions must hold on the same bar.
type MeanReversion struct {
	RSIPeriod  int
	Oversold   float64
	Overbought float64
	BBPeriod   int
	BBStdDev   float64
}

// ID returns the generator identifier including parameters.
func (g *MeanReversion) ID() string {
	return fmt.Sprintf("MEAN_REVERSION_%d_%.0f_%.0f_%d", g.RSIPeriod, g.Oversold, g.Overbought, g.BBPeriod)
}

// Signals implements Generator.
func (g *MeanReversion) Signals(closes []float64) (buy, sell []bool) {
	n := len(closes)
	buy = make([]bool, n)
	sell = make([]bool, n)

	rsi := indicator.RSI(closes, g.RSIPeriod)
	bands := indicator.Bollinger(closes, g.BBPeriod, g.BBStdDev)

	warmup := g.RSIPeriod
	if g.BBPeriod > warmup {
		warmup = g.BBPeriod
	}
	if warmup < minWarmup {
		warmup = minWarmup
	}

	for i := warmup; i < n; i++ {
		if closes[i] < bands.Lower[i] && rsi[i] < g.Oversold {
			buy[i] = true
		}
		if closes[i] > bands.Upper[i] && rsi[i] > g.Overbought {
			sell[i] = true
		}
	}
	return buy, sell
}

// Momentum signals on plain RSI thresholds, independently per bar.
// This is the fallback archetype for unknown strategy types.
type Momentum struct {
	RSIPeriod  int
	Oversold   float64
	Overbought float64
}

// ID returns the generator identifier including parameters.
func (g *Momentum) ID() string {
	return fmt.Sprintf("MOMENTUM_%d_%.0f_%.0f", g.RSIPeriod, g.Oversold, g.Overbought)
}

// Signals implements Generator.
func (g *Momentum) Signals(closes []float64) (buy, sell []bool) {
	n := len(closes)
	buy = make([]bool, n)
	sell = make([]bool, n)

	rsi := indicator.RSI(closes, g.RSIPeriod)

	warmup := g.RSIPeriod
	if warmup < minWarmup {
		warmup = minWarmup
	}

	for i := warmup; i < n; i++ {
		if rsi[i] < g.Oversold {
			buy[i] = true
		}
		if rsi[i] > g.Overbought {
			sell[i] = true
		}
	}
	return buy, sell
}

// Compile-time interface checks.
var (
	_ Generator = (*TrendFollowing)(nil)
	_ Generator = (*MeanReversion)(nil)
	_ Generator = (*Momentum)(nil)
)
