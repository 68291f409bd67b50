package domain

import (
	"encoding/json"
	"math"
)

// Period marks the candle range a result covers.
type Period struct {
	Start int64 // Unix ms, first candle
	End   int64 // Unix ms, last candle
}

// RiskMetrics holds the derived risk-adjusted figures.
// SortinoRatio, VaR95, Beta and Alpha are acknowledged simplifications
// carried over for output compatibility; they are not statistically
// rigorous and must not be "fixed" without breaking consumers.
type RiskMetrics struct {
	CalmarRatio  float64
	SortinoRatio float64
	VaR95        float64
	Beta         float64
	Alpha        float64
}

// EquityPoint is one sample of a run's capital over time.
type EquityPoint struct {
	RunID     string
	Timestamp int64 // Unix ms
	Equity    float64
}

// BacktestResult is the immutable outcome of one backtest run.
// RunID is the deterministic identity of the run and the storage key.
type BacktestResult struct {
	RunID            string
	StrategyID       string
	Symbol           string
	Period           Period
	InitialCapital   float64
	FinalCapital     float64
	TotalReturn      float64 // percent
	AnnualizedReturn float64 // percent
	SharpeRatio      float64
	MaxDrawdown      float64 // percent of peak
	WinRate          float64 // percent of exit trades
	ProfitFactor     float64 // sum of wins / |sum of losses|; +Inf when lossless
	TotalTrades      int     // exit trades only
	Trades           []Trade // all records, append-ordered by timestamp
	Metrics          RiskMetrics
}

// profitFactor encodes the lossless +Inf convention as the string
// "inf", which encoding/json otherwise rejects outright.
type profitFactor float64

func (pf profitFactor) MarshalJSON() ([]byte, error) {
	if math.IsInf(float64(pf), 1) {
		return []byte(`"inf"`), nil
	}
	return json.Marshal(float64(pf))
}

// MarshalJSON keeps a lossless run's result encodable: ProfitFactor is
// the only field that can carry +Inf.
func (r BacktestResult) MarshalJSON() ([]byte, error) {
	type alias BacktestResult
	return json.Marshal(struct {
		alias
		ProfitFactor profitFactor
	}{alias(r), profitFactor(r.ProfitFactor)})
}
