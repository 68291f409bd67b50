package domain

// StrategyIdea describes a candidate trading strategy handed to the engine
// by an external idea source. The engine treats it as read-only and never
// interprets the business meaning of parameter names, only numeric ranges.
type StrategyIdea struct {
	ID         string
	Type       string // strategy type constant below
	Symbols    []string
	Parameters map[string]float64
	Risk       RiskParameters
}

// RiskParameters holds per-strategy risk limits as fractions.
type RiskParameters struct {
	MaxPositionSize float64 // fraction of capital committed per entry
	StopLoss        float64 // fractional loss that force-closes a position
	TakeProfit      float64 // fractional gain that force-closes a position
	MaxLeverage     float64
}

// Strategy type constants. Unknown types fall back to momentum behavior.
const (
	StrategyTypeTrendFollowing = "TREND_FOLLOWING"
	StrategyTypeMeanReversion  = "MEAN_REVERSION"
	StrategyTypeAIPrediction   = "AI_PREDICTION"
)

// Param returns a named parameter or the given default when absent.
func (s *StrategyIdea) Param(name string, def float64) float64 {
	if v, ok := s.Parameters[name]; ok {
		return v
	}
	return def
}

// Symbol returns the first configured symbol, or empty when none.
// Single-symbol runs are the engine's unit of work.
func (s *StrategyIdea) Symbol() string {
	if len(s.Symbols) == 0 {
		return ""
	}
	return s.Symbols[0]
}
