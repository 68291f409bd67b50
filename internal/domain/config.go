package domain

// SimConfig holds execution-realism parameters for one backtest run.
// All fields have documented defaults; the zero value is normalized by
// Normalize before use.
type SimConfig struct {
	InitialCapital       float64 // starting capital, default 10000
	CommissionRate       float64 // taker commission fraction, default 0.0005
	MakerDiscount        float64 // fraction knocked off commission for maker fills
	SlippageBps          float64 // average slippage in basis points, default 5
	LimitFillProbability float64 // chance an eligible limit order fills
	BaseLatencyMs        float64 // default 10
	LatencyVarianceMs    float64 // seeded jitter added to base latency
	SizeLatencyFactor    float64 // extra latency ms per unit of quantity
	BookLevels           int     // synthetic ladder depth per side
	BookSpreadBps        float64 // half-spread around close in basis points
	Seed                 int64   // RNG seed; same seed => same fill sequence
}

// Default simulation parameters.
const (
	DefaultInitialCapital       = 10000.0
	DefaultCommissionRate       = 0.0005
	DefaultMakerDiscount        = 0.5
	DefaultSlippageBps          = 5.0
	DefaultLimitFillProbability = 0.7
	DefaultBaseLatencyMs        = 10.0
	DefaultLatencyVarianceMs    = 5.0
	DefaultBookLevels           = 10
	DefaultBookSpreadBps        = 2.0
)

// DefaultSimConfig returns the documented default configuration.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		InitialCapital:       DefaultInitialCapital,
		CommissionRate:       DefaultCommissionRate,
		MakerDiscount:        DefaultMakerDiscount,
		SlippageBps:          DefaultSlippageBps,
		LimitFillProbability: DefaultLimitFillProbability,
		BaseLatencyMs:        DefaultBaseLatencyMs,
		LatencyVarianceMs:    DefaultLatencyVarianceMs,
		SizeLatencyFactor:    0,
		BookLevels:           DefaultBookLevels,
		BookSpreadBps:        DefaultBookSpreadBps,
		Seed:                 1,
	}
}

// Normalize fills unset (zero or negative) fields with defaults.
// Seed is kept as-is: zero is a valid seed.
func (c SimConfig) Normalize() SimConfig {
	if c.InitialCapital <= 0 {
		c.InitialCapital = DefaultInitialCapital
	}
	if c.CommissionRate <= 0 {
		c.CommissionRate = DefaultCommissionRate
	}
	if c.MakerDiscount <= 0 || c.MakerDiscount > 1 {
		c.MakerDiscount = DefaultMakerDiscount
	}
	if c.SlippageBps <= 0 {
		c.SlippageBps = DefaultSlippageBps
	}
	if c.LimitFillProbability <= 0 || c.LimitFillProbability > 1 {
		c.LimitFillProbability = DefaultLimitFillProbability
	}
	if c.BaseLatencyMs <= 0 {
		c.BaseLatencyMs = DefaultBaseLatencyMs
	}
	if c.LatencyVarianceMs < 0 {
		c.LatencyVarianceMs = DefaultLatencyVarianceMs
	}
	if c.SizeLatencyFactor < 0 {
		c.SizeLatencyFactor = 0
	}
	if c.BookLevels <= 0 {
		c.BookLevels = DefaultBookLevels
	}
	if c.BookSpreadBps <= 0 {
		c.BookSpreadBps = DefaultBookSpreadBps
	}
	return c
}

// Predefined execution presets for sweep comparisons.
var (
	SimConfigOptimistic = SimConfig{
		InitialCapital:       DefaultInitialCapital,
		CommissionRate:       0.0002,
		MakerDiscount:        DefaultMakerDiscount,
		SlippageBps:          1,
		LimitFillProbability: 0.9,
		BaseLatencyMs:        5,
		LatencyVarianceMs:    1,
		BookLevels:           DefaultBookLevels,
		BookSpreadBps:        1,
		Seed:                 1,
	}

	SimConfigRealistic = DefaultSimConfig()

	SimConfigPessimistic = SimConfig{
		InitialCapital:       DefaultInitialCapital,
		CommissionRate:       0.001,
		MakerDiscount:        DefaultMakerDiscount,
		SlippageBps:          15,
		LimitFillProbability: 0.4,
		BaseLatencyMs:        50,
		LatencyVarianceMs:    25,
		BookLevels:           DefaultBookLevels,
		BookSpreadBps:        5,
		Seed:                 1,
	}
)
