package domain

// Order side constants.
const (
	SideBuy  = "BUY"
	SideSell = "SELL"
)

// Order type constants.
const (
	OrderTypeMarket = "MARKET"
	OrderTypeLimit  = "LIMIT"
	OrderTypeStop   = "STOP"
)

// Liquidity side constants for fills.
const (
	LiquidityMaker = "MAKER"
	LiquidityTaker = "TAKER"
)

// SimulatedOrder is one order submitted against the synthetic book.
// Created fresh per simulation step and consumed exactly once by the
// fill model.
type SimulatedOrder struct {
	OrderID     string
	Symbol      string
	Side        string // SideBuy | SideSell
	Type        string // OrderTypeMarket | OrderTypeLimit | OrderTypeStop
	Quantity    float64
	Price       float64 // limit price, 0 for market orders
	StopPrice   float64 // trigger price for stop orders
	TimeInForce string
	Timestamp   int64 // Unix ms, simulation clock at submission
}

// SimulatedFill is one execution resulting from a SimulatedOrder.
// Zero or more fills may result from one order; unfilled limit orders
// produce none.
type SimulatedFill struct {
	FillID        string
	OrderID       string
	Symbol        string
	Side          string
	Quantity      float64
	Price         float64
	Commission    float64
	Timestamp     int64  // Unix ms, includes simulated latency
	LiquiditySide string // LiquidityMaker | LiquidityTaker
	Slippage      float64 // signed price delta vs quoted book price
}
