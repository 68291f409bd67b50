package domain

// Position is the running exposure for one symbol.
// Quantity is signed: positive long, negative short, zero flat.
// Side mirrors the quantity sign; when flat it retains its last value
// (LONG by convention at start) and carries no meaning.
type Position struct {
	Quantity float64
	AvgPrice float64
	Side     string // PositionLong | PositionShort
}

// Position side constants.
const (
	PositionLong  = "LONG"
	PositionShort = "SHORT"
)

// IsFlat reports whether the position carries no exposure.
func (p Position) IsFlat() bool {
	return p.Quantity == 0
}
