package ledger

import (
	"math"
	"testing"

	"backtest-lab/internal/domain"
)

func fillAt(side string, qty, price, commission float64) domain.SimulatedFill {
	return domain.SimulatedFill{
		FillID:     "f",
		OrderID:    "o",
		Symbol:     "BTC-PERP",
		Side:       side,
		Quantity:   qty,
		Price:      price,
		Commission: commission,
	}
}

func TestApply_OpenLong(t *testing.T) {
	l := New(10000)
	app := l.Apply(fillAt(domain.SideBuy, 2, 100, 0.1))

	if app.RealizedPnL != 0 {
		t.Errorf("pure entry realizes nothing, got %f", app.RealizedPnL)
	}
	if app.EntryExit != domain.TradeEntry {
		t.Errorf("expected ENTRY, got %s", app.EntryExit)
	}

	pos := l.Position()
	if pos.Quantity != 2 || pos.AvgPrice != 100 || pos.Side != domain.PositionLong {
		t.Errorf("unexpected position after open: %+v", pos)
	}
	if l.Capital() != 10000-0.1 {
		t.Errorf("capital must drop by commission only, got %f", l.Capital())
	}
}

func TestApply_WeightedAverageAdd(t *testing.T) {
	l := New(10000)
	l.Apply(fillAt(domain.SideBuy, 2, 100, 0))
	l.Apply(fillAt(domain.SideBuy, 2, 110, 0))

	pos := l.Position()
	if pos.Quantity != 4 {
		t.Errorf("expected quantity 4, got %f", pos.Quantity)
	}
	if math.Abs(pos.AvgPrice-105) > 1e-9 {
		t.Errorf("expected weighted average 105, got %f", pos.AvgPrice)
	}
}

func TestApply_ReduceRealizesOverlapOnly(t *testing.T) {
	l := New(10000)
	l.Apply(fillAt(domain.SideBuy, 4, 100, 0))
	app := l.Apply(fillAt(domain.SideSell, 1, 110, 0))

	if app.EntryExit != domain.TradeExit {
		t.Errorf("reduce must be EXIT, got %s", app.EntryExit)
	}
	if math.Abs(app.RealizedPnL-10) > 1e-9 {
		t.Errorf("expected realized 10 on 1 unit, got %f", app.RealizedPnL)
	}

	pos := l.Position()
	if pos.Quantity != 3 {
		t.Errorf("expected residual quantity 3, got %f", pos.Quantity)
	}
	if pos.AvgPrice != 100 {
		t.Errorf("partial reduce must not move the average, got %f", pos.AvgPrice)
	}
	if l.Capital() != 10010 {
		t.Errorf("capital must absorb realized pnl, got %f", l.Capital())
	}
}

func TestApply_ExactFlatten(t *testing.T) {
	l := New(10000)
	l.Apply(fillAt(domain.SideBuy, 3, 100, 0))
	app := l.Apply(fillAt(domain.SideSell, 3, 90, 0))

	if math.Abs(app.RealizedPnL-(-30)) > 1e-9 {
		t.Errorf("expected realized -30, got %f", app.RealizedPnL)
	}

	pos := l.Position()
	if !pos.IsFlat() {
		t.Errorf("position must be flat after exact close, got %f", pos.Quantity)
	}
	if pos.AvgPrice != 0 {
		t.Errorf("flat position carries no average price, got %f", pos.AvgPrice)
	}
}

func TestApply_FlipResetsAverageToFillPrice(t *testing.T) {
	l := New(10000)
	l.Apply(fillAt(domain.SideBuy, 2, 100, 0))
	app := l.Apply(fillAt(domain.SideSell, 5, 120, 0))

	// Realized on the 2-unit overlap only
	if math.Abs(app.RealizedPnL-40) > 1e-9 {
		t.Errorf("expected realized 40, got %f", app.RealizedPnL)
	}

	pos := l.Position()
	if pos.Quantity != -3 {
		t.Errorf("expected short 3 after flip, got %f", pos.Quantity)
	}
	if pos.AvgPrice != 120 {
		t.Errorf("flip must reset average to the flipping fill's price, got %f", pos.AvgPrice)
	}
	if pos.Side != domain.PositionShort {
		t.Errorf("side must match sign after flip, got %s", pos.Side)
	}
}

func TestApply_ShortSideRealization(t *testing.T) {
	l := New(10000)
	l.Apply(fillAt(domain.SideSell, 2, 100, 0))
	app := l.Apply(fillAt(domain.SideBuy, 2, 90, 0))

	// Short from 100 covered at 90: (90-100) * (-1) * 2 = +20
	if math.Abs(app.RealizedPnL-20) > 1e-9 {
		t.Errorf("expected realized +20 on short cover, got %f", app.RealizedPnL)
	}
	if !l.Position().IsFlat() {
		t.Errorf("expected flat after cover")
	}
}

func TestCapital_ConservationAcrossSequence(t *testing.T) {
	l := New(10000)

	fills := []domain.SimulatedFill{
		fillAt(domain.SideBuy, 2, 100, 0.2),
		fillAt(domain.SideBuy, 1, 102, 0.1),
		fillAt(domain.SideSell, 3, 105, 0.3),
		fillAt(domain.SideSell, 2, 105, 0.2),
		fillAt(domain.SideBuy, 2, 101, 0.2),
	}

	var realized, fees float64
	for _, f := range fills {
		app := l.Apply(f)
		realized += app.RealizedPnL
		fees += f.Commission
	}

	want := 10000 + realized - fees
	if math.Abs(l.Capital()-want) > 1e-9 {
		t.Errorf("capital %f must equal initial + realized - fees = %f", l.Capital(), want)
	}
	if !l.Position().IsFlat() {
		t.Errorf("sequence should end flat, got %f", l.Position().Quantity)
	}
}

func TestPositionSideInvariant(t *testing.T) {
	l := New(10000)

	steps := []domain.SimulatedFill{
		fillAt(domain.SideBuy, 1, 100, 0),
		fillAt(domain.SideSell, 2, 100, 0),
		fillAt(domain.SideBuy, 1, 100, 0),
		fillAt(domain.SideBuy, 3, 100, 0),
	}
	for i, f := range steps {
		l.Apply(f)
		pos := l.Position()
		if pos.Quantity > 0 && pos.Side != domain.PositionLong {
			t.Errorf("step %d: long quantity with side %s", i, pos.Side)
		}
		if pos.Quantity < 0 && pos.Side != domain.PositionShort {
			t.Errorf("step %d: short quantity with side %s", i, pos.Side)
		}
	}
}
