package indicator

import (
	"math"
	"math/rand"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestSMA_WarmupAndValues(t *testing.T) {
	prices := []float64{1, 2, 3, 4, 5, 6}
	sma := SMA(prices, 3)

	if len(sma) != len(prices) {
		t.Fatalf("expected length %d, got %d", len(prices), len(sma))
	}

	// Before warm-up (index < period-1) values stay at the 0 sentinel
	for i := 0; i < 2; i++ {
		if sma[i] != 0 {
			t.Errorf("index %d: expected 0 before warm-up, got %f", i, sma[i])
		}
	}

	want := []float64{2, 3, 4, 5}
	for i, w := range want {
		if !almostEqual(sma[i+2], w, 1e-9) {
			t.Errorf("index %d: expected %f, got %f", i+2, w, sma[i+2])
		}
	}
}

func TestSMA_DegenerateInputs(t *testing.T) {
	if got := SMA(nil, 5); len(got) != 0 {
		t.Errorf("nil prices: expected empty output, got len %d", len(got))
	}

	prices := []float64{1, 2, 3}
	got := SMA(prices, 0)
	if len(got) != 3 {
		t.Fatalf("expected length 3, got %d", len(got))
	}
	for i, v := range got {
		if v != 0 {
			t.Errorf("index %d: non-positive period must produce all-default array, got %f", i, v)
		}
	}
}

func TestRSI_WarmupNeutral(t *testing.T) {
	// Random-length series: warm-up region must always read 50
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 20; trial++ {
		n := 1 + rng.Intn(100)
		period := 1 + rng.Intn(30)
		prices := make([]float64, n)
		for i := range prices {
			prices[i] = 100 + rng.Float64()*10
		}

		rsi := RSI(prices, period)
		if len(rsi) != n {
			t.Fatalf("expected length %d, got %d", n, len(rsi))
		}
		limit := period
		if limit > n {
			limit = n
		}
		for i := 0; i < limit; i++ {
			if rsi[i] != RSINeutral {
				t.Fatalf("trial %d: index %d expected neutral %f, got %f", trial, i, RSINeutral, rsi[i])
			}
		}
	}
}

func TestRSI_AllGainsIs100(t *testing.T) {
	prices := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	rsi := RSI(prices, 5)

	for i := 5; i < len(prices); i++ {
		if rsi[i] != 100 {
			t.Errorf("index %d: monotonic gains should give RSI 100, got %f", i, rsi[i])
		}
	}
}

func TestRSI_AllLossesNearZero(t *testing.T) {
	prices := []float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}
	rsi := RSI(prices, 5)

	for i := 5; i < len(prices); i++ {
		if rsi[i] != 0 {
			t.Errorf("index %d: monotonic losses should give RSI 0, got %f", i, rsi[i])
		}
	}
}

func TestRSI_WilderSmoothing(t *testing.T) {
	prices := []float64{44.34, 44.09, 44.15, 43.61, 44.33, 44.83, 45.10, 45.42,
		45.84, 46.08, 45.89, 46.03, 45.61, 46.28, 46.28}
	rsi := RSI(prices, 14)

	// Hand-computed Wilder seed over the first 14 deltas
	if !almostEqual(rsi[14], 70.46, 0.5) {
		t.Errorf("expected RSI near 70.46 at index 14, got %f", rsi[14])
	}
}

func TestBollinger_ConstantSeries(t *testing.T) {
	prices := make([]float64, 30)
	for i := range prices {
		prices[i] = 50
	}
	b := Bollinger(prices, 20, 2)

	for i := 19; i < 30; i++ {
		if !almostEqual(b.Middle[i], 50, 1e-9) {
			t.Errorf("index %d: expected middle 50, got %f", i, b.Middle[i])
		}
		// Zero variance: all three bands collapse to the mean
		if !almostEqual(b.Upper[i], 50, 1e-9) || !almostEqual(b.Lower[i], 50, 1e-9) {
			t.Errorf("index %d: expected collapsed bands, got upper=%f lower=%f", i, b.Upper[i], b.Lower[i])
		}
	}
}

func TestBollinger_KnownVariance(t *testing.T) {
	prices := []float64{2, 4, 6, 8}
	b := Bollinger(prices, 4, 2)

	// mean=5, population variance=5, std=sqrt(5)
	std := math.Sqrt(5)
	if !almostEqual(b.Middle[3], 5, 1e-9) {
		t.Errorf("expected middle 5, got %f", b.Middle[3])
	}
	if !almostEqual(b.Upper[3], 5+2*std, 1e-9) {
		t.Errorf("expected upper %f, got %f", 5+2*std, b.Upper[3])
	}
	if !almostEqual(b.Lower[3], 5-2*std, 1e-9) {
		t.Errorf("expected lower %f, got %f", 5-2*std, b.Lower[3])
	}
}

func TestBollinger_MatchesIncrementalVsDirect(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	prices := make([]float64, 200)
	prices[0] = 100
	for i := 1; i < len(prices); i++ {
		prices[i] = prices[i-1] * (1 + (rng.Float64()-0.5)*0.02)
	}

	period := 20
	b := Bollinger(prices, period, 2)

	for i := period - 1; i < len(prices); i += 37 {
		window := prices[i-period+1 : i+1]
		mean := 0.0
		for _, p := range window {
			mean += p
		}
		mean /= float64(period)
		variance := 0.0
		for _, p := range window {
			variance += (p - mean) * (p - mean)
		}
		variance /= float64(period)
		std := math.Sqrt(variance)

		if !almostEqual(b.Middle[i], mean, 1e-6) {
			t.Errorf("index %d: middle mismatch: %f vs %f", i, b.Middle[i], mean)
		}
		if !almostEqual(b.Upper[i], mean+2*std, 1e-6) {
			t.Errorf("index %d: upper mismatch: %f vs %f", i, b.Upper[i], mean+2*std)
		}
	}
}
