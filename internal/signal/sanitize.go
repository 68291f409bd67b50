package signal

// Parameter bounds. Values outside these ranges are clamped, never
// rejected: strategy ideas come from an external generator and the
// engine prefers a degraded-but-valid run over a hard failure.
const (
	minRSIPeriod = 5
	maxRSIPeriod = 40

	minSMAPeriod = 2
	maxSMAPeriod = 200

	minBBPeriod = 5
	maxBBPeriod = 100

	minThresholdGap = 5 // minimum oversold/overbought separation
)

// clampInt bounds v to [lo, hi].
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampFloat bounds v to [lo, hi].
func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// sanitizeSMAPair clamps both periods and enforces fast < slow by
// bumping the slow period above the fast one. When fast already sits at
// the cap, fast is pulled down instead so both stay within bounds.
func sanitizeSMAPair(fast, slow int) (int, int) {
	fast = clampInt(fast, minSMAPeriod, maxSMAPeriod)
	slow = clampInt(slow, minSMAPeriod, maxSMAPeriod)
	if slow <= fast {
		if fast == maxSMAPeriod {
			fast = maxSMAPeriod - 1
		}
		slow = fast + 1
	}
	return fast, slow
}

// sanitizeThresholds clamps both RSI thresholds to [0,100] and enforces
// oversold < overbought by pulling oversold down.
func sanitizeThresholds(oversold, overbought float64) (float64, float64) {
	oversold = clampFloat(oversold, 0, 100)
	overbought = clampFloat(overbought, 0, 100)
	if oversold >= overbought {
		oversold = overbought - minThresholdGap
		if oversold < 0 {
			oversold = 0
		}
	}
	return oversold, overbought
}
