package risk

import "math"

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// StopLossPrice returns the fixed-percent stop for an entry: below the entry
// for a long (Buy), above it for a short (Sell).
func StopLossPrice(entry float64, side Side, pct float64) float64 {
	if side == Sell {
		return entry * (1 + pct)
	}
	return entry * (1 - pct)
}

// StopLossATR returns a volatility stop placed atr*multiplier away from the
// entry on the losing side.
func StopLossATR(entry float64, side Side, atr, multiplier float64) float64 {
	dist := atr * multiplier
	if side == Sell {
		return entry + dist
	}
	return entry - dist
}

// RR is the reward-to-risk ratio of a planned trade. It is 0 when the stop is
// on the wrong side of (or at) the entry.
func RR(entry, stop, target float64, side Side) float64 {
	risk := entry - stop
	reward := target - entry
	if side == Sell {
		risk = stop - entry
		reward = entry - target
	}
	if risk <= 0 {
		return 0
	}
	return reward / risk
}

// PlannedRisk is the cash lost if a position of shares entered at entry is
// stopped out at stop.
func PlannedRisk(shares int64, entry, stop float64) float64 {
	return float64(shares) * abs(entry-stop)
}

// RiskPct expresses a planned risk as a fraction of equity.
func RiskPct(plannedRisk, equity float64) float64 {
	if equity <= 0 {
		return math.Inf(1)
	}
	return plannedRisk / equity
}
