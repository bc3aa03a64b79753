package backtest

import "math"

// TradingDaysPerYear annualizes the per-step Sharpe ratio.
const TradingDaysPerYear = 252

// Returns are the simple step-over-step returns of an equity curve. A step
// whose previous value is not positive contributes a 0 return.
func Returns(equity []float64) []float64 {
	if len(equity) < 2 {
		return nil
	}
	out := make([]float64, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		prev := equity[i-1]
		if prev <= 0 {
			continue
		}
		out[i-1] = (equity[i] - prev) / prev
	}
	return out
}

// Sharpe is the annualized mean over population standard deviation of
// returns, with a zero risk-free rate. It is 0 when there are no returns or
// they do not vary.
func Sharpe(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	std := math.Sqrt(variance / float64(len(returns)))
	if std == 0 {
		return 0
	}
	return mean / std * math.Sqrt(TradingDaysPerYear)
}

// MaxDrawdownPct is the worst decline from a running peak in percent. It is
// 0 or negative, and 0 for curves shorter than two points.
func MaxDrawdownPct(equity []float64) float64 {
	if len(equity) < 2 {
		return 0
	}

	peak := equity[0]
	worst := 0.0
	for _, v := range equity {
		if v > peak {
			peak = v
		}
		if peak <= 0 {
			continue
		}
		if dd := (v - peak) / peak; dd < worst {
			worst = dd
		}
	}
	return worst * 100
}

// WinRatePct pairs the i-th Buy with the i-th exit (Sell or StopLoss) by
// position and counts a pair as a win when the exit proceeds exceed the buy
// cost. An exit without a matching buy, or a final open buy, is ignored.
func WinRatePct(trades []Trade) float64 {
	var buys []Buy
	var exits []Exit
	for _, t := range trades {
		switch v := t.(type) {
		case Buy:
			buys = append(buys, v)
		case Sell:
			exits = append(exits, v.Exit)
		case StopLoss:
			exits = append(exits, v.Exit)
		}
	}

	pairs := min(len(buys), len(exits))
	if pairs == 0 {
		return 0
	}

	wins := 0
	for i := 0; i < pairs; i++ {
		if exits[i].Proceeds > buys[i].Cost {
			wins++
		}
	}
	return float64(wins) / float64(pairs) * 100
}
