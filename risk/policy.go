package risk

import "math"

// Sizing records which rule sized a position.
type Sizing uint8

const (
	SizingFixedFractional Sizing = iota
	SizingKelly
	SizingAllIn
)

func (s Sizing) String() string {
	switch s {
	case SizingKelly:
		return "kelly"
	case SizingAllIn:
		return "all-in"
	default:
		return "fixed-fractional"
	}
}

func (s Sizing) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Policy applies a Config's sizing, stop and validation rules. It holds no
// run state and is safe to share.
type Policy struct {
	cfg   Config
	costs CostModel
}

func NewPolicy(cfg Config) Policy {
	return Policy{cfg: cfg, costs: NewCostModel(cfg)}
}

func (p Policy) Config() Config       { return p.cfg }
func (p Policy) CostModel() CostModel { return p.costs }

// SizePosition returns the number of whole shares to buy. Kelly sizing is
// used only when useKelly is set and h holds at least MinTradesForKelly round
// trips; otherwise the fixed-fractional rule applies.
func (p Policy) SizePosition(capital, price, stopLossPct float64, h History, useKelly bool) (int64, Sizing) {
	if useKelly && len(h) >= MinTradesForKelly {
		return p.KellyShares(capital, price, h.Inputs()), SizingKelly
	}
	return p.FixedFractionalShares(capital, price, stopLossPct), SizingFixedFractional
}

// FixedFractionalShares sizes so that a stop-out loses at most
// MaxRiskPerTrade of capital, capped at MaxPositionPct of capital. Positions
// worth less than MinPositionValue size to 0.
func (p Policy) FixedFractionalShares(capital, price, stopLossPct float64) int64 {
	if capital <= 0 || price <= 0 || stopLossPct <= 0 {
		return 0
	}

	riskValue := capital * p.cfg.MaxRiskPerTrade / stopLossPct
	capValue := capital * p.cfg.MaxPositionPct
	value := math.Min(riskValue, capValue)

	return p.sharesFor(value, price)
}

// KellyShares commits the half-Kelly fraction of capital, capped at
// MaxPositionPct, with the same minimum-value rule.
func (p Policy) KellyShares(capital, price float64, in KellyInputs) int64 {
	if capital <= 0 || price <= 0 {
		return 0
	}
	f := KellyFraction(in, p.cfg.MaxPositionPct)
	return p.sharesFor(capital*f, price)
}

// MaxAffordableShares is the largest buy whose BuyDebit fits in cash. The
// estimate from the per-share cost is corrected against BuyDebit itself so
// the result never fails to open for want of a rounding error.
func (p Policy) MaxAffordableShares(cash, price float64) int64 {
	if cash <= 0 || price <= 0 {
		return 0
	}
	perShare := price * (1 + p.costs.CommissionRate + p.costs.SlippageRate)
	n := int64(math.Floor(cash / perShare))
	for n > 0 && p.debit(price, n) > cash {
		n--
	}
	for p.debit(price, n+1) <= cash {
		n++
	}
	return max(n, 0)
}

func (p Policy) debit(price float64, n int64) float64 {
	d, _ := p.costs.BuyDebit(price, n)
	return d
}

// StopLoss returns the stop for a new long entry under the configured mode.
// ATR stops need a ready ATR; when atr is not positive, or the ATR distance
// would put the stop at or below zero, the fixed-percent stop is used.
func (p Policy) StopLoss(entry, atr float64) float64 {
	if p.cfg.StopMode == StopATR && atr > 0 {
		if stop := StopLossATR(entry, Buy, atr, p.cfg.ATRMultiplier); stop > 0 {
			return stop
		}
	}
	return StopLossPrice(entry, Buy, p.cfg.StopLossPct)
}

// StopDistancePct is the fraction of entry lost if stop is hit. Sizing uses
// it so an ATR stop and the fixed-fractional risk budget agree.
func StopDistancePct(entry, stop float64) float64 {
	if entry <= 0 {
		return 0
	}
	return (entry - stop) / entry
}

// shareTolerance absorbs float error in value/price so an exact fraction
// such as 0.2*10000/100 is not floored one share short.
const shareTolerance = 1e-9

func (p Policy) sharesFor(value, price float64) int64 {
	if value < p.cfg.MinPositionValue {
		return 0
	}
	q := value / price
	if r := math.Round(q); r > q && r-q <= shareTolerance*r {
		return int64(r)
	}
	return int64(math.Floor(q))
}
