package risk

import "fmt"

// Holdings is the read-only view of a portfolio that trade validation needs.
type Holdings interface {
	Cash() float64
	Shares(symbol string) int64
	PositionValue(symbol string) float64
	InvestedValue() float64
	TotalValue() float64
}

type Violation struct {
	Code string
	Msg  string
}

// Decision is the outcome of validating one trade. A rejected decision
// carries the violation that stopped it.
type Decision struct {
	Allowed    bool
	Violations []Violation
}

// Reason returns the first violation message, or "" when allowed.
func (d Decision) Reason() string {
	if len(d.Violations) == 0 {
		return ""
	}
	return d.Violations[0].Msg
}

func reject(code, msg string) Decision {
	return Decision{Violations: []Violation{{Code: code, Msg: msg}}}
}

// ValidateTrade checks a proposed trade against the portfolio and the
// configured limits. It never mutates h. Checks run in a fixed order and
// the first failure is returned.
func (p Policy) ValidateTrade(h Holdings, symbol string, qty int64, price float64, side Side) Decision {
	if qty <= 0 {
		return reject("NON_POSITIVE_QTY", "quantity must be positive")
	}
	if price <= 0 {
		return reject("NON_POSITIVE_PRICE", "price must be positive")
	}
	if side != Buy && side != Sell {
		return reject("INVALID_SIDE", fmt.Sprintf("invalid side: %d", side))
	}

	value := float64(qty) * price
	if value < p.cfg.MinPositionValue {
		return reject("BELOW_MIN_VALUE",
			fmt.Sprintf("trade value $%.2f below minimum $%.2f", value, p.cfg.MinPositionValue))
	}

	if side == Sell {
		held := h.Shares(symbol)
		if qty > held {
			return reject("INSUFFICIENT_SHARES",
				fmt.Sprintf("insufficient shares: trying to sell %d, have %d", qty, held))
		}
		return Decision{Allowed: true}
	}

	costs := p.costs.Apply(price, qty, Buy)
	required := value + costs.TotalCost
	if required > h.Cash() {
		return reject("INSUFFICIENT_CASH",
			fmt.Sprintf("insufficient cash: need $%.2f, have $%.2f", required, h.Cash()))
	}

	total := h.TotalValue()
	if total > 0 {
		pct := (h.PositionValue(symbol) + value) / total
		if pct > p.cfg.MaxPositionPct {
			return reject("MAX_POSITION",
				fmt.Sprintf("position would exceed max size: %.1f%% > %.1f%%", pct*100, p.cfg.MaxPositionPct*100))
		}

		lev := (h.InvestedValue() + value) / total
		if lev > p.cfg.MaxLeverage {
			return reject("MAX_LEVERAGE",
				fmt.Sprintf("would exceed max leverage: %.2fx > %.2fx", lev, p.cfg.MaxLeverage))
		}
	}

	return Decision{Allowed: true}
}
