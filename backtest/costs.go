package backtest

import (
	"github.com/shopspring/decimal"

	"github.com/aqua-quant/aqua/risk"
)

// CostsSummary totals the transaction costs of a run.
type CostsSummary struct {
	TotalCommission float64 `json:"total_commission"`
	TotalSlippage   float64 `json:"total_slippage"`
	TotalCosts      float64 `json:"total_costs"`
	CostsPct        float64 `json:"costs_pct"` // of initial capital
}

// costTally sums per-fill costs in decimal so long runs do not drift.
type costTally struct {
	commission decimal.Decimal
	slippage   decimal.Decimal
}

func (t *costTally) add(c risk.Costs) {
	t.commission = t.commission.Add(decimal.NewFromFloat(c.Commission))
	t.slippage = t.slippage.Add(decimal.NewFromFloat(c.Slippage))
}

func (t costTally) summary(initialCapital float64) CostsSummary {
	total := t.commission.Add(t.slippage)
	s := CostsSummary{
		TotalCommission: t.commission.InexactFloat64(),
		TotalSlippage:   t.slippage.InexactFloat64(),
		TotalCosts:      total.InexactFloat64(),
	}
	if initialCapital > 0 {
		s.CostsPct = total.Div(decimal.NewFromFloat(initialCapital)).
			Mul(decimal.NewFromInt(100)).InexactFloat64()
	}
	return s
}
