package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCostModelApply(t *testing.T) {
	t.Parallel()

	m := CostModel{CommissionRate: 0.001, SlippageRate: 0.0005}

	tests := []struct {
		name string
		side Side
		qty  int64
		want Costs
	}{
		{"buy", Buy, 100, Costs{Commission: 15, Slippage: 7.5, TotalCost: 22.5, EffectivePrice: 150.075}},
		{"sell", Sell, 100, Costs{Commission: 15, Slippage: 7.5, TotalCost: 22.5, EffectivePrice: 149.925}},
		{"zero quantity", Buy, 0, Costs{EffectivePrice: 150}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := m.Apply(150, tt.qty, tt.side)
			assert.InDelta(t, tt.want.Commission, got.Commission, 1e-9)
			assert.InDelta(t, tt.want.Slippage, got.Slippage, 1e-9)
			assert.InDelta(t, tt.want.TotalCost, got.TotalCost, 1e-9)
			assert.InDelta(t, tt.want.EffectivePrice, got.EffectivePrice, 1e-9)
		})
	}
}

func TestRoundTripCostInvariant(t *testing.T) {
	t.Parallel()

	for _, c := range []struct{ comm, slip, price float64 }{
		{0.001, 0.0005, 100},
		{0, 0, 42},
		{0.0025, 0.001, 17.35},
	} {
		m := CostModel{CommissionRate: c.comm, SlippageRate: c.slip}
		const qty = 37

		debit, _ := m.BuyDebit(c.price, qty)
		proceeds, _ := m.SellProceeds(c.price, qty)

		want := -2 * (c.comm + c.slip) * qty * c.price
		assert.InDelta(t, want, proceeds-debit, 1e-9)
	}
}

func TestBuyDebitMatchesEffectivePrice(t *testing.T) {
	t.Parallel()

	m := CostModel{CommissionRate: 0.001, SlippageRate: 0.0005}
	debit, c := m.BuyDebit(100, 20)
	assert.InDelta(t, 20*c.EffectivePrice+c.Commission, debit, 1e-9)
	assert.InDelta(t, 2003.0, debit, 1e-9)

	proceeds, c := m.SellProceeds(110, 20)
	assert.InDelta(t, 20*c.EffectivePrice-c.Commission, proceeds, 1e-9)
	assert.InDelta(t, 2196.7, proceeds, 1e-9)
}
