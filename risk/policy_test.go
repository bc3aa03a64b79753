package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedFractionalScenario(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.MaxRiskPerTrade = 0.02
	cfg.MaxPositionPct = 0.2
	p := NewPolicy(cfg)

	// risk value 4000, cap 2000 -> 2000 / 100
	shares, method := p.SizePosition(10_000, 100, 0.05, nil, false)
	assert.Equal(t, int64(20), shares)
	assert.Equal(t, SizingFixedFractional, method)
}

func TestFixedFractionalRiskBound(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.MaxRiskPerTrade = 0.01
	cfg.MaxPositionPct = 0.5
	p := NewPolicy(cfg)

	// risk value 10000*0.01/0.1 = 1000 < cap 5000
	assert.Equal(t, int64(10), p.FixedFractionalShares(10_000, 100, 0.1))
}

func TestFixedFractionalNeverExceedsCap(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.MinPositionValue = 0
	for _, maxPos := range []float64{0.05, 0.2, 0.33, 1} {
		cfg.MaxPositionPct = maxPos
		p := NewPolicy(cfg)
		for _, capital := range []float64{500, 9_999.99, 123_456} {
			for _, price := range []float64{0.37, 3, 99.99, 1_234.5} {
				for _, stop := range []float64{0.01, 0.05, 0.5} {
					shares := p.FixedFractionalShares(capital, price, stop)
					assert.LessOrEqual(t, float64(shares)*price, capital*maxPos+1e-9)
					assert.GreaterOrEqual(t, shares, int64(0))
				}
			}
		}
	}
}

func TestFixedFractionalRejects(t *testing.T) {
	t.Parallel()

	p := NewPolicy(DefaultConfig()) // min position value 100

	assert.Equal(t, int64(0), p.FixedFractionalShares(400, 10, 0.05), "cap 80 below min")
	assert.Equal(t, int64(0), p.FixedFractionalShares(0, 10, 0.05))
	assert.Equal(t, int64(0), p.FixedFractionalShares(1000, 0, 0.05))
	assert.Equal(t, int64(0), p.FixedFractionalShares(1000, 10, 0))
}

func TestSizePositionKellySwitch(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.MaxPositionPct = 0.5
	p := NewPolicy(cfg)

	// 6 wins of 100, 3 losses of 50: not enough history yet
	var h History
	for i := 0; i < 6; i++ {
		h = append(h, RoundTrip{PnL: 100})
	}
	for i := 0; i < 3; i++ {
		h = append(h, RoundTrip{PnL: -50})
	}

	_, method := p.SizePosition(10_000, 100, 0.05, h, true)
	assert.Equal(t, SizingFixedFractional, method)

	h = append(h, RoundTrip{PnL: -50}) // 10 trades: p=0.6, b=2
	shares, method := p.SizePosition(10_000, 100, 0.05, h, true)
	assert.Equal(t, SizingKelly, method)
	// raw = (0.6*2 - 0.4)/2 = 0.4, half = 0.2 -> 2000 / 100
	assert.Equal(t, int64(20), shares)

	_, method = p.SizePosition(10_000, 100, 0.05, h, false)
	assert.Equal(t, SizingFixedFractional, method)
}

func TestSharesAbsorbFloatError(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.MaxPositionPct = 0.5
	p := NewPolicy(cfg)
	in := KellyInputs{WinRate: 0.6, AvgWin: 100, AvgLoss: 50}

	// half-Kelly is 0.19999999999999998 in float64
	f := KellyFraction(in, cfg.MaxPositionPct)
	assert.InDelta(t, 0.2, f, 1e-15)
	assert.Equal(t, int64(20), p.KellyShares(10_000, 100, in))

	// a cap genuinely below a whole share still floors
	cfg.MaxPositionPct = 0.1999
	p = NewPolicy(cfg)
	n := p.FixedFractionalShares(10_000, 100, 0.001)
	assert.Equal(t, int64(19), n)
	assert.LessOrEqual(t, float64(n)*100, 10_000*cfg.MaxPositionPct)
}

func TestKellySharesMinimumValue(t *testing.T) {
	t.Parallel()

	p := NewPolicy(DefaultConfig())
	in := KellyInputs{WinRate: 0.6, AvgWin: 100, AvgLoss: 50}

	// 0.2 of 400 = 80 < 100
	assert.Equal(t, int64(0), p.KellyShares(400, 10, in))
	assert.Equal(t, int64(0), p.KellyShares(10_000, 10, KellyInputs{WinRate: 0.3, AvgWin: 1, AvgLoss: 1}))
}

func TestMaxAffordableShares(t *testing.T) {
	t.Parallel()

	p := NewPolicy(DefaultConfig())

	// 10000 / (100 * 1.0015) = 99.85
	assert.Equal(t, int64(99), p.MaxAffordableShares(10_000, 100))
	assert.Equal(t, int64(0), p.MaxAffordableShares(0, 100))
	assert.Equal(t, int64(0), p.MaxAffordableShares(100, 0))

	n := p.MaxAffordableShares(10_000, 100)
	debit, _ := p.CostModel().BuyDebit(100, n)
	assert.LessOrEqual(t, debit, 10_000.0)
}

func TestMaxAffordableSharesExactCash(t *testing.T) {
	t.Parallel()

	p := NewPolicy(DefaultConfig())
	m := p.CostModel()

	// cash equal to a BuyDebit must buy exactly that many shares
	for _, price := range []float64{0.37, 3.3, 17.01, 99.99, 123.45, 1031.7} {
		for n := int64(1); n <= 500; n += 7 {
			cash, _ := m.BuyDebit(price, n)
			got := p.MaxAffordableShares(cash, price)
			require.Equal(t, n, got, "price %v n %d", price, n)

			debit, _ := m.BuyDebit(price, got)
			require.LessOrEqual(t, debit, cash)
		}
	}
}

func TestPolicyStopLoss(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	p := NewPolicy(cfg)
	assert.InDelta(t, 95.0, p.StopLoss(100, 3), 1e-12)

	cfg.StopMode = StopATR
	cfg.ATRMultiplier = 2
	p = NewPolicy(cfg)
	assert.InDelta(t, 94.0, p.StopLoss(100, 3), 1e-12)
	assert.InDelta(t, 95.0, p.StopLoss(100, 0), 1e-12, "falls back until ATR is ready")
	assert.InDelta(t, 95.0, p.StopLoss(100, 60), 1e-12, "falls back when the stop would be negative")
}

func TestStopDistancePct(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.06, StopDistancePct(100, 94), 1e-12)
	assert.Equal(t, 0.0, StopDistancePct(0, 94))
}

func TestSizingString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "fixed-fractional", SizingFixedFractional.String())
	assert.Equal(t, "kelly", SizingKelly.String())
	assert.Equal(t, "all-in", SizingAllIn.String())
}
