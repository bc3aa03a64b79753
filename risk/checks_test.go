package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubHoldings struct {
	cash   float64
	shares map[string]int64
	values map[string]float64
}

func (s stubHoldings) Cash() float64                       { return s.cash }
func (s stubHoldings) Shares(symbol string) int64          { return s.shares[symbol] }
func (s stubHoldings) PositionValue(symbol string) float64 { return s.values[symbol] }

func (s stubHoldings) InvestedValue() float64 {
	sum := 0.0
	for _, v := range s.values {
		sum += v
	}
	return sum
}

func (s stubHoldings) TotalValue() float64 { return s.cash + s.InvestedValue() }

func TestValidateTrade(t *testing.T) {
	t.Parallel()

	flat := stubHoldings{cash: 10_000}
	long := stubHoldings{
		cash:   8_000,
		shares: map[string]int64{"STOCK": 20},
		values: map[string]float64{"STOCK": 2_000},
	}

	tests := []struct {
		name     string
		cfg      func(*Config)
		h        Holdings
		qty      int64
		price    float64
		side     Side
		wantCode string
	}{
		{"valid buy", nil, flat, 20, 100, Buy, ""},
		{"zero qty", nil, flat, 0, 100, Buy, "NON_POSITIVE_QTY"},
		{"negative price", nil, flat, 10, -1, Buy, "NON_POSITIVE_PRICE"},
		{"bad side", nil, flat, 10, 100, Side(0), "INVALID_SIDE"},
		{"below minimum", nil, flat, 1, 50, Buy, "BELOW_MIN_VALUE"},
		{"insufficient cash", func(c *Config) { c.MaxPositionPct = 1 }, flat, 100, 100, Buy, "INSUFFICIENT_CASH"},
		{"max position", nil, flat, 21, 100, Buy, "MAX_POSITION"},
		{"adds to position", nil, long, 1, 100, Buy, "MAX_POSITION"},
		{"max leverage", func(c *Config) { c.MaxPositionPct = 1; c.MaxLeverage = 0.5 }, stubHoldings{
			cash:   5_000,
			shares: map[string]int64{"OTHER": 50},
			values: map[string]float64{"OTHER": 5_000},
		}, 40, 100, Buy, "MAX_LEVERAGE"},
		{"valid sell", nil, long, 20, 100, Sell, ""},
		{"sell more than held", nil, long, 21, 100, Sell, "INSUFFICIENT_SHARES"},
		{"sell when flat", nil, flat, 5, 100, Sell, "INSUFFICIENT_SHARES"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			if tt.cfg != nil {
				tt.cfg(&cfg)
			}
			d := NewPolicy(cfg).ValidateTrade(tt.h, "STOCK", tt.qty, tt.price, tt.side)
			if tt.wantCode == "" {
				assert.True(t, d.Allowed, d.Reason())
				assert.Empty(t, d.Reason())
				return
			}
			assert.False(t, d.Allowed)
			if assert.Len(t, d.Violations, 1) {
				assert.Equal(t, tt.wantCode, d.Violations[0].Code)
			}
			assert.NotEmpty(t, d.Reason())
		})
	}
}

func TestValidateTradeIsReadOnly(t *testing.T) {
	t.Parallel()

	h := stubHoldings{
		cash:   100,
		shares: map[string]int64{"STOCK": 1},
		values: map[string]float64{"STOCK": 100},
	}
	p := NewPolicy(DefaultConfig())

	_ = p.ValidateTrade(h, "STOCK", 10, 100, Buy)
	_ = p.ValidateTrade(h, "STOCK", 1, 100, Sell)

	assert.Equal(t, 100.0, h.cash)
	assert.Equal(t, int64(1), h.shares["STOCK"])
	assert.Equal(t, 100.0, h.values["STOCK"])
}
