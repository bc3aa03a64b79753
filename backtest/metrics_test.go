package backtest

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReturns(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Returns(nil))
	assert.Nil(t, Returns([]float64{100}))

	r := Returns([]float64{100, 110, 99, 0, 50})
	assert.InDeltaSlice(t, []float64{0.1, -0.1, -1, 0}, r, 1e-12)
}

func TestSharpe(t *testing.T) {
	t.Parallel()

	assert.Zero(t, Sharpe(nil))
	assert.Zero(t, Sharpe([]float64{0.5, 0.5, 0.5}), "no variance")
	assert.Zero(t, Sharpe([]float64{0.01, -0.01}), "no mean")

	// mean 0.02, population std 0.01
	assert.InDelta(t, 2*math.Sqrt(252), Sharpe([]float64{0.01, 0.03}), 1e-9)
	assert.Less(t, Sharpe([]float64{-0.01, -0.03}), 0.0)
}

func TestMaxDrawdownPct(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		equity []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"single point", []float64{100}, 0},
		{"monotonic", []float64{100, 101, 105}, 0},
		{"peak to trough", []float64{100, 120, 90, 130}, -25},
		{"worst of two", []float64{100, 80, 100, 200, 150}, -25},
		{"from start", []float64{100, 50}, -50},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, MaxDrawdownPct(tt.equity), 1e-9)
		})
	}
}

func TestWinRatePct(t *testing.T) {
	t.Parallel()

	buy := func(cost float64) Buy { return Buy{Cost: cost} }
	sell := func(proceeds float64) Sell { return Sell{Exit{Proceeds: proceeds}} }
	stop := func(proceeds float64) StopLoss { return StopLoss{Exit{Proceeds: proceeds}} }

	tests := []struct {
		name   string
		trades []Trade
		want   float64
	}{
		{"no trades", nil, 0},
		{"open only", []Trade{buy(100)}, 0},
		{"one win", []Trade{buy(100), sell(110)}, 100},
		{"break-even is a loss", []Trade{buy(100), sell(100)}, 0},
		{"win and stop", []Trade{buy(100), sell(110), buy(100), stop(90)}, 50},
		{"trailing open buy ignored", []Trade{buy(100), stop(90), buy(100), sell(120), buy(100)}, 50},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, WinRatePct(tt.trades), 1e-12)
		})
	}
}
