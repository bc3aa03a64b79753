package backtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqua-quant/aqua/market"
	"github.com/aqua-quant/aqua/risk"
)

func sweepConfigs() []risk.Config {
	var out []risk.Config
	for _, stop := range []float64{0.02, 0.05, 0.1} {
		for _, kelly := range []bool{false, true} {
			cfg := risk.DefaultConfig()
			cfg.StopLossPct = stop
			cfg.UseKelly = kelly
			out = append(out, cfg)
		}
	}
	return out
}

func TestSweepMatchesSequentialRuns(t *testing.T) {
	t.Parallel()

	s := randomSeries(7, 300)
	configs := sweepConfigs()

	results, err := Sweep(context.Background(), s, configs, 3)
	require.NoError(t, err)
	require.Len(t, results, len(configs))

	for i, cfg := range configs {
		want, err := New(cfg).Run(s)
		require.NoError(t, err)
		assert.Equal(t, cfg, results[i].Config)
		assert.Equal(t, want.Equity, results[i].Equity)
		assert.Equal(t, want.Trades, results[i].Trades)
	}
}

func TestSweepDefaultWorkers(t *testing.T) {
	t.Parallel()

	results, err := Sweep(context.Background(), randomSeries(3, 50), sweepConfigs()[:2], 0)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSweepInvalidConfig(t *testing.T) {
	t.Parallel()

	configs := sweepConfigs()
	configs[4].MaxLeverage = 0.5

	_, err := Sweep(context.Background(), randomSeries(1, 20), configs, 2)
	require.ErrorIs(t, err, risk.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "config 4")
}

func TestSweepInvalidSeries(t *testing.T) {
	t.Parallel()

	s := mkSeries(bar{100, market.Buy}, bar{-1, market.Hold})
	_, err := Sweep(context.Background(), s, sweepConfigs(), 2)
	require.ErrorIs(t, err, market.ErrInvalidSeries)
}

func TestSweepCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Sweep(ctx, randomSeries(1, 20), sweepConfigs(), 1)
	require.ErrorIs(t, err, context.Canceled)
}
