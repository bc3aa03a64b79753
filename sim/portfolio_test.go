package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertValueInvariant(t *testing.T, p *Portfolio) {
	t.Helper()
	sum := p.Cash()
	for _, v := range p.Snapshot().Values {
		sum += v
	}
	assert.InDelta(t, sum, p.TotalValue(), 1e-6)
	assert.GreaterOrEqual(t, p.TotalValue(), 0.0)
}

func TestPortfolioOpenMarkClose(t *testing.T) {
	t.Parallel()

	p := NewPortfolio(10_000)
	assert.Equal(t, 10_000.0, p.TotalValue())
	assertValueInvariant(t, p)

	require.NoError(t, p.Open("STOCK", 20, 2003, 100))
	assert.InDelta(t, 7_997.0, p.Cash(), 1e-9)
	assert.Equal(t, int64(20), p.Shares("STOCK"))
	assert.InDelta(t, 2_000.0, p.PositionValue("STOCK"), 1e-9)
	assert.InDelta(t, 9_997.0, p.TotalValue(), 1e-9)
	assertValueInvariant(t, p)

	p.MarkToMarket("STOCK", 110)
	assert.InDelta(t, 2_200.0, p.PositionValue("STOCK"), 1e-9)
	assert.InDelta(t, 2_200.0/10_197.0, p.PositionPct("STOCK"), 1e-12)
	assertValueInvariant(t, p)

	n, err := p.Close("STOCK", 2196.7)
	require.NoError(t, err)
	assert.Equal(t, int64(20), n)
	assert.InDelta(t, 10_193.7, p.Cash(), 1e-9)
	assert.Equal(t, int64(0), p.Shares("STOCK"))
	assert.Empty(t, p.Snapshot().Positions)
	assertValueInvariant(t, p)
}

func TestPortfolioOpenErrors(t *testing.T) {
	t.Parallel()

	p := NewPortfolio(1_000)

	err := p.Open("STOCK", 0, 0, 100)
	assert.ErrorIs(t, err, ErrNonPositiveShares)

	err = p.Open("STOCK", 10, 1_000.01, 100)
	assert.ErrorIs(t, err, ErrInsufficientCash)

	assert.Equal(t, 1_000.0, p.Cash(), "failed opens leave cash unchanged")
	assert.Equal(t, int64(0), p.Shares("STOCK"))
}

func TestPortfolioCloseWithoutPosition(t *testing.T) {
	t.Parallel()

	p := NewPortfolio(1_000)
	_, err := p.Close("STOCK", 10)
	assert.ErrorIs(t, err, ErrNoPosition)
	assert.Equal(t, 1_000.0, p.Cash())
}

func TestPortfolioMarkUnknownSymbol(t *testing.T) {
	t.Parallel()

	p := NewPortfolio(500)
	p.MarkToMarket("NONE", 42)
	assert.Empty(t, p.Snapshot().Values)
	assert.Equal(t, 0.0, p.PositionPct("NONE"))
}

func TestSnapshotIsCopy(t *testing.T) {
	t.Parallel()

	p := NewPortfolio(10_000)
	require.NoError(t, p.Open("STOCK", 10, 1_000, 100))

	s := p.Snapshot()
	s.Positions["STOCK"] = 999
	s.Values["STOCK"] = 0

	assert.Equal(t, int64(10), p.Shares("STOCK"))
	assert.Equal(t, 1_000.0, p.PositionValue("STOCK"))
}

func TestLotTriggers(t *testing.T) {
	t.Parallel()

	l := Lot{
		Symbol:     "STOCK",
		Shares:     20,
		EntryDate:  time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		EntryPrice: 100,
		EntryCost:  2003,
		StopLoss:   95,
		Target:     110,
	}

	assert.True(t, l.StopHit(95))
	assert.True(t, l.StopHit(94.5))
	assert.False(t, l.StopHit(95.01))

	assert.InDelta(t, -3.0, l.UnrealizedPL(100), 1e-9)
	assert.False(t, Lot{}.StopHit(0))
}
