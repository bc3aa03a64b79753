package indicators

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimpleMAStreaming(t *testing.T) {
	closes := []float64{102, 105, 106, 108, 110}

	t.Run("basic functionality", func(t *testing.T) {
		ma := NewMA(3)
		assert.Equal(t, "MA(3)", ma.Name())
		assert.Equal(t, 3, ma.Warmup())
		assert.False(t, ma.Ready())
		assert.Equal(t, 0.0, ma.Value())

		ma.Update(closes[0])
		assert.False(t, ma.Ready())

		ma.Update(closes[1])
		assert.False(t, ma.Ready())

		// third close - should be ready now
		ma.Update(closes[2])
		assert.True(t, ma.Ready())
		expected := (102.0 + 105.0 + 106.0) / 3.0
		assert.InDelta(t, expected, ma.Value(), 0.001)

		// fourth close - should use last 3
		ma.Update(closes[3])
		assert.True(t, ma.Ready())
		expected = (105.0 + 106.0 + 108.0) / 3.0
		assert.InDelta(t, expected, ma.Value(), 0.001)
	})

	t.Run("reset functionality", func(t *testing.T) {
		ma := NewMA(2)
		ma.Update(closes[0])
		ma.Update(closes[1])
		assert.True(t, ma.Ready())

		ma.Reset()
		assert.False(t, ma.Ready())
		assert.Equal(t, 0.0, ma.Value())
	})

	t.Run("sample standard deviation", func(t *testing.T) {
		ma := NewMA(4)
		for _, c := range []float64{2, 4, 4, 4} {
			ma.Update(c)
		}
		// mean 3.5, squared deviations 2.25+0.25*3 = 3, /3 = 1
		assert.InDelta(t, 1.0, ma.StdDev(), 1e-12)

		one := NewMA(1)
		one.Update(5)
		assert.Equal(t, 0.0, one.StdDev())
	})
}

func TestMomentum(t *testing.T) {
	m := NewMomentum(2)
	assert.Equal(t, "MOM(2)", m.Name())
	assert.Equal(t, 3, m.Warmup())

	m.Update(100)
	m.Update(110) // +10%
	assert.False(t, m.Ready())

	m.Update(99) // -10%
	assert.True(t, m.Ready())
	assert.InDelta(t, 0.0, m.Value(), 1e-12)

	m.Update(108.9) // +10%, window is now -10%, +10%
	assert.InDelta(t, 0.0, m.Value(), 1e-9)

	m.Update(108.9)
	assert.InDelta(t, 0.1, m.Value(), 1e-9)
	assert.False(t, math.IsNaN(m.Value()))

	m.Reset()
	assert.False(t, m.Ready())
}
