package indicators

import (
	"fmt"
	"math"
)

// SimpleMA is a streaming Simple Moving Average over closes. It also exposes
// the sample standard deviation of the same window for band indicators.
type SimpleMA struct {
	period int
	closes []float64
}

// NewMA creates a new Simple Moving Average indicator with the given period
func NewMA(period int) *SimpleMA {
	return &SimpleMA{
		period: period,
		closes: make([]float64, 0, period),
	}
}

func (m *SimpleMA) Name() string {
	return fmt.Sprintf("MA(%d)", m.period)
}

func (m *SimpleMA) Warmup() int {
	return m.period
}

func (m *SimpleMA) Reset() {
	m.closes = m.closes[:0]
}

func (m *SimpleMA) Update(close float64) {
	m.closes = append(m.closes, close)
	// Keep only the last 'period' closes
	if len(m.closes) > m.period {
		m.closes = m.closes[1:]
	}
}

func (m *SimpleMA) Ready() bool {
	return m.period > 0 && len(m.closes) >= m.period
}

func (m *SimpleMA) Value() float64 {
	if !m.Ready() {
		return 0
	}

	sum := 0.0
	for _, c := range m.closes {
		sum += c
	}
	return sum / float64(len(m.closes))
}

// StdDev returns the sample (n-1) standard deviation of the window, or 0
// before Ready() or when the period is 1.
func (m *SimpleMA) StdDev() float64 {
	if !m.Ready() || len(m.closes) < 2 {
		return 0
	}
	mean := m.Value()
	ss := 0.0
	for _, c := range m.closes {
		d := c - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(m.closes)-1))
}

// Momentum is the rolling sum of simple step returns over a lookback window.
type Momentum struct {
	lookback  int
	returns   []float64
	prevClose float64
	hasPrev   bool
}

// NewMomentum creates a momentum indicator summing the last lookback returns.
func NewMomentum(lookback int) *Momentum {
	return &Momentum{
		lookback: lookback,
		returns:  make([]float64, 0, lookback),
	}
}

func (m *Momentum) Name() string {
	return fmt.Sprintf("MOM(%d)", m.lookback)
}

func (m *Momentum) Warmup() int {
	return m.lookback + 1
}

func (m *Momentum) Reset() {
	m.returns = m.returns[:0]
	m.hasPrev = false
}

func (m *Momentum) Update(close float64) {
	if m.hasPrev && m.prevClose != 0 {
		m.returns = append(m.returns, (close-m.prevClose)/m.prevClose)
		if len(m.returns) > m.lookback {
			m.returns = m.returns[1:]
		}
	}
	m.prevClose = close
	m.hasPrev = true
}

func (m *Momentum) Ready() bool {
	return m.lookback > 0 && len(m.returns) >= m.lookback
}

func (m *Momentum) Value() float64 {
	if !m.Ready() {
		return 0
	}
	sum := 0.0
	for _, r := range m.returns {
		sum += r
	}
	return sum
}

var (
	_ Indicator = (*SimpleMA)(nil)
	_ Indicator = (*Momentum)(nil)
)
