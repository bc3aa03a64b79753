package strategy

import (
	"fmt"

	"github.com/aqua-quant/aqua/indicators"
	"github.com/aqua-quant/aqua/market"
)

// MeanReversion buys closes below the lower Bollinger band and sells closes
// above the upper one. Bands are the rolling mean ± NumStd sample standard
// deviations, the current close included.
type MeanReversion struct {
	ma     *indicators.SimpleMA
	numStd float64
}

func NewMeanReversion(window int, numStd float64) (*MeanReversion, error) {
	if err := checkWindow("window", window); err != nil {
		return nil, err
	}
	if numStd < MinNumStd || numStd > MaxNumStd {
		return nil, fmt.Errorf("%w: num_std must be between %.1f and %.1f, got %v", ErrInvalidParams, MinNumStd, MaxNumStd, numStd)
	}
	return &MeanReversion{ma: indicators.NewMA(window), numStd: numStd}, nil
}

func (m *MeanReversion) Name() string {
	return fmt.Sprintf("mean-reversion(%d,%.1f)", m.ma.Warmup(), m.numStd)
}

func (m *MeanReversion) Reset() { m.ma.Reset() }

func (m *MeanReversion) Next(close float64) market.Signal {
	m.ma.Update(close)
	// a one-close window has no deviation
	if !m.ma.Ready() || m.ma.Warmup() < 2 {
		return market.Hold
	}

	mean := m.ma.Value()
	band := m.numStd * m.ma.StdDev()
	switch {
	case close < mean-band:
		return market.Buy
	case close > mean+band:
		return market.Sell
	default:
		return market.Hold
	}
}
