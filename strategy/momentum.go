package strategy

import (
	"fmt"

	"github.com/aqua-quant/aqua/indicators"
	"github.com/aqua-quant/aqua/market"
)

// Momentum follows the sign of the summed returns over the lookback.
type Momentum struct {
	mom *indicators.Momentum
}

func NewMomentum(lookback int) (*Momentum, error) {
	if err := checkWindow("lookback", lookback); err != nil {
		return nil, err
	}
	return &Momentum{mom: indicators.NewMomentum(lookback)}, nil
}

func (m *Momentum) Name() string {
	return fmt.Sprintf("momentum(%d)", m.mom.Warmup()-1)
}

func (m *Momentum) Reset() { m.mom.Reset() }

func (m *Momentum) Next(close float64) market.Signal {
	m.mom.Update(close)
	if !m.mom.Ready() {
		return market.Hold
	}
	switch v := m.mom.Value(); {
	case v > 0:
		return market.Buy
	case v < 0:
		return market.Sell
	default:
		return market.Hold
	}
}
