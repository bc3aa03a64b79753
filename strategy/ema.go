package strategy

import (
	"fmt"

	"github.com/aqua-quant/aqua/indicators"
	"github.com/aqua-quant/aqua/market"
)

// EMACross signals only on the bar where the fast EMA crosses the slow one.
// The first ready bar sets the baseline relationship and does not fire.
type EMACross struct {
	fast *indicators.EMA
	slow *indicators.EMA

	// -1 fast below slow, 0 unknown, +1 fast above slow
	prevRel int
}

func NewEMACross(fast, slow int) (*EMACross, error) {
	if err := checkWindow("short_window", fast); err != nil {
		return nil, err
	}
	if err := checkWindow("long_window", slow); err != nil {
		return nil, err
	}
	if fast >= slow {
		return nil, fmt.Errorf("%w: short_window (%d) must be less than long_window (%d)", ErrInvalidParams, fast, slow)
	}
	return &EMACross{
		fast: indicators.NewEMA(fast),
		slow: indicators.NewEMA(slow),
	}, nil
}

func (x *EMACross) Name() string {
	return fmt.Sprintf("ema(%d,%d)", x.fast.Warmup(), x.slow.Warmup())
}

func (x *EMACross) Reset() {
	x.fast.Reset()
	x.slow.Reset()
	x.prevRel = 0
}

func (x *EMACross) Next(close float64) market.Signal {
	x.fast.Update(close)
	x.slow.Update(close)
	if !x.slow.Ready() {
		return market.Hold
	}

	rel := 0
	switch diff := x.fast.Value() - x.slow.Value(); {
	case diff > 0:
		rel = +1
	case diff < 0:
		rel = -1
	}

	prev := x.prevRel
	if rel != 0 {
		x.prevRel = rel
	}
	switch {
	case prev == -1 && rel == +1:
		return market.Buy
	case prev == +1 && rel == -1:
		return market.Sell
	default:
		return market.Hold
	}
}
