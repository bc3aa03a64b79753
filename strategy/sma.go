package strategy

import (
	"fmt"

	"github.com/aqua-quant/aqua/indicators"
	"github.com/aqua-quant/aqua/market"
)

// SMACross is long while the short moving average is above the long one:
// BUY when short > long, SELL when short < long. The engine ignores repeated
// signals, so only the first bar of each regime trades.
type SMACross struct {
	short *indicators.SimpleMA
	long  *indicators.SimpleMA
}

func NewSMACross(short, long int) (*SMACross, error) {
	if err := checkWindow("short_window", short); err != nil {
		return nil, err
	}
	if err := checkWindow("long_window", long); err != nil {
		return nil, err
	}
	if short >= long {
		return nil, fmt.Errorf("%w: short_window (%d) must be less than long_window (%d)", ErrInvalidParams, short, long)
	}
	return &SMACross{
		short: indicators.NewMA(short),
		long:  indicators.NewMA(long),
	}, nil
}

func (s *SMACross) Name() string {
	return fmt.Sprintf("sma(%d,%d)", s.short.Warmup(), s.long.Warmup())
}

func (s *SMACross) Reset() {
	s.short.Reset()
	s.long.Reset()
}

func (s *SMACross) Next(close float64) market.Signal {
	s.short.Update(close)
	s.long.Update(close)
	if !s.long.Ready() {
		return market.Hold
	}

	switch short, long := s.short.Value(), s.long.Value(); {
	case short > long:
		return market.Buy
	case short < long:
		return market.Sell
	default:
		return market.Hold
	}
}
