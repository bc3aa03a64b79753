package strategy

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aqua-quant/aqua/market"
)

// ErrInvalidParams marks strategy parameters outside their allowed range.
var ErrInvalidParams = errors.New("invalid strategy params")

// Window and band limits accepted by the built-in strategies.
const (
	MinWindow = 1
	MaxWindow = 200
	MinNumStd = 0.1
	MaxNumStd = 5.0
)

// Strategy turns a stream of closes into signals. Next is called once per
// step in date order; steps before the strategy has enough history are HOLD.
type Strategy interface {
	Name() string
	Reset()
	Next(close float64) market.Signal
}

// Params holds the tunables of every built-in strategy. Each strategy reads
// only the fields it needs.
type Params struct {
	ShortWindow int     `json:"short_window" yaml:"short_window"`
	LongWindow  int     `json:"long_window" yaml:"long_window"`
	Window      int     `json:"window" yaml:"window"`
	NumStd      float64 `json:"num_std" yaml:"num_std"`
	Lookback    int     `json:"lookback" yaml:"lookback"`
}

func DefaultParams() Params {
	return Params{
		ShortWindow: 20,
		LongWindow:  50,
		Window:      20,
		NumStd:      2,
		Lookback:    10,
	}
}

// Factory builds a strategy from params, validating the fields it uses.
type Factory func(p Params) (Strategy, error)

var registry = make(map[string]Factory)

// Register makes a strategy available to ByName. Names are case-insensitive.
func Register(name string, f Factory) {
	registry[normalize(name)] = f
}

// ByName builds the named strategy.
func ByName(name string, p Params) (Strategy, error) {
	f, ok := registry[normalize(name)]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q (supported: %s)", name, strings.Join(Names(), ", "))
	}
	return f(p)
}

// Names lists the registered strategies in sorted order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func normalize(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
}

func init() {
	Register("sma", func(p Params) (Strategy, error) {
		s, err := NewSMACross(p.ShortWindow, p.LongWindow)
		if err != nil {
			return nil, err
		}
		return s, nil
	})
	Register("ema", func(p Params) (Strategy, error) {
		s, err := NewEMACross(p.ShortWindow, p.LongWindow)
		if err != nil {
			return nil, err
		}
		return s, nil
	})
	Register("mean-reversion", func(p Params) (Strategy, error) {
		s, err := NewMeanReversion(p.Window, p.NumStd)
		if err != nil {
			return nil, err
		}
		return s, nil
	})
	Register("momentum", func(p Params) (Strategy, error) {
		s, err := NewMomentum(p.Lookback)
		if err != nil {
			return nil, err
		}
		return s, nil
	})
}

// Label resets s and returns a copy of series with every step's signal
// replaced by the strategy's output. The input is not modified.
func Label(s Strategy, series market.Series) market.Series {
	s.Reset()
	out := make(market.Series, len(series))
	for i, st := range series {
		st.Signal = s.Next(st.Close)
		out[i] = st
	}
	return out
}

func checkWindow(name string, n int) error {
	if n < MinWindow || n > MaxWindow {
		return fmt.Errorf("%w: %s must be between %d and %d, got %d", ErrInvalidParams, name, MinWindow, MaxWindow, n)
	}
	return nil
}
