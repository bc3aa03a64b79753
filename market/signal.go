package market

import (
	"fmt"
	"strings"
)

// Signal is a pre-computed trading label for a single step.
type Signal uint8

const (
	Hold Signal = iota
	Buy
	Sell
)

func (s Signal) String() string {
	switch s {
	case Hold:
		return "HOLD"
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return fmt.Sprintf("Signal(%d)", uint8(s))
	}
}

// Valid reports whether s is one of Hold, Buy or Sell.
func (s Signal) Valid() bool {
	return s <= Sell
}

// ParseSignal accepts BUY, SELL or HOLD in any case. An empty string is HOLD.
func ParseSignal(s string) (Signal, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUY":
		return Buy, nil
	case "SELL":
		return Sell, nil
	case "HOLD", "":
		return Hold, nil
	default:
		return Hold, fmt.Errorf("unknown signal %q", s)
	}
}

func (s Signal) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid signal %d", uint8(s))
	}
	return []byte(s.String()), nil
}

func (s *Signal) UnmarshalText(b []byte) error {
	v, err := ParseSignal(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
