package sim

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrNoPosition        = errors.New("no open position")
	ErrInsufficientCash  = errors.New("insufficient cash")
	ErrNonPositiveShares = errors.New("shares must be positive")
)

// Portfolio is the cash and share ledger of a single run. It is mutated only
// by the simulator that owns it and is not safe for concurrent use.
//
// TotalValue is always Cash plus the sum of the marked position values.
type Portfolio struct {
	cash      float64
	positions map[string]int64
	values    map[string]float64
}

func NewPortfolio(cash float64) *Portfolio {
	return &Portfolio{
		cash:      cash,
		positions: make(map[string]int64),
		values:    make(map[string]float64),
	}
}

// MarkToMarket revalues the symbol's position at price. Symbols without a
// position are left untouched.
func (p *Portfolio) MarkToMarket(symbol string, price float64) {
	shares, ok := p.positions[symbol]
	if !ok {
		return
	}
	p.values[symbol] = float64(shares) * price
}

// Open debits cash and adds shares to the symbol's position, marking it at
// price. The debit includes transaction costs. Cash may not go negative.
func (p *Portfolio) Open(symbol string, shares int64, debit, price float64) error {
	if shares <= 0 {
		return fmt.Errorf("open %s: %w", symbol, ErrNonPositiveShares)
	}
	if debit > p.cash {
		return fmt.Errorf("open %s: need %.2f, have %.2f: %w", symbol, debit, p.cash, ErrInsufficientCash)
	}

	p.cash -= debit
	p.positions[symbol] += shares
	p.values[symbol] = float64(p.positions[symbol]) * price
	return nil
}

// Close credits proceeds and removes the whole position, returning the number
// of shares closed.
func (p *Portfolio) Close(symbol string, proceeds float64) (int64, error) {
	shares, ok := p.positions[symbol]
	if !ok || shares == 0 {
		return 0, fmt.Errorf("close %s: %w", symbol, ErrNoPosition)
	}

	p.cash += proceeds
	delete(p.positions, symbol)
	delete(p.values, symbol)
	return shares, nil
}

func (p *Portfolio) Cash() float64 { return p.cash }

func (p *Portfolio) Shares(symbol string) int64 { return p.positions[symbol] }

func (p *Portfolio) PositionValue(symbol string) float64 { return p.values[symbol] }

// InvestedValue is the marked value of all positions.
func (p *Portfolio) InvestedValue() float64 {
	sum := 0.0
	for _, sym := range p.symbols() {
		sum += p.values[sym]
	}
	return sum
}

func (p *Portfolio) TotalValue() float64 { return p.cash + p.InvestedValue() }

// PositionPct is the symbol's share of total value, 0 when the portfolio is
// worthless.
func (p *Portfolio) PositionPct(symbol string) float64 {
	total := p.TotalValue()
	if total <= 0 {
		return 0
	}
	return p.values[symbol] / total
}

// Snapshot is a point-in-time copy of the ledger.
type Snapshot struct {
	Cash       float64            `json:"cash"`
	Positions  map[string]int64   `json:"positions"`
	Values     map[string]float64 `json:"position_values"`
	TotalValue float64            `json:"total_value"`
}

func (p *Portfolio) Snapshot() Snapshot {
	s := Snapshot{
		Cash:       p.cash,
		Positions:  make(map[string]int64, len(p.positions)),
		Values:     make(map[string]float64, len(p.values)),
		TotalValue: p.TotalValue(),
	}
	for k, v := range p.positions {
		s.Positions[k] = v
	}
	for k, v := range p.values {
		s.Values[k] = v
	}
	return s
}

// symbols returns position symbols in a stable order so sums are
// reproducible across runs.
func (p *Portfolio) symbols() []string {
	out := make([]string, 0, len(p.values))
	for k := range p.values {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
