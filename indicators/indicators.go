// Package indicators provides streaming technical indicators over close
// prices. They are deterministic and safe to use inside a replay.
package indicators

// Indicator computes a single streaming value from closes.
type Indicator interface {
	// Name returns a stable identifier like "ATR(14)".
	Name() string

	// Warmup returns how many updates are needed before Ready() can be true.
	Warmup() int

	// Reset clears all internal state.
	Reset()

	// Update consumes the next close.
	Update(close float64)

	// Ready reports whether Value() is meaningful (warmup completed).
	Ready() bool

	// Value returns the current value, or 0 before Ready().
	Value() float64
}

var _ Indicator = (*ATR)(nil)
