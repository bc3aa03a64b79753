package indicators

import "fmt"

// EMA is an Exponential Moving Average over closes, seeded with the first
// close. It is Ready once period closes have been seen.
type EMA struct {
	n     int
	alpha float64

	seen  int
	value float64
}

func NewEMA(period int) *EMA {
	return &EMA{
		n:     period,
		alpha: 2.0 / float64(period+1),
	}
}

func (e *EMA) Name() string { return fmt.Sprintf("EMA(%d)", e.n) }
func (e *EMA) Warmup() int  { return e.n }
func (e *EMA) Ready() bool  { return e.n > 0 && e.seen >= e.n }

func (e *EMA) Reset() {
	e.seen = 0
	e.value = 0
}

func (e *EMA) Update(close float64) {
	e.seen++
	if e.seen == 1 {
		e.value = close
		return
	}
	e.value = e.alpha*close + (1.0-e.alpha)*e.value
}

func (e *EMA) Value() float64 {
	if !e.Ready() {
		return 0
	}
	return e.value
}

var _ Indicator = (*EMA)(nil)
