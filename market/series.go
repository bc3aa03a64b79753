package market

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidSeries marks an input series that cannot be replayed: unsorted
// dates, non-finite or non-positive closes, unknown signals, or an empty
// file where one was required.
var ErrInvalidSeries = errors.New("invalid series")

// Step is one bar of the replay: a close price and the label the strategy
// produced for it.
type Step struct {
	Date   time.Time
	Close  float64
	Signal Signal
}

// Series is an ordered sequence of steps, oldest first.
type Series []Step

// Validate checks that dates are strictly ascending, closes are finite and
// positive, and every signal is known. An empty series is valid.
func (s Series) Validate() error {
	for i, st := range s {
		if math.IsNaN(st.Close) || math.IsInf(st.Close, 0) || st.Close <= 0 {
			return fmt.Errorf("%w: step %d: close %v must be a positive number", ErrInvalidSeries, i, st.Close)
		}
		if !st.Signal.Valid() {
			return fmt.Errorf("%w: step %d: %s", ErrInvalidSeries, i, st.Signal)
		}
		if st.Date.IsZero() {
			return fmt.Errorf("%w: step %d: missing date", ErrInvalidSeries, i)
		}
		if i > 0 && !st.Date.After(s[i-1].Date) {
			return fmt.Errorf("%w: step %d: date %s not after %s", ErrInvalidSeries, i,
				st.Date.Format(time.RFC3339), s[i-1].Date.Format(time.RFC3339))
		}
	}
	return nil
}

// Closes returns the close prices in order.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s))
	for i, st := range s {
		out[i] = st.Close
	}
	return out
}

// Start and End return the first and last dates, or zero times when empty.
func (s Series) Start() time.Time {
	if len(s) == 0 {
		return time.Time{}
	}
	return s[0].Date
}

func (s Series) End() time.Time {
	if len(s) == 0 {
		return time.Time{}
	}
	return s[len(s)-1].Date
}
