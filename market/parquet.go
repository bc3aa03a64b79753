package market

import (
	"fmt"
	"time"

	"github.com/parquet-go/parquet-go"
)

// StepRecord is the Parquet schema for a labeled close series.
type StepRecord struct {
	Timestamp int64   `parquet:"timestamp,timestamp(millisecond)"` // Unix ms
	Close     float64 `parquet:"close"`
	Signal    string  `parquet:"signal"`
}

// LoadParquet reads a series written by WriteParquet (or any file with the
// same columns). Rows are taken in file order and validated.
func LoadParquet(path string) (Series, error) {
	rows, err := parquet.ReadFile[StepRecord](path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: %w: no rows", path, ErrInvalidSeries)
	}

	out := make(Series, 0, len(rows))
	for i, r := range rows {
		sig, err := ParseSignal(r.Signal)
		if err != nil {
			return nil, fmt.Errorf("%s: %w: row %d: %v", path, ErrInvalidSeries, i, err)
		}
		out = append(out, Step{
			Date:   time.UnixMilli(r.Timestamp).UTC(),
			Close:  r.Close,
			Signal: sig,
		})
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// WriteParquet writes the series to path, replacing any existing file.
func WriteParquet(path string, s Series) error {
	rows := make([]StepRecord, len(s))
	for i, st := range s {
		rows[i] = StepRecord{
			Timestamp: st.Date.UnixMilli(),
			Close:     st.Close,
			Signal:    st.Signal.String(),
		}
	}
	if err := parquet.WriteFile(path, rows); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
