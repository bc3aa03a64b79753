package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// ReadCSV reads series rows of the form:
//
//	date,close[,signal]
//
// where date is RFC3339, RFC3339Nano or YYYY-MM-DD. A single header row
// ("date,..." or "time,...") is allowed and empty rows are skipped. A missing
// signal column is read as HOLD, so close-only files can be labeled later.
// The result is validated before it is returned; an empty input is an error.
func ReadCSV(r io.Reader) (Series, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var (
		out      Series
		sawFirst bool
		line     int
	)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSeries, err)
		}
		line++
		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue
		}

		if !sawFirst {
			sawFirst = true
			h := strings.ToLower(strings.TrimSpace(row[0]))
			if h == "date" || h == "time" {
				continue
			}
		}

		st, err := parseStepRow(row)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidSeries, line, err)
		}
		out = append(out, st)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrInvalidSeries)
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadCSV opens path and reads it with ReadCSV.
func LoadCSV(path string) (Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// WriteCSV writes the series with a date,close,signal header.
func WriteCSV(w io.Writer, s Series) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "close", "signal"}); err != nil {
		return err
	}
	for _, st := range s {
		err := cw.Write([]string{
			st.Date.Format(time.RFC3339),
			strconv.FormatFloat(st.Close, 'f', -1, 64),
			st.Signal.String(),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func parseStepRow(row []string) (Step, error) {
	if len(row) < 2 {
		return Step{}, fmt.Errorf("need at least date,close: %v", row)
	}

	t, err := parseDate(strings.TrimSpace(row[0]))
	if err != nil {
		return Step{}, err
	}

	c, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
	if err != nil {
		return Step{}, fmt.Errorf("bad close %q: %w", row[1], err)
	}

	sig := Hold
	if len(row) > 2 {
		sig, err = ParseSignal(row[2])
		if err != nil {
			return Step{}, err
		}
	}

	return Step{Date: t, Close: c, Signal: sig}, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range []string{time.RFC3339, time.RFC3339Nano, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("bad date %q", s)
}
