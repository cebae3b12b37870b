package extraction

import (
	"liquefy/domain/measurement"
	"liquefy/internal/errors"
)

// Crossing is the row selected for one threshold
type Crossing struct {
	// Row is the zero-based index into the series
	Row int
	// Values holds the covariates at Row, in the requested order
	Values []float64
	// Reached is false when no row reached the threshold and Row is the last row
	Reached bool
}

// Extract scans s in order and returns the covariates of the first row whose
// indicator is >= threshold. If no row qualifies, the last row is returned with
// Reached=false. NaN indicator cells never qualify.
func Extract(s *measurement.Series, indicator string, threshold float64, covariates []string) (Crossing, error) {
	if s == nil || s.Len() == 0 {
		source := ""
		if s != nil {
			source = s.Source
		}
		return Crossing{}, errors.EmptyInput(source)
	}

	if missing := s.Missing(append([]string{indicator}, covariates...)); len(missing) > 0 {
		return Crossing{}, errors.SchemaError(s.Source, missing)
	}

	col, _ := s.ColumnIndex(indicator)
	row := s.Len() - 1
	reached := false
	for i, r := range s.Rows {
		if col < len(r) && r[col] >= threshold {
			row = i
			reached = true
			break
		}
	}

	values, err := pick(s, row, covariates)
	if err != nil {
		return Crossing{}, err
	}
	return Crossing{Row: row, Values: values, Reached: reached}, nil
}

func pick(s *measurement.Series, row int, columns []string) ([]float64, error) {
	r := s.Rows[row]
	values := make([]float64, len(columns))
	for i, c := range columns {
		idx, _ := s.ColumnIndex(c)
		if idx >= len(r) {
			return nil, errors.SchemaErrorf(s.Source, "row %d has %d cells, column %q needs %d", row, len(r), c, idx+1)
		}
		values[i] = r[idx]
	}
	return values, nil
}
