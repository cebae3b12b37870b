package measurement

// Series is one run's measurement table. Rows keep the order they had in the
// spreadsheet; they are a load-step sequence and must never be sorted.
type Series struct {
	Source  string
	Headers []string
	Rows    [][]float64
	index   map[string]int
}

// NewSeries builds a Series over headers. Each row must have len(headers) cells.
func NewSeries(source string, headers []string, rows [][]float64) *Series {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}
	return &Series{
		Source:  source,
		Headers: headers,
		Rows:    rows,
		index:   index,
	}
}

// Len returns the number of measurement rows
func (s *Series) Len() int {
	return len(s.Rows)
}

// ColumnIndex returns the position of a named column
func (s *Series) ColumnIndex(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// Missing returns the subset of columns absent from the header, in the given order
func (s *Series) Missing(columns []string) []string {
	var missing []string
	for _, c := range columns {
		if _, ok := s.index[c]; !ok {
			missing = append(missing, c)
		}
	}
	return missing
}
