package charts

import (
	"math"

	"liquefy/domain/result"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// GroupSummary describes the plotted distribution of one chart category
type GroupSummary struct {
	Chart    string
	Category string
	N        int
	Censored int
	Mean     float64
	StdDev   float64
	Median   float64
}

// Summarize computes per-category statistics for every spec. Charts with no
// matching rows contribute nothing.
func Summarize(table *result.Table, specs []ChartSpec, opts Options) ([]GroupSummary, error) {
	var out []GroupSummary
	for _, spec := range specs {
		groups, err := Select(table, spec, opts)
		if err != nil {
			return nil, err
		}
		for _, g := range groups {
			out = append(out, summarize(spec.Name, g))
		}
	}
	return out, nil
}

func summarize(chartName string, g Group) GroupSummary {
	s := GroupSummary{
		Chart:    chartName,
		Category: g.Label,
		Censored: g.Censored,
		Mean:     math.NaN(),
		StdDev:   math.NaN(),
		Median:   math.NaN(),
	}
	data := finite(g.Values)
	s.N = len(data)
	switch {
	case s.N == 0:
		return s
	case s.N == 1:
		s.Mean, s.StdDev = data[0], 0
	default:
		s.Mean, s.StdDev = stat.MeanStdDev(data, nil)
	}
	if m, err := stats.Median(data); err == nil {
		s.Median = m
	}
	return s
}
