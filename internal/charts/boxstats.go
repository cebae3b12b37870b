package charts

import (
	"math"
	"sort"

	"liquefy/domain/chart"

	"github.com/montanaflynn/stats"
)

// WhiskerReach is the whisker length in interquartile ranges
const WhiskerReach = 1.5

// ComputeBox summarizes values as one box. NaN values are ignored; ok is false
// when nothing is left to draw.
func ComputeBox(label string, values []float64) (box chart.Box, ok bool) {
	data := finite(values)
	if len(data) == 0 {
		return chart.Box{Label: label}, false
	}
	sort.Float64s(data)

	median, err := stats.Median(data)
	if err != nil {
		return chart.Box{Label: label}, false
	}

	// Tukey hinges; a single value has no halves to split
	q1, q3 := median, median
	if quartiles, err := stats.Quartile(data); err == nil && !math.IsNaN(quartiles.Q1) && !math.IsNaN(quartiles.Q3) {
		q1, q3 = quartiles.Q1, quartiles.Q3
	}

	iqr := q3 - q1
	lowFence := q1 - WhiskerReach*iqr
	highFence := q3 + WhiskerReach*iqr

	box = chart.Box{
		Label:        label,
		N:            len(data),
		Q1:           q1,
		Median:       median,
		Q3:           q3,
		LowerWhisker: q1,
		UpperWhisker: q3,
	}
	lowerSet, upperSet := false, false
	for _, v := range data {
		if v < lowFence || v > highFence {
			box.Outliers = append(box.Outliers, v)
			continue
		}
		if !lowerSet || v < box.LowerWhisker {
			box.LowerWhisker = v
			lowerSet = true
		}
		if !upperSet || v > box.UpperWhisker {
			box.UpperWhisker = v
			upperSet = true
		}
	}
	return box, true
}

func finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}
