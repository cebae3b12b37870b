package result

import (
	"math"
	"testing"

	"liquefy/domain/measurement"

	"github.com/stretchr/testify/assert"
)

func TestNewRecord_SentinelOnOtherDimension(t *testing.T) {
	da := NewRecord("a.xlsx", 0.4, 0.75, measurement.DA(0.01), []float64{1}, true)
	assert.Equal(t, 0.01, da.TargetDA)
	assert.Equal(t, NotApplicable, da.TargetRu)
	assert.Equal(t, measurement.DA(0.01), da.Target())

	ru := NewRecord("a.xlsx", 0.4, 0.75, measurement.Ru(0.5), []float64{1}, false)
	assert.Equal(t, NotApplicable, ru.TargetDA)
	assert.Equal(t, 0.5, ru.TargetRu)
	assert.Equal(t, measurement.Ru(0.5), ru.Target())
}

func TestTable_HeaderAndValue(t *testing.T) {
	table := NewTable([]string{"DA", "E"})
	table.Append(NewRecord("a.xlsx", 0.4, 0.75, measurement.DA(0.01), []float64{0.02, 0.01}, true))

	assert.Equal(t, []string{"file_name", "CSR", "e", "target_DA", "target_ru", "DA", "E", "reached_threshold"}, table.Header())

	r := table.Records[0]
	v, ok := table.Value(r, "E")
	assert.True(t, ok)
	assert.Equal(t, 0.01, v)

	v, ok = table.Value(r, ColReached)
	assert.True(t, ok)
	assert.Equal(t, 1.0, v)

	_, ok = table.Value(r, "missing")
	assert.False(t, ok)
	assert.True(t, table.HasColumn("CSR"))
	assert.False(t, table.HasColumn("missing"))
}

func TestTable_DistinctFirstSeenOrder(t *testing.T) {
	table := NewTable([]string{"E"})
	for _, e := range []float64{0.8, 0.75, 0.8, 0.7, 0.75} {
		table.Append(NewRecord("x", 0.4, e, measurement.DA(0.01), []float64{math.NaN()}, true))
	}

	assert.Equal(t, []float64{0.8, 0.75, 0.7}, table.Distinct(ColVoidRatio))
	assert.Empty(t, table.Distinct("E"))
}
