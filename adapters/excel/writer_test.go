package excel

import (
	"math"
	"path/filepath"
	"testing"

	"liquefy/domain/measurement"
	"liquefy/domain/result"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteTable(t *testing.T) {
	table := result.NewTable([]string{"DA", "E"})
	table.Append(
		result.NewRecord("a.xlsx", 0.4, 0.75, measurement.DA(0.01), []float64{0.02, 0.01}, true),
		result.NewRecord("a.xlsx", 0.4, 0.75, measurement.Ru(0.1), []float64{0.02, math.NaN()}, false),
	)

	path := filepath.Join(t.TempDir(), "out", "result.xlsx")
	require.NoError(t, WriteTable(path, table, DefaultWriterConfig()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("result")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, table.Header(), rows[0])
	assert.Equal(t, []string{"a.xlsx", "0.4", "0.75", "0.01", "-1", "0.02", "0.01", "1"}, rows[1])
	assert.Equal(t, "", rows[2][6])
	assert.Equal(t, "0", rows[2][7])
}

func TestWriteTable_CovariateNamedLikeFixedColumn(t *testing.T) {
	table := result.NewTable([]string{"e"})
	table.Append(result.NewRecord("a.xlsx", 0.4, 0.75, measurement.DA(0.01), []float64{0.69}, true))

	path := filepath.Join(t.TempDir(), "result.xlsx")
	require.NoError(t, WriteTable(path, table, DefaultWriterConfig()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("result")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"a.xlsx", "0.4", "0.75", "0.01", "-1", "0.69", "1"}, rows[1])
}
