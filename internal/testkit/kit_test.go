package testkit

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestRunSpec_FileName(t *testing.T) {
	spec := RunSpec{CSR: 0.4, VoidRatio: 0.75, Replicate: 1}
	assert.Equal(t, "Test01_CSR0.40_e0.750_(1).xlsx", spec.FileName(1))
}

func TestRunSpec_RowsAreMonotonicInDA(t *testing.T) {
	spec := RunSpec{CSR: 0.2, VoidRatio: 0.8, Steps: 50, Seed: 1, FinalDA: 0.05}
	rows := spec.Rows()
	require.Len(t, rows, 50)

	prev := -1.0
	for _, r := range rows {
		da := r[1].(float64)
		assert.GreaterOrEqual(t, da, prev)
		prev = da
	}
	assert.InDelta(t, 0.05, prev, 1e-12)
}

func TestWriteRuns(t *testing.T) {
	dir := t.TempDir()
	paths, err := WriteRuns(dir, Grid([]float64{0.1}, []float64{0.7, 0.8}, 2, 10))
	require.NoError(t, err)
	require.Len(t, paths, 4)

	f, err := excelize.OpenFile(filepath.Join(paths[0]))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	assert.Equal(t, Headers, rows[0])
	assert.Len(t, rows, 11)
}
