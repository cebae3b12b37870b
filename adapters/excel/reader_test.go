package excel

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"liquefy/internal/errors"
	"liquefy/internal/logging"
	"liquefy/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newReader() *DataReader {
	return NewDataReader(ReaderConfig{}, logging.Discard())
}

func TestDataReader_LoadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Test01_CSR0.40_e0.750_(1).xlsx")
	require.NoError(t, testkit.WriteXLSX(path,
		[]string{"Step", "DA", "ru", "E", "note"},
		[][]interface{}{
			{0, 0.0, 0.0, 0.0, "start"},
			{1, 0.02, 0.2, 0.01, nil},
			{2, 0.05, nil, 0.03, "end"},
		}))

	series, err := newReader().Load(context.Background(), path, []string{"DA", "ru", "E"})
	require.NoError(t, err)

	assert.Equal(t, "Test01_CSR0.40_e0.750_(1).xlsx", series.Source)
	assert.Equal(t, []string{"DA", "ru", "E"}, series.Headers)
	require.Equal(t, 3, series.Len())
	assert.Equal(t, []float64{0.02, 0.2, 0.01}, series.Rows[1])
	assert.True(t, math.IsNaN(series.Rows[2][1]), "blank cell should load as NaN")
}

func TestDataReader_KeepsFullPrecisionDespiteNumberFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fmt.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "DA"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", 0.0123456789))
	style, err := f.NewStyle(&excelize.Style{NumFmt: 2}) // "0.00"
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("Sheet1", "A2", "A2", style))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	series, err := newReader().Load(context.Background(), path, []string{"DA"})
	require.NoError(t, err)
	assert.Equal(t, 0.0123456789, series.Rows[0][0])
}

func TestDataReader_UsesActiveSheetByDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheets.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "other"))
	idx, err := f.NewSheet("data")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("data", "A1", "DA"))
	require.NoError(t, f.SetCellValue("data", "A2", 0.5))
	f.SetActiveSheet(idx)
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	series, err := newReader().Load(context.Background(), path, []string{"DA"})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0.5}}, series.Rows)

	named := NewDataReader(ReaderConfig{Sheet: "Sheet1"}, logging.Discard())
	_, err = named.Load(context.Background(), path, []string{"DA"})
	assert.True(t, errors.HasCode(err, errors.CodeSchemaError))
}

func TestDataReader_MissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.xlsx")
	require.NoError(t, testkit.WriteXLSX(path, []string{"DA"}, [][]interface{}{{0.1}}))

	_, err := newReader().Load(context.Background(), path, []string{"DA", "ru", "E"})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeSchemaError))
	assert.Contains(t, err.Error(), "ru, E")
	assert.Contains(t, err.Error(), "bad.xlsx")
}

func TestDataReader_NonNumericCell(t *testing.T) {
	path := filepath.Join(t.TempDir(), "text.xlsx")
	require.NoError(t, testkit.WriteXLSX(path, []string{"DA"}, [][]interface{}{{0.1}, {"n/a"}}))

	_, err := newReader().Load(context.Background(), path, []string{"DA"})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeSchemaError))
	assert.Contains(t, err.Error(), "row 3")
}

func TestDataReader_HeaderOnlyGivesEmptySeries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, testkit.WriteXLSX(path, []string{"DA", "ru"}, nil))

	series, err := newReader().Load(context.Background(), path, []string{"DA", "ru"})
	require.NoError(t, err)
	assert.Equal(t, 0, series.Len())
}

func TestDataReader_LoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.csv")
	require.NoError(t, os.WriteFile(path, []byte("DA, ru\n0.01, 0.1\n0.02,0.3\n,\n"), 0644))

	series, err := newReader().Load(context.Background(), path, []string{"ru", "DA"})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0.1, 0.01}, {0.3, 0.02}}, series.Rows)
}

func TestDataReader_MissingFile(t *testing.T) {
	_, err := newReader().Load(context.Background(), filepath.Join(t.TempDir(), "nope.xlsx"), []string{"DA"})
	require.Error(t, err)
	assert.Equal(t, errors.CodeIOError, errors.GetCode(err))
}
