package excel

import (
	"math"
	"os"
	"path/filepath"

	"liquefy/domain/result"
	"liquefy/internal/errors"
	"liquefy/internal/resulttable"

	"github.com/xuri/excelize/v2"
)

// WriteTable exports a result table to an xlsx workbook with one header row.
// NaN cells are left empty.
func WriteTable(path string, table *result.Table, cfg WriterConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.IOError(filepath.Dir(path), err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := cfg.Sheet
	if sheet == "" {
		sheet = DefaultWriterConfig().Sheet
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return errors.Wrap(err, "failed to name result sheet")
	}

	header := table.Header()
	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return errors.Wrap(err, "failed to write header row")
	}

	for i, rec := range table.Records {
		row := make([]interface{}, 0, len(header))
		row = append(row, rec.FileName)
		for _, v := range resulttable.Row(table, rec) {
			if math.IsNaN(v) {
				row = append(row, nil)
				continue
			}
			row = append(row, v)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Wrap(err, "failed to address result row")
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return errors.Wrapf(err, "failed to write result row %d", i+1)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.IOError(path, err)
	}
	return nil
}
