package excel

import (
	"context"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"liquefy/domain/measurement"
	"liquefy/internal/errors"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// DataReader reads run spreadsheets (xlsx, or csv by extension) into measurement series
type DataReader struct {
	config ReaderConfig
	log    logrus.FieldLogger
}

// NewDataReader creates a reader
func NewDataReader(config ReaderConfig, log logrus.FieldLogger) *DataReader {
	return &DataReader{config: config, log: log}
}

// Load implements ports.SeriesLoader
func (r *DataReader) Load(ctx context.Context, path string, required []string) (*measurement.Series, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := r.ReadData(path)
	if err != nil {
		return nil, err
	}
	return toSeries(filepath.Base(path), data, required)
}

// ReadData reads the raw header and rows of a file
func (r *DataReader) ReadData(path string) (*RawData, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.IOError(path, err)
	}

	switch fileType(path) {
	case "csv":
		return r.readCSVData(path)
	default:
		return r.readExcelData(path)
	}
}

func fileType(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return "csv"
	}
	return "xlsx"
}

// readExcelData reads the configured sheet, or the active one, with raw cell values
func (r *DataReader) readExcelData(path string) (*RawData, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.IOError(path, err)
	}
	defer f.Close()

	sheet := r.config.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(f.GetActiveSheetIndex())
	}

	// Raw values: number formats such as "0.00" must not round the measurements.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.Wrapf(errors.SchemaErrorf(filepath.Base(path), "cannot read sheet %q", sheet), "%v", err)
	}

	r.log.WithFields(logrus.Fields{
		"file":     filepath.Base(path),
		"sheet":    sheet,
		"rows":     len(rows),
		"duration": time.Since(startTime).Round(time.Millisecond),
	}).Debug("workbook read")

	return splitHeader(rows), nil
}

func (r *DataReader) readCSVData(path string) (*RawData, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.IOError(path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(errors.SchemaErrorf(filepath.Base(path), "malformed CSV"), "%v", err)
	}

	r.log.WithFields(logrus.Fields{"file": filepath.Base(path), "rows": len(rows)}).Debug("csv read")
	return splitHeader(rows), nil
}

func splitHeader(rows [][]string) *RawData {
	if len(rows) == 0 {
		return &RawData{}
	}
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}
	return &RawData{Headers: headers, Rows: rows[1:]}
}

// toSeries keeps only the required columns and parses them as numbers. Blank
// cells become NaN; any other non-numeric text is a schema error.
func toSeries(name string, data *RawData, required []string) (*measurement.Series, error) {
	index := make(map[string]int, len(data.Headers))
	for i, h := range data.Headers {
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}

	var missing []string
	cols := make([]int, len(required))
	for i, c := range required {
		idx, ok := index[c]
		if !ok {
			missing = append(missing, c)
			continue
		}
		cols[i] = idx
	}
	if len(missing) > 0 {
		return nil, errors.SchemaError(name, missing)
	}

	rows := make([][]float64, 0, len(data.Rows))
	for i, raw := range data.Rows {
		if blankRow(raw) {
			continue
		}
		row := make([]float64, len(required))
		for j, idx := range cols {
			cell := ""
			if idx < len(raw) {
				cell = strings.TrimSpace(raw[idx])
			}
			v, err := parseCell(cell)
			if err != nil {
				// +2: one for the header, one for 1-based spreadsheet rows
				return nil, errors.SchemaErrorf(name, "column %q row %d: non-numeric value %q", required[j], i+2, cell)
			}
			row[j] = v
		}
		rows = append(rows, row)
	}

	return measurement.NewSeries(name, append([]string(nil), required...), rows), nil
}

func parseCell(cell string) (float64, error) {
	if cell == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(cell, 64)
}

// Trailing empty rows are common in exported workbooks
func blankRow(raw []string) bool {
	for _, c := range raw {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
