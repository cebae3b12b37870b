package resulttable

import (
	"bufio"
	"encoding/csv"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"liquefy/domain/result"
	"liquefy/internal/errors"
)

var fixedHeader = []string{
	result.ColFileName, result.ColCSR, result.ColVoidRatio, result.ColTargetDA, result.ColTargetRu,
}

// Save writes table to path, creating the parent directory. The file is
// written next to path and renamed into place, so a failed save leaves any
// previous result intact.
func Save(table *result.Table, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.IOError(dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.IOError(dir, err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	if err := Write(w, table); err != nil {
		tmp.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return errors.IOError(path, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.IOError(path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.IOError(path, err)
	}
	return nil
}

// Write encodes table as comma separated text with a header row. Numbers use
// the shortest decimal form that parses back to the same float64; NaN is an
// empty field.
func Write(w io.Writer, table *result.Table) error {
	cw := csv.NewWriter(w)
	header := table.Header()
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, "failed to write result header")
	}

	line := make([]string, len(header))
	for _, rec := range table.Records {
		for i, v := range Row(table, rec) {
			line[i+1] = FormatFloat(v)
		}
		line[0] = rec.FileName
		if err := cw.Write(line); err != nil {
			return errors.Wrap(err, "failed to write result row")
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(err, "failed to flush result table")
	}
	return nil
}

// Row returns the numeric cells of rec in header order, after the file name.
// Covariates are taken by position so a covariate sharing a name with a fixed
// column keeps its own value.
func Row(table *result.Table, rec result.Record) []float64 {
	row := make([]float64, 0, len(fixedHeader)+len(table.Covariates))
	row = append(row, rec.CSR, rec.VoidRatio, rec.TargetDA, rec.TargetRu)
	for i := range table.Covariates {
		v := math.NaN()
		if i < len(rec.Covariates) {
			v = rec.Covariates[i]
		}
		row = append(row, v)
	}
	reached := 0.0
	if rec.Reached {
		reached = 1
	}
	return append(row, reached)
}

// Load reads a table saved by Save
func Load(path string) (*result.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.IOError(path, err)
	}
	defer f.Close()

	table, err := Read(f)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return table, nil
}

// Read decodes a result table. A trailing reached_threshold column is
// optional; tables without it load with every record marked as reached.
func Read(r io.Reader) (*result.Table, error) {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, errors.Wrap(err, "malformed result table"))
	}
	if len(rows) == 0 {
		return nil, errors.InvalidInput("result table has no header")
	}

	header := rows[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	if len(header) < len(fixedHeader) {
		return nil, errors.InvalidInput("result table header is too short")
	}
	for i, name := range fixedHeader {
		if header[i] != name {
			return nil, errors.InvalidInput("result table column " + strconv.Itoa(i+1) + " must be " + name + ", got " + header[i])
		}
	}

	covariates := header[len(fixedHeader):]
	hasReached := len(covariates) > 0 && covariates[len(covariates)-1] == result.ColReached
	if hasReached {
		covariates = covariates[:len(covariates)-1]
	}

	table := result.NewTable(covariates)
	for n, row := range rows[1:] {
		if len(row) != len(header) {
			return nil, errors.InvalidInput("result table line " + strconv.Itoa(n+2) + " has " + strconv.Itoa(len(row)) + " fields")
		}
		nums := make([]float64, len(row)-1)
		for i, cell := range row[1:] {
			v, err := ParseFloat(cell)
			if err != nil {
				return nil, errors.InvalidInput("result table line " + strconv.Itoa(n+2) + " column " + header[i+1] + ": " + strconv.Quote(cell) + " is not a number")
			}
			nums[i] = v
		}

		rec := result.Record{
			FileName:   row[0],
			CSR:        nums[0],
			VoidRatio:  nums[1],
			TargetDA:   nums[2],
			TargetRu:   nums[3],
			Covariates: nums[4 : 4+len(covariates)],
			Reached:    true,
		}
		if hasReached {
			rec.Reached = nums[len(nums)-1] != 0
		}
		table.Append(rec)
	}
	return table, nil
}

// FormatFloat renders v without exponent and without loss of precision
func FormatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseFloat is the inverse of FormatFloat
func ParseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}
