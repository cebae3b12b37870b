package result

import (
	"math"

	"liquefy/domain/measurement"
)

// NotApplicable marks the target column that did not produce a record
const NotApplicable = -1.0

// Fixed column names of the result table
const (
	ColFileName  = "file_name"
	ColCSR       = "CSR"
	ColVoidRatio = "e"
	ColTargetDA  = "target_DA"
	ColTargetRu  = "target_ru"
	ColReached   = "reached_threshold"
)

// FixedColumns lists the column names a covariate may not take
func FixedColumns() []string {
	return []string{ColFileName, ColCSR, ColVoidRatio, ColTargetDA, ColTargetRu, ColReached}
}

// Record is one (run, target) extraction
type Record struct {
	FileName  string
	CSR       float64
	VoidRatio float64
	TargetDA  float64
	TargetRu  float64
	// Covariates are aligned with Table.Covariates
	Covariates []float64
	// Reached is false when the indicator never hit the target and the last row was used
	Reached bool
}

// NewRecord builds a record for target, setting the other target column to NotApplicable
func NewRecord(fileName string, csr, voidRatio float64, target measurement.Target, covariates []float64, reached bool) Record {
	r := Record{
		FileName:   fileName,
		CSR:        csr,
		VoidRatio:  voidRatio,
		TargetDA:   NotApplicable,
		TargetRu:   NotApplicable,
		Covariates: covariates,
		Reached:    reached,
	}
	if target.Kind == measurement.TargetDA {
		r.TargetDA = target.Value
	} else {
		r.TargetRu = target.Value
	}
	return r
}

// Target reports which target produced the record
func (r Record) Target() measurement.Target {
	if r.TargetDA != NotApplicable {
		return measurement.DA(r.TargetDA)
	}
	return measurement.Ru(r.TargetRu)
}

// Table is the consolidated result of a batch, in production order
type Table struct {
	Covariates []string
	Records    []Record
}

// NewTable creates an empty table with the given covariate columns
func NewTable(covariates []string) *Table {
	return &Table{Covariates: append([]string(nil), covariates...)}
}

// Append adds records at the end of the table
func (t *Table) Append(records ...Record) {
	t.Records = append(t.Records, records...)
}

// Len returns the number of records
func (t *Table) Len() int {
	return len(t.Records)
}

// Header returns all column names in file order
func (t *Table) Header() []string {
	header := []string{ColFileName, ColCSR, ColVoidRatio, ColTargetDA, ColTargetRu}
	header = append(header, t.Covariates...)
	return append(header, ColReached)
}

// HasColumn reports whether column can be read as a number
func (t *Table) HasColumn(column string) bool {
	switch column {
	case ColCSR, ColVoidRatio, ColTargetDA, ColTargetRu, ColReached:
		return true
	}
	return t.covariateIndex(column) >= 0
}

// Value reads a numeric column from a record. Fixed columns shadow covariates of the same name.
func (t *Table) Value(r Record, column string) (float64, bool) {
	switch column {
	case ColCSR:
		return r.CSR, true
	case ColVoidRatio:
		return r.VoidRatio, true
	case ColTargetDA:
		return r.TargetDA, true
	case ColTargetRu:
		return r.TargetRu, true
	case ColReached:
		if r.Reached {
			return 1, true
		}
		return 0, true
	}
	i := t.covariateIndex(column)
	if i < 0 || i >= len(r.Covariates) {
		return math.NaN(), false
	}
	return r.Covariates[i], true
}

// Distinct returns the distinct values of column in first-seen order. NaN is skipped.
func (t *Table) Distinct(column string) []float64 {
	var out []float64
	seen := make(map[float64]bool)
	for _, r := range t.Records {
		v, ok := t.Value(r, column)
		if !ok || math.IsNaN(v) || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func (t *Table) covariateIndex(column string) int {
	for i, c := range t.Covariates {
		if c == column {
			return i
		}
	}
	return -1
}
