package testkit

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// Headers used by the synthetic runs, matching the default configuration
var Headers = []string{"Step", "DA", "s12(kPa)", "plastDissip(Nm)", "過剰間隙水圧比"}

// RunSpec describes a synthetic cyclic test
type RunSpec struct {
	CSR       float64
	VoidRatio float64
	Replicate int
	Steps     int
	Seed      int64
	// FinalDA is the DA fraction reached on the last step
	FinalDA float64
}

// FileName follows the Test01_CSR0.40_e0.750_(1).xlsx convention
func (s RunSpec) FileName(index int) string {
	return fmt.Sprintf("Test%02d_CSR%.2f_e%.3f_(%d).xlsx", index, s.CSR, s.VoidRatio, s.Replicate)
}

// Rows generates a load-step sequence: DA grows smoothly to FinalDA, ru rises
// towards 1, and dissipated energy accumulates with a little noise.
func (s RunSpec) Rows() [][]interface{} {
	steps := s.Steps
	if steps < 2 {
		steps = 2
	}
	rng := rand.New(rand.NewSource(s.Seed))
	rows := make([][]interface{}, steps)
	energy := 0.0
	for i := 0; i < steps; i++ {
		t := float64(i) / float64(steps-1)
		da := s.FinalDA * t * t
		ru := 1 - math.Exp(-4*t)
		energy += s.CSR * (0.0005 + 0.0002*rng.Float64()) / s.VoidRatio
		shear := 100 * s.CSR * math.Sin(float64(i))
		rows[i] = []interface{}{i, da, shear, energy, ru}
	}
	return rows
}

// WriteXLSX writes headers and rows to Sheet1 of a new workbook
func WriteXLSX(path string, headers []string, rows [][]interface{}) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx == -1 {
		idx, err := f.NewSheet(sheet)
		if err != nil {
			return err
		}
		f.SetActiveSheet(idx)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for r := 0; r < len(rows); r++ {
		rowIdx := r + 2
		for c, v := range rows[r] {
			if v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, rowIdx)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	return f.SaveAs(path)
}

// WriteRuns writes one workbook per spec into dir and returns their paths
func WriteRuns(dir string, specs []RunSpec) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(specs))
	for i, spec := range specs {
		path := filepath.Join(dir, spec.FileName(i+1))
		if err := WriteXLSX(path, Headers, spec.Rows()); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Grid builds replicated specs over every CSR and void ratio combination
func Grid(csrs, voidRatios []float64, replicates, steps int) []RunSpec {
	var specs []RunSpec
	seed := int64(42)
	for _, csr := range csrs {
		for _, e := range voidRatios {
			for r := 1; r <= replicates; r++ {
				specs = append(specs, RunSpec{
					CSR:       csr,
					VoidRatio: e,
					Replicate: r,
					Steps:     steps,
					Seed:      seed,
					FinalDA:   0.02 + 0.1*csr + 0.01*float64(r),
				})
				seed++
			}
		}
	}
	return specs
}
