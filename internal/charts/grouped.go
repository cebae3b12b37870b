package charts

import (
	"context"
	"math"
	"os"
	"path/filepath"

	"liquefy/domain/chart"
	"liquefy/domain/result"
	"liquefy/internal/errors"
	"liquefy/internal/resulttable"
	"liquefy/ports"

	"github.com/sirupsen/logrus"
)

// Constraint pins a column to one value
type Constraint struct {
	Column string
	Value  float64
}

// ChartSpec describes one chart: the rows it keeps, how they are grouped and what is plotted
type ChartSpec struct {
	// Name is the output file stem
	Name     string
	Title    string
	Fixed    []Constraint
	Category string
	Value    string
}

// Group is one category of a chart with the plotted values of its rows
type Group struct {
	Category float64
	Label    string
	Values   []float64
	// Censored counts matching rows whose indicator never reached the target
	Censored int
}

// Options controls filtering and the chart frame
type Options struct {
	OutputDir string
	YMin      float64
	YMax      float64
	// Tolerance is the absolute difference under which two column values are equal
	Tolerance float64
	// ExcludeCensored drops last-row fallback records from the distributions
	ExcludeCensored bool
}

// Outcome is what happened to one chart
type Outcome struct {
	Spec    ChartSpec
	Path    string
	Boxes   int
	Skipped bool
	Reason  error
}

// Report collects the outcomes of a chart run
type Report struct {
	Written []Outcome
	Skipped []Outcome
}

// Renderer filters a result table into groups and draws one box plot per chart
type Renderer struct {
	backend ports.BoxPlotRenderer
	opts    Options
	log     logrus.FieldLogger
}

// NewRenderer creates a renderer drawing through backend
func NewRenderer(backend ports.BoxPlotRenderer, opts Options, log logrus.FieldLogger) *Renderer {
	return &Renderer{backend: backend, opts: opts, log: log}
}

// Select keeps the rows matching every fixed constraint and groups their values by
// category, in the order categories first appear in the table
func Select(table *result.Table, spec ChartSpec, opts Options) ([]Group, error) {
	columns := []string{spec.Category, spec.Value}
	for _, c := range spec.Fixed {
		columns = append(columns, c.Column)
	}
	for _, c := range columns {
		if !table.HasColumn(c) {
			return nil, errors.InvalidInput("result table has no column " + c)
		}
	}

	var groups []Group
	for _, rec := range table.Records {
		if !matchesAll(table, rec, spec.Fixed, opts.Tolerance) {
			continue
		}
		category, _ := table.Value(rec, spec.Category)
		if math.IsNaN(category) {
			continue
		}

		i := findGroup(groups, category, opts.Tolerance)
		if i < 0 {
			groups = append(groups, Group{Category: category, Label: resulttable.FormatFloat(category)})
			i = len(groups) - 1
		}
		if !rec.Reached {
			groups[i].Censored++
			if opts.ExcludeCensored {
				continue
			}
		}
		v, _ := table.Value(rec, spec.Value)
		groups[i].Values = append(groups[i].Values, v)
	}
	return groups, nil
}

func matchesAll(table *result.Table, rec result.Record, fixed []Constraint, tol float64) bool {
	for _, c := range fixed {
		v, ok := table.Value(rec, c.Column)
		if !ok || !equal(v, c.Value, tol) {
			return false
		}
	}
	return true
}

func findGroup(groups []Group, category, tol float64) int {
	for i, g := range groups {
		if equal(g.Category, category, tol) {
			return i
		}
	}
	return -1
}

func equal(a, b, tol float64) bool {
	return a == b || math.Abs(a-b) <= tol
}

// BoxPlot turns the groups of spec into a drawable chart. Groups without a
// finite value are left out.
func (r *Renderer) BoxPlot(spec ChartSpec, groups []Group) chart.BoxPlot {
	plot := chart.BoxPlot{
		Title:  spec.Title,
		XLabel: spec.Category,
		YLabel: spec.Value,
		YMin:   r.opts.YMin,
		YMax:   r.opts.YMax,
	}
	for _, g := range groups {
		if box, ok := ComputeBox(g.Label, g.Values); ok {
			plot.Boxes = append(plot.Boxes, box)
		}
	}
	return plot
}

// Render draws spec to outputPath. A chart whose filter leaves nothing to plot
// is skipped: no file is created and the outcome carries an EMPTY_GROUP reason.
func (r *Renderer) Render(ctx context.Context, table *result.Table, spec ChartSpec, outputPath string) (Outcome, error) {
	outcome := Outcome{Spec: spec, Path: outputPath}
	log := r.log.WithField("chart", spec.Name)

	if err := ctx.Err(); err != nil {
		return outcome, err
	}

	groups, err := Select(table, spec, r.opts)
	if err != nil {
		return outcome, errors.Wrapf(err, "chart %s", spec.Name)
	}
	plot := r.BoxPlot(spec, groups)
	if len(plot.Boxes) == 0 {
		outcome.Skipped = true
		outcome.Reason = errors.EmptyGroup(spec.Name)
		log.WithField("code", errors.CodeEmptyGroup).Warn("no rows match, chart skipped")
		return outcome, nil
	}
	outcome.Boxes = len(plot.Boxes)

	if err := r.write(ctx, plot, outputPath); err != nil {
		return outcome, err
	}
	log.WithFields(logrus.Fields{"path": outputPath, "boxes": outcome.Boxes}).Info("chart written")
	return outcome, nil
}

// write owns the output file for the duration of one render
func (r *Renderer) write(ctx context.Context, plot chart.BoxPlot, path string) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.IOError(filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.IOError(path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.IOError(path, cerr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	if err := r.backend.RenderBoxPlot(ctx, plot, f); err != nil {
		return errors.Wrapf(err, "failed to render %s", filepath.Base(path))
	}
	return nil
}

// RenderAll draws every spec into the output directory. Empty charts are
// collected as skips; any other failure stops the run.
func (r *Renderer) RenderAll(ctx context.Context, table *result.Table, specs []ChartSpec) (*Report, error) {
	report := &Report{}
	for _, spec := range specs {
		path := filepath.Join(r.opts.OutputDir, spec.Name+r.backend.Extension())
		outcome, err := r.Render(ctx, table, spec, path)
		if err != nil {
			return report, err
		}
		if outcome.Skipped {
			report.Skipped = append(report.Skipped, outcome)
			continue
		}
		report.Written = append(report.Written, outcome)
	}

	r.log.WithFields(logrus.Fields{
		"written": len(report.Written),
		"skipped": len(report.Skipped),
	}).Info("charts complete")
	return report, nil
}
