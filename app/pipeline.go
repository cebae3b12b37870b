package app

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"liquefy/adapters/excel"
	"liquefy/domain/result"
	"liquefy/internal/charts"
	"liquefy/internal/config"
	"liquefy/internal/container"
	"liquefy/internal/errors"
	"liquefy/internal/extraction"
	"liquefy/internal/resulttable"

	"github.com/sirupsen/logrus"
)

// Pipeline runs the batch: extraction into a result table, then charts
type Pipeline struct {
	container *container.Container
	config    *config.Config
	log       logrus.FieldLogger
}

// ExtractResult is the outcome of the extraction stage
type ExtractResult struct {
	Report   *extraction.Report
	CSVPath  string
	XLSXPath string
}

// RunResult is the outcome of a full run
type RunResult struct {
	Extract *ExtractResult
	Charts  *charts.Report
	Elapsed time.Duration
}

// NewPipeline wires a pipeline from cfg
func NewPipeline(cfg *config.Config, log logrus.FieldLogger) (*Pipeline, error) {
	c, err := container.New(cfg, log)
	if err != nil {
		return nil, err
	}
	return &Pipeline{container: c, config: cfg, log: log}, nil
}

// Run extracts and, when enabled, charts the result
func (p *Pipeline) Run(ctx context.Context) (*RunResult, error) {
	start := time.Now()
	extracted, err := p.Extract(ctx)
	if err != nil {
		return nil, err
	}

	out := &RunResult{Extract: extracted}
	if p.config.Chart.Enabled {
		out.Charts, err = p.Chart(ctx, extracted.Report.Table)
		if err != nil {
			return out, err
		}
	}
	out.Elapsed = time.Since(start)
	return out, nil
}

// Extract processes every run spreadsheet of the input directory and saves the table
func (p *Pipeline) Extract(ctx context.Context) (*ExtractResult, error) {
	if p.config.Input.Dir == "" {
		return nil, errors.ConfigInvalid("LIQ_INPUT_DIR is required for extraction")
	}
	resultPath := p.config.ResultPath()
	files, err := extraction.DiscoverFiles(p.config.Input.Dir, p.config.Input.Pattern, resultPath, xlsxPath(resultPath))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.InvalidInput("no files in " + p.config.Input.Dir + " match " + p.config.Input.Pattern)
	}

	report, err := p.container.Aggregator.Run(ctx, files)
	if err != nil {
		return nil, err
	}

	out := &ExtractResult{Report: report, CSVPath: p.config.ResultPath()}
	if err := resulttable.Save(report.Table, out.CSVPath); err != nil {
		return nil, errors.Wrap(err, "failed to save result table")
	}
	p.log.WithFields(logrus.Fields{"path": out.CSVPath, "records": report.Table.Len()}).Info("result table saved")

	if p.config.Output.ExportXLSX {
		out.XLSXPath = xlsxPath(out.CSVPath)
		if err := excel.WriteTable(out.XLSXPath, report.Table, excel.DefaultWriterConfig()); err != nil {
			return nil, errors.Wrap(err, "failed to export result workbook")
		}
		p.log.WithField("path", out.XLSXPath).Info("result workbook saved")
	}
	return out, nil
}

// Chart draws every planned chart of table into the result directory
func (p *Pipeline) Chart(ctx context.Context, table *result.Table) (*charts.Report, error) {
	if err := p.container.InitChartBackend(); err != nil {
		return nil, err
	}
	specs, err := p.Specs(table)
	if err != nil {
		return nil, err
	}
	p.log.WithField("charts", len(specs)).Info("rendering charts")
	return p.container.Charts.RenderAll(ctx, table, specs)
}

// ChartFile loads a saved result table and charts it
func (p *Pipeline) ChartFile(ctx context.Context, path string) (*charts.Report, error) {
	table, err := resulttable.Load(path)
	if err != nil {
		return nil, err
	}
	return p.Chart(ctx, table)
}

// Summarize returns the per-category statistics of every planned chart
func (p *Pipeline) Summarize(table *result.Table) ([]charts.GroupSummary, error) {
	specs, err := p.Specs(table)
	if err != nil {
		return nil, err
	}
	return charts.Summarize(table, specs, container.ChartOptions(p.config))
}

// Specs expands the configured chart plans against table
func (p *Pipeline) Specs(table *result.Table) ([]charts.ChartSpec, error) {
	return charts.BuildSpecs(table, p.container.Plans, p.config.Chart.ValueColumn)
}

func xlsxPath(csvPath string) string {
	return strings.TrimSuffix(csvPath, filepath.Ext(csvPath)) + ".xlsx"
}
