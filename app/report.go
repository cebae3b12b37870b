package app

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"time"

	"liquefy/internal/charts"
	"liquefy/internal/errors"
	"liquefy/internal/extraction"

	"github.com/olekukonko/tablewriter"
)

// WriteExtractReport prints the per-batch totals and any skipped files
func WriteExtractReport(w io.Writer, report *extraction.Report) {
	fmt.Fprintf(w, "Batch %s: %d files, %d records, %d censored, %s\n",
		report.BatchID, len(report.Processed), report.Table.Len(), report.Censored, report.Duration.Round(time.Millisecond))

	if len(report.Skipped) == 0 {
		return
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Skipped file", "Code", "Reason"})
	for _, s := range report.Skipped {
		table.Append([]string{filepath.Base(s.Path), errors.GetCode(s.Err), s.Err.Error()})
	}
	table.Render()
}

// WriteChartReport prints the written and skipped charts
func WriteChartReport(w io.Writer, report *charts.Report) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Chart", "Boxes", "Status"})
	for _, o := range report.Written {
		table.Append([]string{filepath.Base(o.Path), strconv.Itoa(o.Boxes), "written"})
	}
	for _, o := range report.Skipped {
		table.Append([]string{o.Spec.Name, "0", "skipped: " + errors.GetCode(o.Reason)})
	}
	table.Render()
}

// WriteSummary prints group statistics, one row per chart category
func WriteSummary(w io.Writer, summaries []charts.GroupSummary) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Chart", "Category", "N", "Censored", "Mean", "StdDev", "Median"})
	for _, s := range summaries {
		table.Append([]string{
			s.Chart,
			s.Category,
			strconv.Itoa(s.N),
			strconv.Itoa(s.Censored),
			formatStat(s.Mean),
			formatStat(s.StdDev),
			formatStat(s.Median),
		})
	}
	table.Render()
}

func formatStat(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}
