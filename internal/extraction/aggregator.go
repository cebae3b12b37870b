package extraction

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"liquefy/domain/core"
	"liquefy/domain/measurement"
	"liquefy/domain/result"
	"liquefy/internal/errors"
	"liquefy/internal/runparams"
	"liquefy/ports"

	"github.com/sirupsen/logrus"
)

// Options configures a batch
type Options struct {
	DAColumn   string
	RuColumn   string
	Covariates []string
	// DATargets are fractions (0.01 = 1%)
	DATargets []float64
	RuTargets []float64
	// SkipInvalid reports and skips malformed files instead of aborting the batch
	SkipInvalid bool
}

// Targets returns every DA target followed by every ru target
func (o Options) Targets() []measurement.Target {
	targets := make([]measurement.Target, 0, len(o.DATargets)+len(o.RuTargets))
	for _, v := range o.DATargets {
		targets = append(targets, measurement.DA(v))
	}
	for _, v := range o.RuTargets {
		targets = append(targets, measurement.Ru(v))
	}
	return targets
}

func (o Options) requiredColumns() []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range append([]string{o.DAColumn, o.RuColumn}, o.Covariates...) {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// SkippedFile is a file left out of the table under SkipInvalid
type SkippedFile struct {
	Path string
	Err  error
}

// Report is the outcome of a batch
type Report struct {
	BatchID   core.BatchID
	Table     *result.Table
	Processed []string
	Skipped   []SkippedFile
	// Censored counts records where the indicator never reached the target
	Censored int
	Duration time.Duration
}

// Aggregator runs the threshold extraction over a set of run spreadsheets
type Aggregator struct {
	loader ports.SeriesLoader
	parser *runparams.Parser
	opts   Options
	log    logrus.FieldLogger
}

// NewAggregator creates an aggregator
func NewAggregator(loader ports.SeriesLoader, parser *runparams.Parser, opts Options, log logrus.FieldLogger) *Aggregator {
	return &Aggregator{
		loader: loader,
		parser: parser,
		opts:   opts,
		log:    log,
	}
}

// Run processes files in lexicographic order of their base names. For each file
// the DA-target records come first, in target order, then the ru-target records.
func (a *Aggregator) Run(ctx context.Context, files []string) (*Report, error) {
	start := time.Now()
	report := &Report{
		BatchID: core.NewBatchID(),
		Table:   result.NewTable(a.opts.Covariates),
	}
	log := a.log.WithField("batch_id", report.BatchID)

	ordered := SortFiles(files)
	log.WithField("files", len(ordered)).Info("starting extraction batch")

	for i, path := range ordered {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fileLog := log.WithField("file", filepath.Base(path))
		records, censored, err := a.processFile(ctx, path)
		if err != nil {
			if !a.opts.SkipInvalid {
				fileLog.WithError(err).Error("extraction failed, aborting batch")
				return nil, errors.Wrapf(err, "batch aborted at %s", path)
			}
			fileLog.WithError(err).WithField("code", errors.GetCode(err)).Warn("skipping file")
			report.Skipped = append(report.Skipped, SkippedFile{Path: path, Err: err})
			continue
		}

		report.Table.Append(records...)
		report.Processed = append(report.Processed, path)
		report.Censored += censored
		fileLog.WithFields(logrus.Fields{
			"progress": progress(i+1, len(ordered)),
			"records":  len(records),
			"censored": censored,
		}).Info("file processed")
	}

	report.Duration = time.Since(start)
	log.WithFields(logrus.Fields{
		"processed": len(report.Processed),
		"skipped":   len(report.Skipped),
		"records":   report.Table.Len(),
		"duration":  report.Duration.Round(time.Millisecond),
	}).Info("extraction batch complete")
	return report, nil
}

// processFile returns all records of one file, or none. The loaded series is
// dropped on return so only one raw table is held at a time.
func (a *Aggregator) processFile(ctx context.Context, path string) ([]result.Record, int, error) {
	params, err := a.parser.Parse(path)
	if err != nil {
		return nil, 0, err
	}

	series, err := a.loader.Load(ctx, path, a.opts.requiredColumns())
	if err != nil {
		return nil, 0, err
	}

	name := filepath.Base(path)
	targets := a.opts.Targets()
	records := make([]result.Record, 0, len(targets))
	censored := 0
	for _, target := range targets {
		indicator := a.opts.DAColumn
		if target.Kind == measurement.TargetRu {
			indicator = a.opts.RuColumn
		}

		crossing, err := Extract(series, indicator, target.Value, a.opts.Covariates)
		if err != nil {
			return nil, 0, errors.Wrapf(err, "%s", target)
		}
		if !crossing.Reached {
			censored++
			a.log.WithFields(logrus.Fields{"file": name, "target": target.String()}).
				Debug("target not reached, using last row")
		}
		records = append(records, result.NewRecord(name, params.CSR, params.VoidRatio, target, crossing.Values, crossing.Reached))
	}
	return records, censored, nil
}

// SortFiles returns a copy of files ordered by base name, then full path
func SortFiles(files []string) []string {
	out := append([]string(nil), files...)
	sort.SliceStable(out, func(i, j int) bool {
		bi, bj := filepath.Base(out[i]), filepath.Base(out[j])
		if bi != bj {
			return bi < bj
		}
		return out[i] < out[j]
	})
	return out
}

// DiscoverFiles lists the run spreadsheets in dir matching pattern. Office lock
// files (~$name.xlsx) and the paths in exclude, such as earlier result outputs
// written into the same directory, are ignored.
func DiscoverFiles(dir, pattern string, exclude ...string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.IOError(dir, err)
	}
	if !info.IsDir() {
		return nil, errors.InvalidInput(dir + " is not a directory")
	}

	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, errors.Wrapf(errors.ConfigInvalid(err.Error()), "input pattern %q", pattern)
	}

	skip := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		skip[absPath(e)] = true
	}

	var files []string
	for _, m := range matches {
		if strings.HasPrefix(filepath.Base(m), "~$") || skip[absPath(m)] {
			continue
		}
		if fi, err := os.Stat(m); err == nil && fi.Mode().IsRegular() {
			files = append(files, m)
		}
	}
	return SortFiles(files), nil
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

func progress(done, total int) string {
	return fmt.Sprintf("%d/%d", done, total)
}
