package container

import (
	"liquefy/adapters/excel"
	"liquefy/adapters/plot"
	"liquefy/internal/charts"
	"liquefy/internal/config"
	"liquefy/internal/errors"
	"liquefy/internal/extraction"
	"liquefy/internal/runparams"
	"liquefy/ports"

	"github.com/sirupsen/logrus"
)

// Container holds the components of one pipeline, built from a Config
type Container struct {
	Config *config.Config
	Log    logrus.FieldLogger

	// Extraction
	Loader     ports.SeriesLoader
	Parser     *runparams.Parser
	Aggregator *extraction.Aggregator

	// Charts
	ChartBackend ports.BoxPlotRenderer
	Charts       *charts.Renderer
	Plans        []charts.Plan
}

// New creates a container with every component wired
func New(cfg *config.Config, log logrus.FieldLogger) (*Container, error) {
	if cfg == nil {
		return nil, errors.ConfigInvalid("config cannot be nil")
	}

	c := &Container{
		Config: cfg,
		Log:    log,
	}

	if err := c.initExtraction(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize extraction")
	}
	if err := c.initCharts(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize charts")
	}

	log.WithFields(logrus.Fields{
		"input_dir":  cfg.Input.Dir,
		"result_dir": cfg.ResultDir(),
		"charts":     cfg.Chart.Enabled,
	}).Debug("container initialized")
	return c, nil
}

func (c *Container) initExtraction() error {
	parser, err := runparams.NewParser(c.Config.Input.CSRPattern, c.Config.Input.VoidRatioPattern)
	if err != nil {
		return err
	}
	c.Parser = parser
	c.Loader = excel.NewDataReader(excel.ReaderConfigFrom(c.Config.Input), c.Log)
	c.Aggregator = extraction.NewAggregator(c.Loader, c.Parser, ExtractionOptions(c.Config), c.Log)
	return nil
}

func (c *Container) initCharts() error {
	plans, err := charts.ParsePlans(c.Config.Chart.Plans)
	if err != nil {
		return err
	}
	c.Plans = plans

	// The font is only read when charts will be drawn
	if !c.Config.Chart.Enabled {
		return nil
	}
	return c.InitChartBackend()
}

// InitChartBackend builds the PNG renderer. Commands that draw charts while
// charts are disabled for the batch call it explicitly.
func (c *Container) InitChartBackend() error {
	if c.Charts != nil {
		return nil
	}
	backend, err := plot.NewBoxPlotRenderer(plot.Config{
		Width:    c.Config.Chart.Width,
		Height:   c.Config.Chart.Height,
		FontPath: c.Config.Chart.FontPath,
	})
	if err != nil {
		return err
	}
	c.ChartBackend = backend
	c.Charts = charts.NewRenderer(backend, ChartOptions(c.Config), c.Log)
	return nil
}

// ExtractionOptions maps the configuration onto aggregator options
func ExtractionOptions(cfg *config.Config) extraction.Options {
	return extraction.Options{
		DAColumn:    cfg.Extraction.DAColumn,
		RuColumn:    cfg.Extraction.RuColumn,
		Covariates:  cfg.Extraction.Columns,
		DATargets:   cfg.Extraction.DATargets(),
		RuTargets:   cfg.Extraction.RuTargets,
		SkipInvalid: cfg.Input.SkipInvalid,
	}
}

// ChartOptions maps the configuration onto chart options
func ChartOptions(cfg *config.Config) charts.Options {
	return charts.Options{
		OutputDir:       cfg.ResultDir(),
		YMin:            cfg.Chart.YMin,
		YMax:            cfg.Chart.YMax,
		Tolerance:       cfg.Chart.FilterTolerance,
		ExcludeCensored: cfg.Chart.ExcludeCensored,
	}
}
