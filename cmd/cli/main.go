package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"liquefy/app"
	"liquefy/internal/config"
	"liquefy/internal/logging"
	"liquefy/internal/resulttable"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// flags shared by every command; empty or unset values keep the loaded configuration
type globalFlags struct {
	configFile  string
	inputDir    string
	resultDir   string
	logLevel    string
	skipInvalid bool
	excludeCens bool
	exportXLSX  bool
}

func main() {
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:   "liquefy",
		Short: "Extract threshold crossings from cyclic liquefaction tests and chart them",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flags.configFile != "" {
				return os.Setenv("LIQ_CONFIG_FILE", flags.configFile)
			}
			return nil
		},
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", "", "YAML configuration file (LIQ_CONFIG_FILE)")
	pf.StringVar(&flags.inputDir, "input", "", "directory of run spreadsheets (LIQ_INPUT_DIR)")
	pf.StringVar(&flags.resultDir, "result-dir", "", "output directory, default <input>/result (LIQ_RESULT_DIR)")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level (LIQ_LOG_LEVEL)")
	pf.BoolVar(&flags.skipInvalid, "skip-invalid", false, "skip and report malformed files instead of aborting")
	pf.BoolVar(&flags.excludeCens, "exclude-censored", false, "leave last-row fallback records out of charts")
	pf.BoolVar(&flags.exportXLSX, "xlsx", false, "also write the result table as a workbook")

	rootCmd.AddCommand(
		newRunCmd(&flags),
		newExtractCmd(&flags),
		newChartCmd(&flags),
		newSummaryCmd(&flags),
	)

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintln(os.Stderr, "warning: .env not loaded:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Extract the result table and render every chart",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			out, err := p.Run(cmd.Context())
			if err != nil {
				return err
			}
			app.WriteExtractReport(cmd.OutOrStdout(), out.Extract.Report)
			if out.Charts != nil {
				app.WriteChartReport(cmd.OutOrStdout(), out.Charts)
			}
			return nil
		},
	}
}

func newExtractCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "extract",
		Short: "Build the result table without drawing charts",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			out, err := p.Extract(cmd.Context())
			if err != nil {
				return err
			}
			app.WriteExtractReport(cmd.OutOrStdout(), out.Report)
			fmt.Fprintln(cmd.OutOrStdout(), "Saved", out.CSVPath)
			return nil
		},
	}
}

func newChartCmd(flags *globalFlags) *cobra.Command {
	var tablePath string

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render charts from an existing result table",
		Long: `Render charts from a saved result table without re-reading the spreadsheets.

Example: liquefy chart --table ./data/result/result.csv --exclude-censored`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, cfg, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			if tablePath == "" {
				tablePath = cfg.ResultPath()
			}
			report, err := p.ChartFile(cmd.Context(), tablePath)
			if err != nil {
				return err
			}
			app.WriteChartReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
	cmd.Flags().StringVar(&tablePath, "table", "", "result table to chart, default <result-dir>/<result-file>")
	return cmd
}

func newSummaryCmd(flags *globalFlags) *cobra.Command {
	var tablePath string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print per-group statistics of the charted metric",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, cfg, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			if tablePath == "" {
				tablePath = cfg.ResultPath()
			}
			table, err := resulttable.Load(tablePath)
			if err != nil {
				return err
			}
			summaries, err := p.Summarize(table)
			if err != nil {
				return err
			}
			app.WriteSummary(cmd.OutOrStdout(), summaries)
			return nil
		},
	}
	cmd.Flags().StringVar(&tablePath, "table", "", "result table to summarize, default <result-dir>/<result-file>")
	return cmd
}

// setup loads the configuration with flag overrides and builds the pipeline
func setup(cmd *cobra.Command, flags *globalFlags) (*app.Pipeline, *config.Config, error) {
	cfg, err := config.LoadWithOverrides(func(c *config.Config) {
		if flags.inputDir != "" {
			c.Input.Dir = flags.inputDir
		}
		if flags.resultDir != "" {
			c.Output.ResultDir = flags.resultDir
		}
		if flags.logLevel != "" {
			c.Log.Level = flags.logLevel
		}
		if cmd.Flags().Changed("skip-invalid") {
			c.Input.SkipInvalid = flags.skipInvalid
		}
		if cmd.Flags().Changed("exclude-censored") {
			c.Chart.ExcludeCensored = flags.excludeCens
		}
		if cmd.Flags().Changed("xlsx") {
			c.Output.ExportXLSX = flags.exportXLSX
		}
	})
	if err != nil {
		return nil, nil, err
	}

	log := logging.New(cfg.Log)
	p, err := app.NewPipeline(cfg, log.WithField("command", cmd.Name()))
	if err != nil {
		return nil, nil, err
	}
	log.WithFields(logrus.Fields{"input_dir": cfg.Input.Dir, "result_dir": cfg.ResultDir()}).Debug("configuration loaded")
	return p, cfg, nil
}
