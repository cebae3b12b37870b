package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"liquefy/domain/result"
	"liquefy/internal/errors"

	"gopkg.in/yaml.v3"
)

// Config represents the complete application configuration
type Config struct {
	Input      InputConfig      `yaml:"input"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Output     OutputConfig     `yaml:"output"`
	Chart      ChartConfig      `yaml:"chart"`
	Log        LogConfig        `yaml:"log"`
}

// InputConfig describes where run spreadsheets live and how their names are parsed
type InputConfig struct {
	Dir              string `yaml:"dir"`
	Pattern          string `yaml:"pattern"`
	Sheet            string `yaml:"sheet"` // empty selects the workbook's active sheet
	CSRPattern       string `yaml:"csr_pattern"`
	VoidRatioPattern string `yaml:"void_ratio_pattern"`
	SkipInvalid      bool   `yaml:"skip_invalid"`
}

// ExtractionConfig holds the indicator columns and target levels
type ExtractionConfig struct {
	Columns          []string  `yaml:"columns"`
	DAColumn         string    `yaml:"da_column"`
	RuColumn         string    `yaml:"ru_column"`
	DATargetsPercent []float64 `yaml:"da_targets_percent"`
	RuTargets        []float64 `yaml:"ru_targets"`
}

// OutputConfig holds result table destinations
type OutputConfig struct {
	ResultDir  string `yaml:"result_dir"`
	ResultFile string `yaml:"result_file"`
	ExportXLSX bool   `yaml:"export_xlsx"`
}

// ChartConfig holds box-plot settings
type ChartConfig struct {
	Enabled         bool     `yaml:"enabled"`
	ValueColumn     string   `yaml:"value_column"`
	Plans           []string `yaml:"plans"`
	YMin            float64  `yaml:"y_min"`
	YMax            float64  `yaml:"y_max"`
	Width           int      `yaml:"width"`
	Height          int      `yaml:"height"`
	FontPath        string   `yaml:"font_path"`
	ExcludeCensored bool     `yaml:"exclude_censored"`
	FilterTolerance float64  `yaml:"filter_tolerance"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the settings used by the liquefaction test series
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Pattern:          "*.xlsx",
			CSRPattern:       `_CSR(\d+\.\d+)`,
			VoidRatioPattern: `_e(\d+\.\d+)`,
		},
		Extraction: ExtractionConfig{
			Columns:          []string{"DA", "s12(kPa)", "plastDissip(Nm)", "過剰間隙水圧比"},
			DAColumn:         "DA",
			RuColumn:         "過剰間隙水圧比",
			DATargetsPercent: []float64{1, 2, 3, 5, 7, 7.5, 8, 10, 15, 25, 50},
			RuTargets:        []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 0.95},
		},
		Output: OutputConfig{
			ResultFile: "result.csv",
		},
		Chart: ChartConfig{
			Enabled:         true,
			ValueColumn:     "plastDissip(Nm)",
			Plans:           []string{"CSR:e", "e:CSR"},
			YMin:            0,
			YMax:            0.05,
			Width:           1280,
			Height:          960,
			FilterTolerance: 1e-9,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables and validates it
func Load() (*Config, error) {
	return LoadWithOverrides(nil)
}

// LoadWithOverrides is Load with a final hook, such as command line flags,
// applied before validation
func LoadWithOverrides(override func(*Config)) (*Config, error) {
	config := Default()

	if path := os.Getenv("LIQ_CONFIG_FILE"); path != "" {
		if err := loadFile(path, config); err != nil {
			return nil, errors.Wrap(err, "failed to load configuration file")
		}
	}

	if err := applyEnv(config); err != nil {
		return nil, errors.Wrap(err, "failed to load environment configuration")
	}

	if override != nil {
		override(config)
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.IOError(path, err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return errors.Wrapf(errors.ConfigInvalid("malformed YAML"), "%s: %v", path, err)
	}
	return nil
}

func applyEnv(config *Config) error {
	in := &config.Input
	in.Dir = getEnvOrDefault("LIQ_INPUT_DIR", in.Dir)
	in.Pattern = getEnvOrDefault("LIQ_INPUT_PATTERN", in.Pattern)
	in.Sheet = getEnvOrDefault("LIQ_SHEET", in.Sheet)
	in.CSRPattern = getEnvOrDefault("LIQ_CSR_PATTERN", in.CSRPattern)
	in.VoidRatioPattern = getEnvOrDefault("LIQ_E_PATTERN", in.VoidRatioPattern)
	in.SkipInvalid = getEnvBoolOrDefault("LIQ_SKIP_INVALID", in.SkipInvalid)

	ex := &config.Extraction
	ex.Columns = getEnvListOrDefault("LIQ_COLUMNS", ex.Columns)
	ex.DAColumn = getEnvOrDefault("LIQ_DA_COLUMN", ex.DAColumn)
	ex.RuColumn = getEnvOrDefault("LIQ_RU_COLUMN", ex.RuColumn)

	var err error
	if ex.DATargetsPercent, err = getEnvFloatListOrDefault("LIQ_DA_TARGETS_PERCENT", ex.DATargetsPercent); err != nil {
		return err
	}
	if ex.RuTargets, err = getEnvFloatListOrDefault("LIQ_RU_TARGETS", ex.RuTargets); err != nil {
		return err
	}

	out := &config.Output
	out.ResultDir = getEnvOrDefault("LIQ_RESULT_DIR", out.ResultDir)
	out.ResultFile = getEnvOrDefault("LIQ_RESULT_FILE", out.ResultFile)
	out.ExportXLSX = getEnvBoolOrDefault("LIQ_EXPORT_XLSX", out.ExportXLSX)

	ch := &config.Chart
	ch.Enabled = getEnvBoolOrDefault("LIQ_CHART_ENABLED", ch.Enabled)
	ch.ValueColumn = getEnvOrDefault("LIQ_CHART_VALUE_COLUMN", ch.ValueColumn)
	ch.Plans = getEnvListOrDefault("LIQ_CHART_PLANS", ch.Plans)
	ch.YMin = getEnvFloatOrDefault("LIQ_CHART_Y_MIN", ch.YMin)
	ch.YMax = getEnvFloatOrDefault("LIQ_CHART_Y_MAX", ch.YMax)
	ch.Width = getEnvIntOrDefault("LIQ_CHART_WIDTH", ch.Width)
	ch.Height = getEnvIntOrDefault("LIQ_CHART_HEIGHT", ch.Height)
	ch.FontPath = getEnvOrDefault("LIQ_CHART_FONT", ch.FontPath)
	ch.ExcludeCensored = getEnvBoolOrDefault("LIQ_CHART_EXCLUDE_CENSORED", ch.ExcludeCensored)
	ch.FilterTolerance = getEnvFloatOrDefault("LIQ_FILTER_TOLERANCE", ch.FilterTolerance)

	config.Log.Level = getEnvOrDefault("LIQ_LOG_LEVEL", config.Log.Level)
	config.Log.Format = getEnvOrDefault("LIQ_LOG_FORMAT", config.Log.Format)

	return nil
}

// Validate checks that the configuration is internally consistent
func (c *Config) Validate() error {
	if c.Input.Dir == "" && c.Output.ResultDir == "" {
		return errors.ConfigInvalid("LIQ_INPUT_DIR or LIQ_RESULT_DIR is required")
	}
	if err := validatePattern("CSR", c.Input.CSRPattern); err != nil {
		return err
	}
	if err := validatePattern("void ratio", c.Input.VoidRatioPattern); err != nil {
		return err
	}

	ex := c.Extraction
	if len(ex.Columns) == 0 {
		return errors.ConfigInvalid("at least one covariate column is required")
	}
	for _, c := range ex.Columns {
		for _, fixed := range result.FixedColumns() {
			if c == fixed {
				return errors.ConfigInvalid(fmt.Sprintf("covariate column %q collides with the result table column of the same name", c))
			}
		}
	}
	if ex.DAColumn == "" || ex.RuColumn == "" {
		return errors.ConfigInvalid("DA and ru indicator column names are required")
	}
	if len(ex.DATargetsPercent) == 0 && len(ex.RuTargets) == 0 {
		return errors.ConfigInvalid("at least one DA or ru target is required")
	}
	if c.Output.ResultFile == "" {
		return errors.ConfigInvalid("result file name is required")
	}

	ch := c.Chart
	if ch.Enabled && ch.ValueColumn == "" {
		return errors.ConfigInvalid("chart value column is required when charts are enabled")
	}
	if ch.YMin >= ch.YMax {
		return errors.ConfigInvalid("chart y-axis minimum must be below its maximum")
	}
	if ch.Width <= 0 || ch.Height <= 0 {
		return errors.ConfigInvalid("chart dimensions must be positive")
	}
	if ch.FilterTolerance < 0 {
		return errors.ConfigInvalid("filter tolerance must not be negative")
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return errors.ConfigInvalid("log format must be text or json")
	}
	return nil
}

func validatePattern(name, pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return errors.ConfigInvalid(name + " pattern does not compile: " + err.Error())
	}
	if re.NumSubexp() < 1 {
		return errors.ConfigInvalid(name + " pattern needs a capture group for the value")
	}
	return nil
}

// DATargets returns the DA targets as fractions (1% -> 0.01)
func (e ExtractionConfig) DATargets() []float64 {
	out := make([]float64, len(e.DATargetsPercent))
	for i, p := range e.DATargetsPercent {
		out[i] = p / 100
	}
	return out
}

// ResultDir resolves the output directory, defaulting to <input>/result
func (c *Config) ResultDir() string {
	if c.Output.ResultDir != "" {
		return c.Output.ResultDir
	}
	return filepath.Join(c.Input.Dir, "result")
}

// ResultPath is the full path of the result CSV
func (c *Config) ResultPath() string {
	return filepath.Join(c.ResultDir(), c.Output.ResultFile)
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return SplitList(value)
}

// Unlike the scalar helpers, a malformed list is an error, not a fallback to the default.
func getEnvFloatListOrDefault(key string, defaultValue []float64) ([]float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	floats, err := ParseFloatList(value)
	if err != nil {
		return nil, errors.ConfigInvalid(key + ": " + err.Error())
	}
	return floats, nil
}

// SplitList splits a comma separated list, trimming blanks and dropping empty items
func SplitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseFloatList parses a comma separated list of decimal numbers
func ParseFloatList(value string) ([]float64, error) {
	parts := SplitList(value)
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, errors.InvalidInput("not a number: " + strconv.Quote(p))
		}
		out = append(out, f)
	}
	return out, nil
}
