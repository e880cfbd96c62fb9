package contract

import (
	"fmt"
	"math"
	"strings"

	"github.com/huangsam/questlog/internal/logging"
	"github.com/huangsam/questlog/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit = 25
	MaxResultLimit     = 1000
	DefaultPrecision   = 1
	MaxPrecision       = 4
)

// ThresholdsRawInput holds threshold overrides from the YAML config file.
// Pointer fields distinguish "unset" from an explicit zero.
type ThresholdsRawInput struct {
	Dominance       *float64 `mapstructure:"dominance"`
	SpikePercent    *float64 `mapstructure:"spike-percent"`
	NoiseFloor      *float64 `mapstructure:"noise-floor"`
	BurnoutDrop     *float64 `mapstructure:"burnout-drop"`
	TopTitles       *int     `mapstructure:"top-titles"`
	LongestExamples *int     `mapstructure:"longest-examples"`
	AgingLimit      *int     `mapstructure:"aging-limit"`
	DriverLimit     *int     `mapstructure:"driver-limit"`
}

// Config holds the runtime configuration for the analytics.
// This struct remains the "final, validated" config.
type Config struct {
	InputFile   string // snapshot file; empty means read the library store
	Output      schema.OutputMode
	OutputFile  string
	Precision   int
	ResultLimit int
	Width       int // Terminal width override (0 = auto-detect)
	UseColors   bool

	Period    schema.Period
	StartDate schema.Date
	EndDate   schema.Date
	Today     schema.Date

	Thresholds       schema.Thresholds
	SentimentWeights schema.SentimentWeights

	LibraryBackend   schema.DatabaseBackend
	LibraryDBConnect string // Please use env var as this is plaintext

	RunsBackend   schema.DatabaseBackend
	RunsDBConnect string // Please use env var as this is plaintext

	LogLevel    string
	LogFormat   string
	MetricsFile string
	Notify      bool
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Input            string `mapstructure:"input"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Precision        int    `mapstructure:"precision"`
	Limit            int    `mapstructure:"limit"`
	Width            int    `mapstructure:"width"`
	Color            string `mapstructure:"color"`
	Period           string `mapstructure:"period"`
	Start            string `mapstructure:"start"`
	End              string `mapstructure:"end"`
	Today            string `mapstructure:"today"`
	LibraryBackend   string `mapstructure:"library-backend"`
	LibraryDBConnect string `mapstructure:"library-db-connect"`
	RunsBackend      string `mapstructure:"runs-backend"`
	RunsDBConnect    string `mapstructure:"runs-db-connect"`
	LogLevel         string `mapstructure:"log-level"`
	LogFormat        string `mapstructure:"log-format"`
	MetricsFile      string `mapstructure:"metrics-file"`
	Notify           bool   `mapstructure:"notify"`

	// --- Overrides from config file ---
	Thresholds       ThresholdsRawInput `mapstructure:"thresholds"`
	SentimentWeights map[string]float64 `mapstructure:"sentiment-weights"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.SentimentWeights != nil {
		clone.SentimentWeights = c.SentimentWeights.Clone()
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processDateRange(cfg, input); err != nil {
		return err
	}
	if err := processThresholds(cfg, input); err != nil {
		return err
	}
	if err := processSentimentWeights(cfg, input); err != nil {
		return err
	}
	return validateBackendConfigs(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates library and run backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.LibraryBackend = schema.DatabaseBackend(strings.ToLower(input.LibraryBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.LibraryBackend]; !ok {
		return fmt.Errorf("invalid library backend '%s'. must be sqlite, mysql, postgresql, none", input.LibraryBackend)
	}
	cfg.LibraryDBConnect = input.LibraryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.LibraryBackend, cfg.LibraryDBConnect); err != nil {
		return fmt.Errorf("library backend: %w", err)
	}

	cfg.RunsBackend = schema.DatabaseBackend(strings.ToLower(input.RunsBackend))
	if cfg.RunsBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.RunsBackend]; !ok {
		return fmt.Errorf("invalid runs backend '%s'. must be sqlite, mysql, postgresql, none", input.RunsBackend)
	}
	cfg.RunsDBConnect = input.RunsDBConnect
	if err := ValidateDatabaseConnectionString(cfg.RunsBackend, cfg.RunsDBConnect); err != nil {
		return fmt.Errorf("runs backend: %w", err)
	}

	// Both SQLite stores resolving to one file would clobber each other's migrations
	if cfg.LibraryBackend == schema.SQLiteBackend && cfg.RunsBackend == schema.SQLiteBackend {
		libraryPath := cfg.LibraryDBConnect
		if libraryPath == "" {
			libraryPath = GetLibraryDBFilePath()
		}
		runsPath := cfg.RunsDBConnect
		if runsPath == "" {
			runsPath = GetRunsDBFilePath()
		}
		if libraryPath == runsPath {
			return fmt.Errorf("library and run storage must use different SQLite database files. Both resolve to %q", libraryPath)
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all scalar fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.InputFile = strings.TrimSpace(input.Input)
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.MetricsFile = input.MetricsFile
	cfg.Notify = input.Notify

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.Precision < 0 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 0 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	cfg.Period = schema.Period(strings.ToLower(strings.TrimSpace(input.Period)))
	if cfg.Period == "" {
		cfg.Period = schema.MonthPeriod
	}
	if _, ok := schema.ValidPeriods[cfg.Period]; !ok {
		return fmt.Errorf("invalid period '%s'. must be day, week, month", input.Period)
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(input.LogLevel))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}
	if !logging.ValidLevel(cfg.LogLevel) {
		return fmt.Errorf("invalid log level '%s'", input.LogLevel)
	}
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(input.LogFormat))
	if cfg.LogFormat == "" {
		cfg.LogFormat = logging.ConsoleFormat
	}
	if cfg.LogFormat != logging.ConsoleFormat && cfg.LogFormat != logging.JSONFormat {
		return fmt.Errorf("invalid log format '%s'. must be console, json", input.LogFormat)
	}
	return nil
}

// processDateRange parses the engagement filters and the aging anchor.
func processDateRange(cfg *Config, input *ConfigRawInput) error {
	parse := func(flag, value string) (schema.Date, error) {
		if strings.TrimSpace(value) == "" {
			return schema.Date{}, nil
		}
		d, err := schema.ParseDate(value)
		if err != nil {
			return schema.Date{}, fmt.Errorf("invalid --%s date '%s'. expected YYYY-MM-DD: %w", flag, value, err)
		}
		return d, nil
	}

	var err error
	if cfg.StartDate, err = parse("start", input.Start); err != nil {
		return err
	}
	if cfg.EndDate, err = parse("end", input.End); err != nil {
		return err
	}
	if cfg.Today, err = parse("today", input.Today); err != nil {
		return err
	}
	if !cfg.StartDate.IsZero() && !cfg.EndDate.IsZero() && cfg.StartDate.After(cfg.EndDate.Time) {
		return fmt.Errorf("start date (%s) cannot be after end date (%s)", cfg.StartDate, cfg.EndDate)
	}
	return nil
}

// processThresholds overlays config-file overrides onto the defaults and validates the result.
func processThresholds(cfg *Config, input *ConfigRawInput) error {
	th := schema.DefaultThresholds()
	raw := input.Thresholds
	if raw.Dominance != nil {
		th.Dominance = *raw.Dominance
	}
	if raw.SpikePercent != nil {
		th.SpikePercent = *raw.SpikePercent
	}
	if raw.NoiseFloor != nil {
		th.NoiseFloor = *raw.NoiseFloor
	}
	if raw.BurnoutDrop != nil {
		th.BurnoutDrop = *raw.BurnoutDrop
	}
	if raw.TopTitles != nil {
		th.TopTitles = *raw.TopTitles
	}
	if raw.LongestExamples != nil {
		th.LongestExamples = *raw.LongestExamples
	}
	if raw.AgingLimit != nil {
		th.AgingLimit = *raw.AgingLimit
	}
	if raw.DriverLimit != nil {
		th.DriverLimit = *raw.DriverLimit
	}
	if err := ValidateThresholds(th); err != nil {
		return err
	}
	cfg.Thresholds = th
	return nil
}

// ValidateThresholds checks every threshold against its allowed range.
func ValidateThresholds(th schema.Thresholds) error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"dominance", th.Dominance},
		{"spike percent", th.SpikePercent},
		{"noise floor", th.NoiseFloor},
		{"burnout drop", th.BurnoutDrop},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%s threshold must be a finite number (received %v)", f.name, f.value)
		}
	}
	switch {
	case th.Dominance < 0.5 || th.Dominance >= 1:
		return fmt.Errorf("dominance threshold must be in [0.5, 1) (received %.2f)", th.Dominance)
	case th.SpikePercent <= 0:
		return fmt.Errorf("spike percent must be greater than 0 (received %.2f)", th.SpikePercent)
	case th.NoiseFloor < 0:
		return fmt.Errorf("noise floor cannot be negative (received %.2f)", th.NoiseFloor)
	case th.BurnoutDrop <= 0:
		return fmt.Errorf("burnout drop must be greater than 0 (received %.2f)", th.BurnoutDrop)
	case th.TopTitles < 1:
		return fmt.Errorf("top titles must be at least 1 (received %d)", th.TopTitles)
	case th.LongestExamples < 1:
		return fmt.Errorf("longest examples must be at least 1 (received %d)", th.LongestExamples)
	case th.AgingLimit < 0:
		return fmt.Errorf("aging limit cannot be negative (received %d)", th.AgingLimit)
	case th.DriverLimit < 1:
		return fmt.Errorf("driver limit must be at least 1 (received %d)", th.DriverLimit)
	}
	return nil
}

// processSentimentWeights merges custom sentiment categories over the defaults.
func processSentimentWeights(cfg *Config, input *ConfigRawInput) error {
	weights := schema.DefaultSentimentWeights()
	for key, score := range input.SentimentWeights {
		name := strings.ToLower(strings.TrimSpace(key))
		if name == "" {
			return fmt.Errorf("sentiment weight names cannot be blank")
		}
		if math.IsNaN(score) || score < 0 || score > 100 {
			return fmt.Errorf("sentiment weight for %q must be between 0 and 100 (received %.2f)", name, score)
		}
		weights[name] = score
	}
	cfg.SentimentWeights = weights
	return nil
}

// RevalidateEngagement applies per-request period and date overrides to a cloned config.
// Empty values keep the current settings.
func RevalidateEngagement(cfg *Config, period, start, end string) error {
	raw := &ConfigRawInput{
		Period: string(cfg.Period),
		Start:  start,
		End:    end,
	}
	if strings.TrimSpace(period) != "" {
		raw.Period = period
	}
	p := schema.Period(strings.ToLower(strings.TrimSpace(raw.Period)))
	if _, ok := schema.ValidPeriods[p]; !ok {
		return fmt.Errorf("invalid period '%s'. must be day, week, month", period)
	}
	cfg.Period = p

	if start == "" {
		raw.Start = dateString(cfg.StartDate)
	}
	if end == "" {
		raw.End = dateString(cfg.EndDate)
	}
	raw.Today = dateString(cfg.Today)
	return processDateRange(cfg, raw)
}

func dateString(d schema.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}
