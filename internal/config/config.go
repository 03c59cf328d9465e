package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
	_ "time/tzdata" // Asia/Kolkata must resolve on hosts without a zoneinfo database

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable read by Load
const EnvPrefix = "SHIPREPORT"

// Config represents the complete application configuration.
// Leaf fields use split_words rather than explicit envconfig names so that
// envconfig never falls back to unprefixed variables such as PATH.
type Config struct {
	Input      InputConfig      `yaml:"input" envconfig:"INPUT"`
	Report     ReportConfig     `yaml:"report" envconfig:"REPORT"`
	Processing ProcessingConfig `yaml:"processing" envconfig:"PROCESSING"`
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
	Telemetry  TelemetryConfig  `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// InputConfig locates the tracking export
type InputConfig struct {
	Path string `yaml:"path" split_words:"true"`
}

// ReportConfig names the generated tables
type ReportConfig struct {
	BaseDir       string `yaml:"base_dir" split_words:"true"`
	ShipmentsPath string `yaml:"shipments_path" split_words:"true"`
	StatsPath     string `yaml:"stats_path" split_words:"true"`
	WorkbookPath  string `yaml:"workbook_path" split_words:"true"` // empty disables the xlsx copy
}

// ProcessingConfig controls record transformation
type ProcessingConfig struct {
	TimeZone    string      `yaml:"time_zone" split_words:"true"`
	ErrorPolicy ErrorPolicy `yaml:"error_policy" split_words:"true"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" split_words:"true"`
	Output   string `yaml:"output" split_words:"true"` // console, file or both
	FilePath string `yaml:"file_path" split_words:"true"`
}

// TelemetryConfig enables the optional run metrics and trace files
type TelemetryConfig struct {
	ServiceName string `yaml:"service_name" split_words:"true"`
	MetricsFile string `yaml:"metrics_file" split_words:"true"`
	TraceFile   string `yaml:"trace_file" split_words:"true"`
}

// ErrorPolicy decides what happens to a shipment that cannot be transformed
type ErrorPolicy string

const (
	// PolicyAbort fails the whole run on the first bad record
	PolicyAbort ErrorPolicy = "abort"
	// PolicySkip logs and drops bad records
	PolicySkip ErrorPolicy = "skip"
)

// LoadOptions overrides where Load looks for its sources
type LoadOptions struct {
	// ConfigFile is an explicit YAML file. When empty the default locations are searched.
	ConfigFile string
	// EnvFile is loaded into the process environment before envconfig runs.
	EnvFile string
}

// Load loads configuration using the default file locations and .env
func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{EnvFile: ".env"})
}

// LoadWithOptions builds the configuration from defaults, then the YAML file,
// then environment variables. Later sources win.
func LoadWithOptions(opts LoadOptions) (*Config, error) {
	cfg := Default()

	if opts.EnvFile != "" {
		if _, err := os.Stat(opts.EnvFile); err == nil {
			if err := godotenv.Load(opts.EnvFile); err != nil {
				return nil, fmt.Errorf("failed to load env file %s: %w", opts.EnvFile, err)
			}
		} else {
			slog.Debug("No .env file found (using environment variables)", slog.String("path", opts.EnvFile))
		}
	}

	configFile := opts.ConfigFile
	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg; absent keys keep their value
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Location returns the display time zone for pickup and delivery times
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Processing.TimeZone)
}

// validate validates the configuration
func (c *Config) validate() error {
	if strings.TrimSpace(c.Input.Path) == "" {
		return fmt.Errorf("input path must not be empty")
	}
	if c.Report.ShipmentsPath == "" || c.Report.StatsPath == "" {
		return fmt.Errorf("report paths must not be empty")
	}
	if c.Report.ShipmentsPath == c.Report.StatsPath {
		return fmt.Errorf("shipments and stats reports must be different files: %s", c.Report.ShipmentsPath)
	}

	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid time zone %q: %w", c.Processing.TimeZone, err)
	}

	switch c.Processing.ErrorPolicy {
	case PolicyAbort, PolicySkip:
	default:
		return fmt.Errorf("invalid error policy %q (want %q or %q)", c.Processing.ErrorPolicy, PolicyAbort, PolicySkip)
	}

	switch strings.ToLower(c.Logging.Output) {
	case "console", "file", "both":
	default:
		c.Logging.Output = "console"
	}
	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		c.Logging.FilePath = DefaultLogFile
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	// Check for config file in common locations
	locations := []string{
		"shipreport.yaml",
		"configs/shipreport.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration.
// The defaults reproduce the fixed file names of the tracking report job.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Path: DefaultInputFile,
		},
		Report: ReportConfig{
			ShipmentsPath: DefaultShipmentsFile,
			StatsPath:     DefaultStatsFile,
		},
		Processing: ProcessingConfig{
			TimeZone:    DefaultTimeZone,
			ErrorPolicy: PolicyAbort,
		},
		Logging: LoggingConfig{
			Level:    "warn",
			Output:   "console",
			FilePath: DefaultLogFile,
		},
		Telemetry: TelemetryConfig{
			ServiceName: AppName,
		},
	}
}
