package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging     LoggingConfig     `yaml:"logging"`
	Input       InputConfig       `yaml:"input"`
	Output      OutputConfig      `yaml:"output"`
	Diagnostics DiagnosticsConfig `yaml:"diagnostics"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" split_words:"true" validate:"oneof=debug info warn warning error"`
	Output   string `yaml:"output" split_words:"true" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" split_words:"true" validate:"required_unless=Output console"`
}

// InputConfig locates the weekly performance export
type InputConfig struct {
	Path string `yaml:"path" split_words:"true" validate:"required"`
	// Sheet defaults to the first sheet of the workbook when empty
	Sheet string `yaml:"sheet" split_words:"true"`
}

// OutputConfig locates the diagnostics workbook and its optional CSV copy
type OutputConfig struct {
	Path    string `yaml:"path" split_words:"true" validate:"required"`
	Sheet   string `yaml:"sheet" split_words:"true" validate:"required"`
	CSVPath string `yaml:"csv_path" split_words:"true"`
}

// DiagnosticsConfig tunes the explanation generator
type DiagnosticsConfig struct {
	TopN      int    `yaml:"top_n" split_words:"true" validate:"min=1"`
	Separator string `yaml:"separator" split_words:"true" validate:"required"`

	// PayerAnalyses are only configurable from the YAML file
	PayerAnalyses []PayerAnalysis `yaml:"payer_analyses" ignored:"true" validate:"dive"`
}

// PayerAnalysis selects the rows whose payer name contains Match and
// reports them under Title.
type PayerAnalysis struct {
	Title string `yaml:"title" validate:"required"`
	Match string `yaml:"match" validate:"required"`
}

// TelemetryConfig controls tracing and the metrics textfile
type TelemetryConfig struct {
	TraceExporter string `yaml:"trace_exporter" split_words:"true" validate:"oneof=none stdout"`
	MetricsFile   string `yaml:"metrics_file" split_words:"true"`
}

// Load builds the configuration from defaults, the YAML file at path (or the
// first one found in the usual locations when path is empty) and REVDIAG_*
// environment variables, in increasing order of precedence.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = getConfigFilePath()
	}
	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks the configuration and fills in the default payer analyses
func (c *Config) Validate() error {
	if len(c.Diagnostics.PayerAnalyses) == 0 {
		c.Diagnostics.PayerAnalyses = DefaultPayerAnalyses()
	}
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	seen := make(map[string]bool)
	for _, pa := range c.Diagnostics.PayerAnalyses {
		if seen[pa.Title] {
			return fmt.Errorf("duplicate payer analysis title: %s", pa.Title)
		}
		seen[pa.Title] = true
	}
	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"revdiag.yaml",
		"configs/revdiag.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// DefaultPayerAnalyses returns the Aetna and BCBS analyses
func DefaultPayerAnalyses() []PayerAnalysis {
	return []PayerAnalysis{
		{Title: "Aetna Analysis", Match: "AETNA"},
		{Title: "BCBS Analysis", Match: "BCBS"},
	}
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Output:   "console",
			FilePath: DefaultLogFile,
		},
		Input: InputConfig{
			Path: DefaultInputFile,
		},
		Output: OutputConfig{
			Path:  DefaultOutputFile,
			Sheet: DefaultOutputSheet,
		},
		Diagnostics: DiagnosticsConfig{
			TopN:          DefaultTopN,
			Separator:     DefaultSeparator,
			PayerAnalyses: DefaultPayerAnalyses(),
		},
		Telemetry: TelemetryConfig{
			TraceExporter: "none",
		},
	}
}
