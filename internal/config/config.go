// Package config provides configuration types and defaults for chartwell.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/chartwell/internal/dimension"
	"github.com/zjrosen/chartwell/internal/log"
)

// Config holds all configuration options for chartwell.
type Config struct {
	// DatasetDir holds one YAML/JSON file per chart.
	DatasetDir string `mapstructure:"dataset_dir"`
	// GlobalOptionFile is merged into the base chart option at startup.
	GlobalOptionFile string           `mapstructure:"global_option_file"`
	AutoRefresh      bool             `mapstructure:"auto_refresh"`
	UI               UIConfig         `mapstructure:"ui"`
	Dimension        dimension.Config `mapstructure:"dimension"`
	Cache            CacheConfig      `mapstructure:"cache"`
	Tracing          TracingConfig    `mapstructure:"tracing"`
	Metrics          MetricsConfig    `mapstructure:"metrics"`
}

// UIConfig holds dashboard options.
type UIConfig struct {
	ShowStatusBar bool `mapstructure:"show_status_bar"`
	ShowTooltip   bool `mapstructure:"show_tooltip"`
	ChartWidth    int  `mapstructure:"chart_width"`
	ChartHeight   int  `mapstructure:"chart_height"`
}

// CacheConfig controls the dataset read cache.
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
	// Debounce is the quiet period before a batch of file changes is applied.
	Debounce time.Duration `mapstructure:"debounce"`
}

// TracingConfig holds tracing configuration for chart updates.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/chartwell/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	// Addr is the listen address for /metrics. Empty disables the endpoint.
	Addr string `mapstructure:"addr"`
}

// DefaultTracesFilePath returns ~/.config/chartwell/traces/traces.jsonl, or
// "" when the home directory is unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "chartwell", "traces", "traces.jsonl")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		DatasetDir:  ".",
		AutoRefresh: true,
		UI: UIConfig{
			ShowStatusBar: true,
			ShowTooltip:   true,
			ChartWidth:    60,
			ChartHeight:   12,
		},
		Dimension: dimension.Defaults(),
		Cache: CacheConfig{
			TTL:      10 * time.Minute,
			Debounce: 250 * time.Millisecond,
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     "", // Derived at runtime
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

// Validate checks the whole configuration.
func Validate(cfg Config) error {
	if err := ValidateUI(cfg.UI); err != nil {
		return err
	}
	if err := ValidateDimension(cfg.Dimension); err != nil {
		return err
	}
	if err := ValidateCache(cfg.Cache); err != nil {
		return err
	}
	return ValidateTracing(cfg.Tracing)
}

// ValidateUI checks dashboard options. Zero sizes fall back to defaults.
func ValidateUI(ui UIConfig) error {
	if ui.ChartWidth < 0 || ui.ChartHeight < 0 {
		return fmt.Errorf("ui.chart_width and ui.chart_height must not be negative, got %dx%d", ui.ChartWidth, ui.ChartHeight)
	}
	if ui.ChartWidth > 0 && ui.ChartWidth < 20 {
		return fmt.Errorf("ui.chart_width must be at least 20, got %d", ui.ChartWidth)
	}
	return nil
}

// ValidateDimension checks the dynamic sizing bounds.
func ValidateDimension(d dimension.Config) error {
	if d.RowHeight < 0 || d.Chrome < 0 || d.MinHeight < 0 || d.MaxHeight < 0 {
		return fmt.Errorf("dimension values must not be negative")
	}
	if d.MaxHeight > 0 && d.MinHeight > d.MaxHeight {
		return fmt.Errorf("dimension.min_height (%d) must not exceed dimension.max_height (%d)", d.MinHeight, d.MaxHeight)
	}
	return nil
}

// ValidateCache checks cache durations.
func ValidateCache(c CacheConfig) error {
	if c.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative, got %v", c.TTL)
	}
	if c.Debounce < 0 {
		return fmt.Errorf("cache.debounce must not be negative, got %v", c.Debounce)
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	// Path requirements only matter when tracing is on.
	if tracing.Enabled {
		if tracing.Exporter == "file" && tracing.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Chartwell Configuration

# Directory with one dataset file (*.yaml, *.yml, *.json) per chart
dataset_dir: .

# Optional YAML/JSON file merged into the base chart option.
# Keys: theme (macarons, default, vintage), driftPalette, title, grid,
# legend, tooltip, backgroundColor
# global_option_file: ./global.yaml

# Re-render charts when dataset files change
auto_refresh: true

# UI settings
ui:
  show_status_bar: true   # Show status bar at bottom
  show_tooltip: true      # Show the tooltip for the selected category
  chart_width: 60
  chart_height: 12

# Height of charts with "dynamic: true", in terminal rows
dimension:
  row_height: 1
  chrome: 3        # rows reserved for title and legend
  min_height: 6
  max_height: 40

# Dataset cache
cache:
  ttl: 10m
  debounce: 250ms  # quiet period before file changes are applied

# Tracing of chart updates
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/chartwell/traces/traces.jsonl
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)

# Prometheus metrics endpoint (disabled when empty)
# metrics:
#   addr: 127.0.0.1:9464
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
