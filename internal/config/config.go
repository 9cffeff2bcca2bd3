// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Loading functions accept context.Context as the first parameter.
// - Validation failures wrap ErrInvalidConfig; source failures wrap ErrLoadConfig.
package config

import (
	"fmt"
	"slices"
	"time"
)

// lastSampleOffset is the offset in years of the third census count; every
// horizon must lie beyond it.
const lastSampleOffset = 4

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. "0.0.0.0:5000".
	Addr string `koanf:"addr"`

	// BaseYear is the calendar year of the first census count.
	BaseYear int `koanf:"base_year"`

	// Horizons are the projection offsets in years after BaseYear.
	Horizons []int `koanf:"horizons"`

	// ExportFilename is the attachment name of the spreadsheet export.
	ExportFilename string `koanf:"export_filename"`

	// ExportSheet is the worksheet name inside the export.
	ExportSheet string `koanf:"export_sheet"`

	// CORSAllowOrigin is sent as Access-Control-Allow-Origin.
	CORSAllowOrigin string `koanf:"cors_allow_origin"`

	// MetricsEnabled toggles Prometheus recording.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// MetricsNamespace prefixes every series name.
	MetricsNamespace string `koanf:"metrics_namespace"`

	// MetricsRefreshInterval is how often process gauges are sampled.
	MetricsRefreshInterval time.Duration `koanf:"metrics_refresh_interval"`

	// MetricsLabels are constant labels added to every series.
	MetricsLabels map[string]string `koanf:"metrics_labels"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            "0.0.0.0:5000",
		BaseYear:        2016,
		Horizons:        []int{7, 8, 9, 10},
		ExportFilename:  "projections_demographiques.xlsx",
		ExportSheet:     "Projections",
		CORSAllowOrigin: "*",
		MetricsEnabled:  true,

		MetricsNamespace:       "popcast",
		MetricsRefreshInterval: 10 * time.Second,
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.BaseYear <= 0:
		return fmt.Errorf("%w: base_year must be positive", ErrInvalidConfig)
	case len(c.Horizons) == 0:
		return fmt.Errorf("%w: horizons must not be empty", ErrInvalidConfig)
	case c.ExportFilename == "":
		return fmt.Errorf("%w: export_filename must not be empty", ErrInvalidConfig)
	case c.ExportSheet == "":
		return fmt.Errorf("%w: export_sheet must not be empty", ErrInvalidConfig)
	case c.MetricsNamespace == "":
		return fmt.Errorf("%w: metrics_namespace must not be empty", ErrInvalidConfig)
	case c.MetricsRefreshInterval <= 0:
		return fmt.Errorf("%w: metrics_refresh_interval must be positive", ErrInvalidConfig)
	}
	if slices.ContainsFunc(c.Horizons, func(h int) bool { return h <= lastSampleOffset }) {
		return fmt.Errorf("%w: horizons must be greater than %d", ErrInvalidConfig, lastSampleOffset)
	}
	return nil
}
