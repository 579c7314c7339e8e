// Package config loads application configuration from files,
// environment variables, and flag bindings.
package config

import (
	"errors"
	"fmt"

	"github.com/rollscan/rollscan/internal/pipeline"
	"github.com/rollscan/rollscan/internal/server"
)

// Config is the complete application configuration for the extract and
// serve commands.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	Pipeline pipeline.Config `mapstructure:"pipeline" yaml:"pipeline" json:"pipeline"`
	Output   OutputConfig    `mapstructure:"output" yaml:"output" json:"output"`
	Server   server.Config   `mapstructure:"server" yaml:"server" json:"server"`
}

// OutputConfig controls result serialization.
type OutputConfig struct {
	// Path of the output file; the extension selects the format
	// (.csv, .json, .xlsx). Empty writes CSV to stdout.
	Path string `mapstructure:"path" yaml:"path" json:"path"`

	// Pages selects PDF pages, e.g. "1-5" or "2,4".
	Pages string `mapstructure:"pages" yaml:"pages" json:"pages"`
}

// Default returns the configuration defaults.
func Default() Config {
	return Config{
		LogLevel: "info",
		Pipeline: pipeline.DefaultConfig(),
		Server:   server.DefaultConfig(),
	}
}

// Validate checks the whole configuration tree.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	if err := c.Pipeline.Detector.Validate(); err != nil {
		return fmt.Errorf("detector: %w", err)
	}
	if err := c.Pipeline.Watermark.Validate(); err != nil {
		return fmt.Errorf("watermark: %w", err)
	}
	if err := c.Pipeline.Fields.Validate(); err != nil {
		return fmt.Errorf("fields: %w", err)
	}
	if c.Pipeline.Workers < 0 {
		return errors.New("pipeline: workers must not be negative")
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}
