package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigFileName is the base name of configuration files.
	ConfigFileName = "rollscan"

	// EnvPrefix is the environment variable prefix
	// (e.g. ROLLSCAN_PIPELINE_WORKERS).
	EnvPrefix = "ROLLSCAN"
)

// Loader reads configuration from files, environment variables, and
// bound flags.
type Loader struct {
	v *viper.Viper
}

// NewLoader uses the global viper instance so cobra flag bindings take
// effect.
func NewLoader() *Loader {
	return &Loader{v: viper.GetViper()}
}

// Load reads and validates the configuration. A missing config file is
// fine; defaults and environment variables apply.
func (l *Loader) Load() (*Config, error) {
	l.v.SetConfigName(ConfigFileName)
	l.v.SetConfigType("yaml")
	l.addConfigPaths()
	l.setupEnvironment()
	l.setDefaults()

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Default()
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// SetConfigFile points the loader at an explicit config file path.
func (l *Loader) SetConfigFile(path string) {
	if path != "" {
		l.v.SetConfigFile(path)
	}
}

func (l *Loader) addConfigPaths() {
	l.v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(filepath.Join(home, "."+ConfigFileName))
	}
	l.v.AddConfigPath("/etc/" + ConfigFileName)
}

func (l *Loader) setupEnvironment() {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()
}

// setDefaults registers leaf defaults so environment variables resolve
// even without a config file.
func (l *Loader) setDefaults() {
	def := Default()

	l.v.SetDefault("log_level", def.LogLevel)
	l.v.SetDefault("verbose", def.Verbose)

	l.v.SetDefault("pipeline.layout_variant", def.Pipeline.LayoutVariant)
	l.v.SetDefault("pipeline.workers", def.Pipeline.Workers)
	l.v.SetDefault("pipeline.page_timeout", def.Pipeline.PageTimeout)

	l.v.SetDefault("pipeline.detector.median_passes", def.Pipeline.Detector.MedianPasses)
	l.v.SetDefault("pipeline.detector.min_width", def.Pipeline.Detector.MinWidth)
	l.v.SetDefault("pipeline.detector.max_width", def.Pipeline.Detector.MaxWidth)
	l.v.SetDefault("pipeline.detector.min_height", def.Pipeline.Detector.MinHeight)
	l.v.SetDefault("pipeline.detector.max_height", def.Pipeline.Detector.MaxHeight)
	l.v.SetDefault("pipeline.detector.min_aspect", def.Pipeline.Detector.MinAspect)
	l.v.SetDefault("pipeline.detector.max_aspect", def.Pipeline.Detector.MaxAspect)
	l.v.SetDefault("pipeline.detector.merge_threshold", def.Pipeline.Detector.MergeThreshold)
	l.v.SetDefault("pipeline.detector.row_tolerance", def.Pipeline.Detector.RowTolerance)
	l.v.SetDefault("pipeline.detector.max_boxes", def.Pipeline.Detector.MaxBoxes)

	l.v.SetDefault("pipeline.watermark.band_low", def.Pipeline.Watermark.BandLow)
	l.v.SetDefault("pipeline.watermark.band_high", def.Pipeline.Watermark.BandHigh)
	l.v.SetDefault("pipeline.watermark.dilate_iterations", def.Pipeline.Watermark.DilateIterations)
	l.v.SetDefault("pipeline.watermark.mask_area_ceiling", def.Pipeline.Watermark.MaskAreaCeiling)
	l.v.SetDefault("pipeline.watermark.inpaint_passes", def.Pipeline.Watermark.InpaintPasses)

	l.v.SetDefault("pipeline.recognizer.language", def.Pipeline.Recognizer.Language)
	l.v.SetDefault("pipeline.recognizer.concurrent", def.Pipeline.Recognizer.Concurrent)
	l.v.SetDefault("pipeline.recognizer.serial_whitelist", def.Pipeline.Recognizer.SerialWhitelist)
	l.v.SetDefault("pipeline.recognizer.epic_whitelist", def.Pipeline.Recognizer.EPICWhitelist)

	l.v.SetDefault("pipeline.fields.epic_pattern", def.Pipeline.Fields.EPICPattern)
	l.v.SetDefault("pipeline.fields.min_age", def.Pipeline.Fields.MinAge)
	l.v.SetDefault("pipeline.fields.max_age", def.Pipeline.Fields.MaxAge)

	l.v.SetDefault("server.host", def.Server.Host)
	l.v.SetDefault("server.port", def.Server.Port)
	l.v.SetDefault("server.max_upload_mb", def.Server.MaxUploadMB)
	l.v.SetDefault("server.shutdown_timeout", def.Server.ShutdownTimeout)
}

// WriteDefault writes the default configuration as YAML to path,
// refusing to overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file %s already exists", path)
	}
	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
