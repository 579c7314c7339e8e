// Package pipeline wires box detection, watermark suppression, layout
// segmentation, recognition, and field normalization into a page
// processor with run-level record assembly.
package pipeline

import (
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/rollscan/rollscan/internal/detector"
	"github.com/rollscan/rollscan/internal/fields"
	"github.com/rollscan/rollscan/internal/layout"
	"github.com/rollscan/rollscan/internal/recognizer"
	"github.com/rollscan/rollscan/internal/watermark"
)

// Config holds configuration for the extraction pipeline and its
// components.
type Config struct {
	Detector   detector.Config   `mapstructure:"detector" yaml:"detector" json:"detector"`
	Watermark  watermark.Config  `mapstructure:"watermark" yaml:"watermark" json:"watermark"`
	Recognizer recognizer.Config `mapstructure:"recognizer" yaml:"recognizer" json:"recognizer"`
	Fields     fields.Config     `mapstructure:"fields" yaml:"fields" json:"fields"`

	// LayoutVariant names the box layout to segment with.
	LayoutVariant string `mapstructure:"layout_variant" yaml:"layout_variant" json:"layout_variant"`

	// Workers is the page-level worker count (0 = NumCPU).
	Workers int `mapstructure:"workers" yaml:"workers" json:"workers"`

	// PageTimeout bounds the processing time of a single page
	// (0 = no limit). A timed-out page fails; the run continues.
	PageTimeout time.Duration `mapstructure:"page_timeout" yaml:"page_timeout" json:"page_timeout"`

	Debug DebugConfig `mapstructure:"debug" yaml:"debug" json:"debug"`
}

// DefaultConfig returns a pipeline config with component defaults.
func DefaultConfig() Config {
	return Config{
		Detector:      detector.DefaultConfig(),
		Watermark:     watermark.DefaultConfig(),
		Recognizer:    recognizer.DefaultConfig(),
		Fields:        fields.DefaultConfig(),
		LayoutVariant: layout.Standard.Name,
		Workers:       runtime.NumCPU(),
		PageTimeout:   2 * time.Minute,
		Debug:         DefaultDebugConfig(),
	}
}

// Pipeline processes roll pages into voter records.
type Pipeline struct {
	cfg        Config
	detector   *detector.Detector
	suppressor *watermark.Suppressor
	variant    layout.Variant
	engine     recognizer.Engine
	normalizer *fields.Normalizer
	debug      *debugWriter
	progress   ProgressCallback
}

// Builder constructs a Pipeline with fluent configuration.
type Builder struct {
	cfg      Config
	engine   recognizer.Engine
	progress ProgressCallback
}

// NewBuilder creates a pipeline builder with defaults.
func NewBuilder() *Builder { return &Builder{cfg: DefaultConfig()} }

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.cfg = cfg
	return b
}

// WithDetectorConfig overrides the box detector configuration.
func (b *Builder) WithDetectorConfig(cfg detector.Config) *Builder {
	b.cfg.Detector = cfg
	return b
}

// WithWatermarkConfig overrides the watermark suppression configuration.
func (b *Builder) WithWatermarkConfig(cfg watermark.Config) *Builder {
	b.cfg.Watermark = cfg
	return b
}

// WithLanguage sets the recognition language.
func (b *Builder) WithLanguage(lang string) *Builder {
	if lang != "" {
		b.cfg.Recognizer.Language = lang
	}
	return b
}

// WithLayoutVariant selects the box layout by name.
func (b *Builder) WithLayoutVariant(name string) *Builder {
	if name != "" {
		b.cfg.LayoutVariant = name
	}
	return b
}

// WithWorkers sets the page-level worker count.
func (b *Builder) WithWorkers(n int) *Builder {
	if n > 0 {
		b.cfg.Workers = n
	}
	return b
}

// WithPageTimeout bounds per-page processing time.
func (b *Builder) WithPageTimeout(d time.Duration) *Builder {
	b.cfg.PageTimeout = d
	return b
}

// WithDebugDir enables debug artifact output under dir.
func (b *Builder) WithDebugDir(dir string) *Builder {
	if dir != "" {
		b.cfg.Debug.Dir = dir
		b.cfg.Debug.Overlay = true
		b.cfg.Debug.Crops = true
	}
	return b
}

// WithEngine injects a recognition engine, replacing the default
// Tesseract engine. Used by tests and by callers managing engine
// lifetime themselves.
func (b *Builder) WithEngine(e recognizer.Engine) *Builder {
	b.engine = e
	return b
}

// WithProgress attaches a progress callback for multi-page runs.
func (b *Builder) WithProgress(p ProgressCallback) *Builder {
	b.progress = p
	return b
}

// Build validates the configuration and constructs the pipeline.
func (b *Builder) Build() (*Pipeline, error) {
	det, err := detector.New(b.cfg.Detector)
	if err != nil {
		return nil, err
	}
	sup, err := watermark.New(b.cfg.Watermark)
	if err != nil {
		return nil, err
	}
	variant, err := layout.Resolve(b.cfg.LayoutVariant)
	if err != nil {
		return nil, err
	}
	norm, err := fields.NewNormalizer(b.cfg.Fields)
	if err != nil {
		return nil, err
	}

	engine := b.engine
	if engine == nil {
		engine, err = recognizer.NewTesseractEngine(b.cfg.Recognizer.Language)
		if err != nil {
			return nil, fmt.Errorf("create recognition engine: %w", err)
		}
	}

	var dbg *debugWriter
	if b.cfg.Debug.Enabled() {
		dbg, err = newDebugWriter(b.cfg.Debug)
		if err != nil {
			return nil, err
		}
	}

	slog.Info("pipeline ready",
		"layout", variant.Name,
		"workers", b.cfg.Workers,
		"language", b.cfg.Recognizer.Language)

	return &Pipeline{
		cfg:        b.cfg,
		detector:   det,
		suppressor: sup,
		variant:    variant,
		engine:     engine,
		normalizer: norm,
		debug:      dbg,
		progress:   b.progress,
	}, nil
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() Config { return p.cfg }

// SetProgress attaches a progress callback after construction. Must be
// called before processing starts.
func (p *Pipeline) SetProgress(cb ProgressCallback) { p.progress = cb }

// Close releases the recognition engine and flushes debug output.
func (p *Pipeline) Close() error {
	if p.debug != nil {
		p.debug.close()
	}
	return p.engine.Close()
}
