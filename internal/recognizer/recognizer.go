// Package recognizer adapts an external OCR capability to the roll
// pipeline. The engine is a narrow interface (image + per-region config
// in, raw text out) so it can be swapped or mocked; the package's own
// logic is limited to selecting recognition configuration per field kind.
package recognizer

import (
	"context"
	"image"

	"github.com/rollscan/rollscan/internal/layout"
)

// Mode selects the page-segmentation behavior of the engine.
type Mode int

const (
	ModeSingleWord Mode = iota // isolated token, e.g. the serial number
	ModeSingleLine             // one text line, e.g. the EPIC code
	ModeBlock                  // uniform block of text lines
)

// RegionConfig carries per-region recognition settings.
type RegionConfig struct {
	Whitelist string // allowed characters, empty = unrestricted
	Mode      Mode
}

// Engine is the opaque recognition capability. Implementations recognize
// the text in a sub-region image. Garbled or empty output is not an
// error at this layer; it propagates as low-quality text downstream.
type Engine interface {
	Recognize(ctx context.Context, img image.Image, cfg RegionConfig) (string, error)
	Close() error
}

// Config holds recognizer settings.
type Config struct {
	// Language passed to the engine (Tesseract language code).
	Language string `mapstructure:"language" yaml:"language" json:"language"`

	// Concurrent marks the engine as safe for parallel invocation.
	// When false, calls are serialized behind a single client.
	Concurrent bool `mapstructure:"concurrent" yaml:"concurrent" json:"concurrent"`

	// Character whitelists per field kind.
	SerialWhitelist string `mapstructure:"serial_whitelist" yaml:"serial_whitelist" json:"serial_whitelist"`
	EPICWhitelist   string `mapstructure:"epic_whitelist" yaml:"epic_whitelist" json:"epic_whitelist"`
}

// DefaultConfig returns recognizer defaults for English-language rolls.
func DefaultConfig() Config {
	return Config{
		Language:        "eng",
		Concurrent:      false,
		SerialWhitelist: "0123456789",
		EPICWhitelist:   "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789",
	}
}

// RegionConfigFor returns the recognition configuration for a sub-region
// kind: digits-only single word for serials, uppercase alphanumeric
// single line for EPIC codes, unrestricted block text for the info area.
func (c Config) RegionConfigFor(kind layout.Kind) RegionConfig {
	switch kind {
	case layout.KindSerial:
		return RegionConfig{Whitelist: c.SerialWhitelist, Mode: ModeSingleWord}
	case layout.KindEPIC:
		return RegionConfig{Whitelist: c.EPICWhitelist, Mode: ModeSingleLine}
	default:
		return RegionConfig{Mode: ModeBlock}
	}
}
