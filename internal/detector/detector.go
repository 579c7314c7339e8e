// Package detector locates voter boxes on scanned electoral-roll pages.
// A page is binarized (grayscale, denoise, Otsu threshold), closed contours
// are recovered via connected components, and geometrically plausible
// rectangles are merged and sorted into reading order.
package detector

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
)

// ErrImageDecode indicates an unreadable or degenerate page image.
// It is fatal for the page but never for the run.
var ErrImageDecode = errors.New("image decode failed")

// ErrNoBoxes signals an empty page. It is a diagnostic, not a failure:
// callers receive it alongside an empty (valid) box slice.
var ErrNoBoxes = errors.New("no voter boxes found")

// Config holds tunable parameters for page binarization and box location.
type Config struct {
	// Denoising
	MedianPasses int `mapstructure:"median_passes" yaml:"median_passes" json:"median_passes"`

	// Geometric plausibility bounds for voter boxes
	MinWidth  int     `mapstructure:"min_width" yaml:"min_width" json:"min_width"`
	MaxWidth  int     `mapstructure:"max_width" yaml:"max_width" json:"max_width"`
	MinHeight int     `mapstructure:"min_height" yaml:"min_height" json:"min_height"`
	MaxHeight int     `mapstructure:"max_height" yaml:"max_height" json:"max_height"`
	MinAspect float64 `mapstructure:"min_aspect" yaml:"min_aspect" json:"min_aspect"`
	MaxAspect float64 `mapstructure:"max_aspect" yaml:"max_aspect" json:"max_aspect"`

	// Boxes overlapping beyond this ratio (relative to the smaller box)
	// are merged, keeping the larger-area rectangle.
	MergeThreshold float64 `mapstructure:"merge_threshold" yaml:"merge_threshold" json:"merge_threshold"`

	// Boxes whose vertical centers differ by less than
	// RowTolerance * median box height share a reading-order row.
	RowTolerance float64 `mapstructure:"row_tolerance" yaml:"row_tolerance" json:"row_tolerance"`

	// Upper bound on boxes retained per page, largest areas first.
	MaxBoxes int `mapstructure:"max_boxes" yaml:"max_boxes" json:"max_boxes"`
}

// DefaultConfig returns detector defaults calibrated for 300 DPI scans
// of the three-column roll layout.
func DefaultConfig() Config {
	return Config{
		MedianPasses:   1,
		MinWidth:       120,
		MaxWidth:       2400,
		MinHeight:      60,
		MaxHeight:      900,
		MinAspect:      1.2,
		MaxAspect:      8.0,
		MergeThreshold: 0.3,
		RowTolerance:   0.5,
		MaxBoxes:       30,
	}
}

// Validate checks that the configured bounds are coherent.
func (c Config) Validate() error {
	if c.MinWidth <= 0 || c.MinHeight <= 0 {
		return errors.New("box size minimums must be positive")
	}
	if c.MaxWidth < c.MinWidth || c.MaxHeight < c.MinHeight {
		return errors.New("box size maximums must not be below minimums")
	}
	if c.MinAspect <= 0 || c.MaxAspect < c.MinAspect {
		return errors.New("aspect ratio bounds are inverted")
	}
	if c.MergeThreshold <= 0 || c.MergeThreshold > 1 {
		return fmt.Errorf("merge threshold %.2f outside (0,1]", c.MergeThreshold)
	}
	if c.RowTolerance <= 0 {
		return errors.New("row tolerance must be positive")
	}
	return nil
}

// Detector finds voter-box regions on electoral-roll pages.
type Detector struct {
	cfg Config
}

// New creates a Detector with the given configuration.
func New(cfg Config) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid detector config: %w", err)
	}
	return &Detector{cfg: cfg}, nil
}

// Config returns the detector configuration.
func (d *Detector) Config() Config { return d.cfg }

// DetectBoxes normalizes the page image and returns voter-box rectangles
// in reading order, together with the binary page used for detection.
// An empty page yields an empty (valid) slice alongside ErrNoBoxes so
// callers can distinguish it from a populated page without failing.
func (d *Detector) DetectBoxes(img image.Image) (*BinaryPage, []Region, error) {
	page, err := Binarize(img, d.cfg)
	if err != nil {
		return nil, nil, err
	}

	boxes := LocateBoxes(page, d.cfg)
	slog.Debug("box detection completed",
		"width", page.Width, "height", page.Height, "boxes", len(boxes))
	if len(boxes) == 0 {
		return page, boxes, ErrNoBoxes
	}
	return page, boxes, nil
}
