// Package watermark removes background watermarks from voter-box crops
// without destroying overlapping printed text. Watermark and ink occupy
// the same positions but differ in intensity statistics, so the mask is
// built from a narrow intensity band rather than from geometry.
package watermark

import (
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/rollscan/rollscan/internal/utils"
	"gonum.org/v1/gonum/stat"
)

// ErrMaskOverreach indicates the watermark mask covered an implausibly
// large fraction of the box. Suppression is skipped and the caller keeps
// the original image; this is a diagnostic, not a failure.
var ErrMaskOverreach = errors.New("watermark mask exceeds area ceiling")

// Config holds the watermark masking parameters.
type Config struct {
	// Intensity band selecting watermark pixels: darker than paper-white,
	// lighter than ink-black.
	BandLow  uint8 `mapstructure:"band_low" yaml:"band_low" json:"band_low"`
	BandHigh uint8 `mapstructure:"band_high" yaml:"band_high" json:"band_high"`

	// Dilation passes closing gaps between watermark strokes.
	DilateIterations int `mapstructure:"dilate_iterations" yaml:"dilate_iterations" json:"dilate_iterations"`

	// Fraction of box pixels above which the mask is considered a
	// misfire and suppression is skipped.
	MaskAreaCeiling float64 `mapstructure:"mask_area_ceiling" yaml:"mask_area_ceiling" json:"mask_area_ceiling"`

	// Inpainting iterations; each pass fills masked pixels from their
	// already-known neighbors, growing inward from the mask border.
	InpaintPasses int `mapstructure:"inpaint_passes" yaml:"inpaint_passes" json:"inpaint_passes"`
}

// DefaultConfig returns masking defaults for the gray government
// watermark stamped across roll pages.
func DefaultConfig() Config {
	return Config{
		BandLow:          120,
		BandHigh:         200,
		DilateIterations: 2,
		MaskAreaCeiling:  0.5,
		InpaintPasses:    64,
	}
}

// Validate checks the masking parameters.
func (c Config) Validate() error {
	if c.BandHigh <= c.BandLow {
		return errors.New("watermark intensity band is empty")
	}
	if c.MaskAreaCeiling <= 0 || c.MaskAreaCeiling > 1 {
		return fmt.Errorf("mask area ceiling %.2f outside (0,1]", c.MaskAreaCeiling)
	}
	return nil
}

// Stats describes one suppression attempt for debugging and metrics.
type Stats struct {
	Coverage   float64 // masked fraction of the box
	MaskMean   float64 // mean intensity of masked pixels
	MaskStdDev float64 // intensity spread of masked pixels
	Skipped    bool    // true when suppression was not applied
}

// Suppressor removes watermark pixels from box crops via inpainting.
type Suppressor struct {
	cfg Config
}

// New creates a Suppressor with the given configuration.
func New(cfg Config) (*Suppressor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid watermark config: %w", err)
	}
	return &Suppressor{cfg: cfg}, nil
}

// Config returns the suppressor configuration.
func (s *Suppressor) Config() Config { return s.cfg }

// Clean builds the watermark mask for a box crop and reconstructs the
// masked pixels from surrounding content. When no pixel matches the band
// the input image is returned unchanged, making Clean idempotent. When
// the mask covers more than the configured ceiling the original image is
// returned together with ErrMaskOverreach.
func (s *Suppressor) Clean(img image.Image) (image.Image, Stats, error) {
	gray := utils.ToGray(img)
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return img, Stats{Skipped: true}, nil
	}

	mask, intensities := bandMask(gray, s.cfg)
	if len(intensities) == 0 {
		return img, Stats{Skipped: true}, nil
	}

	for range s.cfg.DilateIterations {
		mask = dilate(mask, w, h)
	}

	st := Stats{
		Coverage:   maskCoverage(mask),
		MaskMean:   stat.Mean(intensities, nil),
		MaskStdDev: stat.StdDev(intensities, nil),
	}

	if st.Coverage > s.cfg.MaskAreaCeiling {
		st.Skipped = true
		slog.Debug("watermark suppression skipped",
			"coverage", st.Coverage, "ceiling", s.cfg.MaskAreaCeiling)
		return img, st, ErrMaskOverreach
	}

	cleaned := inpaint(utils.CloneRGBA(img), mask, w, h, s.cfg.InpaintPasses)
	return cleaned, st, nil
}

func maskCoverage(mask []bool) float64 {
	n := 0
	for _, v := range mask {
		if v {
			n++
		}
	}
	return float64(n) / float64(len(mask))
}
