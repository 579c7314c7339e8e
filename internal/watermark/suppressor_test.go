package watermark

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rollscan/rollscan/internal/utils"
)

func grayImage(w, h int, v uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	c := color.RGBA{R: v, G: v, B: v, A: 0xff}
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	return img
}

func newTestSuppressor(t *testing.T) *Suppressor {
	t.Helper()
	s, err := New(DefaultConfig())
	require.NoError(t, err)
	return s
}

func TestCleanNoWatermarkIsIdempotent(t *testing.T) {
	s := newTestSuppressor(t)
	img := grayImage(60, 40, 255) // pure white, nothing in the band

	out, stats, err := s.Clean(img)
	require.NoError(t, err)
	assert.True(t, stats.Skipped)
	assert.Same(t, img, out.(*image.RGBA))
}

func TestCleanRemovesWatermarkPatch(t *testing.T) {
	// White box with a mid-gray watermark patch in the middle.
	img := grayImage(80, 60, 255)
	patch := color.RGBA{R: 160, G: 160, B: 160, A: 0xff}
	for y := 20; y < 30; y++ {
		for x := 30; x < 50; x++ {
			img.Set(x, y, patch)
		}
	}

	s := newTestSuppressor(t)
	out, stats, err := s.Clean(img)
	require.NoError(t, err)
	assert.False(t, stats.Skipped)
	assert.Greater(t, stats.Coverage, 0.0)
	assert.InDelta(t, 160.0, stats.MaskMean, 1.0)

	// The patch is reconstructed from the white surroundings.
	cleaned := utils.CloneRGBA(out)
	assert.Equal(t, uint8(255), cleaned.RGBAAt(40, 25).R)
}

func TestCleanPreservesInkOutsideBand(t *testing.T) {
	img := grayImage(80, 60, 255)
	// Ink stroke well below the band.
	for x := 10; x < 70; x++ {
		img.Set(x, 10, color.RGBA{A: 0xff})
	}
	// Watermark patch inside the band, away from the stroke.
	for y := 40; y < 45; y++ {
		for x := 30; x < 50; x++ {
			img.Set(x, y, color.RGBA{R: 150, G: 150, B: 150, A: 0xff})
		}
	}

	s := newTestSuppressor(t)
	out, _, err := s.Clean(img)
	require.NoError(t, err)

	cleaned := utils.CloneRGBA(out)
	assert.Equal(t, uint8(0), cleaned.RGBAAt(40, 10).R, "ink must survive")
	assert.Equal(t, uint8(255), cleaned.RGBAAt(40, 42).R, "watermark must go")
}

func TestCleanMaskOverreachSkips(t *testing.T) {
	// Whole box inside the band: coverage 1.0 > ceiling.
	img := grayImage(40, 40, 160)

	s := newTestSuppressor(t)
	out, stats, err := s.Clean(img)
	assert.ErrorIs(t, err, ErrMaskOverreach)
	assert.True(t, stats.Skipped)
	assert.InDelta(t, 1.0, stats.Coverage, 1e-9)
	assert.Same(t, img, out.(*image.RGBA))
}

func TestDilateGrowsMask(t *testing.T) {
	w, h := 5, 5
	mask := make([]bool, w*h)
	mask[2*w+2] = true

	out := dilate(mask, w, h)
	assert.True(t, out[2*w+2])
	assert.True(t, out[1*w+2])
	assert.True(t, out[3*w+2])
	assert.True(t, out[2*w+1])
	assert.True(t, out[2*w+3])
	assert.False(t, out[1*w+1], "diagonals stay clear")
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	bad := DefaultConfig()
	bad.BandHigh = bad.BandLow
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.MaskAreaCeiling = 0
	assert.Error(t, bad.Validate())
}
