package utils

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidImage(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestCropBox(t *testing.T) {
	img := solidImage(100, 80, color.White)

	crop := CropBox(img, Box{X: 10, Y: 10, W: 30, H: 20})
	assert.Equal(t, 30, crop.Bounds().Dx())
	assert.Equal(t, 20, crop.Bounds().Dy())

	// Out-of-bounds boxes clamp.
	crop = CropBox(img, Box{X: 90, Y: 70, W: 50, H: 50})
	assert.Equal(t, 10, crop.Bounds().Dx())
	assert.Equal(t, 10, crop.Bounds().Dy())

	// Fully outside yields an empty image, not a panic.
	crop = CropBox(img, Box{X: 200, Y: 200, W: 10, H: 10})
	assert.True(t, crop.Bounds().Empty())
}

func TestToGray(t *testing.T) {
	img := solidImage(10, 10, color.RGBA{R: 255, A: 255})
	gray := ToGray(img)
	assert.Equal(t, image.Rect(0, 0, 10, 10), gray.Bounds())
	// Pure red maps to a mid-dark luminance, not black or white.
	v := gray.GrayAt(5, 5).Y
	assert.Greater(t, v, uint8(20))
	assert.Less(t, v, uint8(150))
}

func TestCloneRGBAAnchorsAtOrigin(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 7, 25, 27))
	src.Set(5, 7, color.RGBA{R: 9, G: 8, B: 7, A: 255})

	dst := CloneRGBA(src)
	assert.Equal(t, image.Rect(0, 0, 20, 20), dst.Bounds())
	assert.Equal(t, color.RGBA{R: 9, G: 8, B: 7, A: 255}, dst.RGBAAt(0, 0))
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	img := solidImage(16, 12, color.White)
	require.NoError(t, SaveImagePNG(img, path))

	loaded, err := LoadImageFile(path)
	require.NoError(t, err)
	assert.Equal(t, 16, loaded.Bounds().Dx())
	assert.Equal(t, 12, loaded.Bounds().Dy())
}

func TestLoadImageFileErrors(t *testing.T) {
	_, err := LoadImageFile("missing.png")
	assert.Error(t, err)
}

func TestDrawRect(t *testing.T) {
	img := solidImage(20, 20, color.White)
	red := color.RGBA{R: 255, A: 255}
	DrawRect(img, Box{X: 2, Y: 2, W: 10, H: 10}, red, 1)

	assert.Equal(t, red, img.RGBAAt(2, 2))
	assert.Equal(t, red, img.RGBAAt(11, 11))
	// Interior untouched.
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, img.RGBAAt(6, 6))
}
