package utils

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/disintegration/imaging"
)

// CropBox crops an image to the given box, clamped to the image bounds.
func CropBox(img image.Image, box Box) image.Image {
	rect := box.ToRect(img.Bounds())
	if rect.Empty() {
		return imaging.New(0, 0, color.Transparent)
	}
	return imaging.Crop(img, rect)
}

// ToGray converts an image to an 8-bit grayscale plane anchored at (0,0).
func ToGray(img image.Image) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(gray, gray.Bounds(), imaging.Grayscale(img), bounds.Min, draw.Src)
	return gray
}

// CloneRGBA copies an arbitrary image into a fresh RGBA buffer at (0,0).
func CloneRGBA(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	return dst
}

// LoadImageFile loads and decodes an image from disk.
func LoadImageFile(path string) (image.Image, error) {
	f, err := os.Open(path) //nolint:gosec // G304: user-provided input path is expected
	if err != nil {
		return nil, fmt.Errorf("failed to open image file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

// SaveImagePNG writes an image to disk, format chosen by extension.
func SaveImagePNG(img image.Image, path string) error {
	return imaging.Save(img, path)
}

// DrawRect draws an axis-aligned rectangle outline into dst.
func DrawRect(dst *image.RGBA, box Box, col color.Color, thickness int) {
	if thickness < 1 {
		thickness = 1
	}
	rect := box.ToRect(dst.Bounds())
	if rect.Empty() {
		return
	}
	for t := range thickness {
		yTop := rect.Min.Y + t
		yBot := rect.Max.Y - 1 - t
		for x := rect.Min.X; x < rect.Max.X; x++ {
			dst.Set(x, yTop, col)
			dst.Set(x, yBot, col)
		}
		xLeft := rect.Min.X + t
		xRight := rect.Max.X - 1 - t
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			dst.Set(xLeft, y, col)
			dst.Set(xRight, y, col)
		}
	}
}
