package detector

import (
	"fmt"
	"image"
	"sort"

	"github.com/rollscan/rollscan/internal/utils"
)

// BinaryPage is the normalized representation of a scanned page: a
// foreground mask plus the grayscale intermediate kept for later masking.
// The mask has the same spatial dimensions as the source image.
type BinaryPage struct {
	Mask   []bool // row-major, true = printed content
	Width  int
	Height int
	Gray   *image.Gray
}

// ForegroundCount returns the number of foreground pixels in the mask.
func (p *BinaryPage) ForegroundCount() int {
	n := 0
	for _, v := range p.Mask {
		if v {
			n++
		}
	}
	return n
}

// Binarize converts a page image to a BinaryPage: grayscale conversion,
// median denoising to remove scan speckle without blurring box borders,
// then an inverse Otsu threshold so that ink becomes foreground.
func Binarize(img image.Image, cfg Config) (*BinaryPage, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrImageDecode)
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: zero-area image %dx%d", ErrImageDecode, w, h)
	}

	gray := utils.ToGray(img)
	for range cfg.MedianPasses {
		gray = medianFilter3(gray)
	}

	thresh := otsuThreshold(gray)

	mask := make([]bool, w*h)
	for y := range h {
		for x := range w {
			// The dark class is [0, thresh]; inclusive so pure
			// black/white pages binarize correctly.
			if gray.GrayAt(x, y).Y <= thresh {
				mask[y*w+x] = true
			}
		}
	}

	return &BinaryPage{Mask: mask, Width: w, Height: h, Gray: gray}, nil
}

// medianFilter3 applies a 3x3 median filter to a grayscale plane.
// The median preserves step edges (box borders) while removing
// salt-and-pepper scan speckle.
func medianFilter3(src *image.Gray) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(b)
	window := make([]byte, 0, 9)

	for y := range h {
		for x := range w {
			window = window[:0]
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if nx < 0 || nx >= w || ny < 0 || ny >= h {
						continue
					}
					window = append(window, src.GrayAt(nx, ny).Y)
				}
			}
			sort.Slice(window, func(i, j int) bool { return window[i] < window[j] })
			dst.Pix[y*dst.Stride+x] = window[len(window)/2]
		}
	}
	return dst
}

// otsuThreshold computes the global Otsu threshold over the gray
// histogram, maximizing between-class variance.
func otsuThreshold(gray *image.Gray) uint8 {
	var hist [256]int
	b := gray.Bounds()
	total := b.Dx() * b.Dy()
	for y := range b.Dy() {
		for x := range b.Dx() {
			hist[gray.GrayAt(x, y).Y]++
		}
	}

	var sumAll float64
	for i, c := range hist {
		sumAll += float64(i) * float64(c)
	}

	var sumB float64
	var wB int
	var maxVariance float64
	best := 0

	for t := range 256 {
		wB += hist[t]
		if wB == 0 {
			continue
		}
		wF := total - wB
		if wF == 0 {
			break
		}
		sumB += float64(t) * float64(hist[t])
		meanB := sumB / float64(wB)
		meanF := (sumAll - sumB) / float64(wF)
		variance := float64(wB) * float64(wF) * (meanB - meanF) * (meanB - meanF)
		if variance > maxVariance {
			maxVariance = variance
			best = t
		}
	}
	return uint8(best) //nolint:gosec // G115: histogram index is 0..255
}
