package watermark

import "image"

// bandMask selects pixels whose intensity falls inside the watermark
// band. It returns the row-major mask and the matched intensities for
// later statistics.
func bandMask(gray *image.Gray, cfg Config) ([]bool, []float64) {
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()
	mask := make([]bool, w*h)
	var intensities []float64

	for y := range h {
		for x := range w {
			v := gray.GrayAt(x, y).Y
			if v >= cfg.BandLow && v <= cfg.BandHigh {
				mask[y*w+x] = true
				intensities = append(intensities, float64(v))
			}
		}
	}
	return mask, intensities
}

// dilate grows the mask by one pixel in each 4-connected direction,
// closing gaps between watermark strokes.
func dilate(mask []bool, w, h int) []bool {
	out := make([]bool, len(mask))
	copy(out, mask)
	for y := range h {
		for x := range w {
			if mask[y*w+x] {
				continue
			}
			if (x > 0 && mask[y*w+x-1]) ||
				(x < w-1 && mask[y*w+x+1]) ||
				(y > 0 && mask[(y-1)*w+x]) ||
				(y < h-1 && mask[(y+1)*w+x]) {
				out[y*w+x] = true
			}
		}
	}
	return out
}
