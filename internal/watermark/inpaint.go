package watermark

import "image"

// inpaint reconstructs masked pixels from surrounding content. Each pass
// fills masked pixels that have at least one known 8-connected neighbor
// with the average of those neighbors, so the fill grows inward from the
// mask border. Passes are capped; any pixels still unknown afterwards
// (a fully-masked image cannot happen here because coverage is bounded
// by the area ceiling) are left untouched.
func inpaint(img *image.RGBA, mask []bool, w, h, maxPasses int) *image.RGBA {
	unknown := make([]bool, len(mask))
	remaining := 0
	for i, m := range mask {
		if m {
			unknown[i] = true
			remaining++
		}
	}

	for pass := 0; pass < maxPasses && remaining > 0; pass++ {
		filled := fillBorderPixels(img, unknown, w, h)
		if filled == 0 {
			break
		}
		remaining -= filled
	}
	return img
}

// fillBorderPixels fills every unknown pixel adjacent to known content
// and returns the number of pixels filled in this pass.
func fillBorderPixels(img *image.RGBA, unknown []bool, w, h int) int {
	type fill struct {
		idx     int
		r, g, b uint8
	}
	var fills []fill

	for y := range h {
		for x := range w {
			idx := y*w + x
			if !unknown[idx] {
				continue
			}
			var sumR, sumG, sumB, n int
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					nx, ny := x+dx, y+dy
					if nx < 0 || nx >= w || ny < 0 || ny >= h {
						continue
					}
					if unknown[ny*w+nx] {
						continue
					}
					off := img.PixOffset(nx, ny)
					sumR += int(img.Pix[off])
					sumG += int(img.Pix[off+1])
					sumB += int(img.Pix[off+2])
					n++
				}
			}
			if n == 0 {
				continue
			}
			fills = append(fills, fill{
				idx: idx,
				r:   uint8(sumR / n), //nolint:gosec // G115: averages of byte values
				g:   uint8(sumG / n), //nolint:gosec
				b:   uint8(sumB / n), //nolint:gosec
			})
		}
	}

	// Apply after the scan so fills within one pass do not feed each other.
	for _, f := range fills {
		x, y := f.idx%w, f.idx/w
		off := img.PixOffset(x, y)
		img.Pix[off] = f.r
		img.Pix[off+1] = f.g
		img.Pix[off+2] = f.b
		img.Pix[off+3] = 0xff
		unknown[f.idx] = false
	}
	return len(fills)
}
