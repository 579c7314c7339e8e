package detector

import (
	"sort"

	"github.com/rollscan/rollscan/internal/utils"
)

// LocateBoxes extracts plausible voter-box rectangles from a binary page:
// connected components → geometric filtering → overlap merging → reading
// order. A page with no foreground pixels yields an empty slice.
func LocateBoxes(page *BinaryPage, cfg Config) []Region {
	comps := connectedComponents(page)
	if len(comps) == 0 {
		return []Region{}
	}

	boxes := make([]utils.Box, 0, len(comps))
	for _, c := range comps {
		boxes = append(boxes, c.bounds())
	}

	boxes = filterPlausible(boxes, cfg)
	boxes = mergeOverlapping(boxes, cfg.MergeThreshold)

	if cfg.MaxBoxes > 0 && len(boxes) > cfg.MaxBoxes {
		sort.Slice(boxes, func(i, j int) bool { return boxes[i].Area() > boxes[j].Area() })
		boxes = boxes[:cfg.MaxBoxes]
	}

	boxes = sortReadingOrder(boxes, cfg.RowTolerance)

	regions := make([]Region, len(boxes))
	for i, b := range boxes {
		regions[i] = Region{Box: b}
	}
	return regions
}

// filterPlausible drops boxes outside the configured width, height and
// aspect-ratio bounds. This rejects noise specks on the small end and
// page-spanning false contours on the large end.
func filterPlausible(boxes []utils.Box, cfg Config) []utils.Box {
	kept := boxes[:0]
	for _, b := range boxes {
		if b.W < cfg.MinWidth || b.W > cfg.MaxWidth {
			continue
		}
		if b.H < cfg.MinHeight || b.H > cfg.MaxHeight {
			continue
		}
		ar := b.AspectRatio()
		if ar < cfg.MinAspect || ar > cfg.MaxAspect {
			continue
		}
		kept = append(kept, b)
	}
	return kept
}

// mergeOverlapping collapses boxes that overlap beyond the threshold.
// The larger-area box wins; candidates are visited largest-first so a
// suppressed box can never itself suppress others.
func mergeOverlapping(boxes []utils.Box, threshold float64) []utils.Box {
	if len(boxes) <= 1 {
		return boxes
	}

	sorted := make([]utils.Box, len(boxes))
	copy(sorted, boxes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Area() > sorted[j].Area() })

	suppressed := make([]bool, len(sorted))
	kept := make([]utils.Box, 0, len(sorted))
	for i, a := range sorted {
		if suppressed[i] {
			continue
		}
		kept = append(kept, a)
		for j := i + 1; j < len(sorted); j++ {
			if suppressed[j] {
				continue
			}
			if utils.OverlapRatio(a, sorted[j]) > threshold {
				suppressed[j] = true
			}
		}
	}
	return kept
}

// sortReadingOrder arranges boxes row-major: boxes whose vertical centers
// lie within rowTolerance * median box height of each other form a band,
// bands are ordered top to bottom and boxes left to right within a band.
func sortReadingOrder(boxes []utils.Box, rowTolerance float64) []utils.Box {
	if len(boxes) <= 1 {
		return boxes
	}

	heights := make([]int, len(boxes))
	for i, b := range boxes {
		heights[i] = b.H
	}
	sort.Ints(heights)
	tol := rowTolerance * float64(heights[len(heights)/2])

	sorted := make([]utils.Box, len(boxes))
	copy(sorted, boxes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].CenterY() < sorted[j].CenterY() })

	var out []utils.Box
	for start := 0; start < len(sorted); {
		end := start + 1
		for end < len(sorted) && sorted[end].CenterY()-sorted[start].CenterY() <= tol {
			end++
		}
		band := sorted[start:end]
		sort.Slice(band, func(i, j int) bool { return band[i].X < band[j].X })
		out = append(out, band...)
		start = end
	}
	return out
}
