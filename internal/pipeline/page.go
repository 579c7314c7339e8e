package pipeline

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"time"

	"github.com/rollscan/rollscan/internal/detector"
	"github.com/rollscan/rollscan/internal/layout"
	"github.com/rollscan/rollscan/internal/utils"
)

// ProcessPage extracts every voter box on one page image. pageNum is
// 1-based and used only for provenance and logging. A page with no
// detectable boxes yields an empty result, not an error; errors are
// reserved for unusable images and cancellation.
func (p *Pipeline) ProcessPage(ctx context.Context, img image.Image, pageNum int) (*PageResult, error) {
	start := time.Now()

	page, regions, err := p.detector.DetectBoxes(img)
	if err != nil && !errors.Is(err, detector.ErrNoBoxes) {
		return nil, err
	}

	result := &PageResult{
		Page:   pageNum,
		Width:  page.Width,
		Height: page.Height,
		Boxes:  make([]BoxResult, 0, len(regions)),
	}
	if len(regions) == 0 {
		slog.Warn("no voter boxes on page", "page", pageNum, "error", err)
		result.Duration = time.Since(start)
		return result, nil
	}

	for i, region := range regions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		box, err := p.processBox(ctx, img, region.Box, pageNum, i)
		if err != nil {
			return nil, err
		}
		result.Boxes = append(result.Boxes, box)
	}

	if p.debug != nil {
		p.debug.submitBinary(pageNum, page)
		p.debug.submitOverlay(pageNum, img, result.Boxes)
	}

	result.Duration = time.Since(start)
	slog.Debug("page processed",
		"page", pageNum, "boxes", len(result.Boxes), "duration", result.Duration)
	return result, nil
}

// processBox runs the per-box stages: crop, watermark suppression,
// layout segmentation, recognition, and field normalization.
func (p *Pipeline) processBox(ctx context.Context, pageImg image.Image, rect utils.Box, pageNum, index int) (BoxResult, error) {
	crop := utils.CropBox(pageImg, rect)

	cleaned, stats, err := p.suppressor.Clean(crop)
	if err != nil {
		// Mask overreach keeps the original crop and continues.
		slog.Warn("watermark suppression skipped",
			"page", pageNum, "box", index,
			"coverage", stats.Coverage, "error", err)
	}

	b := cleaned.Bounds()
	regions := p.variant.Segment(b.Dx(), b.Dy())

	texts := make(map[layout.Kind]string, len(regions))
	for _, kind := range []layout.Kind{layout.KindSerial, layout.KindEPIC, layout.KindInfo} {
		sub := utils.CropBox(cleaned, regions[kind])
		text, err := p.engine.Recognize(ctx, sub, p.cfg.Recognizer.RegionConfigFor(kind))
		if err != nil {
			// Only context errors cross the engine boundary.
			return BoxResult{}, err
		}
		texts[kind] = text
	}

	if p.debug != nil {
		p.debug.submitCrop(pageNum, index, cleaned)
	}

	return BoxResult{
		Index:      index,
		Rect:       rect,
		SerialText: texts[layout.KindSerial],
		EPICText:   texts[layout.KindEPIC],
		InfoText:   texts[layout.KindInfo],
		Fields: p.normalizer.Normalize(
			texts[layout.KindSerial],
			texts[layout.KindEPIC],
			texts[layout.KindInfo],
		),
		Watermark: stats,
	}, nil
}
