// Package pdf loads scanned roll pages from PDF files. Roll PDFs carry
// one full-page scan per page; the embedded images are extracted with
// pdfcpu and returned in page order.
package pdf

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// LoadPages extracts the page scans from a PDF. pageRange selects pages
// ("3", "1-5", "1,4,7"); empty means all. The returned slice is ordered
// by ascending page number; a PDF page with several embedded images
// contributes its first image only.
func LoadPages(filename, pageRange string) ([]image.Image, []int, error) {
	pages, err := ParsePageRange(pageRange)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid page range %q: %w", pageRange, err)
	}

	tempDir, err := os.MkdirTemp("", "rollscan-pdf-*")
	if err != nil {
		return nil, nil, fmt.Errorf("create temp directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(tempDir) }()

	var selected []string
	for _, p := range pages {
		selected = append(selected, strconv.Itoa(p))
	}
	if err := api.ExtractImagesFile(filename, tempDir, selected, nil); err != nil {
		return nil, nil, fmt.Errorf("extract page images: %w", err)
	}

	byPage, err := collectPageImages(tempDir)
	if err != nil {
		return nil, nil, err
	}
	if len(byPage) == 0 {
		return nil, nil, fmt.Errorf("no page images found in %s", filename)
	}

	nums := make([]int, 0, len(byPage))
	for n := range byPage {
		nums = append(nums, n)
	}
	sort.Ints(nums)

	images := make([]image.Image, 0, len(nums))
	for _, n := range nums {
		images = append(images, byPage[n])
	}
	return images, nums, nil
}

// collectPageImages walks the extraction directory and keeps the first
// image per page. pdfcpu names files page_<num>_image_<idx>.<ext>.
func collectPageImages(dir string) (map[int]image.Image, error) {
	result := make(map[int]image.Image)

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		pageNum, err := pageFromFilename(info.Name())
		if err != nil {
			return nil
		}
		if _, ok := result[pageNum]; ok {
			slog.Debug("extra embedded image ignored", "page", pageNum, "file", info.Name())
			return nil
		}
		img, err := loadImageFile(path)
		if err != nil {
			slog.Warn("unreadable page image skipped", "file", info.Name(), "error", err)
			return nil
		}
		result[pageNum] = img
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect extracted images: %w", err)
	}
	return result, nil
}

func loadImageFile(path string) (image.Image, error) {
	file, err := os.Open(path) //nolint:gosec // G304: path comes from our own temp dir
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	img, _, err := image.Decode(file)
	return img, err
}

func pageFromFilename(filename string) (int, error) {
	if !strings.HasPrefix(filename, "page_") {
		return 0, errors.New("not a page file")
	}
	parts := strings.Split(filename, "_")
	if len(parts) < 2 {
		return 0, errors.New("unexpected filename format")
	}
	return strconv.Atoi(parts[1])
}

// ParsePageRange parses a selection like "3", "1-5", or "1,3,5-7" into
// page numbers. An empty selection returns nil, meaning all pages.
func ParsePageRange(pageRange string) ([]int, error) {
	if pageRange == "" {
		return nil, nil
	}

	var pages []int
	for _, part := range strings.Split(pageRange, ",") {
		tokenPages, err := parseRangeToken(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		pages = append(pages, tokenPages...)
	}
	return pages, nil
}

func parseRangeToken(part string) ([]int, error) {
	if !strings.Contains(part, "-") {
		page, err := strconv.Atoi(part)
		if err != nil || page < 1 {
			return nil, fmt.Errorf("invalid page %q", part)
		}
		return []int{page}, nil
	}

	bounds := strings.SplitN(part, "-", 2)
	start, err := strconv.Atoi(strings.TrimSpace(bounds[0]))
	if err != nil {
		return nil, fmt.Errorf("invalid range start %q", bounds[0])
	}
	end, err := strconv.Atoi(strings.TrimSpace(bounds[1]))
	if err != nil {
		return nil, fmt.Errorf("invalid range end %q", bounds[1])
	}
	if start < 1 || end < start {
		return nil, fmt.Errorf("invalid range %q", part)
	}

	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages, nil
}
