package recognizer

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// TesseractEngine recognizes text with a local Tesseract installation
// through gosseract. A single client is shared and calls are serialized;
// Tesseract clients are not safe for concurrent use.
type TesseractEngine struct {
	client *gosseract.Client
	mu     sync.Mutex
}

// NewTesseractEngine creates a Tesseract-backed engine for the given
// language (empty = English).
func NewTesseractEngine(language string) (*TesseractEngine, error) {
	client := gosseract.NewClient()
	if language == "" {
		language = "eng"
	}
	if err := client.SetLanguage(language); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("set tesseract language %q: %w", language, err)
	}
	return &TesseractEngine{client: client}, nil
}

// Recognize runs OCR on a sub-region image. Engine-level recognition
// problems surface as empty text, not errors; the field normalizer deals
// with low-quality output uniformly.
func (t *TesseractEngine) Recognize(ctx context.Context, img image.Image, cfg RegionConfig) (string, error) {
	if img == nil || img.Bounds().Empty() {
		return "", nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode region for recognition: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.client.SetImageFromBytes(buf.Bytes()); err != nil {
		slog.Debug("tesseract rejected region image", "error", err)
		return "", nil
	}
	if err := t.client.SetWhitelist(cfg.Whitelist); err != nil {
		slog.Debug("tesseract whitelist not applied", "error", err)
	}
	if err := t.client.SetPageSegMode(pageSegMode(cfg.Mode)); err != nil {
		slog.Debug("tesseract segmentation mode not applied", "error", err)
	}

	text, err := t.client.Text()
	if err != nil {
		slog.Debug("tesseract recognition failed", "error", err)
		return "", nil
	}
	return strings.TrimSpace(text), nil
}

// Close releases the underlying Tesseract client.
func (t *TesseractEngine) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.client.Close()
}

func pageSegMode(m Mode) gosseract.PageSegMode {
	switch m {
	case ModeSingleWord:
		return gosseract.PSM_SINGLE_WORD
	case ModeSingleLine:
		return gosseract.PSM_SINGLE_LINE
	default:
		return gosseract.PSM_SINGLE_BLOCK
	}
}
