package pipeline

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/rollscan/rollscan/internal/detector"
	"github.com/rollscan/rollscan/internal/utils"
)

// DebugConfig controls optional debug artifact output: page overlays
// with detected box rectangles and cleaned per-box crops.
type DebugConfig struct {
	Dir     string `mapstructure:"dir" yaml:"dir" json:"dir"`
	Overlay bool   `mapstructure:"overlay" yaml:"overlay" json:"overlay"`
	Crops   bool   `mapstructure:"crops" yaml:"crops" json:"crops"`
}

// DefaultDebugConfig returns debug output disabled.
func DefaultDebugConfig() DebugConfig { return DebugConfig{} }

// Enabled reports whether any debug artifact is requested.
func (c DebugConfig) Enabled() bool {
	return c.Dir != "" && (c.Overlay || c.Crops)
}

type debugTask struct {
	path string
	img  image.Image
}

// debugWriter persists debug artifacts off the processing path. Writes
// are queued and performed by a single goroutine; when the queue is full
// the artifact is dropped rather than stalling extraction.
type debugWriter struct {
	cfg   DebugConfig
	tasks chan debugTask
	wg    sync.WaitGroup
}

func newDebugWriter(cfg DebugConfig) (*debugWriter, error) {
	if err := os.MkdirAll(cfg.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("create debug dir: %w", err)
	}
	w := &debugWriter{
		cfg:   cfg,
		tasks: make(chan debugTask, 64),
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

func (w *debugWriter) run() {
	defer w.wg.Done()
	for task := range w.tasks {
		if err := utils.SaveImagePNG(task.img, task.path); err != nil {
			slog.Warn("debug artifact not written", "path", task.path, "error", err)
		}
	}
}

func (w *debugWriter) submit(path string, img image.Image) {
	select {
	case w.tasks <- debugTask{path: path, img: img}:
	default:
		slog.Debug("debug queue full, artifact dropped", "path", path)
	}
}

// submitOverlay renders the detected boxes onto a copy of the page.
func (w *debugWriter) submitOverlay(pageNum int, pageImg image.Image, boxes []BoxResult) {
	if !w.cfg.Overlay {
		return
	}
	overlay := utils.CloneRGBA(pageImg)
	outline := color.RGBA{R: 0xe0, G: 0x20, B: 0x20, A: 0xff}
	for _, b := range boxes {
		utils.DrawRect(overlay, b.Rect, outline, 3)
	}
	w.submit(filepath.Join(w.cfg.Dir, fmt.Sprintf("page_%03d_boxes.png", pageNum)), overlay)
}

// submitBinary saves the binarized page used for box detection.
func (w *debugWriter) submitBinary(pageNum int, page *detector.BinaryPage) {
	if !w.cfg.Overlay {
		return
	}
	img := image.NewGray(image.Rect(0, 0, page.Width, page.Height))
	for i, fg := range page.Mask {
		if !fg {
			img.Pix[i] = 0xff
		}
	}
	w.submit(filepath.Join(w.cfg.Dir, fmt.Sprintf("page_%03d_binary.png", pageNum)), img)
}

// submitCrop saves the cleaned crop of one box.
func (w *debugWriter) submitCrop(pageNum, boxIndex int, crop image.Image) {
	if !w.cfg.Crops {
		return
	}
	name := fmt.Sprintf("page_%03d_box_%02d.png", pageNum, boxIndex)
	w.submit(filepath.Join(w.cfg.Dir, name), crop)
}

// close drains pending writes.
func (w *debugWriter) close() {
	close(w.tasks)
	w.wg.Wait()
}
