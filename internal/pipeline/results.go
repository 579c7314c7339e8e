package pipeline

import (
	"time"

	"github.com/rollscan/rollscan/internal/fields"
	"github.com/rollscan/rollscan/internal/records"
	"github.com/rollscan/rollscan/internal/utils"
	"github.com/rollscan/rollscan/internal/watermark"
)

// BoxResult is the extraction outcome for one voter box on a page.
type BoxResult struct {
	// Index is the box position in page reading order, starting at 0.
	Index int `json:"index"`

	// Rect is the box rectangle in page coordinates.
	Rect utils.Box `json:"rect"`

	// Raw recognized text per sub-region, kept for auditing.
	SerialText string `json:"serial_text,omitempty"`
	EPICText   string `json:"epic_text,omitempty"`
	InfoText   string `json:"info_text,omitempty"`

	// Fields holds the normalized field set.
	Fields fields.FieldSet `json:"fields"`

	// Watermark describes the suppression attempt for this box.
	Watermark watermark.Stats `json:"watermark"`
}

// PageResult is the extraction outcome for one page.
type PageResult struct {
	Page     int           `json:"page"`
	Width    int           `json:"width"`
	Height   int           `json:"height"`
	Boxes    []BoxResult   `json:"boxes"`
	Duration time.Duration `json:"duration_ns"`

	// Error is set when the page failed outright (unreadable image,
	// timeout). A failed page contributes no boxes but never fails the
	// run on its own.
	Error string `json:"error,omitempty"`
}

// Failed reports whether the page could not be processed at all.
func (p *PageResult) Failed() bool { return p.Error != "" }

// RunResult aggregates a whole extraction run.
type RunResult struct {
	Pages    []*PageResult         `json:"pages"`
	Records  []records.VoterRecord `json:"records"`
	Summary  records.Summary       `json:"summary"`
	Duration time.Duration         `json:"duration_ns"`
}

// FailedPages lists the page numbers that could not be processed.
func (r *RunResult) FailedPages() []int {
	var failed []int
	for _, p := range r.Pages {
		if p.Failed() {
			failed = append(failed, p.Page)
		}
	}
	return failed
}

// assembleRecords walks pages in order and builds the run-level record
// set. Doing this after page processing keeps duplicate flagging
// deterministic regardless of worker scheduling.
func assembleRecords(pages []*PageResult) ([]records.VoterRecord, records.Summary) {
	asm := records.NewAssembler()
	for _, page := range pages {
		if page.Failed() {
			continue
		}
		for _, box := range page.Boxes {
			asm.Add(box.Fields, records.Provenance{
				Page: page.Page,
				Box:  box.Index,
				Rect: box.Rect,
			})
		}
	}
	return asm.Records(), asm.Summarize()
}
