package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"runtime"
	"sync"
	"time"
)

// ProgressCallback receives page-level progress during a run.
type ProgressCallback interface {
	OnStart(totalPages int)
	OnProgress(done, totalPages int)
	OnComplete()
}

type pageJob struct {
	index int
	image image.Image
}

type pageOutcome struct {
	index  int
	result *PageResult
}

// ProcessPages processes page images through a worker pool and returns
// results in page order. Individual page failures are contained in their
// PageResult; the run errors only when cancelled or when every page
// failed.
func (p *Pipeline) ProcessPages(ctx context.Context, images []image.Image) (*RunResult, error) {
	if len(images) == 0 {
		return nil, errors.New("no pages provided")
	}
	start := time.Now()

	workers := p.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(images) {
		workers = len(images)
	}

	if p.progress != nil {
		p.progress.OnStart(len(images))
		defer p.progress.OnComplete()
	}

	jobs := make(chan pageJob, len(images))
	outcomes := make(chan pageOutcome, len(images))

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go p.pageWorker(ctx, jobs, outcomes, &wg)
	}

	go func() {
		defer close(jobs)
		for i, img := range images {
			select {
			case jobs <- pageJob{index: i, image: img}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	pages := make([]*PageResult, len(images))
	done := 0
	for out := range outcomes {
		pages[out.index] = out.result
		done++
		if p.progress != nil {
			p.progress.OnProgress(done, len(images))
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	failed := 0
	for i, page := range pages {
		if page == nil {
			// Worker never reached this page; should not happen
			// without cancellation, but keep the slot well-formed.
			pages[i] = &PageResult{Page: i + 1, Error: "not processed"}
			page = pages[i]
		}
		if page.Failed() {
			failed++
		}
	}
	if failed == len(pages) {
		return nil, fmt.Errorf("all %d pages failed", len(pages))
	}

	run := &RunResult{Pages: pages, Duration: time.Since(start)}
	run.Records, run.Summary = assembleRecords(pages)
	return run, nil
}

func (p *Pipeline) pageWorker(ctx context.Context, jobs <-chan pageJob, outcomes chan<- pageOutcome, wg *sync.WaitGroup) {
	defer wg.Done()
	for {
		select {
		case job, ok := <-jobs:
			if !ok {
				return
			}
			outcomes <- pageOutcome{index: job.index, result: p.processPageJob(ctx, job)}
		case <-ctx.Done():
			return
		}
	}
}

// processPageJob applies the per-page timeout and converts page errors
// into a failed PageResult so one bad page cannot sink the run.
func (p *Pipeline) processPageJob(ctx context.Context, job pageJob) *PageResult {
	pageCtx := ctx
	if p.cfg.PageTimeout > 0 {
		var cancel context.CancelFunc
		pageCtx, cancel = context.WithTimeout(ctx, p.cfg.PageTimeout)
		defer cancel()
	}

	pageNum := job.index + 1
	result, err := p.ProcessPage(pageCtx, job.image, pageNum)
	if err != nil {
		return &PageResult{Page: pageNum, Error: err.Error()}
	}
	return result
}
