package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// BatchItem pairs one input path with its outcome. Exactly one of Result
// and Err is set.
type BatchItem struct {
	Index  int
	Path   string
	Result *Result
	Err    error
}

// BatchOptions tunes a batch run.
type BatchOptions struct {
	// Workers is the number of parallel pipeline invocations.
	Workers int

	// ContinueOnError keeps going past per-image failures; otherwise the
	// first failure cancels the remaining work.
	ContinueOnError bool
}

// ProcessBatch runs the pipeline over many files in parallel. Images are
// independent, so this is a plain worker pool; results come back ordered
// by input position regardless of completion order.
func (p *Pipeline) ProcessBatch(ctx context.Context, paths []string, opts BatchOptions) ([]BatchItem, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int)
	items := make([]BatchItem, len(paths))
	for i := range items {
		items[i] = BatchItem{Index: i, Path: paths[i]}
	}

	var wg sync.WaitGroup
	for _i := 0; _i < workers; _i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				item := BatchItem{Index: idx, Path: paths[idx]}
				item.Result, item.Err = p.ProcessFile(paths[idx])
				items[idx] = item

				if item.Err != nil {
					slog.Error("batch item failed", "path", item.Path, "error", item.Err)
					if !opts.ContinueOnError {
						cancel()
						return
					}
				}
			}
		}()
	}

feed:
	for i := range paths {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if !opts.ContinueOnError {
		for _, item := range items {
			if item.Err != nil {
				return items, fmt.Errorf("batch aborted: %w", item.Err)
			}
		}
	}
	if err := context.Cause(ctx); err != nil && err != context.Canceled {
		return items, err
	}
	return items, nil
}

// FailedCount returns how many items in a batch carry errors.
func FailedCount(items []BatchItem) int {
	var n int
	for _, item := range items {
		if item.Err != nil {
			n++
		}
	}
	return n
}
