package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/site-analyzer/internal/types"
)

// BatchItem is the outcome of one URL in a batch. Exactly one of Analysis and Err is set.
type BatchItem struct {
	Input    string
	Analysis *types.Analysis
	Err      error
}

// AnalyzeBatch analyzes urls with at most concurrency invocations in flight.
// Items are returned in input order and a failing URL never stops the others.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, urls []string, opts types.AnalyzeOptions, concurrency int) []BatchItem {
	if concurrency < 1 {
		concurrency = 1
	}

	items := make([]BatchItem, len(urls))
	var g errgroup.Group
	g.SetLimit(concurrency)

	for i, rawURL := range urls {
		g.Go(func() error {
			analysis, err := a.Analyze(ctx, rawURL, opts)
			items[i] = BatchItem{Input: rawURL, Analysis: analysis, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return items
}
