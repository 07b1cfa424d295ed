// Package pipeline provides the high-level orchestration for analyzing a website:
// guard, fetch, extract, and optionally enhance.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/site-analyzer/internal/extract"
	"github.com/jonathan/site-analyzer/internal/fetch"
	"github.com/jonathan/site-analyzer/internal/observability"
	"github.com/jonathan/site-analyzer/internal/types"
	"github.com/jonathan/site-analyzer/internal/urlguard"
)

// Pipeline stage names reported in progress events.
const (
	StepGuard   = "guard"
	StepFetch   = "fetch"
	StepExtract = "extract"
	StepEnhance = "enhance"
)

// PageFetcher retrieves the HTML of a normalized URL.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.Result, error)
}

// DescriptionEnhancer rewrites a description. It must never fail.
type DescriptionEnhancer interface {
	Enhance(ctx context.Context, text, brandName string) types.Enhancement
}

// ProgressEvent represents a progress update during an analysis
type ProgressEvent struct {
	Step      string `json:"step"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Content   any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs.
// During AnalyzeBatch it is called from several goroutines at once.
type ProgressCallback func(event ProgressEvent)

// Analyzer runs the analysis pipeline. Invocations share no state besides the
// metrics collectors, so one Analyzer may serve concurrent callers.
type Analyzer struct {
	fetcher    PageFetcher
	enhancer   DescriptionEnhancer
	logger     *zap.Logger
	metrics    *observability.Metrics
	onProgress ProgressCallback
}

// NewAnalyzer wires the pipeline stages together.
// enhancer, logger and metrics may be nil.
func NewAnalyzer(fetcher PageFetcher, enhancer DescriptionEnhancer, logger *zap.Logger, metrics *observability.Metrics) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		fetcher:  fetcher,
		enhancer: enhancer,
		logger:   logger.Named("pipeline"),
		metrics:  metrics,
	}
}

// OnProgress registers a callback for stage completion events.
func (a *Analyzer) OnProgress(cb ProgressCallback) {
	a.onProgress = cb
}

func (a *Analyzer) emit(requestID, step, message string, content any) {
	if a.onProgress != nil {
		a.onProgress(ProgressEvent{
			Step:      step,
			Message:   message,
			RequestID: requestID,
			Content:   content,
		})
	}
}

// Analyze turns rawURL into an Analysis. Guard and fetch failures are returned
// as *types.PipelineError; nothing after the fetch can fail.
func (a *Analyzer) Analyze(ctx context.Context, rawURL string, opts types.AnalyzeOptions) (*types.Analysis, error) {
	requestID := uuid.NewString()
	log := a.logger.With(zap.String("request_id", requestID), zap.String("url", rawURL))
	start := time.Now()

	log.Info("analysis started", zap.Bool("enhance", opts.Enhance))

	analysis, err := a.run(ctx, requestID, rawURL, opts, log)
	a.metrics.RecordAnalysis(err)
	if err != nil {
		log.Info("analysis failed",
			zap.Stringer("kind", types.KindOf(err)),
			zap.Error(err),
			zap.Duration("elapsed", time.Since(start)),
		)
		return nil, err
	}

	log.Info("analysis complete",
		zap.Bool("has_brand", analysis.BrandName != ""),
		zap.Bool("has_description", analysis.Description != ""),
		zap.Bool("enhanced", analysis.IsEnhanced),
		zap.Duration("elapsed", time.Since(start)),
	)
	return analysis, nil
}

func (a *Analyzer) run(ctx context.Context, requestID, rawURL string, opts types.AnalyzeOptions, log *zap.Logger) (*types.Analysis, error) {
	normalized, err := urlguard.Check(rawURL)
	if err != nil {
		return nil, err
	}
	a.emit(requestID, StepGuard, "URL accepted", normalized)

	fetchStart := time.Now()
	page, err := a.fetcher.Fetch(ctx, normalized)
	a.metrics.ObserveFetch(time.Since(fetchStart))
	if err != nil {
		if types.KindOf(err) == types.KindUnknown {
			err = types.NewError(types.KindTransport, err.Error(), err).WithURL(normalized)
		}
		return nil, err
	}
	a.emit(requestID, StepFetch, "page fetched", page.StatusCode)

	extraction, sources := extract.ExtractWithSources(page.HTML)
	log.Debug("content extracted",
		zap.Bool("has_brand", extraction.HasBrand()),
		zap.Bool("has_description", extraction.HasDescription()),
		zap.String("brand_source", sources.Brand),
		zap.String("description_source", sources.Description),
	)
	a.emit(requestID, StepExtract, "content extracted", sources)

	analysis := &types.Analysis{
		URL:         normalized,
		BrandName:   extraction.BrandName,
		Description: extraction.Description,
	}

	if opts.Enhance {
		a.enhance(ctx, requestID, extraction, analysis, log)
	}
	return analysis, nil
}

// enhance replaces the description with its rewrite when one is available.
func (a *Analyzer) enhance(ctx context.Context, requestID string, extraction types.Extraction, analysis *types.Analysis, log *zap.Logger) {
	if a.enhancer == nil || !extraction.HasDescription() {
		log.Debug("enhancement skipped",
			zap.Bool("enhancer_configured", a.enhancer != nil),
			zap.Bool("has_description", extraction.HasDescription()),
		)
		a.metrics.RecordEnhancement(observability.EnhancementSkipped)
		a.emit(requestID, StepEnhance, "enhancement skipped", nil)
		return
	}

	result := a.enhancer.Enhance(ctx, analysis.Description, analysis.BrandName)
	analysis.Description = result.Text
	analysis.IsEnhanced = result.WasEnhanced

	switch {
	case result.WasEnhanced:
		a.metrics.RecordEnhancement(observability.EnhancementEnhanced)
	case result.Err != nil:
		a.metrics.RecordEnhancement(observability.EnhancementFailed)
	default:
		a.metrics.RecordEnhancement(observability.EnhancementUnchanged)
	}
	a.emit(requestID, StepEnhance, "enhancement finished", result.WasEnhanced)
}
