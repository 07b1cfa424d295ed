package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/site-analyzer/internal/extract"
	"github.com/jonathan/site-analyzer/internal/observability"
	"github.com/jonathan/site-analyzer/internal/pipeline"
	"github.com/jonathan/site-analyzer/internal/types"
)

type analyzeFlags struct {
	url     string
	enhance bool
	timeout time.Duration
	apiKey  string
	out     string
	verbose bool
}

func newAnalyzeCmd(a *app) *cobra.Command {
	f := &analyzeFlags{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a single website",
		Long: "Fetches the page at --url and prints its brand name and description as JSON. " +
			"Failures are printed as {\"error\":{\"type\":...,\"message\":...}} and exit non-zero.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnalyze(cmd, a, f)
		},
	}

	cmd.Flags().StringVarP(&f.url, "url", "u", "", "Website URL to analyze (required)")
	cmd.Flags().BoolVar(&f.enhance, "enhance", false, "Rewrite the description with Gemini")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "Fetch timeout (overrides FETCH_TIMEOUT)")
	cmd.Flags().StringVar(&f.apiKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "Write the JSON result to this file instead of stdout")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Print progress and a summary to stderr")

	if err := cmd.MarkFlagRequired("url"); err != nil {
		panic(fmt.Sprintf("failed to mark url flag as required: %v", err))
	}

	return cmd
}

func runAnalyze(cmd *cobra.Command, a *app, f *analyzeFlags) error {
	if f.timeout > 0 {
		a.cfg.FetchTimeout = f.timeout
	}
	apiKey := f.apiKey
	if apiKey == "" {
		apiKey = a.cfg.GeminiAPIKey
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	analyzer, cleanup, err := a.newAnalyzer(ctx, f.enhance, apiKey, nil)
	if err != nil {
		return err
	}
	defer cleanup()

	stderr := cmd.ErrOrStderr()
	var sources extract.Sources
	analyzer.OnProgress(func(e pipeline.ProgressEvent) {
		if s, ok := e.Content.(extract.Sources); ok {
			sources = s
		}
		if f.verbose {
			_, _ = fmt.Fprintf(stderr, "[VERBOSE] %s: %s\n", e.Step, e.Message)
		}
	})

	out := cmd.OutOrStdout()
	if f.out != "" {
		file, err := os.Create(f.out)
		if err != nil {
			return fmt.Errorf("failed to create output file %s: %w", f.out, err)
		}
		defer func() { _ = file.Close() }()
		out = file
	}

	analysis, err := analyzer.Analyze(ctx, f.url, types.AnalyzeOptions{Enhance: f.enhance})
	if err != nil {
		if f.verbose {
			observability.NewPrinter(stderr).PrintError(f.url, err)
		}
		if werr := writeEnvelope(out, newErrorEnvelope("", err), true); werr != nil {
			return werr
		}
		return errAnalysisFailed
	}

	if f.verbose {
		observability.NewPrinter(stderr).PrintAnalysis(analysis, sources.Brand, sources.Description)
	}
	return writeAnalysis(out, analysis)
}

func writeAnalysis(w io.Writer, analysis *types.Analysis) error {
	data, err := encodeAnalysis(analysis, true)
	if err != nil {
		return err
	}
	return writeJSONLine(w, data)
}
