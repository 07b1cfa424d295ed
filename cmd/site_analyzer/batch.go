package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/site-analyzer/internal/observability"
	"github.com/jonathan/site-analyzer/internal/types"
)

type batchFlags struct {
	file        string
	enhance     bool
	concurrency int
	apiKey      string
	metricsOut  string
}

func newBatchCmd(a *app) *cobra.Command {
	f := &batchFlags{}

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Analyze many websites concurrently",
		Long: "Reads one URL per line from --file (\"-\" for stdin; blank lines and # comments are skipped) " +
			"and writes one JSON line per URL, in input order. Failed URLs produce an error envelope line.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBatch(cmd, a, f)
		},
	}

	cmd.Flags().StringVarP(&f.file, "file", "f", "", "File with one URL per line, or - for stdin (required)")
	cmd.Flags().BoolVar(&f.enhance, "enhance", false, "Rewrite descriptions with Gemini")
	cmd.Flags().IntVarP(&f.concurrency, "concurrency", "c", 0, "Maximum analyses in flight (overrides CONCURRENCY)")
	cmd.Flags().StringVar(&f.apiKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	cmd.Flags().StringVar(&f.metricsOut, "metrics-out", "", "Write Prometheus metrics in text format to this file")

	if err := cmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark file flag as required: %v", err))
	}

	return cmd
}

func runBatch(cmd *cobra.Command, a *app, f *batchFlags) error {
	urls, err := readURLs(cmd.InOrStdin(), f.file)
	if err != nil {
		return err
	}

	concurrency := a.cfg.Concurrency
	if f.concurrency > 0 {
		concurrency = f.concurrency
	}
	apiKey := f.apiKey
	if apiKey == "" {
		apiKey = a.cfg.GeminiAPIKey
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	analyzer, cleanup, err := a.newAnalyzer(ctx, f.enhance, apiKey, metrics)
	if err != nil {
		return err
	}
	defer cleanup()

	items := analyzer.AnalyzeBatch(ctx, urls, types.AnalyzeOptions{Enhance: f.enhance}, concurrency)

	out := cmd.OutOrStdout()
	failed := 0
	for _, item := range items {
		if item.Err != nil {
			failed++
			if err := writeEnvelope(out, newErrorEnvelope(item.Input, item.Err), false); err != nil {
				return err
			}
			continue
		}
		data, err := encodeAnalysis(item.Analysis, false)
		if err != nil {
			return err
		}
		if err := writeJSONLine(out, data); err != nil {
			return err
		}
	}

	a.logger.Info("batch complete",
		zap.Int("total", len(items)),
		zap.Int("failed", failed),
		zap.Int("concurrency", concurrency),
	)

	if f.metricsOut != "" {
		if err := prometheus.WriteToTextfile(f.metricsOut, registry); err != nil {
			return fmt.Errorf("failed to write metrics to %s: %w", f.metricsOut, err)
		}
	}
	return nil
}

// readURLs loads the URL list from path, or from stdin when path is "-".
func readURLs(stdin io.Reader, path string) ([]string, error) {
	r := stdin
	if path != "-" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open URL file %s: %w", path, err)
		}
		defer func() { _ = file.Close() }()
		r = file
	}

	var urls []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read URL list: %w", err)
	}
	return urls, nil
}
