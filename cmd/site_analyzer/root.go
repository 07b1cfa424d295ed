package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/site-analyzer/internal/config"
	"github.com/jonathan/site-analyzer/internal/enhance"
	"github.com/jonathan/site-analyzer/internal/fetch"
	"github.com/jonathan/site-analyzer/internal/llm"
	"github.com/jonathan/site-analyzer/internal/logging"
	"github.com/jonathan/site-analyzer/internal/observability"
	"github.com/jonathan/site-analyzer/internal/pipeline"
)

// Test seams. Production code leaves httpTransport nil and uses the Gemini client.
var (
	httpTransport http.RoundTripper
	newLLMClient  = llm.NewClient
)

// app holds what every subcommand needs once flags and config are resolved.
type app struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "site_analyzer",
		Short: "Derive a brand name and description from a website",
		Long: "site_analyzer fetches a public web page, extracts its brand name and a short description " +
			"from page metadata and content, and can optionally rewrite the description with Gemini.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.load()
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to a config file (YAML, JSON or TOML)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn or error (overrides LOG_LEVEL)")

	rootCmd.AddCommand(newAnalyzeCmd(a), newBatchCmd(a))
	return rootCmd
}

func (a *app) load() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

// userAgent returns the configured user agent, or the default one carrying the API URL.
func (a *app) userAgent() string {
	if a.cfg.UserAgent != "" {
		return a.cfg.UserAgent
	}
	return fetch.UserAgent(a.cfg.APIURL)
}

func (a *app) newFetcher() *fetch.Fetcher {
	return fetch.New(&fetch.Options{
		Timeout:      a.cfg.FetchTimeout,
		UserAgent:    a.userAgent(),
		MaxRedirects: a.cfg.MaxRedirects,
		MaxBodyBytes: a.cfg.MaxBodyBytes,
		Transport:    httpTransport,
		Logger:       a.logger,
	})
}

// newAnalyzer builds the pipeline. Enhancement is wired only when wantEnhance is
// set and an API key is available; the returned func releases the LLM client.
func (a *app) newAnalyzer(ctx context.Context, wantEnhance bool, apiKey string, metrics *observability.Metrics) (*pipeline.Analyzer, func(), error) {
	cleanup := func() {}
	var enhancer pipeline.DescriptionEnhancer

	if wantEnhance {
		if apiKey == "" {
			a.logger.Warn("no Gemini API key configured; descriptions will not be enhanced")
		} else {
			tier, err := llm.ParseTier(a.cfg.EnhanceTier)
			if err != nil {
				return nil, cleanup, err
			}
			llmConfig := llm.DefaultConfig().WithModel(tier, a.cfg.GeminiModel)
			client, err := newLLMClient(ctx, llmConfig, apiKey)
			if err != nil {
				return nil, cleanup, fmt.Errorf("failed to create LLM client: %w", err)
			}
			cleanup = func() { _ = client.Close() }
			enhancer = enhance.New(client,
				enhance.WithTier(tier),
				enhance.WithTimeout(a.cfg.EnhanceTimeout),
				enhance.WithLogger(a.logger),
			)
		}
	}

	return pipeline.NewAnalyzer(a.newFetcher(), enhancer, a.logger, metrics), cleanup, nil
}
