// Package fetch performs the single bounded HTTP GET of the analysis pipeline.
// Transport failures are translated into pipeline error kinds at this boundary.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/site-analyzer/internal/types"
)

// DefaultTimeout bounds the whole request, redirects and body read included.
const DefaultTimeout = 10 * time.Second

// DefaultUserAgent identifies the analyzer to remote servers.
const DefaultUserAgent = "SiteAnalyzer/1.0"

// DefaultAccept is the Accept header sent with every request.
const DefaultAccept = "text/html,application/xhtml+xml"

// DefaultMaxRedirects is the redirect hop limit.
const DefaultMaxRedirects = 10

// DefaultMaxBodyBytes caps how much of a response body is read.
const DefaultMaxBodyBytes int64 = 5 << 20

// Result holds the final response of a fetch.
type Result struct {
	URL         string // requested URL
	FinalURL    string // URL after redirects
	HTML        string
	ContentType string
	StatusCode  int
}

// Options configures the fetch behavior.
type Options struct {
	Timeout      time.Duration
	UserAgent    string
	Accept       string
	MaxRedirects int
	MaxBodyBytes int64
	// Transport overrides the HTTP transport; nil uses http.DefaultTransport.
	Transport http.RoundTripper
	Logger    *zap.Logger
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:      DefaultTimeout,
		UserAgent:    DefaultUserAgent,
		Accept:       DefaultAccept,
		MaxRedirects: DefaultMaxRedirects,
		MaxBodyBytes: DefaultMaxBodyBytes,
	}
}

// UserAgent builds a user agent string with an optional contact URL,
// e.g. "SiteAnalyzer/1.0 (+https://api.example.com)".
func UserAgent(contactURL string) string {
	if contactURL == "" {
		return DefaultUserAgent
	}
	return fmt.Sprintf("%s (+%s)", DefaultUserAgent, contactURL)
}

// Fetcher issues single-attempt GET requests. It is safe for concurrent use.
type Fetcher struct {
	client *http.Client
	opts   Options
	logger *zap.Logger
}

// New creates a Fetcher. Zero-valued options fall back to defaults.
func New(opts *Options) *Fetcher {
	o := *DefaultOptions()
	if opts != nil {
		if opts.Timeout > 0 {
			o.Timeout = opts.Timeout
		}
		if opts.UserAgent != "" {
			o.UserAgent = opts.UserAgent
		}
		if opts.Accept != "" {
			o.Accept = opts.Accept
		}
		if opts.MaxRedirects > 0 {
			o.MaxRedirects = opts.MaxRedirects
		}
		if opts.MaxBodyBytes > 0 {
			o.MaxBodyBytes = opts.MaxBodyBytes
		}
		o.Transport = opts.Transport
		o.Logger = opts.Logger
	}

	logger := o.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	maxRedirects := o.MaxRedirects
	client := &http.Client{
		Timeout:   o.Timeout,
		Transport: o.Transport,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}

	return &Fetcher{
		client: client,
		opts:   o,
		logger: logger.Named("fetch"),
	}
}

// Fetch retrieves url once. Failures are *types.PipelineError values of kind
// Timeout, HostNotFound, BadResponse or Transport.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Result, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, types.NewError(types.KindTransport, err.Error(), err).WithURL(url)
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)
	req.Header.Set("Accept", f.opts.Accept)

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Debug("request failed", zap.String("url", url), zap.Error(err))
		return nil, classify(err).WithURL(url)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		f.logger.Debug("unexpected status", zap.String("url", url), zap.Int("status", resp.StatusCode))
		perr := types.NewError(types.KindBadResponse, statusMessage(resp.StatusCode), nil).WithURL(url)
		perr.StatusCode = resp.StatusCode
		return nil, perr
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.opts.MaxBodyBytes))
	if err != nil {
		return nil, classify(err).WithURL(url)
	}

	result := &Result{
		URL:         url,
		FinalURL:    resp.Request.URL.String(),
		HTML:        string(body),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}

	f.logger.Debug("fetched",
		zap.String("url", url),
		zap.String("final_url", result.FinalURL),
		zap.Int("status", result.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return result, nil
}

func statusMessage(code int) string {
	if text := http.StatusText(code); text != "" {
		return fmt.Sprintf("Response code %d (%s)", code, text)
	}
	return fmt.Sprintf("Response code %d", code)
}
