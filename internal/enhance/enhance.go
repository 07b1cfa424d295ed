// Package enhance rewrites extracted descriptions with a generative-text backend.
//
// Enhance never fails. Any backend problem is logged and the original text is
// returned with WasEnhanced=false.
package enhance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/site-analyzer/internal/llm"
	"github.com/jonathan/site-analyzer/internal/prompts"
	"github.com/jonathan/site-analyzer/internal/types"
)

// DefaultTimeout bounds a single backend call.
const DefaultTimeout = 20 * time.Second

// unknownBrand stands in for an absent brand name in the prompt.
const unknownBrand = "this website"

const (
	promptFile = "enhance.json"
	promptKey  = "rewrite_description"
)

var errNoClient = errors.New("no LLM client configured")

// Enhancer rewrites descriptions. It holds no per-call state and is safe for concurrent use.
type Enhancer struct {
	client  llm.Client
	tier    llm.ModelTier
	timeout time.Duration
	logger  *zap.Logger
}

// Option configures an Enhancer.
type Option func(*Enhancer)

// WithTimeout sets the per-call deadline.
func WithTimeout(d time.Duration) Option {
	return func(e *Enhancer) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithTier selects the model tier used for rewriting.
func WithTier(tier llm.ModelTier) Option {
	return func(e *Enhancer) { e.tier = tier }
}

// WithLogger sets the logger that receives backend failures.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Enhancer) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an Enhancer backed by client.
func New(client llm.Client, opts ...Option) *Enhancer {
	e := &Enhancer{
		client:  client,
		tier:    llm.TierStandard,
		timeout: DefaultTimeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.Named("enhance")
	return e
}

// Enhance asks the backend for one rewritten version of text.
// The rewrite is used only if it is non-empty and differs from text.
func (e *Enhancer) Enhance(ctx context.Context, text, brandName string) types.Enhancement {
	original := types.Enhancement{Text: text, WasEnhanced: false}

	rewritten, err := e.rewrite(ctx, text, brandName)
	if err != nil {
		e.logger.Warn("description enhancement failed, keeping original",
			zap.String("brand", brandName),
			zap.Error(err),
		)
		original.Err = err
		return original
	}

	rewritten = strings.TrimSpace(rewritten)
	if rewritten == "" || rewritten == text {
		return original
	}
	return types.Enhancement{Text: rewritten, WasEnhanced: true}
}

func (e *Enhancer) rewrite(ctx context.Context, text, brandName string) (out string, err error) {
	if e.client == nil {
		return "", errNoClient
	}

	// Client panics are reported like any other backend failure.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("LLM client panicked: %v", r)
		}
	}()

	prompt, err := BuildPrompt(text, brandName)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	return e.client.GenerateContent(ctx, prompt, e.tier)
}

// BuildPrompt renders the rewrite instruction for text and brandName.
func BuildPrompt(text, brandName string) (string, error) {
	template, err := prompts.Get(promptFile, promptKey)
	if err != nil {
		return "", err
	}
	if brandName == "" {
		brandName = unknownBrand
	}
	return prompts.Format(template, map[string]string{
		"Brand": brandName,
		"Text":  text,
	}), nil
}
