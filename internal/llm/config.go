// Package llm provides the generative-text backend used to rewrite descriptions.
package llm

import (
	"fmt"
	"strings"
)

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for short, cheap rewrites
	TierLite ModelTier = "lite"
	// TierStandard is the default tier for description rewriting
	TierStandard ModelTier = "standard"
	// TierAdvanced is for higher quality at higher latency
	TierAdvanced ModelTier = "advanced"
)

// ParseTier converts a tier name such as "lite" into a ModelTier.
func ParseTier(name string) (ModelTier, error) {
	switch tier := ModelTier(strings.ToLower(strings.TrimSpace(name))); tier {
	case TierLite, TierStandard, TierAdvanced:
		return tier, nil
	default:
		return "", fmt.Errorf("unknown model tier %q (want lite, standard or advanced)", name)
	}
}

// Provider represents an LLM provider
type Provider string

// ProviderGemini is the Google Gemini provider, currently the only one.
const ProviderGemini Provider = "gemini"

// DefaultTemperature leaves some room for rephrasing without drifting from the source text.
const DefaultTemperature float32 = 0.4

// Config holds the model configuration for the backend
type Config struct {
	Provider    Provider
	Models      map[ModelTier]string
	Temperature float32
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperature: DefaultTemperature,
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a copy of the Config with a specific model for a tier.
// An empty model leaves the tier unchanged.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := &Config{
		Provider:    c.Provider,
		Models:      make(map[ModelTier]string, len(c.Models)+1),
		Temperature: c.Temperature,
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	if model != "" {
		newConfig.Models[tier] = model
	}
	return newConfig
}
