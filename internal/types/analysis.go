// Package types provides type definitions for structured data used throughout the site analyzer.
package types

import (
	"encoding/json"
	"fmt"
)

// AnalyzeOptions controls optional pipeline stages.
type AnalyzeOptions struct {
	// Enhance requests an AI rewrite of the extracted description.
	Enhance bool `json:"enhance"`
}

// Extraction holds the brand name and description derived from page markup.
// An empty field means no heuristic produced a value.
type Extraction struct {
	BrandName   string `json:"brandName,omitempty"`
	Description string `json:"description,omitempty"`
}

// HasBrand reports whether a brand name was extracted.
func (e Extraction) HasBrand() bool {
	return e.BrandName != ""
}

// HasDescription reports whether a description was extracted.
func (e Extraction) HasDescription() bool {
	return e.Description != ""
}

// Enhancement is the outcome of an enhancement attempt.
// WasEnhanced is true only when the backend returned non-empty text that differs from the input.
// Err carries the backend failure, if any; Text is still usable when it is set.
type Enhancement struct {
	Text        string `json:"text"`
	WasEnhanced bool   `json:"wasEnhanced"`
	Err         error  `json:"-"`
}

// Analysis is the result handed back to the caller of the pipeline.
// Its shape is exactly what the persistence layer stores per normalized URL.
type Analysis struct {
	URL         string `json:"url"`
	BrandName   string `json:"brandName,omitempty"`
	Description string `json:"description,omitempty"`
	IsEnhanced  bool   `json:"isEnhanced"`
}

// ToJSON marshals the Analysis to pretty-printed JSON.
func (a *Analysis) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analysis to JSON: %w", err)
	}
	return data, nil
}
