// Package extract derives a brand name and a description from HTML markup.
//
// Both values come from ordered chains of independent strategies. The first
// strategy to produce non-empty text wins, so the order of BrandStrategies and
// DescriptionStrategies is the whole contract.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/site-analyzer/internal/types"
)

// noiseSelector lists subtrees whose text never counts as page content.
const noiseSelector = "script, style, nav, footer, header, noscript, form, iframe, svg"

// Strategy extracts one candidate value from a cleaned document.
// It returns "" when it has nothing to offer.
type Strategy struct {
	Name string
	Func func(doc *goquery.Document) string
}

// Sources names the strategies that produced each extracted field.
type Sources struct {
	Brand       string
	Description string
}

// Extract parses html and runs both strategy chains over it.
// It never fails: malformed or empty markup yields absent fields.
func Extract(html string) types.Extraction {
	extraction, _ := ExtractWithSources(html)
	return extraction
}

// ExtractWithSources is Extract that also reports which strategy won each chain.
func ExtractWithSources(html string) (types.Extraction, Sources) {
	doc, err := parse(html)
	if err != nil {
		return types.Extraction{}, Sources{}
	}

	var (
		extraction types.Extraction
		sources    Sources
	)
	extraction.BrandName, sources.Brand = firstMatch(doc, BrandStrategies)
	extraction.Description, sources.Description = firstMatch(doc, DescriptionStrategies)
	return extraction, sources
}

// parse builds a document from html with noise elements already removed.
func parse(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	doc.Find(noiseSelector).Remove()
	return doc, nil
}

// firstMatch returns the cleaned value and name of the first strategy that yields text.
func firstMatch(doc *goquery.Document, chain []Strategy) (string, string) {
	for _, s := range chain {
		if value := collapseWhitespace(s.Func(doc)); value != "" {
			return value, s.Name
		}
	}
	return "", ""
}

// metaContent returns the content attribute of the first meta tag whose attr equals value.
func metaContent(attr, value string) func(*goquery.Document) string {
	selector := `meta[` + attr + `="` + value + `"]`
	return func(doc *goquery.Document) string {
		content, _ := doc.Find(selector).First().Attr("content")
		return content
	}
}
