package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// BrandStrategies is the brand-name chain, highest priority first.
var BrandStrategies = []Strategy{
	{Name: "og:site_name", Func: metaContent("property", "og:site_name")},
	{Name: "application-name", Func: metaContent("name", "application-name")},
	{Name: "apple-mobile-web-app-title", Func: metaContent("name", "apple-mobile-web-app-title")},
	{Name: "twitter:site", Func: metaContent("name", "twitter:site")},
	{Name: "title", Func: brandFromTitle},
	{Name: "h1", Func: firstHeading},
}

// brandFromTitle splits the <title> on separators and keeps the last segment,
// following the "Page Title - Brand" convention.
func brandFromTitle(doc *goquery.Document) string {
	segments := TitleSegments(doc.Find("title").Text())
	if len(segments) == 0 {
		return ""
	}
	return segments[len(segments)-1]
}

// TitleSegments splits a title on - – — | • : and drops empty pieces.
func TitleSegments(title string) []string {
	parts := strings.FieldsFunc(title, isTitleSeparator)
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}

func isTitleSeparator(r rune) bool {
	switch r {
	case '-', '–', '—', '|', '•', ':':
		return true
	}
	return false
}

func firstHeading(doc *goquery.Document) string {
	return doc.Find("h1").First().Text()
}
