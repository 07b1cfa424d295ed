package extract

import (
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const (
	// MinParagraphLength is the shortest paragraph considered a description.
	MinParagraphLength = 50
	// MaxBodyTextLength is where the body-text fallback is cut.
	MaxBodyTextLength = 240
	// TruncationMarker is appended to cut body text.
	TruncationMarker = "..."
)

// DescriptionStrategies is the description chain, highest priority first.
var DescriptionStrategies = []Strategy{
	{Name: "description", Func: metaContent("name", "description")},
	{Name: "og:description", Func: metaContent("property", "og:description")},
	{Name: "twitter:description", Func: metaContent("name", "twitter:description")},
	{Name: "longest-paragraph", Func: longestParagraph},
	{Name: "body-text", Func: bodyText},
}

// longestParagraph picks the longest <p> of at least MinParagraphLength characters.
// A later paragraph must be strictly longer to replace an earlier one.
func longestParagraph(doc *goquery.Document) string {
	best := ""
	bestLen := 0
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		text := collapseWhitespace(s.Text())
		n := utf8.RuneCountInString(text)
		if n >= MinParagraphLength && n > bestLen {
			best, bestLen = text, n
		}
	})
	return best
}

// bodyText is the whole visible body text, cut at MaxBodyTextLength.
func bodyText(doc *goquery.Document) string {
	return truncate(collapseWhitespace(doc.Find("body").Text()), MaxBodyTextLength)
}
