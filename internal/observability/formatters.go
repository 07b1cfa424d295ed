// Package observability provides metrics and formatted output for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/site-analyzer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// innerWidth is the usable text width inside a box
	innerWidth = boxWidth - 4
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) printBox(title string, lines []string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %s │\n", pad(line))
	}
	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintAnalysis outputs a human-readable summary of an analysis result.
// source names the strategies that produced the brand and description, if known.
func (p *Printer) PrintAnalysis(a *types.Analysis, brandSource, descriptionSource string) {
	if a == nil {
		return
	}

	lines := []string{
		"URL:      " + a.URL,
		"Brand:    " + orAbsent(a.BrandName) + sourceSuffix(brandSource),
		fmt.Sprintf("Enhanced: %t", a.IsEnhanced),
		"",
		"Description" + sourceSuffix(descriptionSource) + ":",
	}
	if a.Description == "" {
		lines = append(lines, "  (absent)")
	} else {
		for _, line := range wrap(a.Description, innerWidth-2) {
			lines = append(lines, "  "+line)
		}
	}

	p.printBox("SITE ANALYSIS", lines)
}

// PrintError outputs a pipeline failure with its kind.
func (p *Printer) PrintError(rawURL string, err error) {
	if err == nil {
		return
	}

	lines := []string{
		"URL:  " + rawURL,
		"Kind: " + types.KindOf(err).String(),
		"",
	}
	lines = append(lines, wrap(err.Error(), innerWidth)...)
	p.printBox("ANALYSIS FAILED", lines)
}

func orAbsent(s string) string {
	if s == "" {
		return "(absent)"
	}
	return s
}

func sourceSuffix(source string) string {
	if source == "" {
		return ""
	}
	return " [" + source + "]"
}

// pad right-pads or truncates s to innerWidth characters.
func pad(s string) string {
	n := utf8.RuneCountInString(s)
	if n > innerWidth {
		return string([]rune(s)[:innerWidth-3]) + "..."
	}
	return s + strings.Repeat(" ", innerWidth-n)
}

// wrap breaks text into lines of at most width characters on word boundaries.
// Words longer than width are left for pad to truncate.
func wrap(text string, width int) []string {
	var (
		lines   []string
		current strings.Builder
		length  int
	)
	for _, word := range strings.Fields(text) {
		wordLen := utf8.RuneCountInString(word)
		if length > 0 && length+1+wordLen > width {
			lines = append(lines, current.String())
			current.Reset()
			length = 0
		}
		if length > 0 {
			current.WriteByte(' ')
			length++
		}
		current.WriteString(word)
		length += wordLen
	}
	if length > 0 {
		lines = append(lines, current.String())
	}
	return lines
}
