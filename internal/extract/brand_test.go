package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func brandOf(t *testing.T, html string) string {
	t.Helper()
	doc, err := parse(html)
	require.NoError(t, err)
	brand, _ := firstMatch(doc, BrandStrategies)
	return brand
}

func TestBrand_Priority(t *testing.T) {
	tests := []struct {
		name string
		head string
		body string
		want string
	}{
		{
			name: "og:site_name beats everything",
			head: `<meta property="og:site_name" content="OG">
				<meta name="application-name" content="App">
				<meta name="apple-mobile-web-app-title" content="Apple">
				<meta name="twitter:site" content="@tw">
				<title>Page - Title</title>`,
			body: `<h1>Heading</h1>`,
			want: "OG",
		},
		{
			name: "application-name second",
			head: `<meta name="application-name" content="App">
				<meta name="apple-mobile-web-app-title" content="Apple">
				<meta name="twitter:site" content="@tw">`,
			want: "App",
		},
		{
			name: "apple-mobile-web-app-title third",
			head: `<meta name="apple-mobile-web-app-title" content="Apple">
				<meta name="twitter:site" content="@tw">`,
			want: "Apple",
		},
		{
			name: "twitter:site fourth",
			head: `<meta name="twitter:site" content="@tw"><title>Page - Title</title>`,
			want: "@tw",
		},
		{
			name: "title before h1",
			head: `<title>Page - Title</title>`,
			body: `<h1>Heading</h1>`,
			want: "Title",
		},
		{
			name: "h1 last",
			body: `<h1> First   Heading </h1><h1>Second</h1>`,
			want: "First Heading",
		},
		{
			name: "nothing",
			body: `<p>no brand signal</p>`,
			want: "",
		},
		{
			name: "whitespace-only meta falls through",
			head: `<meta property="og:site_name" content="   "><meta name="application-name" content="App">`,
			want: "App",
		},
		{
			name: "og:site_name must be a property attribute",
			head: `<meta name="og:site_name" content="Wrong"><title>Right</title>`,
			want: "Right",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := "<html><head>" + tt.head + "</head><body>" + tt.body + "</body></html>"
			assert.Equal(t, tt.want, brandOf(t, html))
		})
	}
}

func TestBrand_TitleSeparators(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Acme", "Acme"},
		{"Home - Acme Corp", "Acme Corp"},
		{"Home – Acme", "Acme"},
		{"Home — Acme", "Acme"},
		{"Home | Acme", "Acme"},
		{"Home • Acme", "Acme"},
		{"Acme: Home", "Home"},
		{"Products | Widgets: Best — Acme", "Acme"},
		{"Acme - ", "Acme"},
		{" | - ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			html := "<html><head><title>" + tt.title + "</title></head><body></body></html>"
			assert.Equal(t, tt.want, brandOf(t, html))
		})
	}
}

func TestBrand_EmptyTitleFallsBackToHeading(t *testing.T) {
	html := `<html><head><title> - | </title></head><body><h1>Heading Brand</h1></body></html>`
	assert.Equal(t, "Heading Brand", brandOf(t, html))
}

func TestTitleSegments(t *testing.T) {
	assert.Equal(t, []string{"a", "b c", "d"}, TitleSegments(" a |b c—d: "))
	assert.Empty(t, TitleSegments(""))
}

func TestBrandStrategies_Order(t *testing.T) {
	names := make([]string, 0, len(BrandStrategies))
	for _, s := range BrandStrategies {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{
		"og:site_name",
		"application-name",
		"apple-mobile-web-app-title",
		"twitter:site",
		"title",
		"h1",
	}, names)
}
