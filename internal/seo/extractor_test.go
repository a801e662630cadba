package seo

import (
	"net/url"
	"strings"
	"testing"

	"github.com/sitesage/sitesage/backend/internal/model"
)

func mustParseURL(raw string) *url.URL {
	u, err := url.Parse(raw)
	if err != nil {
		panic(err)
	}
	return u
}

func extract(t *testing.T, html string) *ExtractResult {
	t.Helper()
	return Extract(strings.NewReader(html), mustParseURL("https://example.com"))
}

func TestExtract_Title(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected *string
	}{
		{
			name:     "simple title",
			html:     `<html><head><title>Hello World</title></head><body></body></html>`,
			expected: ptr("Hello World"),
		},
		{
			name:     "title with surrounding whitespace",
			html:     `<html><head><title>  Spaced  </title></head><body></body></html>`,
			expected: ptr("Spaced"),
		},
		{
			name:     "first title wins",
			html:     `<html><head><title>First</title><title>Second</title></head></html>`,
			expected: ptr("First"),
		},
		{
			name:     "missing title is nil",
			html:     `<html><head></head><body></body></html>`,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extract(t, tt.html)
			if (result.Title == nil) != (tt.expected == nil) {
				t.Fatalf("Title = %v, want %v", result.Title, tt.expected)
			}
			if tt.expected != nil && *result.Title != *tt.expected {
				t.Errorf("Title = %q, want %q", *result.Title, *tt.expected)
			}
		})
	}
}

func TestExtract_MetaDescription(t *testing.T) {
	html := `<html><head><meta name="description" content=" A fine page. "></head></html>`
	result := extract(t, html)
	if result.MetaDescription == nil || *result.MetaDescription != "A fine page." {
		t.Errorf("MetaDescription = %v, want %q", result.MetaDescription, "A fine page.")
	}

	result = extract(t, `<html><head><meta name="keywords" content="a,b"></head></html>`)
	if result.MetaDescription != nil {
		t.Errorf("MetaDescription = %q, want nil", *result.MetaDescription)
	}
}

func TestExtract_Headings(t *testing.T) {
	html := `<html><body>
	<h1>Main</h1>
	<h2> Sub one </h2>
	<h1>Another</h1>
	<h2>Sub two</h2>
	</body></html>`

	result := extract(t, html)

	wantH1 := []string{"Main", "Another"}
	wantH2 := []string{"Sub one", "Sub two"}
	if !equalSlices(result.H1Tags, wantH1) {
		t.Errorf("H1Tags = %v, want %v", result.H1Tags, wantH1)
	}
	if !equalSlices(result.H2Tags, wantH2) {
		t.Errorf("H2Tags = %v, want %v", result.H2Tags, wantH2)
	}
}

func TestExtract_Headings_EmptyIsValid(t *testing.T) {
	result := extract(t, `<html><body><p>no headings</p></body></html>`)
	if len(result.H1Tags) != 0 || len(result.H2Tags) != 0 {
		t.Errorf("headings = %v / %v, want empty", result.H1Tags, result.H2Tags)
	}
	if result.H1Tags == nil || result.H2Tags == nil {
		t.Error("heading lists should be empty, not nil")
	}
}

func TestExtract_Images(t *testing.T) {
	html := `<html><body>
	<img src="/logo.png" alt="Logo">
	<img src="https://cdn.example.com/pic.jpg" alt="   ">
	<img src="banner.gif">
	<img alt="no source">
	</body></html>`

	result := extract(t, html)

	want := []model.Image{
		{Src: "https://example.com/logo.png", Alt: "Logo", HasAlt: true},
		{Src: "https://cdn.example.com/pic.jpg", Alt: "   ", HasAlt: false},
		{Src: "https://example.com/banner.gif", Alt: "", HasAlt: false},
	}

	if len(result.Images) != len(want) {
		t.Fatalf("images = %d, want %d", len(result.Images), len(want))
	}
	for i, img := range result.Images {
		if img != want[i] {
			t.Errorf("images[%d] = %+v, want %+v", i, img, want[i])
		}
	}
}

func TestExtract_Links(t *testing.T) {
	html := `<html><body>
	<a href="/about">About us</a>
	<a href="https://example.com/contact"> Contact </a>
	<a href="https://other.com/page">Other</a>
	<a href="">empty href skipped</a>
	</body></html>`

	result := extract(t, html)

	want := []model.Link{
		{URL: "https://example.com/about", Text: "About us", IsExternal: false},
		{URL: "https://example.com/contact", Text: "Contact", IsExternal: false},
		{URL: "https://other.com/page", Text: "Other", IsExternal: true},
	}

	if len(result.Links) != len(want) {
		t.Fatalf("links = %d, want %d", len(result.Links), len(want))
	}
	for i, link := range result.Links {
		if link != want[i] {
			t.Errorf("links[%d] = %+v, want %+v", i, link, want[i])
		}
	}
}

func TestExtract_WordCount(t *testing.T) {
	html := `<html><body>
	<script>var skipped = "one two three four";</script>
	<style>.skipped { color: red; }</style>
	<p>one two three</p>
	<div>four five</div>
	</body></html>`

	result := extract(t, html)
	if result.WordCount != 5 {
		t.Errorf("WordCount = %d, want 5", result.WordCount)
	}
}

func TestExtract_Accessibility(t *testing.T) {
	tests := []struct {
		name          string
		html          string
		hasLang       bool
		missingLabels int
	}{
		{
			name:    "lang present",
			html:    `<html lang="en"><body></body></html>`,
			hasLang: true,
		},
		{
			name: "lang missing",
			html: `<html><body></body></html>`,
		},
		{
			name:          "button without text or aria label",
			html:          `<html lang="en"><body><button></button></body></html>`,
			hasLang:       true,
			missingLabels: 1,
		},
		{
			name:    "button with aria-label",
			html:    `<html lang="en"><body><button aria-label="Close"></button></body></html>`,
			hasLang: true,
		},
		{
			name:    "anchor with aria-labelledby",
			html:    `<html lang="en"><body><a href="/x" aria-labelledby="lbl"></a></body></html>`,
			hasLang: true,
		},
		{
			name:    "anchor labelled by image alt",
			html:    `<html lang="en"><body><a href="/x"><img src="i.png" alt="Home"></a></body></html>`,
			hasLang: true,
		},
		{
			name:          "anchor with blank image alt still missing",
			html:          `<html lang="en"><body><a href="/x"><img src="i.png" alt="  "></a></body></html>`,
			hasLang:       true,
			missingLabels: 1,
		},
		{
			name:          "multiple unlabelled elements",
			html:          `<html lang="en"><body><button></button><a href="/x"></a><a href="/y">ok</a></body></html>`,
			hasLang:       true,
			missingLabels: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := extract(t, tt.html).Accessibility
			if acc.HasLang != tt.hasLang {
				t.Errorf("HasLang = %v, want %v", acc.HasLang, tt.hasLang)
			}
			if acc.MissingLabels != tt.missingLabels {
				t.Errorf("MissingLabels = %d, want %d", acc.MissingLabels, tt.missingLabels)
			}
		})
	}
}

func TestExtract_MalformedHTMLDegrades(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{name: "unclosed tags", html: `<html><body><h1>Broken<p><a href="/x">link`},
		{name: "empty document", html: ""},
		{name: "not html at all", html: `{"json": true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extract(t, tt.html)
			if result == nil {
				t.Fatal("Extract returned nil")
			}
			if result.Images == nil || result.Links == nil {
				t.Error("lists should never be nil")
			}
		})
	}
}

func ptr(s string) *string {
	return &s
}

func equalSlices(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
