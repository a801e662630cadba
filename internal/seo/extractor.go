package seo

import (
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sitesage/sitesage/backend/internal/model"
)

// ExtractResult holds the structural facts pulled out of one page. Links are
// raw at this stage: Broken is filled in later by the link checker.
type ExtractResult struct {
	Title           *string
	MetaDescription *string
	H1Tags          []string
	H2Tags          []string
	Images          []model.Image
	Links           []model.Link
	WordCount       int
	Accessibility   model.Accessibility
}

// Extract parses raw HTML and collects the page facts the scorer needs.
// Markup is treated as untrusted: missing or malformed substructure degrades
// to absent fields and empty lists, never an error.
func Extract(body io.Reader, baseURL *url.URL) *ExtractResult {
	result := &ExtractResult{
		H1Tags: []string{},
		H2Tags: []string{},
		Images: []model.Image{},
		Links:  []model.Link{},
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return result
	}

	result.Title = extractTitle(doc)
	result.MetaDescription = extractMetaDescription(doc)
	result.H1Tags = extractHeadings(doc, "h1")
	result.H2Tags = extractHeadings(doc, "h2")
	result.Images = extractImages(doc, baseURL)
	result.Links = extractLinks(doc, baseURL)
	result.Accessibility = extractAccessibility(doc)

	// Word counting mutates the document (script/style removal), so it
	// runs last.
	result.WordCount = countWords(doc)

	return result
}

func extractTitle(doc *goquery.Document) *string {
	sel := doc.Find("title").First()
	if sel.Length() == 0 {
		return nil
	}
	title := strings.TrimSpace(sel.Text())
	return &title
}

func extractMetaDescription(doc *goquery.Document) *string {
	sel := doc.Find(`meta[name="description"]`).First()
	if sel.Length() == 0 {
		return nil
	}
	desc := strings.TrimSpace(sel.AttrOr("content", ""))
	return &desc
}

func extractHeadings(doc *goquery.Document, tag string) []string {
	headings := []string{}
	doc.Find(tag).Each(func(_ int, s *goquery.Selection) {
		headings = append(headings, strings.TrimSpace(s.Text()))
	})
	return headings
}

func extractImages(doc *goquery.Document, baseURL *url.URL) []model.Image {
	images := []model.Image{}
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src := s.AttrOr("src", "")
		if src == "" {
			return
		}
		alt := s.AttrOr("alt", "")
		images = append(images, model.Image{
			Src:    resolveURL(baseURL, src),
			Alt:    alt,
			HasAlt: strings.TrimSpace(alt) != "",
		})
	})
	return images
}

func extractLinks(doc *goquery.Document, baseURL *url.URL) []model.Link {
	links := []model.Link{}
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := s.AttrOr("href", "")
		if href == "" {
			return
		}
		resolved := resolveURL(baseURL, href)
		links = append(links, model.Link{
			URL:        resolved,
			Text:       strings.TrimSpace(s.Text()),
			IsExternal: isExternal(resolved, baseURL),
		})
	})
	return links
}

// resolveURL resolves ref against base, falling back to the raw value when
// it cannot be parsed.
func resolveURL(base *url.URL, ref string) string {
	parsed, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(parsed).String()
}

func isExternal(link string, base *url.URL) bool {
	parsed, err := url.Parse(link)
	if err != nil {
		return false
	}
	return !strings.EqualFold(parsed.Host, base.Host)
}

func countWords(doc *goquery.Document) int {
	// Script and style content is not visible text.
	doc.Find("script, style").Remove()
	return len(strings.Fields(doc.Text()))
}

func extractAccessibility(doc *goquery.Document) model.Accessibility {
	acc := model.Accessibility{}

	if lang, ok := doc.Find("html").First().Attr("lang"); ok {
		acc.Lang = &lang
		acc.HasLang = lang != ""
	}

	doc.Find("button, a").Each(func(_ int, s *goquery.Selection) {
		if strings.TrimSpace(s.Text()) != "" {
			return
		}
		if s.AttrOr("aria-label", "") != "" || s.AttrOr("aria-labelledby", "") != "" {
			return
		}
		// An anchor wrapping an image with non-blank alt text counts as
		// labelled by that image.
		if goquery.NodeName(s) == "a" && hasLabelledImage(s) {
			return
		}
		acc.MissingLabels++
	})

	return acc
}

func hasLabelledImage(s *goquery.Selection) bool {
	labelled := false
	s.Find("img").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		if strings.TrimSpace(img.AttrOr("alt", "")) != "" {
			labelled = true
			return false
		}
		return true
	})
	return labelled
}
