package model

import "time"

// PageFacts holds everything extracted from one crawled page.
type PageFacts struct {
	URL             string        `json:"url"`
	StatusCode      int           `json:"status_code"`
	LoadTime        float64       `json:"load_time"`
	Title           *string       `json:"title"`
	MetaDescription *string       `json:"meta_description"`
	H1Tags          []string      `json:"h1_tags"`
	H2Tags          []string      `json:"h2_tags"`
	Images          []Image       `json:"images"`
	Links           []Link        `json:"links"`
	BrokenLinks     int           `json:"broken_links_count"`
	WordCount       int           `json:"word_count"`
	Accessibility   Accessibility `json:"accessibility"`
}

// Image describes one img element found on the page.
type Image struct {
	Src    string `json:"src"`
	Alt    string `json:"alt"`
	HasAlt bool   `json:"has_alt"`
}

// Link describes one anchor found on the page, annotated by the link checker.
type Link struct {
	URL        string `json:"url"`
	Text       string `json:"text"`
	IsExternal bool   `json:"is_external"`
	Broken     bool   `json:"broken"`
}

// Accessibility holds the basic accessibility signals extracted from the page.
type Accessibility struct {
	HasLang       bool    `json:"has_lang"`
	Lang          *string `json:"lang"`
	MissingLabels int     `json:"missing_labels_count"`
}

// CrawlFailure indicates a page could not be fetched. It carries only the
// URL and a human-readable reason; a failed crawl never produces partial
// PageFacts.
type CrawlFailure struct {
	URL    string `json:"url"`
	Reason string `json:"error"`
}

// CrawlResult is the outcome of crawling one URL: exactly one of Facts or
// Failure is set.
type CrawlResult struct {
	Facts   *PageFacts
	Failure *CrawlFailure
}

// Failed reports whether the crawl produced a failure instead of facts.
func (r CrawlResult) Failed() bool {
	return r.Failure != nil
}

// Analysis is a flattened snapshot of selected page facts, used as input to
// the insight writer prompt. It is never persisted alongside PageFacts.
type Analysis struct {
	Title           *string `json:"title"`
	MetaDescription *string `json:"meta_description"`
	H1Count         int     `json:"h1_count"`
	H2Count         int     `json:"h2_count"`
	ImageCount      int     `json:"image_count"`
	WordCount       int     `json:"word_count"`
	LoadTime        float64 `json:"load_time"`
	BrokenLinks     int     `json:"broken_links"`
}

// ScoreResult is the scorer's output: a bounded score plus the ordered
// issue list that justifies it.
type ScoreResult struct {
	SEOScore       float64  `json:"seo_score"`
	Issues         []string `json:"issues"`
	MissingAltTags int      `json:"missing_alt_tags"`
	BrokenLinks    int      `json:"broken_links_count"`
	Analysis       Analysis `json:"analysis"`
}

// Insights is the human-facing summary and suggestion list, produced by
// either the generative or the deterministic writer.
type Insights struct {
	Summary     string   `json:"summary"`
	Suggestions []string `json:"suggestions"`
}

// LighthouseScores holds the four category scores returned by the external
// performance-metrics API. Nil pointers mean the metric was unavailable.
type LighthouseScores struct {
	Performance   *float64 `json:"performance_score"`
	Accessibility *float64 `json:"accessibility_score"`
	BestPractices *float64 `json:"best_practices_score"`
	SEO           *float64 `json:"lighthouse_seo_score"`
}

// Report is the flat record produced for one analyzed URL, shaped to
// serialize losslessly for downstream storage.
type Report struct {
	ID         string           `json:"id"`
	URL        string           `json:"url"`
	SEOScore   float64          `json:"seo_score"`
	Facts      *PageFacts       `json:"facts,omitempty"`
	Error      string           `json:"error,omitempty"`
	Issues     []string         `json:"issues"`
	Lighthouse LighthouseScores `json:"lighthouse"`
	Insights   Insights         `json:"insights"`
	CreatedAt  time.Time        `json:"created_at"`
}

// ErrorResponse is the JSON shape returned on failure.
type ErrorResponse struct {
	Error      string `json:"error"`
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
}
