package seo

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sitesage/sitesage/backend/internal/model"
)

const maxSuggestions = 5

// InsightRequest carries everything the insight writers need: the analyzed
// URL, the final score, a flattened analysis snapshot, and the issue list.
type InsightRequest struct {
	URL      string
	Score    float64
	Analysis model.Analysis
	Issues   []string
}

// Summarizer turns a score and its issues into a human-facing summary and
// suggestion list. Implementations never fail: any internal error degrades
// to a usable result.
type Summarizer interface {
	Summarize(ctx context.Context, req InsightRequest) model.Insights
}

// FallbackWriter produces deterministic insights without any external
// collaborator.
type FallbackWriter struct{}

// NewFallbackWriter returns the deterministic insight writer.
func NewFallbackWriter() *FallbackWriter {
	return &FallbackWriter{}
}

// triggered maps a case-insensitive issue keyword to its canned suggestion.
type triggered struct {
	keyword    string
	suggestion string
}

var triggeredSuggestions = []triggered{
	{"title", "Optimize your page title to be between 30-60 characters and include target keywords"},
	{"meta description", "Add a compelling meta description of 120-160 characters to improve click-through rates"},
	{"h1", "Ensure each page has exactly one H1 tag that clearly describes the page content"},
	{"alt", "Add descriptive alt text to all images for better accessibility and SEO"},
	{"load time", "Optimize page load speed by compressing images, minifying CSS/JS, and leveraging browser caching"},
}

var genericSuggestions = []string{
	"Improve internal linking structure to help search engines discover content",
	"Create high-quality, original content that provides value to users",
	"Ensure mobile responsiveness and fast loading on all devices",
	"Build quality backlinks from reputable websites in your industry",
}

// Summarize builds a summary from the score bucket plus the leading issues,
// then assembles up to five suggestions: issue-triggered ones first, padded
// with generic ones. Fewer than five come back only when fewer than five
// distinct candidates exist.
func (w *FallbackWriter) Summarize(_ context.Context, req InsightRequest) model.Insights {
	var summary string
	switch {
	case req.Score >= 80:
		summary = fmt.Sprintf("The website %s demonstrates strong SEO fundamentals with a score of %.1f/100. ", req.URL, req.Score)
		summary += "Most critical SEO elements are properly implemented. "
	case req.Score >= 60:
		summary = fmt.Sprintf("The website %s has a moderate SEO score of %.1f/100. ", req.URL, req.Score)
		summary += "There are several areas that need attention to improve search engine visibility. "
	default:
		summary = fmt.Sprintf("The website %s has significant SEO issues with a score of %.1f/100. ", req.URL, req.Score)
		summary += "Immediate action is required to improve search engine rankings. "
	}

	if len(req.Issues) > 0 {
		leading := req.Issues
		if len(leading) > 3 {
			leading = leading[:3]
		}
		summary += fmt.Sprintf("Key issues include: %s.", strings.Join(leading, ", "))
	}

	suggestions := []string{}
	for _, t := range triggeredSuggestions {
		if anyIssueContains(req.Issues, t.keyword) {
			suggestions = append(suggestions, t.suggestion)
		}
	}

	for _, generic := range genericSuggestions {
		if len(suggestions) >= maxSuggestions {
			break
		}
		if !contains(suggestions, generic) {
			suggestions = append(suggestions, generic)
		}
	}

	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}

	return model.Insights{Summary: summary, Suggestions: suggestions}
}

func anyIssueContains(issues []string, keyword string) bool {
	for _, issue := range issues {
		if strings.Contains(strings.ToLower(issue), keyword) {
			return true
		}
	}
	return false
}

func contains(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}

// TextGenerator is the generative collaborator boundary: given a prompt,
// return free text or fail. Absence of a generator means the fallback
// writer is always used.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GenerativeWriter asks a text generator for insights and parses the
// response, degrading to the deterministic fallback on any failure.
type GenerativeWriter struct {
	generator TextGenerator
	fallback  *FallbackWriter
}

// NewGenerativeWriter returns a Summarizer backed by the given generator.
func NewGenerativeWriter(generator TextGenerator) *GenerativeWriter {
	return &GenerativeWriter{
		generator: generator,
		fallback:  NewFallbackWriter(),
	}
}

// Summarize builds a structured prompt from the request, asks the generator
// for a response, and parses it. Generator errors and unparseable responses
// never surface: the deterministic path takes over.
func (w *GenerativeWriter) Summarize(ctx context.Context, req InsightRequest) model.Insights {
	response, err := w.generator.Generate(ctx, buildPrompt(req))
	if err != nil {
		return w.fallback.Summarize(ctx, req)
	}
	return parseInsightResponse(response)
}

func buildPrompt(req InsightRequest) string {
	issuesText := "No major issues found"
	if len(req.Issues) > 0 {
		lines := make([]string, len(req.Issues))
		for i, issue := range req.Issues {
			lines[i] = "- " + issue
		}
		issuesText = strings.Join(lines, "\n")
	}

	return fmt.Sprintf(`
Analyze the following SEO audit results for %s:

SEO Score: %.1f/100

Key Metrics:
- Title: %s
- Meta Description: %s
- H1 Tags: %d
- H2 Tags: %d
- Images: %d
- Word Count: %d
- Load Time: %gs

Issues Identified:
%s

Please provide:
1. A 2-3 paragraph summary of the site's SEO quality
2. 3-5 specific, actionable improvement suggestions

Format your response as JSON with keys "summary" and "suggestions" (array of strings).
`,
		req.URL,
		req.Score,
		orNA(req.Analysis.Title),
		orNA(req.Analysis.MetaDescription),
		req.Analysis.H1Count,
		req.Analysis.H2Count,
		req.Analysis.ImageCount,
		req.Analysis.WordCount,
		req.Analysis.LoadTime,
		issuesText,
	)
}

func orNA(s *string) string {
	if s == nil || *s == "" {
		return "N/A"
	}
	return *s
}

// parseInsightResponse prefers a JSON object embedded anywhere in the
// response (first '{' to last '}'); otherwise it falls back to line-based
// heuristic parsing of a plain-text answer.
func parseInsightResponse(response string) model.Insights {
	if insights, ok := parseEmbeddedJSON(response); ok {
		return insights
	}
	return parseLines(response)
}

func parseEmbeddedJSON(response string) (model.Insights, bool) {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end == -1 || end < start {
		return model.Insights{}, false
	}

	var parsed struct {
		Summary     string   `json:"summary"`
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(response[start:end+1]), &parsed); err != nil {
		return model.Insights{}, false
	}

	if parsed.Suggestions == nil {
		parsed.Suggestions = []string{}
	}
	return model.Insights{Summary: parsed.Summary, Suggestions: parsed.Suggestions}, true
}

func parseLines(response string) model.Insights {
	var summaryLines []string
	suggestions := []string{}
	inSuggestions := false

	for _, line := range strings.Split(strings.TrimSpace(response), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.Contains(strings.ToLower(line), "suggestion") || hasListPrefix(line) {
			inSuggestions = true
			if cleaned := strings.TrimLeft(line, "0123456789.-* "); cleaned != "" {
				suggestions = append(suggestions, cleaned)
			}
		} else if !inSuggestions {
			summaryLines = append(summaryLines, line)
		}
	}

	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}

	return model.Insights{
		Summary:     strings.Join(summaryLines, " "),
		Suggestions: suggestions,
	}
}

func hasListPrefix(line string) bool {
	for _, prefix := range []string{"1.", "2.", "3.", "4.", "5.", "-", "*"} {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}
