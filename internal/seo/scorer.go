package seo

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/sitesage/sitesage/backend/internal/model"
)

const baselineScore = 100

// checkFunc is one independent scoring rule: a pure function of page facts
// returning a signed score delta and zero or more issue strings.
type checkFunc func(facts *model.PageFacts) (float64, []string)

// checks run in fixed order; that order determines the issue-list order.
var checks = []checkFunc{
	checkTitle,
	checkMetaDescription,
	checkH1Tags,
	checkImages,
	checkContent,
	checkLoadTime,
	checkBrokenLinks,
	checkAccessibility,
}

// Scorer turns crawl results into a bounded 0-100 SEO score with the
// ordered list of issues that justifies it.
type Scorer struct{}

// NewScorer returns a Scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score applies every rule check to the crawled facts, sums the deltas with
// the baseline of 100, clamps to [0,100], and rounds to one decimal. A
// failed crawl scores exactly 0 with the failure reason as its only issue.
func (s *Scorer) Score(result model.CrawlResult) model.ScoreResult {
	if result.Failed() {
		return model.ScoreResult{
			SEOScore: 0,
			Issues:   []string{result.Failure.Reason},
		}
	}

	facts := result.Facts
	score := float64(baselineScore)
	issues := []string{}

	// Every check always runs so that every applicable issue surfaces.
	for _, check := range checks {
		delta, found := check(facts)
		score += delta
		issues = append(issues, found...)
	}

	score = math.Round(clamp(score, 0, baselineScore)*10) / 10

	return model.ScoreResult{
		SEOScore:       score,
		Issues:         issues,
		MissingAltTags: countMissingAlt(facts.Images),
		BrokenLinks:    facts.BrokenLinks,
		Analysis: model.Analysis{
			Title:           facts.Title,
			MetaDescription: facts.MetaDescription,
			H1Count:         len(facts.H1Tags),
			H2Count:         len(facts.H2Tags),
			ImageCount:      len(facts.Images),
			WordCount:       facts.WordCount,
			LoadTime:        facts.LoadTime,
			BrokenLinks:     facts.BrokenLinks,
		},
	}
}

func checkTitle(facts *model.PageFacts) (float64, []string) {
	switch {
	case facts.Title == nil || *facts.Title == "":
		return -15, []string{"Missing page title"}
	case utf8.RuneCountInString(*facts.Title) < 30:
		return -10, []string{"Title is too short (< 30 characters)"}
	case utf8.RuneCountInString(*facts.Title) > 60:
		return -5, []string{"Title is too long (> 60 characters)"}
	}
	return 0, nil
}

func checkMetaDescription(facts *model.PageFacts) (float64, []string) {
	switch {
	case facts.MetaDescription == nil || *facts.MetaDescription == "":
		return -15, []string{"Missing meta description"}
	case utf8.RuneCountInString(*facts.MetaDescription) < 120:
		return -10, []string{"Meta description is too short (< 120 characters)"}
	case utf8.RuneCountInString(*facts.MetaDescription) > 160:
		return -5, []string{"Meta description is too long (> 160 characters)"}
	}
	return 0, nil
}

func checkH1Tags(facts *model.PageFacts) (float64, []string) {
	switch n := len(facts.H1Tags); {
	case n == 0:
		return -15, []string{"No H1 tag found"}
	case n > 1:
		return -10, []string{fmt.Sprintf("Multiple H1 tags found (%d)", n)}
	}
	return 0, nil
}

func checkImages(facts *model.PageFacts) (float64, []string) {
	if len(facts.Images) == 0 {
		return 0, nil
	}

	missing := countMissingAlt(facts.Images)
	if missing == 0 {
		return 0, nil
	}

	percentage := float64(missing) / float64(len(facts.Images)) * 100
	issue := fmt.Sprintf("%d images missing alt tags (%.1f%%)", missing, percentage)
	return -math.Min(20, float64(missing)*2), []string{issue}
}

func checkContent(facts *model.PageFacts) (float64, []string) {
	if facts.WordCount < 300 {
		return -10, []string{fmt.Sprintf("Low word count (%d words)", facts.WordCount)}
	}
	return 0, nil
}

func checkLoadTime(facts *model.PageFacts) (float64, []string) {
	// Stricter threshold first.
	switch {
	case facts.LoadTime > 3.0:
		return -15, []string{fmt.Sprintf("Slow page load time (%gs)", facts.LoadTime)}
	case facts.LoadTime > 2.0:
		return -5, []string{fmt.Sprintf("Page load time could be improved (%gs)", facts.LoadTime)}
	}
	return 0, nil
}

func checkBrokenLinks(facts *model.PageFacts) (float64, []string) {
	if facts.BrokenLinks == 0 {
		return 0, nil
	}
	issue := fmt.Sprintf("Found %d broken links", facts.BrokenLinks)
	return -math.Min(20, float64(facts.BrokenLinks)*5), []string{issue}
}

func checkAccessibility(facts *model.PageFacts) (float64, []string) {
	var delta float64
	var issues []string

	if !facts.Accessibility.HasLang {
		delta -= 10
		issues = append(issues, "Missing 'lang' attribute on <html> tag")
	}

	if n := facts.Accessibility.MissingLabels; n > 0 {
		delta -= math.Min(15, float64(n)*3)
		issues = append(issues, fmt.Sprintf("Found %d interactive elements (links/buttons) without descriptive labels", n))
	}

	return delta, issues
}

func countMissingAlt(images []model.Image) int {
	missing := 0
	for _, img := range images {
		if !img.HasAlt {
			missing++
		}
	}
	return missing
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
