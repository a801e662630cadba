package seo

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/sitesage/sitesage/backend/internal/model"
)

// goodFacts returns page facts that pass every rule check.
func goodFacts() *model.PageFacts {
	title := "A descriptive page title around forty chars"
	meta := strings.Repeat("An informative meta description for search engines. ", 3)[:130]
	return &model.PageFacts{
		URL:             "https://example.com",
		StatusCode:      200,
		LoadTime:        1.5,
		Title:           &title,
		MetaDescription: &meta,
		H1Tags:          []string{"Main heading"},
		H2Tags:          []string{"Sub"},
		Images:          []model.Image{{Src: "https://example.com/a.png", Alt: "A", HasAlt: true}},
		WordCount:       500,
		Accessibility:   model.Accessibility{HasLang: true},
	}
}

func factsResult(facts *model.PageFacts) model.CrawlResult {
	return model.CrawlResult{Facts: facts}
}

func TestScore_PerfectPage(t *testing.T) {
	result := NewScorer().Score(factsResult(goodFacts()))
	if result.SEOScore != 100 {
		t.Errorf("SEOScore = %v, want 100", result.SEOScore)
	}
	if len(result.Issues) != 0 {
		t.Errorf("Issues = %v, want none", result.Issues)
	}
}

func TestScore_CrawlFailureScoresZero(t *testing.T) {
	result := NewScorer().Score(model.CrawlResult{
		Failure: &model.CrawlFailure{URL: "https://example.com", Reason: "Request timeout"},
	})

	if result.SEOScore != 0 {
		t.Errorf("SEOScore = %v, want 0", result.SEOScore)
	}
	if len(result.Issues) != 1 || result.Issues[0] != "Request timeout" {
		t.Errorf("Issues = %v, want [Request timeout]", result.Issues)
	}
}

func TestScore_TitleAndMetaDeltas(t *testing.T) {
	// title missing (-15), meta too short (-10): 100 - 25 = 75.0
	facts := goodFacts()
	facts.Title = nil
	short := "short"
	facts.MetaDescription = &short

	result := NewScorer().Score(factsResult(facts))

	if result.SEOScore != 75.0 {
		t.Errorf("SEOScore = %v, want 75.0", result.SEOScore)
	}
	want := []string{
		"Missing page title",
		"Meta description is too short (< 120 characters)",
	}
	if !reflect.DeepEqual(result.Issues, want) {
		t.Errorf("Issues = %v, want %v", result.Issues, want)
	}
}

func TestScore_IndividualChecks(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(f *model.PageFacts)
		wantScore float64
		wantIssue string
	}{
		{
			name:      "empty title counts as missing",
			mutate:    func(f *model.PageFacts) { f.Title = ptr("") },
			wantScore: 85,
			wantIssue: "Missing page title",
		},
		{
			name:      "long title",
			mutate:    func(f *model.PageFacts) { f.Title = ptr(strings.Repeat("x", 61)) },
			wantScore: 95,
			wantIssue: "Title is too long (> 60 characters)",
		},
		{
			name:      "missing meta description",
			mutate:    func(f *model.PageFacts) { f.MetaDescription = nil },
			wantScore: 85,
			wantIssue: "Missing meta description",
		},
		{
			name:      "meta description too long",
			mutate:    func(f *model.PageFacts) { f.MetaDescription = ptr(strings.Repeat("y", 161)) },
			wantScore: 95,
			wantIssue: "Meta description is too long (> 160 characters)",
		},
		{
			name:      "no h1",
			mutate:    func(f *model.PageFacts) { f.H1Tags = nil },
			wantScore: 85,
			wantIssue: "No H1 tag found",
		},
		{
			name:      "multiple h1",
			mutate:    func(f *model.PageFacts) { f.H1Tags = []string{"a", "b", "c"} },
			wantScore: 90,
			wantIssue: "Multiple H1 tags found (3)",
		},
		{
			name:      "low word count",
			mutate:    func(f *model.PageFacts) { f.WordCount = 120 },
			wantScore: 90,
			wantIssue: "Low word count (120 words)",
		},
		{
			name:      "slow load",
			mutate:    func(f *model.PageFacts) { f.LoadTime = 3.5 },
			wantScore: 85,
			wantIssue: "Slow page load time (3.5s)",
		},
		{
			name:      "moderately slow load",
			mutate:    func(f *model.PageFacts) { f.LoadTime = 2.5 },
			wantScore: 95,
			wantIssue: "Page load time could be improved (2.5s)",
		},
		{
			name:      "broken links",
			mutate:    func(f *model.PageFacts) { f.BrokenLinks = 2 },
			wantScore: 90,
			wantIssue: "Found 2 broken links",
		},
		{
			name:      "missing lang",
			mutate:    func(f *model.PageFacts) { f.Accessibility.HasLang = false },
			wantScore: 90,
			wantIssue: "Missing 'lang' attribute on <html> tag",
		},
		{
			name:      "missing labels",
			mutate:    func(f *model.PageFacts) { f.Accessibility.MissingLabels = 2 },
			wantScore: 94,
			wantIssue: "Found 2 interactive elements (links/buttons) without descriptive labels",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facts := goodFacts()
			tt.mutate(facts)

			result := NewScorer().Score(factsResult(facts))
			if result.SEOScore != tt.wantScore {
				t.Errorf("SEOScore = %v, want %v", result.SEOScore, tt.wantScore)
			}
			if len(result.Issues) != 1 || result.Issues[0] != tt.wantIssue {
				t.Errorf("Issues = %v, want [%s]", result.Issues, tt.wantIssue)
			}
		})
	}
}

func TestScore_ImagePenaltyAndMessage(t *testing.T) {
	facts := goodFacts()
	facts.Images = []model.Image{
		{Src: "a.png", HasAlt: false},
		{Src: "b.png", HasAlt: false},
	}

	result := NewScorer().Score(factsResult(facts))

	// 2 missing * 2 = 4, well under the 20 cap.
	if result.SEOScore != 96 {
		t.Errorf("SEOScore = %v, want 96", result.SEOScore)
	}
	if result.MissingAltTags != 2 {
		t.Errorf("MissingAltTags = %d, want 2", result.MissingAltTags)
	}
	want := "2 images missing alt tags (100.0%)"
	if len(result.Issues) != 1 || result.Issues[0] != want {
		t.Errorf("Issues = %v, want [%s]", result.Issues, want)
	}
}

func TestScore_ImagePenaltyCapped(t *testing.T) {
	facts := goodFacts()
	facts.Images = nil
	for range 15 {
		facts.Images = append(facts.Images, model.Image{Src: "x.png", HasAlt: false})
	}

	result := NewScorer().Score(factsResult(facts))

	// 15 * 2 = 30, capped at 20.
	if result.SEOScore != 80 {
		t.Errorf("SEOScore = %v, want 80", result.SEOScore)
	}
}

func TestScore_NoImagesNoIssue(t *testing.T) {
	facts := goodFacts()
	facts.Images = []model.Image{}

	result := NewScorer().Score(factsResult(facts))
	if result.SEOScore != 100 || len(result.Issues) != 0 {
		t.Errorf("score = %v issues = %v, want clean 100", result.SEOScore, result.Issues)
	}
}

func TestScore_BrokenLinkPenaltyCapped(t *testing.T) {
	facts := goodFacts()
	facts.BrokenLinks = 10

	result := NewScorer().Score(factsResult(facts))

	// 10 * 5 = 50, capped at 20.
	if result.SEOScore != 80 {
		t.Errorf("SEOScore = %v, want 80 (capped)", result.SEOScore)
	}
	if result.BrokenLinks != 10 {
		t.Errorf("BrokenLinks = %d, want 10", result.BrokenLinks)
	}
}

func TestScore_MissingLabelPenaltyCapped(t *testing.T) {
	facts := goodFacts()
	facts.Accessibility.MissingLabels = 10

	result := NewScorer().Score(factsResult(facts))

	// 10 * 3 = 30, capped at 15.
	if result.SEOScore != 85 {
		t.Errorf("SEOScore = %v, want 85 (capped)", result.SEOScore)
	}
}

func TestScore_ClampedToZero(t *testing.T) {
	facts := &model.PageFacts{
		URL:           "https://bad.example.com",
		LoadTime:      5,
		WordCount:     10,
		BrokenLinks:   20,
		Accessibility: model.Accessibility{MissingLabels: 20},
		Images: []model.Image{
			{Src: "a.png"}, {Src: "b.png"}, {Src: "c.png"}, {Src: "d.png"},
			{Src: "e.png"}, {Src: "f.png"}, {Src: "g.png"}, {Src: "h.png"},
			{Src: "i.png"}, {Src: "j.png"}, {Src: "k.png"},
		},
	}

	result := NewScorer().Score(factsResult(facts))
	if result.SEOScore != 0 {
		t.Errorf("SEOScore = %v, want clamped to 0", result.SEOScore)
	}
}

func TestScore_BoundsAndPrecision(t *testing.T) {
	variants := []*model.PageFacts{
		goodFacts(),
		{URL: "https://x.example.com"},
		{URL: "https://y.example.com", LoadTime: 2.34, WordCount: 299, BrokenLinks: 1},
	}

	for _, facts := range variants {
		result := NewScorer().Score(factsResult(facts))
		if result.SEOScore < 0 || result.SEOScore > 100 {
			t.Errorf("SEOScore = %v, out of [0,100]", result.SEOScore)
		}
		if math.Round(result.SEOScore*10) != result.SEOScore*10 {
			t.Errorf("SEOScore = %v, more than 1 decimal digit", result.SEOScore)
		}
	}
}

func TestScore_Deterministic(t *testing.T) {
	facts := goodFacts()
	facts.Title = nil
	facts.BrokenLinks = 3
	facts.Accessibility.HasLang = false

	first := NewScorer().Score(factsResult(facts))
	for range 5 {
		again := NewScorer().Score(factsResult(facts))
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("scoring not deterministic: %+v vs %+v", first, again)
		}
	}
}

func TestScore_AnalysisSnapshot(t *testing.T) {
	facts := goodFacts()
	facts.H2Tags = []string{"a", "b"}
	facts.WordCount = 450
	facts.BrokenLinks = 1

	result := NewScorer().Score(factsResult(facts))

	a := result.Analysis
	if a.H1Count != 1 || a.H2Count != 2 || a.ImageCount != 1 {
		t.Errorf("counts = %d/%d/%d, want 1/2/1", a.H1Count, a.H2Count, a.ImageCount)
	}
	if a.WordCount != 450 || a.BrokenLinks != 1 || a.LoadTime != facts.LoadTime {
		t.Errorf("snapshot = %+v, does not match facts", a)
	}
	if a.Title != facts.Title || a.MetaDescription != facts.MetaDescription {
		t.Error("snapshot should carry the facts' title and meta description")
	}
}
