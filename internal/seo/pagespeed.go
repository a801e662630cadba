package seo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/sitesage/sitesage/backend/internal/model"
)

// MetricsProvider is the external performance-metrics boundary: four
// independent 0-100 scores for a URL, or all-nil when the provider fails.
type MetricsProvider interface {
	Lighthouse(ctx context.Context, targetURL string) model.LighthouseScores
}

// PageSpeedClient fetches Lighthouse category scores from a PageSpeed
// Insights style API.
type PageSpeedClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewPageSpeedClient returns a MetricsProvider against the given API base
// URL. The key is optional; keyless requests run with reduced quota.
func NewPageSpeedClient(baseURL, apiKey string) *PageSpeedClient {
	return &PageSpeedClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type pagespeedCategory struct {
	Score float64 `json:"score"`
}

type pagespeedResponse struct {
	LighthouseResult struct {
		Categories map[string]pagespeedCategory `json:"categories"`
	} `json:"lighthouseResult"`
}

// Lighthouse fetches the four category scores for the URL. Any failure
// (transport, non-200, malformed body) yields all-nil scores; the caller
// consumes them additively and never treats absence as an error.
func (p *PageSpeedClient) Lighthouse(ctx context.Context, targetURL string) model.LighthouseScores {
	params := url.Values{}
	params.Set("url", targetURL)
	params["category"] = []string{"performance", "accessibility", "best-practices", "seo"}
	// Mobile is the more critical strategy for SEO.
	params.Set("strategy", "mobile")
	if p.apiKey != "" {
		params.Set("key", p.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return model.LighthouseScores{}
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return model.LighthouseScores{}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return model.LighthouseScores{}
	}

	var parsed pagespeedResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return model.LighthouseScores{}
	}

	categories := parsed.LighthouseResult.Categories
	return model.LighthouseScores{
		Performance:   categoryScore(categories, "performance"),
		Accessibility: categoryScore(categories, "accessibility"),
		BestPractices: categoryScore(categories, "best-practices"),
		SEO:           categoryScore(categories, "seo"),
	}
}

// categoryScore scales the API's 0-1 score to 0-100. A category missing
// from a successful response counts as 0, not as unavailable.
func categoryScore(categories map[string]pagespeedCategory, name string) *float64 {
	score := categories[name].Score * 100
	return &score
}
