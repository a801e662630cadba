package analyzer

import (
	"context"

	"github.com/sitesage/sitesage/backend/internal/model"
	"github.com/sitesage/sitesage/backend/internal/seo"
)

// pageCrawler defines the crawl step of the pipeline.
type pageCrawler interface {
	Crawl(ctx context.Context, targetURL string) model.CrawlResult
	CrawlBatch(ctx context.Context, urls []string) []model.CrawlResult
}

// scorer defines the rule-based scoring step.
type scorer interface {
	Score(result model.CrawlResult) model.ScoreResult
}

// metricsProvider defines the external performance-metrics boundary.
type metricsProvider interface {
	Lighthouse(ctx context.Context, targetURL string) model.LighthouseScores
}

// summarizer defines the insight-writing step.
type summarizer interface {
	Summarize(ctx context.Context, req seo.InsightRequest) model.Insights
}
