package analyzer

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sitesage/sitesage/backend/internal/model"
	"github.com/sitesage/sitesage/backend/internal/platform/requestid"
	"github.com/sitesage/sitesage/backend/internal/seo"
)

// Service runs the full analysis pipeline for one or more URLs: crawl,
// score, fetch external Lighthouse metrics, write insights. It always
// produces a report per URL; pipeline failures are reflected inside the
// report, never returned as errors.
type Service struct {
	crawler    pageCrawler
	scorer     scorer
	metrics    metricsProvider
	summarizer summarizer
	logger     *slog.Logger
}

// NewService wires the pipeline collaborators together.
func NewService(crawler pageCrawler, sc scorer, metrics metricsProvider, sum summarizer, logger *slog.Logger) *Service {
	return &Service{
		crawler:    crawler,
		scorer:     sc,
		metrics:    metrics,
		summarizer: sum,
		logger:     logger,
	}
}

// Analyze produces a full report for a single URL.
func (s *Service) Analyze(ctx context.Context, targetURL string) model.Report {
	return s.buildReport(ctx, targetURL, s.crawler.Crawl(ctx, targetURL))
}

// AnalyzeBatch crawls all URLs concurrently and produces one report per
// URL, in input order. A failure in one URL's pipeline never affects the
// others.
func (s *Service) AnalyzeBatch(ctx context.Context, urls []string) []model.Report {
	crawls := s.crawler.CrawlBatch(ctx, urls)

	reports := make([]model.Report, len(urls))
	for i, crawl := range crawls {
		// Lighthouse metrics are fetched per URL here with no caching,
		// same as the single-URL path.
		reports[i] = s.buildReport(ctx, urls[i], crawl)
	}
	return reports
}

func (s *Service) buildReport(ctx context.Context, targetURL string, crawl model.CrawlResult) model.Report {
	logger := s.logger.With("url", targetURL, "request_id", requestid.FromContext(ctx))

	score := s.scorer.Score(crawl)
	lighthouse := s.metrics.Lighthouse(ctx, targetURL)
	insights := s.summarizer.Summarize(ctx, seo.InsightRequest{
		URL:      targetURL,
		Score:    score.SEOScore,
		Analysis: score.Analysis,
		Issues:   score.Issues,
	})

	report := model.Report{
		ID:         uuid.NewString(),
		URL:        targetURL,
		SEOScore:   score.SEOScore,
		Facts:      crawl.Facts,
		Issues:     score.Issues,
		Lighthouse: lighthouse,
		Insights:   insights,
		CreatedAt:  time.Now().UTC(),
	}

	if crawl.Failed() {
		report.Error = crawl.Failure.Reason
		logger.Warn("crawl failed", "reason", crawl.Failure.Reason)
		return report
	}

	logger.Info("analysis complete",
		"seo_score", score.SEOScore,
		"issues", len(score.Issues),
		"word_count", crawl.Facts.WordCount,
		"broken_links", crawl.Facts.BrokenLinks,
		"missing_alt_tags", score.MissingAltTags,
		"load_time", crawl.Facts.LoadTime,
	)
	return report
}
