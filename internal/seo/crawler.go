package seo

import (
	"context"
	"errors"
	"math"
	"net"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sitesage/sitesage/backend/internal/model"
)

const timeoutReason = "Request timeout"

// linkChecker defines how the crawler annotates links with liveness.
type linkChecker interface {
	Check(ctx context.Context, links []model.Link) []model.Link
}

// Crawler orchestrates page fetching, fact extraction, and link checking
// into one crawl result per URL. It never returns an error: every failure
// mode is folded into a CrawlFailure value.
type Crawler struct {
	fetcher Fetcher
	links   linkChecker
	timeout time.Duration
}

// NewCrawler returns a Crawler with the given per-page fetch timeout.
func NewCrawler(fetcher Fetcher, lc linkChecker, timeout time.Duration) *Crawler {
	return &Crawler{
		fetcher: fetcher,
		links:   lc,
		timeout: timeout,
	}
}

// Crawl fetches one URL and extracts its page facts. The reported load time
// covers the fetch only (not link checking), rounded to two decimals.
func (c *Crawler) Crawl(ctx context.Context, targetURL string) model.CrawlResult {
	parsed, err := url.Parse(targetURL)
	if err != nil {
		return failure(targetURL, err.Error())
	}

	fetchCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	fetched, err := c.fetcher.Fetch(fetchCtx, targetURL)
	loadTime := time.Since(start).Seconds()
	if err != nil {
		if isTimeout(err) {
			return failure(targetURL, timeoutReason)
		}
		return failure(targetURL, err.Error())
	}

	extracted := Extract(strings.NewReader(fetched.Body), parsed)
	checked := c.links.Check(ctx, extracted.Links)

	broken := 0
	for _, link := range checked {
		if link.Broken {
			broken++
		}
	}

	return model.CrawlResult{Facts: &model.PageFacts{
		URL:             targetURL,
		StatusCode:      fetched.StatusCode,
		LoadTime:        math.Round(loadTime*100) / 100,
		Title:           extracted.Title,
		MetaDescription: extracted.MetaDescription,
		H1Tags:          extracted.H1Tags,
		H2Tags:          extracted.H2Tags,
		Images:          extracted.Images,
		Links:           checked,
		BrokenLinks:     broken,
		WordCount:       extracted.WordCount,
		Accessibility:   extracted.Accessibility,
	}}
}

// CrawlBatch crawls all URLs concurrently. Results come back in input
// order, and a failure in one URL's pipeline never affects the others.
func (c *Crawler) CrawlBatch(ctx context.Context, urls []string) []model.CrawlResult {
	results := make([]model.CrawlResult, len(urls))

	var g errgroup.Group
	for i, u := range urls {
		g.Go(func() error {
			results[i] = c.Crawl(ctx, u)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func failure(url, reason string) model.CrawlResult {
	return model.CrawlResult{Failure: &model.CrawlFailure{URL: url, Reason: reason}}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
