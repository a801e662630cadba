package seo

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/sitesage/sitesage/backend/internal/model"
)

const (
	probeTimeout = 5 * time.Second

	// probeRate bounds outbound probes per second so that link checking
	// stays polite toward the target hosts.
	probeRate = 20
)

// LinkChecker probes discovered links for liveness using a reusable HTTP
// client. Probing is bounded two ways: at most `limit` distinct URLs are
// checked per page, and probes run on a worker pool sized by `concurrency`.
type LinkChecker struct {
	client      *http.Client
	concurrency int
	limit       int
	limiter     *rate.Limiter
}

// NewLinkChecker returns a LinkChecker whose probes time out after 5s each
// and whose connections to private/reserved IP ranges are blocked.
func NewLinkChecker(concurrency, limit int) *LinkChecker {
	return newLinkChecker(concurrency, limit, &http.Transport{
		DialContext:         safeDialer().DialContext,
		MaxConnsPerHost:     concurrency,
		MaxIdleConnsPerHost: concurrency,
		IdleConnTimeout:     90 * time.Second,
	})
}

func newLinkChecker(concurrency, limit int, transport http.RoundTripper) *LinkChecker {
	return &LinkChecker{
		concurrency: concurrency,
		limit:       limit,
		limiter:     rate.NewLimiter(rate.Limit(probeRate), concurrency),
		client: &http.Client{
			Transport: transport,
		},
	}
}

type verdict struct {
	url    string
	broken bool
}

// Check probes the distinct URLs in links (capped at the configured limit,
// first occurrence order) and returns a copy of links with Broken filled in.
// Every occurrence of a duplicate URL receives the same verdict; URLs beyond
// the cap default to not broken.
func (lc *LinkChecker) Check(ctx context.Context, links []model.Link) []model.Link {
	checked := make([]model.Link, len(links))
	copy(checked, links)

	targets := distinctURLs(links, lc.limit)
	if len(targets) == 0 {
		return checked
	}

	jobs := make(chan string, len(targets))
	results := make(chan verdict, len(targets))

	numWorkers := min(len(targets), lc.concurrency)

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Go(func() {
			for link := range jobs {
				results <- verdict{url: link, broken: lc.probe(ctx, link)}
			}
		})
	}

	for _, link := range targets {
		jobs <- link
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	broken := make(map[string]bool, len(targets))
	for v := range results {
		broken[v.url] = v.broken
	}

	for i := range checked {
		checked[i].Broken = broken[checked[i].URL]
	}

	return checked
}

// distinctURLs returns the first `limit` distinct link URLs in document order.
func distinctURLs(links []model.Link, limit int) []string {
	seen := make(map[string]bool, len(links))
	targets := make([]string, 0, limit)
	for _, link := range links {
		if seen[link.URL] {
			continue
		}
		seen[link.URL] = true
		targets = append(targets, link.URL)
		if len(targets) == limit {
			break
		}
	}
	return targets
}

// probe reports whether the link is broken. It tries a HEAD request first;
// on a transport error or a 405 it retries once with GET before declaring
// the link broken.
func (lc *LinkChecker) probe(ctx context.Context, link string) bool {
	if err := lc.limiter.Wait(ctx); err != nil {
		return false // parent cancelled, verdict unknown
	}

	status, err := lc.request(ctx, http.MethodHead, link)
	if err != nil || status == http.StatusMethodNotAllowed {
		return lc.getProbe(ctx, link)
	}

	return status >= 400
}

// getProbe is the GET fallback for servers that reject or mishandle HEAD.
func (lc *LinkChecker) getProbe(ctx context.Context, link string) bool {
	status, err := lc.request(ctx, http.MethodGet, link)
	if err != nil {
		// Both attempts failed outright: treated as status 0, broken.
		// A cancelled parent context is the exception, since then the
		// probe never conclusively ran.
		return ctx.Err() == nil
	}
	return status >= 400
}

// request performs a single probe with its own timeout, independent of the
// page-load deadline, so one slow link cannot stall the rest.
func (lc *LinkChecker) request(ctx context.Context, method, link string) (int, error) {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, method, link, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := lc.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode, nil
}
