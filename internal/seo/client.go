package seo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// FetchResult is what the fetch boundary hands back for one page.
type FetchResult struct {
	StatusCode int
	Body       string
}

// Fetcher defines how the crawler retrieves raw HTML.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

const (
	maxRedirects = 5
	userAgent    = "SiteSage/1.0 SEO Analyzer"

	// Responses are capped at 10 MB to prevent memory exhaustion from
	// extremely large or infinite bodies.
	maxResponseBody = 10 << 20
)

var (
	errTooManyRedirects = errors.New("too many redirects")
	errBlockedRedirect  = errors.New("redirect to non-http(s) scheme blocked")
)

// PageFetcher implements Fetcher using a real HTTP client. The page timeout
// is enforced by the caller's context; the client itself only bounds the
// dial and idle phases.
type PageFetcher struct {
	client *http.Client
}

// NewPageFetcher returns a Fetcher backed by an http.Client with a dedicated
// transport that blocks connections to private/reserved IP ranges and
// redirect validation that prevents SSRF via redirect chains.
func NewPageFetcher() *PageFetcher {
	return &PageFetcher{
		client: &http.Client{
			Transport: &http.Transport{
				DialContext:         safeDialer().DialContext,
				MaxConnsPerHost:     10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
			CheckRedirect: safeRedirectPolicy,
		},
	}
}

// safeRedirectPolicy validates redirect targets and limits the redirect chain length.
func safeRedirectPolicy(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return fmt.Errorf("%w: stopped after %d", errTooManyRedirects, maxRedirects)
	}
	if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
		return fmt.Errorf("%w: %s", errBlockedRedirect, req.URL.Scheme)
	}
	return nil
}

// Fetch retrieves the page at the given URL and returns its status code and
// full body text. The body is read to completion here so that the caller's
// load-time measurement covers the entire transfer.
func (f *PageFetcher) Fetch(ctx context.Context, targetURL string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, err
	}

	return &FetchResult{StatusCode: resp.StatusCode, Body: string(body)}, nil
}
