package lineup

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

const (
	// FetchTimeout bounds a single event-page fetch.
	FetchTimeout = 10 * time.Second

	// UserAgent for event-page requests
	UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Fetcher fetches event pages and parses their lineups.
type Fetcher struct {
	client    *http.Client
	proxyBase string
	debug     bool
}

// NewFetcher creates a lineup fetcher. proxyBase, when non-empty, is a
// same-origin proxy that takes ?url=<encoded target> and is used to get
// around upstream blocking; pass "" to fetch directly.
func NewFetcher(proxyBase string) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: FetchTimeout,
		},
		proxyBase: proxyBase,
	}
}

// SetDebug toggles per-fetch logging.
func (f *Fetcher) SetDebug(debug bool) {
	f.debug = debug
}

// FetchLineup fetches an event page and parses its lineup. A non-2xx
// response or network/timeout failure returns an error; callers treat
// that as "no data for this page" and continue.
func (f *Fetcher) FetchLineup(ctx context.Context, pageURL string) (*Result, error) {
	html, err := f.fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	if f.debug {
		return ParseLineupDebug(html), nil
	}
	return ParseLineup(html), nil
}

// fetch retrieves the raw HTML for a page, through the proxy if configured.
func (f *Fetcher) fetch(ctx context.Context, pageURL string) (string, error) {
	target := pageURL
	if f.proxyBase != "" {
		target = fmt.Sprintf("%s?url=%s", f.proxyBase, url.QueryEscape(pageURL))
	}

	ctx, cancel := context.WithTimeout(ctx, FetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetching %s: unexpected status %d", pageURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", pageURL, err)
	}

	if f.debug {
		log.Printf("[lineup] fetched %s (%d bytes)", pageURL, len(body))
	}

	return string(body), nil
}
