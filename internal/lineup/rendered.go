package lineup

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/chromedp"
)

// MinRenderInterval spaces out headless-browser fetches so the upstream
// site doesn't rate-limit the crawler.
const MinRenderInterval = 2 * time.Second

// RenderedFetcher fetches event pages through a headless browser. Some
// event pages build their performer cards with client-side JavaScript;
// those come back empty from a plain HTTP fetch, and this is the fallback.
type RenderedFetcher struct {
	lastRequest time.Time
	interval    time.Duration

	allocCtx context.Context
	cancel   context.CancelFunc
}

// NewRenderedFetcher creates a headless-browser fetcher.
func NewRenderedFetcher() (*RenderedFetcher, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(UserAgent),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &RenderedFetcher{
		interval: MinRenderInterval,
		allocCtx: allocCtx,
		cancel:   cancel,
	}, nil
}

// Close releases browser resources
func (rf *RenderedFetcher) Close() {
	if rf.cancel != nil {
		rf.cancel()
	}
}

// FetchLineup renders the page in a headless browser, then parses the
// settled DOM for the lineup.
func (rf *RenderedFetcher) FetchLineup(ctx context.Context, pageURL string) (*Result, error) {
	// Enforce rate limiting
	if !rf.lastRequest.IsZero() {
		elapsed := time.Since(rf.lastRequest)
		if elapsed < rf.interval {
			waitTime := rf.interval - elapsed
			log.Printf("Rate limiting: waiting %v before next rendered fetch", waitTime)
			time.Sleep(waitTime)
		}
	}

	html, err := rf.fetch(ctx, pageURL)
	rf.lastRequest = time.Now()
	if err != nil {
		return nil, err
	}

	return ParseLineup(html), nil
}

// fetch performs the actual page render
func (rf *RenderedFetcher) fetch(ctx context.Context, pageURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(rf.allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, 30*time.Second)
	defer cancel()

	var htmlContent string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitVisible(`body`, chromedp.ByQuery),
		chromedp.Sleep(1*time.Second), // Allow JS to render
		chromedp.OuterHTML(`html`, &htmlContent, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("chromedp error: %w", err)
	}

	if htmlContent == "" {
		return "", fmt.Errorf("empty page content for %s", pageURL)
	}

	return htmlContent, nil
}
