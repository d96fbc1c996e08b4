package ical

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"
)

// DefaultFeedURL is the venue's public Squarespace calendar feed.
const DefaultFeedURL = "https://www.comedycafeberlin.com/events?format=ical"

const fetchTimeout = 20 * time.Second

// Client fetches and parses an iCalendar feed.
type Client struct {
	feedURL    string
	httpClient *http.Client
}

// New creates a calendar client for a feed URL, defaulting to the
// venue feed when empty.
func New(feedURL string) *Client {
	if feedURL == "" {
		feedURL = DefaultFeedURL
	}
	return &Client{
		feedURL:    feedURL,
		httpClient: &http.Client{Timeout: fetchTimeout},
	}
}

// FetchEvents downloads the feed and returns its events.
func (c *Client) FetchEvents(ctx context.Context) ([]Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building feed request: %w", err)
	}
	req.Header.Set("Accept", "text/calendar")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	events, err := ParseCalendar(resp.Body)
	if err != nil {
		return nil, err
	}

	log.Printf("[ical-client] ✓ Fetched %d events from %s", len(events), c.feedURL)
	return events, nil
}
