package ical

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/tlebon/ccb-dashboard/internal/store"
	"github.com/tlebon/ccb-dashboard/internal/store/repository"
)

// Ingester pulls the calendar feed and upserts its events as shows.
type Ingester struct {
	client   *Client
	showRepo *repository.ShowRepository
}

// NewIngester creates a calendar ingester. feedURL may be empty to use
// the default venue feed.
func NewIngester(db *store.Database, feedURL string) *Ingester {
	return &Ingester{
		client:   New(feedURL),
		showRepo: repository.NewShowRepository(db),
	}
}

// IngestFeed fetches the feed and stores every upcoming event. Events
// without a UID or summary are skipped; per-event upsert failures are
// logged and do not abort the run. Returns the shows stored.
func (i *Ingester) IngestFeed(ctx context.Context) ([]*store.Show, error) {
	events, err := i.client.FetchEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch calendar feed: %w", err)
	}

	var stored []*store.Show
	for _, event := range events {
		show, ok := showFromEvent(event)
		if !ok {
			continue
		}
		if _, err := i.showRepo.Upsert(ctx, show); err != nil {
			log.Printf("[ical] Error upserting show %q on %s: %v", show.Title, show.DateString(), err)
			continue
		}
		stored = append(stored, show)
	}

	log.Printf("[ical] ✓ Stored %d of %d feed events", len(stored), len(events))
	return stored, nil
}

// showFromEvent maps a calendar event to a show record. All-day events
// get a null time.
func showFromEvent(event Event) (*store.Show, bool) {
	if event.UID == "" || event.Summary == "" {
		return nil, false
	}

	start := event.Start.In(time.Local)
	show := &store.Show{
		Title:      event.Summary,
		Date:       time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.Local),
		Source:     store.SourceICal,
		ExternalID: sql.NullString{String: event.UID, Valid: true},
	}

	if !event.AllDay {
		show.Time = sql.NullString{String: start.Format("15:04"), Valid: true}
	}
	if event.Description != "" {
		show.Description = sql.NullString{String: event.Description, Valid: true}
	}
	if event.URL != "" {
		show.URL = sql.NullString{String: event.URL, Valid: true}
	}

	return show, true
}
