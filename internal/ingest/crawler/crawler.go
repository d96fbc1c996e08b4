// Package crawler walks upcoming show pages, extracts lineups and
// records performer appearances.
package crawler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/tlebon/ccb-dashboard/internal/lineup"
	"github.com/tlebon/ccb-dashboard/internal/store"
	"github.com/tlebon/ccb-dashboard/internal/store/repository"
)

const (
	defaultWorkers = 3
	maxWorkers     = 4
	defaultDelay   = 1 * time.Second
	fetchTimeout   = 15 * time.Second
)

// LineupFetcher is anything that can turn a show page URL into a
// parsed lineup. Both the plain and the browser-rendered fetchers
// satisfy it.
type LineupFetcher interface {
	FetchLineup(ctx context.Context, pageURL string) (*lineup.Result, error)
}

// Config tunes the crawl.
type Config struct {
	// Workers is the fixed pool size, clamped to 1..4.
	Workers int
	// Delay is the pause each worker takes between requests.
	Delay time.Duration
}

// Summary reports what one crawl accomplished.
type Summary struct {
	Processed int      `json:"processed"`
	Failed    int      `json:"failed"`
	Matched   int      `json:"matched"`
	Unmatched []string `json:"unmatched,omitempty"`
	Ambiguous []string `json:"ambiguous,omitempty"`
}

// Crawler fetches lineup pages for stored shows with a fixed worker
// pool and records the performers it can match.
type Crawler struct {
	fetcher        LineupFetcher
	showRepo       *repository.ShowRepository
	performerRepo  *repository.PerformerRepository
	appearanceRepo *repository.AppearanceRepository
	cfg            Config
}

// New creates a crawler over the given fetcher.
func New(db *store.Database, fetcher LineupFetcher, cfg Config) *Crawler {
	if cfg.Workers < 1 {
		cfg.Workers = defaultWorkers
	}
	if cfg.Workers > maxWorkers {
		cfg.Workers = maxWorkers
	}
	if cfg.Delay <= 0 {
		cfg.Delay = defaultDelay
	}
	return &Crawler{
		fetcher:        fetcher,
		showRepo:       repository.NewShowRepository(db),
		performerRepo:  repository.NewPerformerRepository(db),
		appearanceRepo: repository.NewAppearanceRepository(db),
		cfg:            cfg,
	}
}

// CrawlUpcoming fetches lineups for upcoming shows that carry a page
// URL. Per-show failures are counted, not fatal; the crawl stops early
// only when the context is cancelled.
func (c *Crawler) CrawlUpcoming(ctx context.Context, limit int) (*Summary, error) {
	shows, err := c.showRepo.GetUpcoming(ctx, limit)
	if err != nil {
		return nil, err
	}

	registry, err := c.performerRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	var candidates []*store.Show
	for _, show := range shows {
		if show.URL.Valid && show.URL.String != "" {
			candidates = append(candidates, show)
		}
	}

	log.Printf("[crawler] Crawling %d of %d upcoming shows with %d workers",
		len(candidates), len(shows), c.cfg.Workers)

	jobs := make(chan *store.Show)
	var wg sync.WaitGroup

	var mu sync.Mutex
	summary := &Summary{}

	for w := 0; w < c.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for show := range jobs {
				c.crawlShow(ctx, show, registry, summary, &mu)

				select {
				case <-ctx.Done():
					return
				case <-time.After(c.cfg.Delay):
				}
			}
		}()
	}

	for _, show := range candidates {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return summary, ctx.Err()
		case jobs <- show:
		}
	}
	close(jobs)
	wg.Wait()

	log.Printf("[crawler] ✓ Done: %d processed, %d failed, %d performers matched, %d unmatched names",
		summary.Processed, summary.Failed, summary.Matched, len(summary.Unmatched))
	return summary, nil
}

func (c *Crawler) crawlShow(ctx context.Context, show *store.Show, registry []*store.Performer, summary *Summary, mu *sync.Mutex) {
	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	result, err := c.fetcher.FetchLineup(fetchCtx, show.URL.String)
	if err != nil {
		log.Printf("[crawler] ⚠️ Show %d (%s): %v", show.ShowID, show.Title, err)
		mu.Lock()
		summary.Failed++
		mu.Unlock()
		return
	}

	hosts := make(map[string]bool, len(result.Hosts))
	for _, h := range result.Hosts {
		hosts[h] = true
	}

	matched := 0
	var unmatched, ambiguous []string
	for _, m := range lineup.ResolveNames(result.Performers, registry) {
		switch m.Outcome {
		case lineup.OutcomeMatched:
			role := "performer"
			if hosts[m.Name] {
				role = "host"
			}
			if err := c.appearanceRepo.Upsert(ctx, show.ShowID, m.Performer.PerformerID, role); err != nil {
				log.Printf("[crawler] Failed to record %s on show %d: %v", m.Performer.Name, show.ShowID, err)
				continue
			}
			matched++
		case lineup.OutcomeAmbiguous:
			ambiguous = append(ambiguous, m.Name)
		default:
			unmatched = append(unmatched, m.Name)
		}
	}

	mu.Lock()
	summary.Processed++
	summary.Matched += matched
	summary.Unmatched = append(summary.Unmatched, unmatched...)
	summary.Ambiguous = append(summary.Ambiguous, ambiguous...)
	mu.Unlock()
}
