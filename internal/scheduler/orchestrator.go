package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/tlebon/ccb-dashboard/internal/cache"
	"github.com/tlebon/ccb-dashboard/internal/ingest/crawler"
	"github.com/tlebon/ccb-dashboard/internal/ingest/ical"
	"github.com/tlebon/ccb-dashboard/internal/lineup"
	"github.com/tlebon/ccb-dashboard/internal/publisher"
	"github.com/tlebon/ccb-dashboard/internal/service"
	"github.com/tlebon/ccb-dashboard/internal/store"
)

// Orchestrator manages the recurring ingestion tasks: calendar feed
// polling, the nightly lineup crawl and the merge pass that follows it.
type Orchestrator struct {
	db           *store.Database
	cache        *cache.RedisCache
	publisher    *publisher.RedisStreamPublisher
	config       *Config
	icalIngester *ical.Ingester
	crawler      *crawler.Crawler
	showService  *service.ShowService
	cron         *cron.Cron
	cancel       context.CancelFunc
}

// Config holds scheduler configuration
type Config struct {
	FeedURL           string        // iCal feed, empty for the default
	FeedPollInterval  time.Duration // Default: 30m
	CrawlSpec         string        // cron spec, default: 03:30 nightly
	CrawlLimit        int           // shows per crawl, default: 50
	MergeWindowDays   int           // merge lookahead, default: 60
	EnableFeedPolling bool          // Default: true
	EnableCrawl       bool          // Default: true
	MaxRetries        int           // Default: 3
	RetryDelay        time.Duration // Default: 5s
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() *Config {
	return &Config{
		FeedPollInterval:  30 * time.Minute,
		CrawlSpec:         "30 3 * * *",
		CrawlLimit:        50,
		MergeWindowDays:   60,
		EnableFeedPolling: true,
		EnableCrawl:       true,
		MaxRetries:        3,
		RetryDelay:        5 * time.Second,
	}
}

// NewOrchestrator creates a new scheduler orchestrator
func NewOrchestrator(db *store.Database, rc *cache.RedisCache, config *Config) *Orchestrator {
	if config == nil {
		config = DefaultConfig()
	}

	streamPublisher := publisher.NewRedisStreamPublisher(rc.Client())
	fetcher := lineup.NewFetcher("")

	return &Orchestrator{
		db:           db,
		cache:        rc,
		publisher:    streamPublisher,
		config:       config,
		icalIngester: ical.NewIngester(db, config.FeedURL),
		crawler:      crawler.New(db, fetcher, crawler.Config{}),
		showService:  service.NewShowService(db, rc, streamPublisher),
	}
}

// Start begins all scheduled tasks and blocks until the context ends
func (o *Orchestrator) Start(ctx context.Context) {
	log.Printf("→ Scheduler starting (feed polling: %v every %v, crawl: %v at %q)",
		o.config.EnableFeedPolling, o.config.FeedPollInterval,
		o.config.EnableCrawl, o.config.CrawlSpec)

	ctx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	if o.config.EnableFeedPolling {
		go o.runFeedPolling(ctx)
	}

	if o.config.EnableCrawl {
		o.cron = cron.New()
		if _, err := o.cron.AddFunc(o.config.CrawlSpec, func() {
			o.runNightlyTask(ctx)
		}); err != nil {
			log.Printf("⚠️ Invalid crawl schedule %q: %v", o.config.CrawlSpec, err)
		} else {
			o.cron.Start()
		}
	}

	<-ctx.Done()
	log.Println("Scheduler stopping...")
}

// runFeedPolling polls the calendar feed on a fixed interval
func (o *Orchestrator) runFeedPolling(ctx context.Context) {
	log.Printf("→ Feed polling started (interval: %v)", o.config.FeedPollInterval)

	ticker := time.NewTicker(o.config.FeedPollInterval)
	defer ticker.Stop()

	// Run immediately on start
	o.pollFeedWithRetry(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("→ Feed polling stopped")
			return
		case <-ticker.C:
			o.pollFeedWithRetry(ctx)
		}
	}
}

// pollFeedWithRetry ingests the feed, retrying transient failures
func (o *Orchestrator) pollFeedWithRetry(ctx context.Context) {
	var shows []*store.Show
	var err error

	for attempt := 1; attempt <= o.config.MaxRetries; attempt++ {
		shows, err = o.icalIngester.IngestFeed(ctx)
		if err == nil {
			break
		}

		log.Printf("  ⚠️ Feed poll attempt %d/%d failed: %v", attempt, o.config.MaxRetries, err)
		if attempt < o.config.MaxRetries {
			select {
			case <-ctx.Done():
				return
			case <-time.After(o.config.RetryDelay):
			}
		}
	}
	if err != nil {
		log.Printf("  ❌ Feed poll gave up after %d attempts", o.config.MaxRetries)
		return
	}

	if err := o.cache.InvalidateUpcomingShows(ctx); err != nil {
		log.Printf("  ⚠️ Failed to invalidate show cache: %v", err)
	}

	for _, show := range shows {
		if err := o.publisher.PublishShowUpdate(ctx, show); err != nil {
			log.Printf("  ⚠️ Failed to publish show %d: %v", show.ShowID, err)
		}
	}
}

// runNightlyTask crawls lineups, reports unseen names and merges
// duplicate shows
func (o *Orchestrator) runNightlyTask(ctx context.Context) {
	log.Println("═══ Nightly Crawl Starting ═══")
	startTime := time.Now()

	summary, err := o.crawler.CrawlUpcoming(ctx, o.config.CrawlLimit)
	if err != nil {
		log.Printf("❌ Crawl failed: %v", err)
	} else {
		if err := o.cache.ReportUnseenNames(ctx, summary.Unmatched); err != nil {
			log.Printf("⚠️ Failed to report unseen names: %v", err)
		}
		if err := o.publisher.PublishLineupUpdate(ctx, summary); err != nil {
			log.Printf("⚠️ Failed to publish crawl summary: %v", err)
		}
	}

	now := time.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	to := from.AddDate(0, 0, o.config.MergeWindowDays)
	if _, err := o.showService.MergeWindow(ctx, from, to); err != nil {
		log.Printf("❌ Merge failed: %v", err)
	}

	log.Printf("═══ Nightly Crawl Complete in %v ═══", time.Since(startTime).Round(time.Second))
}

// TriggerFeedIngestion manually runs one feed poll
func (o *Orchestrator) TriggerFeedIngestion(ctx context.Context) error {
	log.Println("Manual feed ingestion triggered")
	_, err := o.icalIngester.IngestFeed(ctx)
	if err != nil {
		return err
	}
	return o.cache.InvalidateUpcomingShows(ctx)
}

// GetStatus returns current scheduler status
func (o *Orchestrator) GetStatus() map[string]interface{} {
	return map[string]interface{}{
		"feed_polling_enabled": o.config.EnableFeedPolling,
		"feed_poll_interval":   o.config.FeedPollInterval.String(),
		"crawl_enabled":        o.config.EnableCrawl,
		"crawl_schedule":       o.config.CrawlSpec,
	}
}

// Stop gracefully stops the scheduler
func (o *Orchestrator) Stop() {
	log.Println("Stopping scheduler...")

	if o.cron != nil {
		cronCtx := o.cron.Stop()
		<-cronCtx.Done()
	}

	if o.cancel != nil {
		o.cancel()
	}

	log.Println("✓ Scheduler stopped")
}
