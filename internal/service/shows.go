package service

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/tlebon/ccb-dashboard/internal/cache"
	"github.com/tlebon/ccb-dashboard/internal/dedupe"
	"github.com/tlebon/ccb-dashboard/internal/publisher"
	"github.com/tlebon/ccb-dashboard/internal/schedule"
	"github.com/tlebon/ccb-dashboard/internal/store"
	"github.com/tlebon/ccb-dashboard/internal/store/repository"
)

// LineupEntry is one performer on a show with their role.
type LineupEntry struct {
	Performer *store.Performer `json:"performer"`
	Role      string           `json:"role"`
}

// ShowDetail is a show with its resolved lineup.
type ShowDetail struct {
	Show   *store.Show   `json:"show"`
	Lineup []LineupEntry `json:"lineup,omitempty"`
}

// ImportReport summarizes a schedule-text import.
type ImportReport struct {
	Parsed []schedule.ParsedShow `json:"parsed"`
	Stored int                   `json:"stored"`
}

// MergeReport summarizes a deduplication run.
type MergeReport struct {
	Examined int `json:"examined"`
	Merged   int `json:"merged"`
	Deleted  int `json:"deleted"`
}

// ShowService handles show-related business logic
type ShowService struct {
	showRepo       *repository.ShowRepository
	appearanceRepo *repository.AppearanceRepository
	cache          *cache.RedisCache
	publisher      *publisher.RedisStreamPublisher
}

// NewShowService creates a new show service. Cache and publisher may be
// nil; the service degrades to plain database reads.
func NewShowService(db *store.Database, rc *cache.RedisCache, pub *publisher.RedisStreamPublisher) *ShowService {
	return &ShowService{
		showRepo:       repository.NewShowRepository(db),
		appearanceRepo: repository.NewAppearanceRepository(db),
		cache:          rc,
		publisher:      pub,
	}
}

// GetUpcomingShows retrieves upcoming shows, serving from cache when
// possible.
func (s *ShowService) GetUpcomingShows(ctx context.Context, limit int) ([]*store.Show, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetUpcomingShows(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	shows, err := s.showRepo.GetUpcoming(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("fetching upcoming shows: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetUpcomingShows(ctx, shows); err != nil {
			log.Printf("[show-service] Failed to cache upcoming shows: %v", err)
		}
	}

	return shows, nil
}

// GetShowsByDate retrieves all shows on a specific date
func (s *ShowService) GetShowsByDate(ctx context.Context, date time.Time) ([]*store.Show, error) {
	shows, err := s.showRepo.GetByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("fetching shows by date: %w", err)
	}
	return shows, nil
}

// GetShowDetail retrieves a show with its lineup
func (s *ShowService) GetShowDetail(ctx context.Context, showID int) (*ShowDetail, error) {
	show, err := s.showRepo.GetByID(ctx, showID)
	if err != nil {
		return nil, fmt.Errorf("fetching show: %w", err)
	}

	performers, roles, err := s.appearanceRepo.GetByShow(ctx, showID)
	if err != nil {
		return nil, fmt.Errorf("fetching lineup: %w", err)
	}

	detail := &ShowDetail{Show: show}
	for _, p := range performers {
		detail.Lineup = append(detail.Lineup, LineupEntry{Performer: p, Role: roles[p.PerformerID]})
	}
	return detail, nil
}

// ImportSchedule parses schedule text and stores its shows under the
// source the dialect implies (beeper text as "beeper", everything else
// as "schedule"). Existing records from the same source are updated in
// place.
func (s *ShowService) ImportSchedule(ctx context.Context, text, dialectName string) (*ImportReport, error) {
	dialect := schedule.DialectByName(dialectName)
	parsed := schedule.NewParser(dialect).Parse(text)

	source := store.SourceSchedule
	if dialect.Name() == "beeper" {
		source = store.SourceBeeper
	}

	report := &ImportReport{Parsed: parsed}
	for _, p := range parsed {
		date, err := time.ParseInLocation("2006-01-02", p.Date, time.Local)
		if err != nil {
			continue
		}

		show := &store.Show{
			Title:  p.Title,
			Date:   date,
			Time:   sql.NullString{String: p.Time, Valid: p.Time != ""},
			Source: source,
		}
		if p.Price != "" {
			show.Price = sql.NullString{String: p.Price, Valid: true}
		}
		if p.HostedBy != "" {
			show.HostedBy = sql.NullString{String: p.HostedBy, Valid: true}
		}

		if _, err := s.showRepo.Upsert(ctx, show); err != nil {
			log.Printf("[show-service] Failed to store %q on %s: %v", p.Title, p.Date, err)
			continue
		}
		report.Stored++

		if s.publisher != nil {
			if err := s.publisher.PublishShowUpdate(ctx, show); err != nil {
				log.Printf("[show-service] Failed to publish show update: %v", err)
			}
		}
	}

	s.invalidateCache(ctx)
	log.Printf("[show-service] ✓ Imported %d of %d parsed shows (%s)", report.Stored, len(parsed), source)
	return report, nil
}

// MergeWindow deduplicates shows in a date window: duplicate records
// fold into the best-sourced one, appearances move to the kept record,
// and the folded records are deleted.
func (s *ShowService) MergeWindow(ctx context.Context, from, to time.Time) (*MergeReport, error) {
	shows, err := s.showRepo.GetWindow(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("fetching shows to merge: %w", err)
	}

	report := &MergeReport{Examined: len(shows)}
	for _, group := range dedupe.MergeShows(shows) {
		if len(group.Folded) == 0 {
			continue
		}

		// Persist any fields the primary absorbed
		if _, err := s.showRepo.Upsert(ctx, group.Primary); err != nil {
			log.Printf("[show-service] Failed to update merged show %d: %v", group.Primary.ShowID, err)
			continue
		}
		report.Merged++

		for _, dup := range group.Folded {
			if err := s.appearanceRepo.Reassign(ctx, dup.ShowID, group.Primary.ShowID); err != nil {
				log.Printf("[show-service] Failed to move appearances from show %d: %v", dup.ShowID, err)
				continue
			}
			if err := s.showRepo.Delete(ctx, dup.ShowID); err != nil {
				log.Printf("[show-service] Failed to delete duplicate show %d: %v", dup.ShowID, err)
				continue
			}
			report.Deleted++
		}

		if s.publisher != nil {
			if err := s.publisher.PublishShowUpdate(ctx, group.Primary); err != nil {
				log.Printf("[show-service] Failed to publish merge update: %v", err)
			}
		}
	}

	s.invalidateCache(ctx)
	log.Printf("[show-service] ✓ Merge examined %d shows, folded %d duplicates", report.Examined, report.Deleted)
	return report, nil
}

func (s *ShowService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateUpcomingShows(ctx); err != nil {
		log.Printf("[show-service] Failed to invalidate show cache: %v", err)
	}
}
