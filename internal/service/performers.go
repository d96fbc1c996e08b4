package service

import (
	"context"
	"fmt"

	"github.com/tlebon/ccb-dashboard/internal/store"
	"github.com/tlebon/ccb-dashboard/internal/store/repository"
)

// PerformerService handles performer-related business logic
type PerformerService struct {
	performerRepo *repository.PerformerRepository
	teamRepo      *repository.TeamRepository
}

// NewPerformerService creates a new performer service
func NewPerformerService(db *store.Database) *PerformerService {
	return &PerformerService{
		performerRepo: repository.NewPerformerRepository(db),
		teamRepo:      repository.NewTeamRepository(db),
	}
}

// GetAllPerformers retrieves all active performers
func (s *PerformerService) GetAllPerformers(ctx context.Context) ([]*store.Performer, error) {
	performers, err := s.performerRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching performers: %w", err)
	}
	return performers, nil
}

// SearchPerformers finds performers whose name matches the query
func (s *PerformerService) SearchPerformers(ctx context.Context, query string, limit int) ([]*store.Performer, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	performers, err := s.performerRepo.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("searching performers: %w", err)
	}
	return performers, nil
}

// GetPerformer retrieves a performer by slug
func (s *PerformerService) GetPerformer(ctx context.Context, slug string) (*store.Performer, error) {
	performer, err := s.performerRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("fetching performer %s: %w", slug, err)
	}
	return performer, nil
}
