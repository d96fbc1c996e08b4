package service

import (
	"context"
	"fmt"
	"time"

	"github.com/tlebon/ccb-dashboard/internal/rotation"
	"github.com/tlebon/ccb-dashboard/internal/store"
	"github.com/tlebon/ccb-dashboard/internal/store/repository"
)

// TeamOnDate is a house team scheduled to perform on a given date.
type TeamOnDate struct {
	Team    *store.Team        `json:"team"`
	Members []*store.Performer `json:"members,omitempty"`
}

// TeamService handles team-related business logic
type TeamService struct {
	teamRepo *repository.TeamRepository
}

// NewTeamService creates a new team service
func NewTeamService(db *store.Database) *TeamService {
	return &TeamService{
		teamRepo: repository.NewTeamRepository(db),
	}
}

// GetAllTeams retrieves all active teams
func (s *TeamService) GetAllTeams(ctx context.Context) ([]*store.Team, error) {
	teams, err := s.teamRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching teams: %w", err)
	}
	return teams, nil
}

// GetTeam retrieves a team with its members
func (s *TeamService) GetTeam(ctx context.Context, slug string) (*store.Team, []*store.Performer, error) {
	team, err := s.teamRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching team %s: %w", slug, err)
	}

	members, err := s.teamRepo.GetMembers(ctx, team.TeamID)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching members of %s: %w", slug, err)
	}

	return team, members, nil
}

// GetTeamsOnDate resolves the house-team rotation for a date: which
// teams perform based on the date's position in the month. A date with
// no rotation slot (a fifth occurrence most months) yields an empty
// list.
func (s *TeamService) GetTeamsOnDate(ctx context.Context, date time.Time) ([]TeamOnDate, error) {
	teams, err := s.teamRepo.GetHouseTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching house teams: %w", err)
	}

	bySlug := make(map[string]*store.Team, len(teams))
	roster := make([]rotation.TeamSlot, 0, len(teams))
	for _, team := range teams {
		bySlug[team.Slug] = team
		roster = append(roster, rotation.SlotFromTeam(team))
	}

	result := []TeamOnDate{}
	for _, slot := range rotation.TeamsForDate(date, roster) {
		team := bySlug[slot.Slug]
		members, err := s.teamRepo.GetMembers(ctx, team.TeamID)
		if err != nil {
			return nil, fmt.Errorf("fetching members of %s: %w", slot.Slug, err)
		}
		result = append(result, TeamOnDate{Team: team, Members: members})
	}

	return result, nil
}
