package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tlebon/ccb-dashboard/internal/store"
)

// TeamRepository handles team data access
type TeamRepository struct {
	db *store.Database
}

// NewTeamRepository creates a new team repository
func NewTeamRepository(db *store.Database) *TeamRepository {
	return &TeamRepository{db: db}
}

const teamColumns = `team_id, name, slug, type, coach_id, image_url, description, weeks, start_date, is_active, created_at, updated_at`

// GetAll returns all active teams
func (r *TeamRepository) GetAll(ctx context.Context) ([]*store.Team, error) {
	query := `
		SELECT ` + teamColumns + `
		FROM teams
		WHERE is_active = true
		ORDER BY name
	`

	rows, err := r.db.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying teams: %w", err)
	}
	defer rows.Close()

	return scanTeams(rows)
}

// GetHouseTeams returns all active house teams with a rotation configured
func (r *TeamRepository) GetHouseTeams(ctx context.Context) ([]*store.Team, error) {
	query := `
		SELECT ` + teamColumns + `
		FROM teams
		WHERE is_active = true AND type = 'house' AND weeks IS NOT NULL
		ORDER BY name
	`

	rows, err := r.db.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying house teams: %w", err)
	}
	defer rows.Close()

	return scanTeams(rows)
}

// GetBySlug finds a team by slug
func (r *TeamRepository) GetBySlug(ctx context.Context, slug string) (*store.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE slug = $1`

	team := &store.Team{}
	err := r.db.DB().QueryRowContext(ctx, query, slug).Scan(
		&team.TeamID, &team.Name, &team.Slug, &team.Type, &team.CoachID,
		&team.ImageURL, &team.Description, &team.Weeks, &team.StartDate,
		&team.IsActive, &team.CreatedAt, &team.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("team not found: %s", slug)
	}
	if err != nil {
		return nil, fmt.Errorf("querying team: %w", err)
	}

	return team, nil
}

// GetMembers returns the performers on a team, coach first
func (r *TeamRepository) GetMembers(ctx context.Context, teamID int) ([]*store.Performer, error) {
	query := `
		SELECT p.performer_id, p.name, p.slug, p.image_url, p.bio, p.instagram,
			p.is_active, p.created_at, p.updated_at
		FROM team_members tm
		JOIN performers p ON p.performer_id = tm.performer_id
		WHERE tm.team_id = $1
		ORDER BY tm.role = 'coach' DESC, p.name
	`

	rows, err := r.db.DB().QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("querying team members: %w", err)
	}
	defer rows.Close()

	return scanPerformers(rows)
}

// Upsert inserts or updates a team keyed on slug, returning its ID
func (r *TeamRepository) Upsert(ctx context.Context, team *store.Team) (int, error) {
	query := `
		INSERT INTO teams (name, slug, type, coach_id, image_url, description, weeks, start_date, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, true)
		ON CONFLICT (slug) DO UPDATE SET
			name = EXCLUDED.name,
			type = EXCLUDED.type,
			coach_id = COALESCE(EXCLUDED.coach_id, teams.coach_id),
			image_url = COALESCE(EXCLUDED.image_url, teams.image_url),
			description = COALESCE(EXCLUDED.description, teams.description),
			weeks = COALESCE(EXCLUDED.weeks, teams.weeks),
			start_date = COALESCE(EXCLUDED.start_date, teams.start_date),
			updated_at = NOW()
		RETURNING team_id
	`

	var id int
	err := r.db.DB().QueryRowContext(ctx, query,
		team.Name, team.Slug, team.Type, team.CoachID, team.ImageURL,
		team.Description, team.Weeks, team.StartDate,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upserting team %s: %w", team.Slug, err)
	}

	return id, nil
}

// AddMember links a performer to a team (idempotent)
func (r *TeamRepository) AddMember(ctx context.Context, teamID, performerID int, role string) error {
	query := `
		INSERT INTO team_members (team_id, performer_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (team_id, performer_id, role) DO NOTHING
	`

	if _, err := r.db.DB().ExecContext(ctx, query, teamID, performerID, role); err != nil {
		return fmt.Errorf("adding team member: %w", err)
	}

	return nil
}

func scanTeams(rows *sql.Rows) ([]*store.Team, error) {
	var teams []*store.Team
	for rows.Next() {
		team := &store.Team{}
		err := rows.Scan(
			&team.TeamID, &team.Name, &team.Slug, &team.Type, &team.CoachID,
			&team.ImageURL, &team.Description, &team.Weeks, &team.StartDate,
			&team.IsActive, &team.CreatedAt, &team.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning team: %w", err)
		}
		teams = append(teams, team)
	}

	return teams, rows.Err()
}
