package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tlebon/ccb-dashboard/internal/store"
)

// PerformerRepository handles performer data access
type PerformerRepository struct {
	db *store.Database
}

// NewPerformerRepository creates a new performer repository
func NewPerformerRepository(db *store.Database) *PerformerRepository {
	return &PerformerRepository{db: db}
}

const performerColumns = `performer_id, name, slug, image_url, bio, instagram, is_active, created_at, updated_at`

// GetAll returns all active performers (the registry snapshot used for matching)
func (r *PerformerRepository) GetAll(ctx context.Context) ([]*store.Performer, error) {
	query := `
		SELECT ` + performerColumns + `
		FROM performers
		WHERE is_active = true
		ORDER BY name
	`

	rows, err := r.db.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying performers: %w", err)
	}
	defer rows.Close()

	return scanPerformers(rows)
}

// GetByID finds a performer by ID
func (r *PerformerRepository) GetByID(ctx context.Context, performerID int) (*store.Performer, error) {
	query := `SELECT ` + performerColumns + ` FROM performers WHERE performer_id = $1`

	p := &store.Performer{}
	err := r.db.DB().QueryRowContext(ctx, query, performerID).Scan(
		&p.PerformerID, &p.Name, &p.Slug, &p.ImageURL, &p.Bio, &p.Instagram,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("performer not found: %d", performerID)
	}
	if err != nil {
		return nil, fmt.Errorf("querying performer: %w", err)
	}

	return p, nil
}

// GetBySlug finds a performer by slug
func (r *PerformerRepository) GetBySlug(ctx context.Context, slug string) (*store.Performer, error) {
	query := `SELECT ` + performerColumns + ` FROM performers WHERE slug = $1`

	p := &store.Performer{}
	err := r.db.DB().QueryRowContext(ctx, query, slug).Scan(
		&p.PerformerID, &p.Name, &p.Slug, &p.ImageURL, &p.Bio, &p.Instagram,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("performer not found: %s", slug)
	}
	if err != nil {
		return nil, fmt.Errorf("querying performer: %w", err)
	}

	return p, nil
}

// Search finds performers whose name matches the query (case-insensitive)
func (r *PerformerRepository) Search(ctx context.Context, q string, limit int) ([]*store.Performer, error) {
	if limit <= 0 {
		limit = 25
	}

	query := `
		SELECT ` + performerColumns + `
		FROM performers
		WHERE name ILIKE '%' || $1 || '%' AND is_active = true
		ORDER BY name
		LIMIT $2
	`

	rows, err := r.db.DB().QueryContext(ctx, query, q, limit)
	if err != nil {
		return nil, fmt.Errorf("searching performers: %w", err)
	}
	defer rows.Close()

	return scanPerformers(rows)
}

// Upsert inserts or updates a performer keyed on slug, returning its ID
func (r *PerformerRepository) Upsert(ctx context.Context, p *store.Performer) (int, error) {
	query := `
		INSERT INTO performers (name, slug, image_url, bio, instagram, is_active)
		VALUES ($1, $2, $3, $4, $5, true)
		ON CONFLICT (slug) DO UPDATE SET
			name = EXCLUDED.name,
			image_url = COALESCE(EXCLUDED.image_url, performers.image_url),
			bio = COALESCE(EXCLUDED.bio, performers.bio),
			instagram = COALESCE(EXCLUDED.instagram, performers.instagram),
			updated_at = NOW()
		RETURNING performer_id
	`

	var id int
	err := r.db.DB().QueryRowContext(ctx, query,
		p.Name, p.Slug, p.ImageURL, p.Bio, p.Instagram,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upserting performer %s: %w", p.Slug, err)
	}

	return id, nil
}

func scanPerformers(rows *sql.Rows) ([]*store.Performer, error) {
	var performers []*store.Performer
	for rows.Next() {
		p := &store.Performer{}
		err := rows.Scan(
			&p.PerformerID, &p.Name, &p.Slug, &p.ImageURL, &p.Bio, &p.Instagram,
			&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning performer: %w", err)
		}
		performers = append(performers, p)
	}

	return performers, rows.Err()
}
