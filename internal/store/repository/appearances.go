package repository

import (
	"context"
	"fmt"

	"github.com/tlebon/ccb-dashboard/internal/store"
)

// AppearanceRepository handles show appearance data access
type AppearanceRepository struct {
	db *store.Database
}

// NewAppearanceRepository creates a new appearance repository
func NewAppearanceRepository(db *store.Database) *AppearanceRepository {
	return &AppearanceRepository{db: db}
}

// Upsert records a performer's appearance on a show (idempotent)
func (r *AppearanceRepository) Upsert(ctx context.Context, showID, performerID int, role string) error {
	query := `
		INSERT INTO show_appearances (show_id, performer_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (show_id, performer_id, role) DO NOTHING
	`

	if _, err := r.db.DB().ExecContext(ctx, query, showID, performerID, role); err != nil {
		return fmt.Errorf("upserting appearance show=%d performer=%d: %w", showID, performerID, err)
	}

	return nil
}

// GetByShow returns the lineup for a show: each performer with their role
func (r *AppearanceRepository) GetByShow(ctx context.Context, showID int) ([]*store.Performer, map[int]string, error) {
	query := `
		SELECT p.performer_id, p.name, p.slug, p.image_url, p.bio, p.instagram,
			p.is_active, p.created_at, p.updated_at, sa.role
		FROM show_appearances sa
		JOIN performers p ON p.performer_id = sa.performer_id
		WHERE sa.show_id = $1
		ORDER BY sa.role = 'host' DESC, p.name
	`

	rows, err := r.db.DB().QueryContext(ctx, query, showID)
	if err != nil {
		return nil, nil, fmt.Errorf("querying appearances: %w", err)
	}
	defer rows.Close()

	var performers []*store.Performer
	roles := make(map[int]string)
	for rows.Next() {
		p := &store.Performer{}
		var role string
		err := rows.Scan(
			&p.PerformerID, &p.Name, &p.Slug, &p.ImageURL, &p.Bio, &p.Instagram,
			&p.IsActive, &p.CreatedAt, &p.UpdatedAt, &role,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("scanning appearance: %w", err)
		}
		performers = append(performers, p)
		roles[p.PerformerID] = role
	}

	return performers, roles, rows.Err()
}

// Reassign moves appearance rows from one show to another, skipping rows
// that would collide with an existing appearance on the target show.
// Used when the deduplicator folds a duplicate show into the canonical one.
func (r *AppearanceRepository) Reassign(ctx context.Context, fromShowID, toShowID int) error {
	query := `
		UPDATE show_appearances sa SET show_id = $2
		WHERE sa.show_id = $1
		AND NOT EXISTS (
			SELECT 1 FROM show_appearances other
			WHERE other.show_id = $2
			AND other.performer_id = sa.performer_id
			AND other.role = sa.role
		)
	`

	if _, err := r.db.DB().ExecContext(ctx, query, fromShowID, toShowID); err != nil {
		return fmt.Errorf("reassigning appearances %d -> %d: %w", fromShowID, toShowID, err)
	}

	return nil
}
