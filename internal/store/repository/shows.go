package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tlebon/ccb-dashboard/internal/store"
)

// ShowRepository handles show data access
type ShowRepository struct {
	db *store.Database
}

// NewShowRepository creates a new show repository
func NewShowRepository(db *store.Database) *ShowRepository {
	return &ShowRepository{db: db}
}

const showColumns = `show_id, title, date, time, source, external_id, url, image_url, description, price, hosted_by, team_id, created_at, updated_at`

// GetByID finds a show by its database ID
func (r *ShowRepository) GetByID(ctx context.Context, showID int) (*store.Show, error) {
	query := `SELECT ` + showColumns + ` FROM shows WHERE show_id = $1`

	show := &store.Show{}
	err := r.db.DB().QueryRowContext(ctx, query, showID).Scan(
		&show.ShowID, &show.Title, &show.Date, &show.Time, &show.Source,
		&show.ExternalID, &show.URL, &show.ImageURL, &show.Description,
		&show.Price, &show.HostedBy, &show.TeamID, &show.CreatedAt, &show.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("show not found: %d", showID)
	}
	if err != nil {
		return nil, fmt.Errorf("querying show: %w", err)
	}

	return show, nil
}

// GetByDate returns all shows on a specific calendar date
func (r *ShowRepository) GetByDate(ctx context.Context, date time.Time) ([]*store.Show, error) {
	query := `
		SELECT ` + showColumns + `
		FROM shows
		WHERE date = $1
		ORDER BY time NULLS LAST, title
	`

	rows, err := r.db.DB().QueryContext(ctx, query, date.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("querying shows: %w", err)
	}
	defer rows.Close()

	return scanShows(rows)
}

// GetWindow returns all shows with dates in [from, to] inclusive
func (r *ShowRepository) GetWindow(ctx context.Context, from, to time.Time) ([]*store.Show, error) {
	query := `
		SELECT ` + showColumns + `
		FROM shows
		WHERE date >= $1 AND date <= $2
		ORDER BY date, time NULLS LAST, title
	`

	rows, err := r.db.DB().QueryContext(ctx, query, from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("querying shows: %w", err)
	}
	defer rows.Close()

	return scanShows(rows)
}

// GetUpcoming returns shows from today onward, up to limit
func (r *ShowRepository) GetUpcoming(ctx context.Context, limit int) ([]*store.Show, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT ` + showColumns + `
		FROM shows
		WHERE date >= CURRENT_DATE
		ORDER BY date, time NULLS LAST, title
		LIMIT $1
	`

	rows, err := r.db.DB().QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying upcoming shows: %w", err)
	}
	defer rows.Close()

	return scanShows(rows)
}

// Upsert inserts or updates a show, returning its ID.
// Shows with an external ID (iCal UID) are keyed on (source, external_id);
// everything else falls back to the (date, title, source) natural key.
func (r *ShowRepository) Upsert(ctx context.Context, show *store.Show) (int, error) {
	var query string
	if show.ExternalID.Valid {
		query = `
			INSERT INTO shows (title, date, time, source, external_id, url, image_url, description, price, hosted_by, team_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (source, external_id) DO UPDATE SET
				title = EXCLUDED.title,
				date = EXCLUDED.date,
				time = COALESCE(EXCLUDED.time, shows.time),
				url = COALESCE(EXCLUDED.url, shows.url),
				image_url = COALESCE(EXCLUDED.image_url, shows.image_url),
				description = COALESCE(EXCLUDED.description, shows.description),
				price = COALESCE(EXCLUDED.price, shows.price),
				hosted_by = COALESCE(EXCLUDED.hosted_by, shows.hosted_by),
				team_id = COALESCE(EXCLUDED.team_id, shows.team_id),
				updated_at = NOW()
			RETURNING show_id
		`
	} else {
		query = `
			INSERT INTO shows (title, date, time, source, external_id, url, image_url, description, price, hosted_by, team_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (date, title, source) DO UPDATE SET
				time = COALESCE(EXCLUDED.time, shows.time),
				url = COALESCE(EXCLUDED.url, shows.url),
				image_url = COALESCE(EXCLUDED.image_url, shows.image_url),
				description = COALESCE(EXCLUDED.description, shows.description),
				price = COALESCE(EXCLUDED.price, shows.price),
				hosted_by = COALESCE(EXCLUDED.hosted_by, shows.hosted_by),
				team_id = COALESCE(EXCLUDED.team_id, shows.team_id),
				updated_at = NOW()
			RETURNING show_id
		`
	}

	var id int
	err := r.db.DB().QueryRowContext(ctx, query,
		show.Title, show.Date.Format("2006-01-02"), show.Time, show.Source,
		show.ExternalID, show.URL, show.ImageURL, show.Description,
		show.Price, show.HostedBy, show.TeamID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upserting show %q on %s: %w", show.Title, show.DateString(), err)
	}

	return id, nil
}

// Delete removes a show (used when a merged duplicate supersedes it)
func (r *ShowRepository) Delete(ctx context.Context, showID int) error {
	if _, err := r.db.DB().ExecContext(ctx, `DELETE FROM shows WHERE show_id = $1`, showID); err != nil {
		return fmt.Errorf("deleting show %d: %w", showID, err)
	}
	return nil
}

func scanShows(rows *sql.Rows) ([]*store.Show, error) {
	var shows []*store.Show
	for rows.Next() {
		show := &store.Show{}
		err := rows.Scan(
			&show.ShowID, &show.Title, &show.Date, &show.Time, &show.Source,
			&show.ExternalID, &show.URL, &show.ImageURL, &show.Description,
			&show.Price, &show.HostedBy, &show.TeamID, &show.CreatedAt, &show.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning show: %w", err)
		}
		shows = append(shows, show)
	}

	return shows, rows.Err()
}
