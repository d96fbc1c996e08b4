package store

import (
	"database/sql"
	"time"
)

// Show sources, in merge priority order (lower rank wins).
const (
	SourceICal     = "ical"
	SourceManual   = "manual"
	SourceSchedule = "schedule"
	SourceBeeper   = "beeper"
)

// Performer represents a registered performer
type Performer struct {
	PerformerID int            `json:"performer_id" db:"performer_id"`
	Name        string         `json:"name" db:"name"`
	Slug        string         `json:"slug" db:"slug"`
	ImageURL    sql.NullString `json:"image_url,omitempty" db:"image_url"`
	Bio         sql.NullString `json:"bio,omitempty" db:"bio"`
	Instagram   sql.NullString `json:"instagram,omitempty" db:"instagram"`
	IsActive    bool           `json:"is_active" db:"is_active"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

// Team represents a performing team (house, indie, or other)
type Team struct {
	TeamID      int            `json:"team_id" db:"team_id"`
	Name        string         `json:"name" db:"name"`
	Slug        string         `json:"slug" db:"slug"`
	Type        string         `json:"type" db:"type"`
	CoachID     sql.NullInt32  `json:"coach_id,omitempty" db:"coach_id"`
	ImageURL    sql.NullString `json:"image_url,omitempty" db:"image_url"`
	Description sql.NullString `json:"description,omitempty" db:"description"`
	// Weeks is a comma-separated set of 1..5 giving which Nth weekday
	// of the month the team performs on (house teams only).
	Weeks     sql.NullString `json:"weeks,omitempty" db:"weeks"`
	StartDate sql.NullTime   `json:"start_date,omitempty" db:"start_date"`
	IsActive  bool           `json:"is_active" db:"is_active"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at"`
}

// TeamMember links a performer to a team
type TeamMember struct {
	ID          int          `json:"id" db:"id"`
	TeamID      int          `json:"team_id" db:"team_id"`
	PerformerID int          `json:"performer_id" db:"performer_id"`
	Role        string       `json:"role" db:"role"`
	JoinedAt    sql.NullTime `json:"joined_at,omitempty" db:"joined_at"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
}

// Show represents a single show record from one source.
// Multiple records from different sources may describe the same
// real-world show until the deduplicator merges them.
type Show struct {
	ShowID      int            `json:"show_id" db:"show_id"`
	Title       string         `json:"title" db:"title"`
	Date        time.Time      `json:"date" db:"date"`
	Time        sql.NullString `json:"time,omitempty" db:"time"`
	Source      string         `json:"source" db:"source"`
	ExternalID  sql.NullString `json:"external_id,omitempty" db:"external_id"`
	URL         sql.NullString `json:"url,omitempty" db:"url"`
	ImageURL    sql.NullString `json:"image_url,omitempty" db:"image_url"`
	Description sql.NullString `json:"description,omitempty" db:"description"`
	Price       sql.NullString `json:"price,omitempty" db:"price"`
	HostedBy    sql.NullString `json:"hosted_by,omitempty" db:"hosted_by"`
	TeamID      sql.NullInt32  `json:"team_id,omitempty" db:"team_id"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

// ShowAppearance links a performer to a show with a role
// (performer, host, guest, coach)
type ShowAppearance struct {
	ID          int       `json:"id" db:"id"`
	ShowID      int       `json:"show_id" db:"show_id"`
	PerformerID int       `json:"performer_id" db:"performer_id"`
	Role        string    `json:"role" db:"role"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// TimeString returns the show time or "" when unknown.
func (s *Show) TimeString() string {
	if s.Time.Valid {
		return s.Time.String
	}
	return ""
}

// DateString returns the show date as YYYY-MM-DD.
func (s *Show) DateString() string {
	return s.Date.Format("2006-01-02")
}
