// Package dedupe folds show records that describe the same real-world
// show across sources into a single record from the best source.
package dedupe

import (
	"database/sql"
	"sort"
	"strings"
	"time"

	"github.com/tlebon/ccb-dashboard/internal/store"
)

// sourceRanks orders sources by trust: calendar feeds carry exact data,
// chat-derived schedules the least.
var sourceRanks = map[string]int{
	store.SourceICal:     1,
	store.SourceManual:   2,
	store.SourceSchedule: 3,
	store.SourceBeeper:   4,
}

// SourceRank returns the merge priority of a source, lower winning.
// Unknown sources rank with "schedule".
func SourceRank(source string) int {
	if rank, ok := sourceRanks[source]; ok {
		return rank
	}
	return sourceRanks[store.SourceSchedule]
}

// NormalizeTitle lowercases a title and collapses every run of
// non-alphanumeric characters to a single space, so "House Show!" and
// "house  show" compare equal.
func NormalizeTitle(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	space := false
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		} else {
			space = true
		}
	}
	return b.String()
}

// Group is one merged show: the record kept plus the records folded
// into it. Folded shows should have their appearances reassigned to
// the primary before deletion.
type Group struct {
	Primary *store.Show
	Folded  []*store.Show
}

// MergeShows groups duplicate show records. Within each group the
// best-sourced record becomes the primary and absorbs fields the
// duplicates carry that it lacks. Input order does not matter; output
// groups are ordered by the primary's (date, time, title).
func MergeShows(shows []*store.Show) []Group {
	sorted := make([]*store.Show, len(shows))
	copy(sorted, shows)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := SourceRank(sorted[i].Source), SourceRank(sorted[j].Source)
		if ri != rj {
			return ri < rj
		}
		return sorted[i].ShowID < sorted[j].ShowID
	})

	var groups []Group
	for _, show := range sorted {
		folded := false
		for i := range groups {
			if IsDuplicate(groups[i].Primary, show) {
				absorb(groups[i].Primary, show)
				groups[i].Folded = append(groups[i].Folded, show)
				folded = true
				break
			}
		}
		if !folded {
			groups = append(groups, Group{Primary: show})
		}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i].Primary, groups[j].Primary
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.TimeString() != b.TimeString() {
			return a.TimeString() < b.TimeString()
		}
		return a.Title < b.Title
	})

	return groups
}

// IsDuplicate reports whether two records describe the same show:
// one normalized title contains the other, the dates are at most one
// day apart, and the times are equal (two unknown times count as
// equal; a known time never matches an unknown one).
func IsDuplicate(a, b *store.Show) bool {
	ta, tb := NormalizeTitle(a.Title), NormalizeTitle(b.Title)
	if ta == "" || tb == "" {
		return false
	}
	if !strings.Contains(ta, tb) && !strings.Contains(tb, ta) {
		return false
	}

	diff := a.Date.Sub(b.Date)
	if diff < 0 {
		diff = -diff
	}
	if diff > 24*time.Hour {
		return false
	}

	if a.Time.Valid != b.Time.Valid {
		return false
	}
	if a.Time.Valid && a.Time.String != b.Time.String {
		return false
	}
	return true
}

// absorb fills the primary's empty optional fields from a duplicate.
// The primary's own values are never overwritten.
func absorb(primary, dup *store.Show) {
	fillString(&primary.Description, dup.Description)
	fillString(&primary.URL, dup.URL)
	fillString(&primary.ImageURL, dup.ImageURL)
	fillString(&primary.Price, dup.Price)
	fillString(&primary.HostedBy, dup.HostedBy)
	if !primary.TeamID.Valid && dup.TeamID.Valid {
		primary.TeamID = dup.TeamID
	}
}

func fillString(dst *sql.NullString, src sql.NullString) {
	if !dst.Valid && src.Valid && src.String != "" {
		*dst = src
	}
}
