// Package rotation resolves which house teams perform on a given calendar
// date, based on "Nth weekday of the month" rotation slots.
package rotation

import (
	"strconv"
	"strings"
	"time"

	"github.com/tlebon/ccb-dashboard/internal/store"
)

// TeamSlot is a team's rotation configuration: which Nth-weekday weeks it
// performs on, and optionally the date it joined the rotation.
type TeamSlot struct {
	Slug      string
	Name      string
	Weeks     []int
	StartDate *time.Time
}

// NthWeekdayOfMonth returns which occurrence of its weekday the date is
// within its month (1..5). The 8th of any month is always the 2nd
// occurrence of that weekday, regardless of which weekday it is.
func NthWeekdayOfMonth(date time.Time) int {
	return (date.Day() + 6) / 7
}

// TeamsForDate returns every team in the roster scheduled for the date:
// its weeks set contains the date's Nth-weekday number and its start date
// (if any) is on or before the date. Returns an empty slice when no team
// qualifies, e.g. a 5th occurrence no team is rostered for.
func TeamsForDate(date time.Time, roster []TeamSlot) []TeamSlot {
	nth := NthWeekdayOfMonth(date)
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	teams := []TeamSlot{}
	for _, team := range roster {
		if !containsWeek(team.Weeks, nth) {
			continue
		}
		if team.StartDate != nil {
			start := *team.StartDate
			start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, day.Location())
			if day.Before(start) {
				continue
			}
		}
		teams = append(teams, team)
	}

	return teams
}

// SlotFromTeam converts a stored team row into a rotation slot.
// Teams without a weeks column produce an empty weeks set and therefore
// never match a date.
func SlotFromTeam(team *store.Team) TeamSlot {
	slot := TeamSlot{
		Slug: team.Slug,
		Name: team.Name,
	}

	if team.Weeks.Valid {
		slot.Weeks = ParseWeeks(team.Weeks.String)
	}
	if team.StartDate.Valid {
		start := team.StartDate.Time
		slot.StartDate = &start
	}

	return slot
}

// ParseWeeks parses a comma-separated weeks column ("2,4") into a set of
// 1..5 week numbers. Malformed or out-of-range entries are skipped.
func ParseWeeks(s string) []int {
	var weeks []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 1 || n > 5 {
			continue
		}
		weeks = append(weeks, n)
	}
	return weeks
}

func containsWeek(weeks []int, n int) bool {
	for _, w := range weeks {
		if w == n {
			return true
		}
	}
	return false
}
