package schedule

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
)

// ParsedShow is one show extracted from schedule text. Date, Time and
// Title together form the natural dedup key before persistence.
type ParsedShow struct {
	Date      string `json:"date"` // YYYY-MM-DD
	DayOfWeek string `json:"day_of_week"`
	Time      string `json:"time"` // HH:MM, 24h
	Title     string `json:"title"`
	Price     string `json:"price,omitempty"`
	HostedBy  string `json:"hosted_by,omitempty"`
}

// Parser turns one dialect of schedule text into ParsedShow records.
type Parser struct {
	dialect Dialect
	ref     time.Time
}

// NewParser creates a parser for the given dialect.
func NewParser(dialect Dialect) *Parser {
	return &Parser{dialect: dialect}
}

// SetReference fixes the context date used to resolve day headers that
// carry no year (or no date at all). Defaults to the current local date;
// week headers and chat timestamps in the text override it as they occur.
func (p *Parser) SetReference(t time.Time) {
	p.ref = t
}

var (
	// "## January 6, 2025" style week/message-date header
	weekHeaderRe = regexp.MustCompile(`(?i)^#{1,6}\s*([a-z]+)\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})\s*$`)

	// "Friday, January 10th" / "Friday January 10"
	dayHeaderMonthDayRe = regexp.MustCompile(`(?i)^([a-z]+),?\s+([a-z]+)\s+(\d{1,2})(?:st|nd|rd|th)?\.?\s*$`)

	// "FRIDAY 10th January" / "Friday 10 January"
	dayHeaderDayMonthRe = regexp.MustCompile(`(?i)^([a-z]+),?\s+(\d{1,2})(?:st|nd|rd|th)?\s+([a-z]+)\s*$`)

	// Bare weekday: "Friday" / "friday:"
	dayHeaderBareRe = regexp.MustCompile(`(?i)^([a-z]+)[.:]?\s*$`)

	// Show line: start time, optional end-time range, separator, title
	showLineRe = regexp.MustCompile(`(?i)^(\d{1,2})(?:[:.](\d{2}))?\s*(am|pm)?\s*(?:(?:-|–|—|to)\s*(\d{1,2})(?:[:.](\d{2}))?\s*(am|pm)?)?\s*(?:-|–|—|:)?\s*(.+)$`)

	leadingBulletRe = regexp.MustCompile(`^[\s\-–—•*·>]+`)
	chatTimestampRe = regexp.MustCompile(`\d{1,2}:\d{2}:\d{2}`)

	hostedAnnotationRe = regexp.MustCompile(`(?i)\s*\(\s*hosted by\s+([^)]+?)\s*\)\s*$`)
	priceAnnotationRe  = regexp.MustCompile(`(?i)\s*\(\s*((?:\d+(?:[.,]\d+)?\s*€)|free)\s*\)\s*$`)

	nonShowRe = regexp.MustCompile(`(?i)yoga|workshop`)
	jamRe     = regexp.MustCompile(`(?i)jam`)
)

// Parse extracts shows from the text. Unparseable lines are dropped, never
// fatal. Output is deduplicated on (date, time, title) and sorted by
// (date, time).
func (p *Parser) Parse(text string) []ParsedShow {
	ctx := p.ref
	if ctx.IsZero() {
		now := time.Now()
		ctx = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	}

	var current time.Time
	haveDay := false

	shows := []ParsedShow{}
	seen := make(map[string]bool)

	for _, raw := range strings.Split(text, "\n") {
		line, stamp, ok := p.dialect.PrepareLine(raw)
		if !ok {
			continue
		}
		if !stamp.IsZero() {
			ctx = stamp
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if when, ok := parseWeekHeader(line); ok {
			ctx = when
			continue
		}

		if when, ok := parseDayHeader(line, ctx); ok {
			current = when
			ctx = when
			haveDay = true
			continue
		}

		show, ok := parseShowLine(line)
		if !ok || !haveDay {
			continue
		}

		show.Date = current.Format("2006-01-02")
		show.DayOfWeek = current.Weekday().String()

		key := show.Date + "|" + show.Time + "|" + show.Title
		if seen[key] {
			continue
		}
		seen[key] = true
		shows = append(shows, show)
	}

	sort.Slice(shows, func(i, j int) bool {
		if shows[i].Date != shows[j].Date {
			return shows[i].Date < shows[j].Date
		}
		if shows[i].Time != shows[j].Time {
			return shows[i].Time < shows[j].Time
		}
		return shows[i].Title < shows[j].Title
	})

	return shows
}

// parseWeekHeader recognizes markdown-style "## Month Day, Year" headers.
func parseWeekHeader(line string) (time.Time, bool) {
	m := weekHeaderRe.FindStringSubmatch(line)
	if m == nil {
		return time.Time{}, false
	}

	month, ok := monthByName(m[1])
	if !ok {
		return time.Time{}, false
	}
	day := atoi(m[2])
	year := atoi(m[3])
	if day < 1 || day > 31 {
		return time.Time{}, false
	}

	return time.Date(year, month, day, 0, 0, 0, 0, time.Local), true
}

// parseDayHeader recognizes the day-header shapes. Headers that omit the
// year inherit it from the context date; a bare weekday resolves to its
// next occurrence on or after the context date, never backward.
func parseDayHeader(line string, ctx time.Time) (time.Time, bool) {
	// The written weekday is informational only; the explicit date wins
	if m := dayHeaderMonthDayRe.FindStringSubmatch(line); m != nil {
		_, wok := weekdayByName(m[1])
		month, mok := monthByName(m[2])
		day := atoi(m[3])
		if wok && mok && day >= 1 && day <= 31 {
			return time.Date(ctx.Year(), month, day, 0, 0, 0, 0, time.Local), true
		}
	}

	if m := dayHeaderDayMonthRe.FindStringSubmatch(line); m != nil {
		_, wok := weekdayByName(m[1])
		day := atoi(m[2])
		month, mok := monthByName(m[3])
		if wok && mok && day >= 1 && day <= 31 {
			return time.Date(ctx.Year(), month, day, 0, 0, 0, 0, time.Local), true
		}
	}

	if m := dayHeaderBareRe.FindStringSubmatch(line); m != nil {
		if weekday, ok := weekdayByName(m[1]); ok {
			offset := (int(weekday) - int(ctx.Weekday()) + 7) % 7
			return ctx.AddDate(0, 0, offset), true
		}
	}

	return time.Time{}, false
}

// parseShowLine recognizes a "time - title" line, normalizing the time to
// 24h HH:MM and splitting off host and price annotations.
func parseShowLine(line string) (ParsedShow, bool) {
	var show ParsedShow

	// Chat timestamps carry seconds; schedule times never do
	if chatTimestampRe.MatchString(line) {
		return show, false
	}

	line = leadingBulletRe.ReplaceAllString(line, "")

	m := showLineRe.FindStringSubmatch(line)
	if m == nil {
		return show, false
	}

	startHour, startMin := atoi(m[1]), 0
	if m[2] != "" {
		startMin = atoi(m[2])
	}
	startMeridiem := strings.ToLower(m[3])
	endMeridiem := strings.ToLower(m[6])

	// A bare number with no minutes and no am/pm marker anywhere is not
	// a time ("3 drink minimum")
	if m[2] == "" && startMeridiem == "" && endMeridiem == "" && m[5] == "" {
		return show, false
	}

	// "8-9:30pm" gives the start time its meridiem from the end time
	if startMeridiem == "" {
		startMeridiem = endMeridiem
	}

	normalized, ok := normalizeTime(startHour, startMin, startMeridiem)
	if !ok {
		return show, false
	}
	show.Time = normalized

	title := strings.TrimSpace(m[7])

	for {
		if hm := hostedAnnotationRe.FindStringSubmatch(title); hm != nil {
			show.HostedBy = strings.TrimSpace(hm[1])
			title = strings.TrimSpace(hostedAnnotationRe.ReplaceAllString(title, ""))
			continue
		}
		if pm := priceAnnotationRe.FindStringSubmatch(title); pm != nil {
			show.Price = strings.TrimSpace(pm[1])
			title = strings.TrimSpace(priceAnnotationRe.ReplaceAllString(title, ""))
			continue
		}
		break
	}

	title = strings.TrimSpace(strings.Trim(title, "-–—"))
	title = strings.TrimSpace(title)

	if title == "" || strings.Contains(title, "http") || strings.Contains(title, "www.") {
		return show, false
	}

	// Yoga and workshop listings share the schedule but aren't shows.
	// Jams get miscaught by that filter and must be kept.
	if nonShowRe.MatchString(title) && !jamRe.MatchString(title) {
		return show, false
	}

	show.Title = title
	return show, true
}

// normalizeTime converts a parsed clock reading to 24h "HH:MM".
// 12am maps to 00, 12pm stays 12. Out-of-range readings are invalid.
func normalizeTime(hour, minute int, meridiem string) (string, bool) {
	switch meridiem {
	case "am":
		if hour == 12 {
			hour = 0
		}
	case "pm":
		if hour != 12 {
			hour += 12
		}
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return "", false
	}

	return fmt.Sprintf("%02d:%02d", hour, minute), true
}

var months = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June, "july": time.July,
	"august": time.August, "september": time.September, "october": time.October,
	"november": time.November, "december": time.December,
}

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
	"wednesday": time.Wednesday, "thursday": time.Thursday,
	"friday": time.Friday, "saturday": time.Saturday,
}

func monthByName(name string) (time.Month, bool) {
	name = strings.ToLower(name)
	if month, ok := months[name]; ok {
		return month, true
	}
	if len(name) >= 3 {
		for full, month := range months {
			if strings.HasPrefix(full, name) {
				return month, true
			}
		}
	}
	return 0, false
}

func weekdayByName(name string) (time.Weekday, bool) {
	name = strings.ToLower(name)
	if weekday, ok := weekdays[name]; ok {
		return weekday, true
	}
	if len(name) >= 3 {
		for full, weekday := range weekdays {
			if strings.HasPrefix(full, name) {
				return weekday, true
			}
		}
	}
	return 0, false
}
