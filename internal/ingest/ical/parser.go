// Package ical ingests the venue's published iCalendar feed, the most
// trusted source of show data.
package ical

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
)

// Event is one VEVENT from a calendar feed.
type Event struct {
	UID         string
	Start       time.Time
	AllDay      bool
	Summary     string
	Description string
	URL         string
	Location    string
}

// ParseCalendar reads an iCalendar stream and returns its events.
// Folded lines are unfolded per RFC 5545; properties outside VEVENT
// blocks and unknown properties are ignored. Events without a parsable
// DTSTART are skipped.
func ParseCalendar(r io.Reader) ([]Event, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	// Unfold: a line starting with space or tab continues the previous
	var lines []string
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if len(lines) > 0 && (strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")) {
			lines[len(lines)-1] += line[1:]
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading calendar: %w", err)
	}

	var events []Event
	var current *Event

	for _, line := range lines {
		name, params, value := splitProperty(line)

		switch name {
		case "BEGIN":
			if strings.EqualFold(value, "VEVENT") {
				current = &Event{}
			}
			continue
		case "END":
			if strings.EqualFold(value, "VEVENT") && current != nil {
				if !current.Start.IsZero() {
					events = append(events, *current)
				}
				current = nil
			}
			continue
		}

		if current == nil {
			continue
		}

		switch name {
		case "UID":
			current.UID = value
		case "DTSTART":
			start, allDay, err := parseDateTime(value, params)
			if err == nil {
				current.Start = start
				current.AllDay = allDay
			}
		case "SUMMARY":
			current.Summary = unescapeText(value)
		case "DESCRIPTION":
			current.Description = unescapeText(value)
		case "URL":
			current.URL = value
		case "LOCATION":
			current.Location = unescapeText(value)
		}
	}

	return events, nil
}

// splitProperty breaks "NAME;PARAM=V;PARAM=V:value" into its parts.
// The name is uppercased; params keep their raw KEY=VALUE form.
func splitProperty(line string) (name string, params map[string]string, value string) {
	colon := strings.Index(line, ":")
	if colon < 0 {
		return strings.ToUpper(line), nil, ""
	}
	head := line[:colon]
	value = line[colon+1:]

	parts := strings.Split(head, ";")
	name = strings.ToUpper(parts[0])
	if len(parts) > 1 {
		params = make(map[string]string, len(parts)-1)
		for _, p := range parts[1:] {
			if eq := strings.Index(p, "="); eq > 0 {
				params[strings.ToUpper(p[:eq])] = strings.Trim(p[eq+1:], `"`)
			}
		}
	}
	return name, params, value
}

// parseDateTime handles the three DTSTART shapes the feed uses:
// UTC ("20250110T200000Z"), local with TZID, and all-day VALUE=DATE.
func parseDateTime(value string, params map[string]string) (time.Time, bool, error) {
	if params["VALUE"] == "DATE" || (len(value) == 8 && !strings.Contains(value, "T")) {
		t, err := time.ParseInLocation("20060102", value, time.Local)
		return t, true, err
	}

	if strings.HasSuffix(value, "Z") {
		t, err := time.Parse("20060102T150405Z", value)
		return t, false, err
	}

	loc := time.Local
	if tzid := params["TZID"]; tzid != "" {
		if parsed, err := time.LoadLocation(tzid); err == nil {
			loc = parsed
		}
	}
	t, err := time.ParseInLocation("20060102T150405", value, loc)
	return t, false, err
}

// unescapeText undoes RFC 5545 TEXT escaping.
func unescapeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			switch s[i] {
			case 'n', 'N':
				b.WriteByte('\n')
			case ',', ';', '\\':
				b.WriteByte(s[i])
			default:
				b.WriteByte('\\')
				b.WriteByte(s[i])
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
