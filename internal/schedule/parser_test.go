package schedule

import (
	"testing"
	"time"
)

func newTestParser(dialect Dialect) *Parser {
	p := NewParser(dialect)
	// Monday, January 6th 2025
	p.SetReference(time.Date(2025, time.January, 6, 0, 0, 0, 0, time.Local))
	return p
}

func TestParsePlainDayHeaderAndShowLine(t *testing.T) {
	p := newTestParser(PlainDialect{})

	shows := p.Parse("Friday, January 10th\n8:00pm - Show Title (Hosted by X)\n")
	if len(shows) != 1 {
		t.Fatalf("expected 1 show, got %d: %v", len(shows), shows)
	}

	show := shows[0]
	if show.Date != "2025-01-10" {
		t.Errorf("date = %s, expected 2025-01-10", show.Date)
	}
	if show.DayOfWeek != "Friday" {
		t.Errorf("day of week = %s, expected Friday", show.DayOfWeek)
	}
	if show.Time != "20:00" {
		t.Errorf("time = %s, expected 20:00", show.Time)
	}
	if show.Title != "Show Title" {
		t.Errorf("title = %q, expected Show Title", show.Title)
	}
	if show.HostedBy != "X" {
		t.Errorf("hosted by = %q, expected X", show.HostedBy)
	}
}

func TestParseDayHeaderShapes(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected string
	}{
		{"weekday comma month day", "Friday, January 10th", "2025-01-10"},
		{"weekday month day no suffix", "Friday January 10", "2025-01-10"},
		{"uppercase day before month", "FRIDAY 10th January", "2025-01-10"},
		{"day before month plain", "Friday 10 January", "2025-01-10"},
		{"bare weekday", "Friday", "2025-01-10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestParser(PlainDialect{})
			shows := p.Parse(tt.header + "\n8pm - Test Show\n")
			if len(shows) != 1 {
				t.Fatalf("expected 1 show, got %d", len(shows))
			}
			if shows[0].Date != tt.expected {
				t.Errorf("date = %s, expected %s", shows[0].Date, tt.expected)
			}
		})
	}
}

func TestParseBareWeekdayNeverGoesBackward(t *testing.T) {
	// Reference is Monday Jan 6. "Monday" must resolve to the reference
	// day itself, and "Sunday" to Jan 12, not backward to Jan 5.
	p := newTestParser(PlainDialect{})
	shows := p.Parse("Monday\n8pm - First\nSunday\n8pm - Second\n")
	if len(shows) != 2 {
		t.Fatalf("expected 2 shows, got %d: %v", len(shows), shows)
	}
	if shows[0].Date != "2025-01-06" {
		t.Errorf("same weekday should resolve to the context date, got %s", shows[0].Date)
	}
	if shows[1].Date != "2025-01-12" {
		t.Errorf("Sunday after Monday Jan 6 should be Jan 12, got %s", shows[1].Date)
	}
}

func TestParseTimeNormalization(t *testing.T) {
	tests := []struct {
		line     string
		expected string // "" means the line must be dropped
	}{
		{"8:00pm - Show", "20:00"},
		{"8pm - Show", "20:00"},
		{"12:30am - Show", "00:30"},
		{"12:15pm - Show", "12:15"},
		{"20:00 Show", "20:00"},
		{"8.30pm - Show", "20:30"},
		{"8:00-9:30pm Show", "20:00"},
		{"8:00pm-10:00pm Show", "20:00"},
		{"25:00 Show", ""},
		{"8:75pm - Show", ""},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			p := newTestParser(PlainDialect{})
			shows := p.Parse("Friday\n" + tt.line + "\n")
			if tt.expected == "" {
				if len(shows) != 0 {
					t.Fatalf("expected line to be dropped, got %v", shows)
				}
				return
			}
			if len(shows) != 1 {
				t.Fatalf("expected 1 show, got %d", len(shows))
			}
			if shows[0].Time != tt.expected {
				t.Errorf("time = %s, expected %s", shows[0].Time, tt.expected)
			}
		})
	}
}

func TestParseAnnotations(t *testing.T) {
	p := newTestParser(PlainDialect{})
	shows := p.Parse("Friday\n8pm - Improv Jam (Free)\n9:30pm - Main Show (5€) (Hosted by Dana Lee)\n")
	if len(shows) != 2 {
		t.Fatalf("expected 2 shows, got %d: %v", len(shows), shows)
	}

	if shows[0].Title != "Improv Jam" || shows[0].Price != "Free" {
		t.Errorf("jam parsed as %+v", shows[0])
	}
	if shows[1].Title != "Main Show" || shows[1].Price != "5€" || shows[1].HostedBy != "Dana Lee" {
		t.Errorf("main show parsed as %+v", shows[1])
	}
}

func TestParseRejectsNonShowLines(t *testing.T) {
	p := newTestParser(PlainDialect{})
	text := `Friday
8pm - https://example.com/tickets
7pm - Morning Yoga Class
6pm - Yoga Jam
10:15:30 nonsense
8pm - Real Show
`
	shows := p.Parse(text)
	if len(shows) != 2 {
		t.Fatalf("expected 2 shows, got %d: %v", len(shows), shows)
	}
	if shows[0].Title != "Yoga Jam" {
		t.Errorf("jams must survive the yoga/workshop filter, got %q", shows[0].Title)
	}
	if shows[1].Title != "Real Show" {
		t.Errorf("expected Real Show, got %q", shows[1].Title)
	}
}

func TestParseShowLineBeforeAnyDayHeaderDropped(t *testing.T) {
	p := newTestParser(PlainDialect{})
	shows := p.Parse("8pm - Orphan Show\n")
	if len(shows) != 0 {
		t.Errorf("show line without a date context must be dropped, got %v", shows)
	}
}

func TestParseDedupAndSort(t *testing.T) {
	p := newTestParser(PlainDialect{})
	text := `Friday
8pm - Friday Show
8pm - Friday Show
Saturday
9pm - Late Show
7pm - Early Show
`
	shows := p.Parse(text)
	if len(shows) != 3 {
		t.Fatalf("expected 3 shows after dedup, got %d: %v", len(shows), shows)
	}
	if shows[0].Date != "2025-01-10" || shows[0].Title != "Friday Show" {
		t.Errorf("first show = %+v", shows[0])
	}
	if shows[1].Title != "Early Show" || shows[2].Title != "Late Show" {
		t.Errorf("shows not sorted by time: %v then %v", shows[1].Title, shows[2].Title)
	}
}

func TestParseWhatsAppDialect(t *testing.T) {
	p := NewParser(WhatsAppDialect{})
	text := `[1/6/25, 20:15:01] Tim: Schedule for the week
[1/6/25, 20:15:09] Tim: Friday
8pm - Improv Jam (Free)
9:30pm - Main Show
[1/6/25, 20:16:00] Tim: <attached: 00000012-PHOTO.jpg>
`
	shows := p.Parse(text)
	if len(shows) != 2 {
		t.Fatalf("expected 2 shows, got %d: %v", len(shows), shows)
	}

	// Message timestamp (Mon Jan 6 2025) anchors the bare "Friday"
	if shows[0].Date != "2025-01-10" {
		t.Errorf("date = %s, expected 2025-01-10", shows[0].Date)
	}
	if shows[0].Title != "Improv Jam" || shows[1].Title != "Main Show" {
		t.Errorf("titles = %q, %q", shows[0].Title, shows[1].Title)
	}
}

func TestParseBeeperDialect(t *testing.T) {
	p := NewParser(BeeperDialect{})
	text := `## January 6, 2025

**Friday**
- 8:00pm - Show Title (5€)
`
	shows := p.Parse(text)
	if len(shows) != 1 {
		t.Fatalf("expected 1 show, got %d: %v", len(shows), shows)
	}
	if shows[0].Date != "2025-01-10" || shows[0].Time != "20:00" || shows[0].Title != "Show Title" {
		t.Errorf("parsed %+v", shows[0])
	}
	if shows[0].Price != "5€" {
		t.Errorf("price = %q, expected 5€", shows[0].Price)
	}
}

func TestDialectByName(t *testing.T) {
	if DialectByName("whatsapp").Name() != "whatsapp" {
		t.Error("whatsapp dialect not resolved")
	}
	if DialectByName("beeper").Name() != "beeper" {
		t.Error("beeper dialect not resolved")
	}
	if DialectByName("anything-else").Name() != "plain" {
		t.Error("unknown names must default to plain")
	}
}
