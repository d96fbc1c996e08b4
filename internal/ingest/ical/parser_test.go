package ical

import (
	"strings"
	"testing"
	"time"
)

const sampleFeed = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//Test//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:show-1@example.com\r\n" +
	"DTSTART;TZID=Europe/Berlin:20250110T200000\r\n" +
	"SUMMARY:House Show\\, Special Edition\r\n" +
	"DESCRIPTION:Line one\\nLine two\r\n" +
	"URL:https://example.com/house-show\r\n" +
	"LOCATION:Comedy Cafe Berlin\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:show-2@example.com\r\n" +
	"DTSTART;VALUE=DATE:20250111\r\n" +
	"SUMMARY:This summary is folded across two\r\n" +
	"  physical lines\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:no-start@example.com\r\n" +
	"SUMMARY:Broken event\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func TestParseCalendar(t *testing.T) {
	events, err := ParseCalendar(strings.NewReader(sampleFeed))
	if err != nil {
		t.Fatalf("ParseCalendar: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events (one has no DTSTART), got %d", len(events))
	}

	first := events[0]
	if first.UID != "show-1@example.com" {
		t.Errorf("uid = %q", first.UID)
	}
	if first.Summary != "House Show, Special Edition" {
		t.Errorf("escaped comma not unescaped: %q", first.Summary)
	}
	if first.Description != "Line one\nLine two" {
		t.Errorf("escaped newline not unescaped: %q", first.Description)
	}
	if first.AllDay {
		t.Error("timed event flagged all-day")
	}

	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatalf("loading timezone: %v", err)
	}
	expected := time.Date(2025, time.January, 10, 20, 0, 0, 0, berlin)
	if !first.Start.Equal(expected) {
		t.Errorf("start = %v, expected %v", first.Start, expected)
	}

	second := events[1]
	if !second.AllDay {
		t.Error("VALUE=DATE event not flagged all-day")
	}
	if second.Summary != "This summary is folded across two physical lines" {
		t.Errorf("folded line not unfolded: %q", second.Summary)
	}
	if second.Start.Day() != 11 {
		t.Errorf("all-day start = %v", second.Start)
	}
}

func TestParseCalendarUTC(t *testing.T) {
	feed := "BEGIN:VCALENDAR\r\nBEGIN:VEVENT\r\nUID:u\r\n" +
		"DTSTART:20250110T190000Z\r\nSUMMARY:UTC Show\r\nEND:VEVENT\r\nEND:VCALENDAR\r\n"
	events, err := ParseCalendar(strings.NewReader(feed))
	if err != nil {
		t.Fatalf("ParseCalendar: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	expected := time.Date(2025, time.January, 10, 19, 0, 0, 0, time.UTC)
	if !events[0].Start.Equal(expected) {
		t.Errorf("start = %v, expected %v", events[0].Start, expected)
	}
}

func TestParseCalendarEmpty(t *testing.T) {
	events, err := ParseCalendar(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ParseCalendar: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected no events, got %d", len(events))
	}
}

func TestShowFromEvent(t *testing.T) {
	berlin, _ := time.LoadLocation("Europe/Berlin")
	show, ok := showFromEvent(Event{
		UID:     "show-1",
		Summary: "House Show",
		Start:   time.Date(2025, time.January, 10, 20, 0, 0, 0, berlin),
		URL:     "https://example.com",
	})
	if !ok {
		t.Fatal("expected a show")
	}
	if show.Source != "ical" {
		t.Errorf("source = %q", show.Source)
	}
	if !show.Time.Valid {
		t.Error("timed event must carry a time")
	}

	if _, ok := showFromEvent(Event{Summary: "no uid", Start: time.Now()}); ok {
		t.Error("event without UID must be skipped")
	}

	allDay, ok := showFromEvent(Event{
		UID: "d", Summary: "All Day", AllDay: true,
		Start: time.Date(2025, time.January, 11, 0, 0, 0, 0, time.Local),
	})
	if !ok || allDay.Time.Valid {
		t.Errorf("all-day event must have a null time: %+v", allDay)
	}
}
