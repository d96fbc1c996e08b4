package dedupe

import (
	"database/sql"
	"testing"
	"time"

	"github.com/tlebon/ccb-dashboard/internal/store"
)

func testShow(id int, title, source, date, clock string) *store.Show {
	day, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		panic(err)
	}
	show := &store.Show{ShowID: id, Title: title, Source: source, Date: day}
	if clock != "" {
		show.Time = sql.NullString{String: clock, Valid: true}
	}
	return show
}

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"House Show", "house show"},
		{"House  Show!", "house show"},
		{"HOUSE-SHOW: Special", "house show special"},
		{"  trim me  ", "trim me"},
		{"!!!", ""},
	}
	for _, tt := range tests {
		if got := NormalizeTitle(tt.in); got != tt.expected {
			t.Errorf("NormalizeTitle(%q) = %q, expected %q", tt.in, got, tt.expected)
		}
	}
}

func TestSourceRank(t *testing.T) {
	if SourceRank(store.SourceICal) >= SourceRank(store.SourceManual) {
		t.Error("ical must outrank manual")
	}
	if SourceRank(store.SourceSchedule) >= SourceRank(store.SourceBeeper) {
		t.Error("schedule must outrank beeper")
	}
	if SourceRank("something-new") != SourceRank(store.SourceSchedule) {
		t.Error("unknown sources must rank with schedule")
	}
}

func TestIsDuplicate(t *testing.T) {
	tests := []struct {
		name     string
		a, b     *store.Show
		expected bool
	}{
		{
			"identical",
			testShow(1, "House Show", store.SourceICal, "2025-01-10", "20:00"),
			testShow(2, "House Show", store.SourceSchedule, "2025-01-10", "20:00"),
			true,
		},
		{
			"title containment",
			testShow(1, "House Show", store.SourceICal, "2025-01-10", "20:00"),
			testShow(2, "House Show: Special", store.SourceSchedule, "2025-01-10", "20:00"),
			true,
		},
		{
			"one day apart",
			testShow(1, "House Show", store.SourceICal, "2025-01-10", "20:00"),
			testShow(2, "House Show", store.SourceSchedule, "2025-01-11", "20:00"),
			true,
		},
		{
			"two days apart",
			testShow(1, "House Show", store.SourceICal, "2025-01-10", "20:00"),
			testShow(2, "House Show", store.SourceSchedule, "2025-01-12", "20:00"),
			false,
		},
		{
			"different times",
			testShow(1, "House Show", store.SourceICal, "2025-01-10", "20:00"),
			testShow(2, "House Show", store.SourceSchedule, "2025-01-10", "21:30"),
			false,
		},
		{
			"both times unknown",
			testShow(1, "House Show", store.SourceICal, "2025-01-10", ""),
			testShow(2, "House Show", store.SourceSchedule, "2025-01-10", ""),
			true,
		},
		{
			"known vs unknown time",
			testShow(1, "House Show", store.SourceICal, "2025-01-10", "20:00"),
			testShow(2, "House Show", store.SourceSchedule, "2025-01-10", ""),
			false,
		},
		{
			"unrelated titles",
			testShow(1, "House Show", store.SourceICal, "2025-01-10", "20:00"),
			testShow(2, "Open Mic", store.SourceSchedule, "2025-01-10", "20:00"),
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDuplicate(tt.a, tt.b); got != tt.expected {
				t.Errorf("IsDuplicate = %v, expected %v", got, tt.expected)
			}
			if got := IsDuplicate(tt.b, tt.a); got != tt.expected {
				t.Errorf("IsDuplicate reversed = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestMergeShowsKeepsBestSource(t *testing.T) {
	schedule := testShow(1, "House Show: Special", store.SourceSchedule, "2025-01-10", "20:00")
	schedule.Description = sql.NullString{String: "From the weekly schedule", Valid: true}
	schedule.Price = sql.NullString{String: "5€", Valid: true}

	ical := testShow(2, "House Show", store.SourceICal, "2025-01-10", "20:00")
	ical.URL = sql.NullString{String: "https://example.com/house-show", Valid: true}

	other := testShow(3, "Open Mic", store.SourceBeeper, "2025-01-10", "22:00")

	groups := MergeShows([]*store.Show{schedule, ical, other})
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}

	merged := groups[0]
	if merged.Primary.ShowID != 2 {
		t.Fatalf("ical record must win, got show %d from %s", merged.Primary.ShowID, merged.Primary.Source)
	}
	if len(merged.Folded) != 1 || merged.Folded[0].ShowID != 1 {
		t.Errorf("schedule record should fold into the ical one, got %v", merged.Folded)
	}

	// Fields only the duplicate had are absorbed; existing ones stay
	if merged.Primary.Description.String != "From the weekly schedule" {
		t.Errorf("description not absorbed: %+v", merged.Primary.Description)
	}
	if merged.Primary.Price.String != "5€" {
		t.Errorf("price not absorbed: %+v", merged.Primary.Price)
	}
	if merged.Primary.URL.String != "https://example.com/house-show" {
		t.Errorf("primary URL overwritten: %+v", merged.Primary.URL)
	}

	if groups[1].Primary.Title != "Open Mic" || len(groups[1].Folded) != 0 {
		t.Errorf("unrelated show must stay its own group: %+v", groups[1])
	}
}

func TestMergeShowsIdempotent(t *testing.T) {
	first := MergeShows([]*store.Show{
		testShow(1, "House Show", store.SourceICal, "2025-01-10", "20:00"),
		testShow(2, "House Show: Special", store.SourceSchedule, "2025-01-10", "20:00"),
	})
	if len(first) != 1 {
		t.Fatalf("expected 1 group, got %d", len(first))
	}

	second := MergeShows([]*store.Show{first[0].Primary})
	if len(second) != 1 || len(second[0].Folded) != 0 {
		t.Errorf("re-merging merged output must be a no-op, got %+v", second)
	}
	if second[0].Primary.ShowID != first[0].Primary.ShowID {
		t.Errorf("primary changed across merges")
	}
}

func TestMergeShowsInputOrderIrrelevant(t *testing.T) {
	build := func() []*store.Show {
		return []*store.Show{
			testShow(1, "House Show: Special", store.SourceSchedule, "2025-01-10", "20:00"),
			testShow(2, "House Show", store.SourceICal, "2025-01-10", "20:00"),
		}
	}

	forward := MergeShows(build())
	shows := build()
	shows[0], shows[1] = shows[1], shows[0]
	backward := MergeShows(shows)

	if forward[0].Primary.ShowID != backward[0].Primary.ShowID {
		t.Errorf("primary depends on input order: %d vs %d",
			forward[0].Primary.ShowID, backward[0].Primary.ShowID)
	}
}
