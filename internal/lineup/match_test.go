package lineup

import (
	"testing"

	"github.com/tlebon/ccb-dashboard/internal/store"
)

func registryOf(names ...string) []*store.Performer {
	registry := make([]*store.Performer, len(names))
	for i, name := range names {
		registry[i] = &store.Performer{PerformerID: i + 1, Name: name}
	}
	return registry
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Joshua Telson", "joshua telson"},
		{"  JOSHUA   TELSON  ", "joshua telson"},
		{"O'Brien", "obrien"},
		{"Jean-Luc", "jean-luc"},
		{"Name123", "name"},
		// Accented characters are stripped, not folded
		{"María", "mara"},
		{"Maria", "maria"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := NormalizeName(tt.input)
			if got != tt.expected {
				t.Errorf("NormalizeName(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestMatchPerformersExact(t *testing.T) {
	registry := registryOf("Joshua Telson", "Anita Waltho")

	matched := MatchPerformers([]string{"Joshua Telson"}, registry)
	if len(matched) != 1 || matched[0].Name != "Joshua Telson" {
		t.Fatalf("expected exact match, got %v", matched)
	}
}

func TestMatchPerformersSubstring(t *testing.T) {
	registry := registryOf("Joshua Telson")

	// "Josh Telson" is not a substring of "Joshua Telson" in either
	// direction, so no match
	matched := MatchPerformers([]string{"Josh Telson"}, registry)
	if len(matched) != 0 {
		t.Errorf("expected no match for non-contained name, got %v", matched)
	}

	// "Joshua" is contained in "Joshua Telson" and is long enough
	matched = MatchPerformers([]string{"Joshua"}, registry)
	if len(matched) != 1 {
		t.Errorf("expected containment match for Joshua, got %v", matched)
	}
}

func TestMatchPerformersShortNamesNeverMatch(t *testing.T) {
	registry := registryOf("Joshua Telson", "Jordan Smith", "Joan Rivers")

	matched := MatchPerformers([]string{"Jo"}, registry)
	if len(matched) != 0 {
		t.Errorf("two-letter name must never match, got %v", matched)
	}
}

func TestMatchPerformersNoDoubleAssign(t *testing.T) {
	registry := registryOf("Joshua Telson")

	// Both extracted names could match the single registry entry; the
	// id must be handed out only once
	matched := MatchPerformers([]string{"Joshua Telson", "Telson"}, registry)
	if len(matched) != 1 {
		t.Fatalf("registry entry assigned %d times, expected once", len(matched))
	}
}

func TestMatchPerformersEmptyInputs(t *testing.T) {
	if got := MatchPerformers(nil, registryOf("A Person")); len(got) != 0 {
		t.Errorf("expected empty result for no names, got %v", got)
	}
	if got := MatchPerformers([]string{"A Person"}, nil); len(got) != 0 {
		t.Errorf("expected empty result for empty registry, got %v", got)
	}
}

func TestResolveNamesAmbiguous(t *testing.T) {
	registry := registryOf("Maria Keller", "Maria Santos")

	results := ResolveNames([]string{"Maria"}, registry)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	result := results[0]
	if result.Outcome != OutcomeAmbiguous {
		t.Fatalf("expected ambiguous outcome, got %s", result.Outcome)
	}
	if len(result.Candidates) != 2 {
		t.Errorf("expected 2 candidates, got %d", len(result.Candidates))
	}
	if result.Performer != nil {
		t.Error("ambiguous result must not pick a winner")
	}
}

func TestResolveNamesOrderAndOutcomes(t *testing.T) {
	registry := registryOf("Noah Telson", "Anita Waltho", "Georgia Riungu")

	text := "House Show is our weekly show! Coached by Noah Telson\nTeam members are: Anita Waltho, Georgia Riungu and others."
	names := ExtractNameStrings(text)

	matched := MatchPerformers(names, registry)
	if len(matched) != 3 {
		t.Fatalf("expected all 3 registry entries matched, got %d", len(matched))
	}
	if matched[0].Name != "Noah Telson" || matched[1].Name != "Anita Waltho" || matched[2].Name != "Georgia Riungu" {
		t.Errorf("unexpected match order: %v, %v, %v", matched[0].Name, matched[1].Name, matched[2].Name)
	}
}
