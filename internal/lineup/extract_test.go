package lineup

import (
	"reflect"
	"testing"
)

func TestExtractNameStrings(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "cast list with and",
			text:     "Cast: Alice Smith, Bob Jones and Carol White.",
			expected: []string{"Alice Smith", "Bob Jones", "Carol White"},
		},
		{
			name:     "single letters",
			text:     "Cast: A, B and C.",
			expected: []string{"A", "B", "C"},
		},
		{
			name:     "no recognized pattern",
			text:     "Doors open at 7pm, drinks at the bar.",
			expected: []string{},
		},
		{
			name:     "empty input",
			text:     "",
			expected: []string{},
		},
		{
			name:     "hosted by",
			text:     "An open mic night. Hosted by Dana Lee.",
			expected: []string{"Dana Lee"},
		},
		{
			name:     "team members with colon",
			text:     "Team members are: Anita Waltho, Georgia Riungu and others.",
			expected: []string{"Anita Waltho", "Georgia Riungu", "others"},
		},
		{
			name:     "section stops at sentence boundary",
			text:     "Starring: Eve Adams. Tickets at the door.",
			expected: []string{"Eve Adams"},
		},
		{
			name:     "section stops at newline",
			text:     "Lineup: Frank Ocean\nDoors at 8",
			expected: []string{"Frank Ocean"},
		},
		{
			name:     "parenthetical pieces dropped",
			text:     "Featuring: Grace Hopper (special guest), Alan Kay",
			expected: []string{"Alan Kay"},
		},
		{
			name:     "deduplicates preserving first appearance",
			text:     "Hosted by Dana Lee. Cast: Dana Lee, Erik Chen.",
			expected: []string{"Dana Lee", "Erik Chen"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractNameStrings(tt.text)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("ExtractNameStrings(%q) = %v, expected %v", tt.text, got, tt.expected)
			}
		})
	}
}

func TestExtractNameStringsTextOrder(t *testing.T) {
	// "Coached by" appears before "Team members are" in the text, so the
	// coach's name must come first regardless of pattern class.
	text := "House Show is our weekly show! Coached by Noah Telson\nTeam members are: Anita Waltho, Georgia Riungu and others."

	got := ExtractNameStrings(text)
	if len(got) < 3 {
		t.Fatalf("expected at least 3 names, got %v", got)
	}
	if got[0] != "Noah Telson" || got[1] != "Anita Waltho" || got[2] != "Georgia Riungu" {
		t.Errorf("expected [Noah Telson Anita Waltho Georgia Riungu ...], got %v", got)
	}
}

func TestExtractNameStringsRejectsLongAndParenStrings(t *testing.T) {
	text := "Cast: " +
		"This is a very long run of prose that clearly is not anyones name at all here, " +
		"Short Name, Weird (Asterisk) Entry"

	got := ExtractNameStrings(text)
	for _, name := range got {
		if len(name) >= 50 {
			t.Errorf("result contains %d-char string: %q", len(name), name)
		}
		if containsRune(name, '(') {
			t.Errorf("result contains parenthesis: %q", name)
		}
	}
	if len(got) != 1 || got[0] != "Short Name" {
		t.Errorf("expected [Short Name], got %v", got)
	}
}

func TestExtractNameStringsHostedByBounded(t *testing.T) {
	// The hosted-by section is length-bounded so a missing sentence
	// boundary cannot capture a whole paragraph.
	text := "Hosted by " +
		"someone whose description rambles on without punctuation for well over one hundred characters in total " +
		"which should be cut off long before this point"

	for _, name := range ExtractNameStrings(text) {
		if len(name) >= 50 {
			t.Errorf("unbounded capture leaked through: %q", name)
		}
	}
}

func containsRune(s string, r rune) bool {
	for _, c := range s {
		if c == r {
			return true
		}
	}
	return false
}
