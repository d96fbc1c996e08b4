// Package lineup extracts performer names from event pages and free text
// and resolves them against the performer registry.
package lineup

import (
	"regexp"
	"strings"
)

// maxNameLen rejects strings that are almost certainly captured prose,
// not a person's name.
const maxNameLen = 50

// maxPersonSectionLen bounds the text captured after single-person
// patterns like "hosted by" so a match never runs away into a paragraph.
const maxPersonSectionLen = 100

// listPatterns introduce a list of names ("Cast: A, B and C").
var listPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)actual cast:`),
	regexp.MustCompile(`(?i)team members are:?`),
	regexp.MustCompile(`(?i)regular cast is`),
	regexp.MustCompile(`(?i)cast is`),
	regexp.MustCompile(`(?i)cast:`),
	regexp.MustCompile(`(?i)performers?:`),
	regexp.MustCompile(`(?i)starring:`),
	regexp.MustCompile(`(?i)featuring:`),
	regexp.MustCompile(`(?i)lineup:`),
}

// personPatterns introduce one or two names and are length-bounded.
var personPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)hosted by:?`),
	regexp.MustCompile(`(?i)coached by`),
}

var andSplitter = regexp.MustCompile(`\s+and\s+`)

type patternMatch struct {
	start   int
	end     int
	bounded bool
}

// ExtractNameStrings pulls candidate person-name strings out of free-form
// descriptive text. Matches are processed in the order they appear in the
// text, so "Coached by X" before "Team members are: Y" yields X first.
// Returns an empty slice for empty or pattern-free input. Pure function.
func ExtractNameStrings(text string) []string {
	if text == "" {
		return []string{}
	}

	var matches []patternMatch
	for _, re := range listPatterns {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			matches = append(matches, patternMatch{start: loc[0], end: loc[1]})
		}
	}
	for _, re := range personPatterns {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			matches = append(matches, patternMatch{start: loc[0], end: loc[1], bounded: true})
		}
	}

	// Process name sections in text order
	sortMatches(matches)

	names := []string{}
	seen := make(map[string]bool)
	for _, m := range matches {
		section := nameSection(text, m)
		for _, name := range splitNames(section) {
			if seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
	}

	return names
}

// nameSection returns the substring from the end of a matched pattern up
// to the next sentence boundary: a period followed by whitespace, a
// newline, or end of input.
func nameSection(text string, m patternMatch) string {
	rest := text[m.end:]

	end := len(rest)
	for i := 0; i < len(rest); i++ {
		if rest[i] == '\n' {
			end = i
			break
		}
		if rest[i] == '.' && (i+1 == len(rest) || isSpace(rest[i+1])) {
			end = i
			break
		}
	}

	if m.bounded && end > maxPersonSectionLen {
		end = maxPersonSectionLen
	}

	return rest[:end]
}

// splitNames splits a name section on commas and the word "and", then
// cleans each piece. Pieces containing parentheses or running to name-like
// lengths are discarded.
func splitNames(section string) []string {
	var names []string
	for _, commaPart := range strings.Split(section, ",") {
		for _, part := range andSplitter.Split(commaPart, -1) {
			name := strings.TrimSpace(part)
			name = strings.TrimRight(name, ".!?")
			name = strings.TrimSpace(name)

			if name == "" || strings.Contains(name, "(") || len(name) >= maxNameLen {
				continue
			}
			names = append(names, name)
		}
	}
	return names
}

func sortMatches(matches []patternMatch) {
	// Insertion sort: match lists are tiny
	for i := 1; i < len(matches); i++ {
		for j := i; j > 0 && matches[j].start < matches[j-1].start; j-- {
			matches[j], matches[j-1] = matches[j-1], matches[j]
		}
	}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
