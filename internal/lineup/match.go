package lineup

import (
	"regexp"
	"strings"

	"github.com/tlebon/ccb-dashboard/internal/store"
)

// minMatchLen is the shortest normalized name considered for substring
// matching. Anything shorter ("Jo") would collide with half the registry.
const minMatchLen = 5

var nonNameChars = regexp.MustCompile(`[^a-z\s-]`)
var whitespaceRun = regexp.MustCompile(`\s+`)

// Outcome classifies the result of resolving one extracted name.
type Outcome string

const (
	// OutcomeMatched means exactly one registry entry matched.
	OutcomeMatched Outcome = "matched"

	// OutcomeUnmatched means no registry entry matched.
	OutcomeUnmatched Outcome = "unmatched"

	// OutcomeAmbiguous means more than one registry entry matched and
	// the caller must not guess which one was meant.
	OutcomeAmbiguous Outcome = "ambiguous"
)

// MatchResult holds the outcome of resolving one extracted name against
// the registry.
type MatchResult struct {
	Name       string
	Outcome    Outcome
	Performer  *store.Performer   // set when Outcome is OutcomeMatched
	Candidates []*store.Performer // set when Outcome is OutcomeAmbiguous
}

// NormalizeName produces the matching key for a display name: lowercase,
// strip everything outside [a-z\s-], collapse whitespace, trim.
// Accented characters are dropped, not folded: "María" becomes "mara".
// That asymmetry is long-standing behavior the registry data relies on.
func NormalizeName(s string) string {
	normalized := strings.ToLower(s)
	normalized = nonNameChars.ReplaceAllString(normalized, "")
	normalized = whitespaceRun.ReplaceAllString(normalized, " ")
	return strings.TrimSpace(normalized)
}

// ResolveNames resolves each extracted name against the registry in order.
// A registry entry is assigned to at most one name: once matched, it is
// not considered for later names. Names whose normalized form is shorter
// than five characters never match. When several registry entries match a
// name equally well, the result is ambiguous rather than a guess.
func ResolveNames(names []string, registry []*store.Performer) []MatchResult {
	results := make([]MatchResult, 0, len(names))
	used := make(map[int]bool)

	for _, name := range names {
		result := resolveOne(name, registry, used)
		if result.Outcome == OutcomeMatched {
			used[result.Performer.PerformerID] = true
		}
		results = append(results, result)
	}

	return results
}

// MatchPerformers resolves names against the registry and returns the
// unambiguously matched entries, ordered by which extracted name resolved
// first. Ambiguous and unmatched names are skipped.
func MatchPerformers(names []string, registry []*store.Performer) []*store.Performer {
	var matched []*store.Performer
	for _, result := range ResolveNames(names, registry) {
		if result.Outcome == OutcomeMatched {
			matched = append(matched, result.Performer)
		}
	}
	return matched
}

func resolveOne(name string, registry []*store.Performer, used map[int]bool) MatchResult {
	result := MatchResult{Name: name, Outcome: OutcomeUnmatched}

	normalized := NormalizeName(name)
	if normalized == "" {
		return result
	}

	// Exact match on normalized names
	var exact []*store.Performer
	for _, entry := range registry {
		if used[entry.PerformerID] {
			continue
		}
		if NormalizeName(entry.Name) == normalized {
			exact = append(exact, entry)
		}
	}
	if outcome := classify(&result, exact); outcome {
		return result
	}

	// Substring containment either direction, for names long enough to
	// make containment meaningful
	if len(normalized) < minMatchLen {
		return result
	}

	var partial []*store.Performer
	for _, entry := range registry {
		if used[entry.PerformerID] {
			continue
		}
		entryNorm := NormalizeName(entry.Name)
		if entryNorm == "" {
			continue
		}
		if strings.Contains(entryNorm, normalized) || strings.Contains(normalized, entryNorm) {
			partial = append(partial, entry)
		}
	}
	classify(&result, partial)

	return result
}

// classify fills the result from a candidate set and reports whether the
// set was decisive (one or more candidates).
func classify(result *MatchResult, candidates []*store.Performer) bool {
	switch len(candidates) {
	case 0:
		return false
	case 1:
		result.Outcome = OutcomeMatched
		result.Performer = candidates[0]
	default:
		result.Outcome = OutcomeAmbiguous
		result.Candidates = candidates
	}
	return true
}
