package lineup

import (
	"log"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Result is the lineup extracted from one event page.
// Hosts is always a subset of Performers.
type Result struct {
	Performers []string `json:"performers"`
	Hosts      []string `json:"hosts"`
	RawContent string   `json:"raw_content"`
}

// cardSelectors identify structured performer cards, tried in order.
// The first selector with hits wins.
var cardSelectors = []string{
	".ccb-performers-card",
	"[class*='performers-card']",
	"[class*='performer-card']",
}

// descriptionSelectors locate the event's main description block.
var descriptionSelectors = []string{
	".eventitem-column-content",
	".event-description",
	"[class*='event-description']",
	"article",
	"main",
}

var cardNameSelector = "h1, h2, h3, h4, .performer-name, .name, figcaption"

var leadingBullets = regexp.MustCompile(`^[\s\-–—•*·]+`)
var parenthetical = regexp.MustCompile(`\([^)]*\)`)

// ParseLineup extracts the performer lineup from an event page.
//
// Primary path: structured performer cards in the markup. Card data is
// far more reliable than text patterns, so when at least one card is
// found the card-derived lineup is returned as-is and the text fallback
// never runs. Fallback path: name extraction over the description text
// plus a scan of its list items.
//
// Never fails: empty or malformed HTML degrades to an empty Result.
func ParseLineup(html string) *Result {
	result := &Result{Performers: []string{}, Hosts: []string{}}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return result
	}

	description := findDescription(doc)
	result.RawContent = description

	// Primary path: performer cards
	if performers := parseCards(doc); len(performers) > 0 {
		result.Performers = performers
		if strings.Contains(strings.ToLower(description), "host") {
			result.Hosts = matchHosts(ExtractNameStrings(description), performers)
		}
		return result
	}

	// Fallback path: text patterns + list items
	parseFallback(doc, description, result)

	return result
}

// ParseLineupDebug is ParseLineup with per-step logging for crawl triage.
func ParseLineupDebug(html string) *Result {
	result := ParseLineup(html)
	log.Printf("[lineup] performers=%d hosts=%d raw=%d bytes",
		len(result.Performers), len(result.Hosts), len(result.RawContent))
	return result
}

// parseCards extracts names from structured performer-card blocks.
func parseCards(doc *goquery.Document) []string {
	var performers []string
	seen := make(map[string]bool)

	for _, selector := range cardSelectors {
		doc.Find(selector).Each(func(i int, card *goquery.Selection) {
			name := cardName(card)
			if name == "" || len(name) >= maxNameLen || seen[name] {
				return
			}
			seen[name] = true
			performers = append(performers, name)
		})

		if len(performers) > 0 {
			break
		}
	}

	return performers
}

// cardName pulls the name label out of a performer card: a heading or
// name element if present, otherwise the card's own text.
func cardName(card *goquery.Selection) string {
	if label := card.Find(cardNameSelector).First(); label.Length() > 0 {
		return strings.TrimSpace(label.Text())
	}
	return strings.TrimSpace(card.Text())
}

// parseFallback seeds performers from the description text and scans
// list items in the description block.
func parseFallback(doc *goquery.Document, description string, result *Result) {
	performers := []string{}
	hosts := []string{}
	seen := make(map[string]bool)
	seenHost := make(map[string]bool)

	add := func(name string, isHost bool) {
		if name == "" || len(name) >= maxNameLen {
			return
		}
		if !seen[name] {
			seen[name] = true
			performers = append(performers, name)
		}
		if isHost && !seenHost[name] {
			seenHost[name] = true
			hosts = append(hosts, name)
		}
	}

	for _, name := range ExtractNameStrings(description) {
		add(name, false)
	}

	descriptionBlock(doc).Find("ul li, ol li").Each(func(i int, item *goquery.Selection) {
		text := strings.TrimSpace(item.Text())
		if text == "" || strings.Contains(text, "http") || strings.Contains(text, "www.") {
			return
		}

		if strings.Contains(strings.ToLower(text), "host") {
			for _, name := range ExtractNameStrings(text) {
				add(name, true)
			}
			return
		}

		cleaned := parenthetical.ReplaceAllString(text, "")
		cleaned = leadingBullets.ReplaceAllString(cleaned, "")
		cleaned = strings.TrimSpace(cleaned)
		add(cleaned, false)
	})

	result.Performers = performers
	result.Hosts = hosts
}

// matchHosts returns the card performers that an extracted name resolves
// to, using the same normalization rules as registry matching.
func matchHosts(extracted, performers []string) []string {
	hosts := []string{}
	seen := make(map[string]bool)

	for _, name := range extracted {
		normalized := NormalizeName(name)
		if normalized == "" {
			continue
		}
		for _, performer := range performers {
			if seen[performer] {
				continue
			}
			performerNorm := NormalizeName(performer)
			if performerNorm == normalized ||
				(len(normalized) >= minMatchLen &&
					(strings.Contains(performerNorm, normalized) || strings.Contains(normalized, performerNorm))) {
				seen[performer] = true
				hosts = append(hosts, performer)
			}
		}
	}

	return hosts
}

// findDescription returns the as-found text of the event's description
// block, or "" when no such block exists.
func findDescription(doc *goquery.Document) string {
	for _, selector := range descriptionSelectors {
		if block := doc.Find(selector).First(); block.Length() > 0 {
			return strings.TrimSpace(block.Text())
		}
	}
	if body := doc.Find("body").First(); body.Length() > 0 {
		return strings.TrimSpace(body.Text())
	}
	return ""
}

// descriptionBlock returns the selection holding the description, falling
// back to the document body.
func descriptionBlock(doc *goquery.Document) *goquery.Selection {
	for _, selector := range descriptionSelectors {
		if block := doc.Find(selector).First(); block.Length() > 0 {
			return block
		}
	}
	return doc.Find("body")
}
