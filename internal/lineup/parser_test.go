package lineup

import (
	"reflect"
	"strings"
	"testing"
)

const cardPageHTML = `
<html><body>
<div class="eventitem-column-content">
  <p>Our flagship improv night. Hosted by Alice.</p>
  <div class="ccb-performers-card"><img src="/alice.jpg"><h4>Alice</h4></div>
  <div class="ccb-performers-card"><img src="/bob.jpg"><h4>Bob</h4></div>
</div>
</body></html>`

func TestParseLineupCardPath(t *testing.T) {
	result := ParseLineup(cardPageHTML)

	if !reflect.DeepEqual(result.Performers, []string{"Alice", "Bob"}) {
		t.Errorf("performers = %v, expected [Alice Bob]", result.Performers)
	}
	if !reflect.DeepEqual(result.Hosts, []string{"Alice"}) {
		t.Errorf("hosts = %v, expected [Alice]", result.Hosts)
	}
	if !strings.Contains(result.RawContent, "flagship improv night") {
		t.Errorf("raw content missing description text: %q", result.RawContent)
	}
}

func TestParseLineupCardPathNoHostText(t *testing.T) {
	html := `
<html><body><div class="eventitem-column-content">
  <p>Two improvisers, one show.</p>
  <div class="ccb-performers-card"><img src="/a.jpg"><h4>Alice</h4></div>
  <div class="ccb-performers-card"><img src="/b.jpg"><h4>Bob</h4></div>
</div></body></html>`

	result := ParseLineup(html)
	if !reflect.DeepEqual(result.Performers, []string{"Alice", "Bob"}) {
		t.Errorf("performers = %v, expected [Alice Bob]", result.Performers)
	}
	if len(result.Hosts) != 0 {
		t.Errorf("hosts = %v, expected none", result.Hosts)
	}
}

func TestParseLineupCardPathSkipsFallback(t *testing.T) {
	// The description names people the cards don't; with at least one
	// card present, only card data may be returned.
	html := `
<html><body><div class="eventitem-column-content">
  <p>Cast: Carol, Dave and Erin.</p>
  <ul><li>Mallory</li></ul>
  <div class="ccb-performers-card"><h4>Alice</h4></div>
</div></body></html>`

	result := ParseLineup(html)
	if !reflect.DeepEqual(result.Performers, []string{"Alice"}) {
		t.Errorf("card path must not merge fallback names, got %v", result.Performers)
	}
}

func TestParseLineupFallbackPath(t *testing.T) {
	html := `
<html><body><div class="eventitem-column-content">
  <p>A mixed bill of stand-up. Lineup: Carol Danvers, Dave Grohl.</p>
  <ul>
    <li>- Erin Brock (Berlin)</li>
    <li>Hosted by Frank Castle</li>
    <li>See https://example.com/tickets</li>
  </ul>
</div></body></html>`

	result := ParseLineup(html)

	// Frank Castle appears in the description text itself ("Hosted by"),
	// so the extractor seeds him before the list-item scan reaches Erin.
	expected := []string{"Carol Danvers", "Dave Grohl", "Frank Castle", "Erin Brock"}
	if !reflect.DeepEqual(result.Performers, expected) {
		t.Errorf("performers = %v, expected %v", result.Performers, expected)
	}
	if !reflect.DeepEqual(result.Hosts, []string{"Frank Castle"}) {
		t.Errorf("hosts = %v, expected [Frank Castle]", result.Hosts)
	}
}

func TestParseLineupEmptyInput(t *testing.T) {
	result := ParseLineup("")

	if result == nil {
		t.Fatal("ParseLineup must not return nil")
	}
	if len(result.Performers) != 0 || len(result.Hosts) != 0 {
		t.Errorf("expected empty lineup, got %v / %v", result.Performers, result.Hosts)
	}
	if result.RawContent != "" {
		t.Errorf("expected empty raw content, got %q", result.RawContent)
	}
}

func TestParseLineupMalformedInput(t *testing.T) {
	for _, html := range []string{
		"<div><ul><li>",
		"not html at all",
		"<html><body>",
	} {
		result := ParseLineup(html)
		if result == nil {
			t.Fatalf("ParseLineup(%q) returned nil", html)
		}
	}
}
