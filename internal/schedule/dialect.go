// Package schedule parses loosely-structured schedule text (chat exports,
// pasted weekly schedules) into dated show records.
package schedule

import (
	"regexp"
	"strings"
	"time"
)

// Dialect adapts one flavor of schedule text to the shared parser.
// Dialects strip their own framing from each line; day headers, show
// lines and time normalization are shared.
type Dialect interface {
	// Name identifies the dialect ("plain", "whatsapp", "beeper").
	Name() string

	// PrepareLine strips dialect framing from a raw line. It returns the
	// cleaned line, an optional context date carried by the framing
	// (zero when none), and false when the line should be dropped
	// entirely (attachment markers, system messages).
	PrepareLine(line string) (string, time.Time, bool)
}

// PlainDialect handles manually pasted schedule text with no framing.
type PlainDialect struct{}

func (PlainDialect) Name() string { return "plain" }

func (PlainDialect) PrepareLine(line string) (string, time.Time, bool) {
	return line, time.Time{}, true
}

// whatsappHeader matches the export framing of a WhatsApp _chat.txt line:
// [MM/DD/YY, HH:MM:SS] Sender: message
var whatsappHeader = regexp.MustCompile(`^\[(\d{1,2})/(\d{1,2})/(\d{2,4}), \d{1,2}:\d{2}:\d{2}\] [^:]*: ?(.*)$`)

// WhatsAppDialect handles raw WhatsApp chat exports. The per-message
// timestamp provides the year/month context for day headers that omit
// the year; continuation lines pass through untouched.
type WhatsAppDialect struct{}

func (WhatsAppDialect) Name() string { return "whatsapp" }

func (WhatsAppDialect) PrepareLine(line string) (string, time.Time, bool) {
	// WhatsApp sprinkles left-to-right marks through exports
	line = strings.ReplaceAll(line, "‎", "")

	m := whatsappHeader.FindStringSubmatch(line)
	if m == nil {
		// Continuation line of a multi-line message
		return line, time.Time{}, true
	}

	message := m[4]
	if strings.Contains(message, "<attached:") || strings.Contains(message, "image omitted") ||
		strings.Contains(message, "Messages and calls are end-to-end encrypted") {
		return "", time.Time{}, false
	}

	month := atoi(m[1])
	day := atoi(m[2])
	year := atoi(m[3])
	if year < 100 {
		year += 2000
	}

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return message, time.Time{}, true
	}

	stamp := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	return message, stamp, true
}

// markdownEmphasis strips the bold/italic markers Beeper wraps headers in.
var markdownEmphasis = regexp.MustCompile(`[*_]{1,3}`)

// BeeperDialect handles Beeper-style exports: "## Month Day, Year" block
// headers (handled by the shared parser) with day headers often wrapped
// in markdown emphasis.
type BeeperDialect struct{}

func (BeeperDialect) Name() string { return "beeper" }

func (BeeperDialect) PrepareLine(line string) (string, time.Time, bool) {
	if strings.HasPrefix(strings.TrimSpace(line), "#") {
		// Keep heading markers: the shared week-header rule needs them
		return line, time.Time{}, true
	}
	return markdownEmphasis.ReplaceAllString(line, ""), time.Time{}, true
}

// DialectByName returns the dialect for a config/CLI name, defaulting to
// plain for unknown names.
func DialectByName(name string) Dialect {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "whatsapp", "chat":
		return WhatsAppDialect{}
	case "beeper":
		return BeeperDialect{}
	default:
		return PlainDialect{}
	}
}

func atoi(s string) int {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return -1
		}
		n = n*10 + int(c-'0')
	}
	return n
}
