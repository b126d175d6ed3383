// Package dateparse provides natural language date parsing relative to a reference time.
package dateparse

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/tj/go-naturaldate"
)

// DateLayout is the calendar-day layout used for every resolved boundary.
const DateLayout = "2006-01-02"

// ParseWithPast parses a date string, reading ambiguous relative expressions such as
// "last week" as past dates. The input can be:
// - ISO 8601 date or datetime: "2025-01-15", "2025-01-15T09:00:00"
// - A written date: "january 3 2013", "3 january", "june 2017"
// - Natural language: "yesterday", "3 days ago"
//
// Written dates without a year take the year of ref. If ref is zero, time.Now() is used.
func ParseWithPast(s string, ref time.Time) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date string")
	}

	if ref.IsZero() {
		ref = time.Now()
	}

	if t, ok := ParseAbsolute(s, ref); ok {
		return t, nil
	}

	t, err := naturaldate.Parse(s, ref, naturaldate.WithDirection(naturaldate.Past))
	if err != nil {
		return time.Time{}, fmt.Errorf("could not parse date %q: %w", s, err)
	}

	return t, nil
}

// writtenLayouts are tried after the ISO forms. The year-less ones must stay last so
// that "june 2017" is never read as June 20.
var writtenLayouts = []struct {
	layout  string
	hasYear bool
}{
	{"January 2 2006", true},
	{"Jan 2 2006", true},
	{"2 January 2006", true},
	{"2 Jan 2006", true},
	{"January 2006", true},
	{"Jan 2006", true},
	{"January 2", false},
	{"Jan 2", false},
	{"2 January", false},
	{"2 Jan", false},
}

var (
	// OrdinalSuffix matches day numbers such as "3rd" so callers can drop the suffix.
	OrdinalSuffix = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)\b`)

	writtenNoise = strings.NewReplacer(",", " ", " of ", " ")
)

// ParseAbsolute parses ISO dates and written calendar dates without consulting the
// natural-language grammar. It reports false for anything else, including relative
// expressions.
func ParseAbsolute(s string, ref time.Time) (time.Time, bool) {
	loc := ref.Location()
	if t, ok := parseISO(s, loc); ok {
		return t, true
	}

	s = OrdinalSuffix.ReplaceAllString(s, "$1")
	s = strings.Join(strings.Fields(writtenNoise.Replace(s)), " ")
	for _, w := range writtenLayouts {
		t, err := time.ParseInLocation(w.layout, s, loc)
		if err != nil {
			continue
		}
		if w.hasYear {
			return t, true
		}
		d := time.Date(ref.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
		if d.Day() != t.Day() {
			// 29 February in a common year
			return time.Time{}, false
		}
		return d, true
	}
	return time.Time{}, false
}

// parseISO tries RFC 3339, a zone-less datetime and a bare date, in that order.
func parseISO(s string, loc *time.Location) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", s, loc); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// StartOfDay returns the start of day (midnight) for the given time.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the end of day (23:59:59.999999999) for the given time.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, t.Location())
}

// AddDays adds the specified number of days to a time.
func AddDays(t time.Time, days int) time.Time {
	return t.AddDate(0, 0, days)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// FormatDate formats a time as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatISO8601 formats a time as an RFC 3339 timestamp.
func FormatISO8601(t time.Time) string {
	return t.Format(time.RFC3339)
}
