package libdaterange

import (
	"regexp"
	"time"

	"github.com/njt/daterange/internal/query"
)

var monthNames = map[string]time.Month{
	"january":   time.January,
	"february":  time.February,
	"march":     time.March,
	"april":     time.April,
	"may":       time.May,
	"june":      time.June,
	"july":      time.July,
	"august":    time.August,
	"september": time.September,
	"october":   time.October,
	"november":  time.November,
	"december":  time.December,
}

var monthPattern = regexp.MustCompile(
	`\b(?:for the month of|in the month of|for this|for|in|during)\s` +
		`(january|february|march|april|may|june|july|august|september|october|november|december)` +
		`(?:\s+(\d{4}))?(?:\s|$|[^a-z0-9])`)

// parseMonth resolves a named month into its first and last day. A query that also
// carries "before" or "after" is handed to the extractor instead.
func (r *Resolver) parseMonth(q string, today time.Time) (*DateRange, error) {
	if rest, ok := query.After(q, "before"); ok {
		d, ok := r.extractFirst(rest, today)
		if !ok {
			return nil, nil
		}
		return Span(epoch(today.Location()), d), nil
	}
	if rest, ok := query.After(q, "after"); ok {
		d, ok := r.extractFirst(rest, today)
		if !ok {
			return nil, nil
		}
		return Span(d, today), nil
	}

	m := monthPattern.FindStringSubmatch(q)
	if m == nil {
		return nil, nil
	}
	year := today.Year()
	if m[2] != "" {
		year = atoi(m[2])
	}
	first := time.Date(year, monthNames[m[1]], 1, 0, 0, 0, 0, today.Location())
	return Span(first, lastOfMonth(first)), nil
}
