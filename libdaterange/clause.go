package libdaterange

import (
	"regexp"
	"time"

	"github.com/njt/daterange/internal/query"
)

var (
	// D[-/. ]M with an optional [-/. ]YYYY, e.g. 30/10, 12.12.2012.
	dayMonthPattern = regexp.MustCompile(`(?:^|\s)([0-3]?\d)[-/. ]([01]?\d)(?:[-/. ](\d{4}))?(?:\s|$)`)
	// YYYY[-/. ]M with an optional [-/. ]D, e.g. 2013-10-12, 2013/10.
	yearMonthPattern = regexp.MustCompile(`(?:^|\s)(\d{4})[-/. ]([01]?\d)(?:[-/. ]([0-3]?\d))?(?:[^0-9]|$)`)
)

// boundKind says which side of a clause the matched date bounds.
type boundKind int

const (
	upperBound boundKind = iota // before, up to, upto
	lowerBound                  // after
)

// beforeKeywords are checked in order; the first one present selects the slice.
var beforeKeywords = []string{"up to", "upto", "before"}

// numericRules returns the numeric date rules for a clause slice. The day/month
// order of the short form follows monthFirst.
func numericRules(monthFirst bool) []rule {
	return []rule{
		{
			name:    "day month year",
			pattern: dayMonthPattern,
			interpret: func(m []string, today time.Time) (*DateRange, error) {
				day, month := atoi(m[1]), atoi(m[2])
				if monthFirst {
					day, month = month, day
				}
				year := today.Year()
				if m[3] != "" {
					year = atoi(m[3])
				}
				d, err := makeDate(year, month, day, today.Location())
				if err != nil {
					return nil, err
				}
				return Point(d), nil
			},
		},
		{
			name:    "year month day",
			pattern: yearMonthPattern,
			interpret: func(m []string, today time.Time) (*DateRange, error) {
				day := 1
				if m[3] != "" {
					day = atoi(m[3])
				}
				d, err := makeDate(atoi(m[1]), atoi(m[2]), day, today.Location())
				if err != nil {
					return nil, err
				}
				return Point(d), nil
			},
		},
	}
}

// parseBefore resolves "before X", "up to X" and "upto X" into [1970-01-01, X].
func (r *Resolver) parseBefore(q string, today time.Time) (*DateRange, error) {
	for _, kw := range beforeKeywords {
		if rest, ok := query.After(q, kw); ok {
			return r.parseClause(rest, today, upperBound)
		}
	}
	return nil, nil
}

// parseAfter resolves "after X" into [X, today].
func (r *Resolver) parseAfter(q string, today time.Time) (*DateRange, error) {
	rest, ok := query.After(q, "after")
	if !ok {
		return nil, nil
	}
	return r.parseClause(rest, today, lowerBound)
}

func (r *Resolver) parseClause(rest string, today time.Time, kind boundKind) (*DateRange, error) {
	point, err := applyRules(r.numeric, rest, today)
	if err != nil {
		return nil, err
	}

	var d time.Time
	if point != nil {
		d = point.Start
	} else {
		got, ok := r.extractFirst(rest, today)
		if !ok {
			return nil, nil
		}
		d = got
	}

	if kind == upperBound {
		return Span(epoch(today.Location()), d), nil
	}
	return Span(d, today), nil
}
