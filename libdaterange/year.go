package libdaterange

import (
	"regexp"
	"strconv"
	"time"
)

// rule pairs a pattern with the interpreter for its submatches. Rule lists are tried in
// order and the first rule whose pattern matches decides the outcome of the parser.
type rule struct {
	name      string
	pattern   *regexp.Regexp
	interpret func(m []string, today time.Time) (*DateRange, error)
}

// yearEnd rejects a year that is the first field of a numeric date such as 2013-10-12.
const yearEnd = `(?:$|[^0-9./-]|[./-](?:[^0-9]|$))`

var yearRules = []rule{
	{
		name:    "current year",
		pattern: regexp.MustCompile(`\b(?:this|current) year\b`),
		interpret: func(_ []string, today time.Time) (*DateRange, error) {
			return Span(startOfYear(today.Year(), today.Location()), today), nil
		},
	},
	{
		name:    "year span",
		pattern: regexp.MustCompile(`\b(?:from|between|before)\s(\d{4})(?:\s+and\s+after\s+|\s+and\s+|\s+to\s+|\s+after\s+|\s*-\s*|\s+)(\d{4})\b`),
		interpret: func(m []string, today time.Time) (*DateRange, error) {
			first, last := atoi(m[1]), atoi(m[2])
			if first > last {
				first, last = last, first
			}
			return Span(startOfYear(first, today.Location()), endOfYear(last, today.Location())), nil
		},
	},
	{
		name:    "before year",
		pattern: regexp.MustCompile(`\b(?:before|up to|upto)\s(\d{4})` + yearEnd),
		interpret: func(m []string, today time.Time) (*DateRange, error) {
			return Span(epoch(today.Location()), startOfYear(atoi(m[1]), today.Location())), nil
		},
	},
	{
		name:    "after year",
		pattern: regexp.MustCompile(`\bafter\s(\d{4})` + yearEnd),
		interpret: func(m []string, today time.Time) (*DateRange, error) {
			return Span(startOfYear(atoi(m[1]), today.Location()), today), nil
		},
	},
	{
		name:    "single year",
		pattern: regexp.MustCompile(`\b(?:in|during|for the year|for|from)\s(\d{4})` + yearEnd),
		interpret: func(m []string, today time.Time) (*DateRange, error) {
			year := atoi(m[1])
			return Span(startOfYear(year, today.Location()), endOfYear(year, today.Location())), nil
		},
	},
}

// parseYear resolves explicit calendar-year references.
func parseYear(q string, today time.Time) (*DateRange, error) {
	return applyRules(yearRules, q, today)
}

// applyRules runs the first rule whose pattern matches q.
func applyRules(rules []rule, q string, today time.Time) (*DateRange, error) {
	for _, r := range rules {
		if m := r.pattern.FindStringSubmatch(q); m != nil {
			return r.interpret(m, today)
		}
	}
	return nil, nil
}

// atoi converts a regexp capture that is known to be all digits.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
