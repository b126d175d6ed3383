package libdaterange

import (
	"regexp"
	"time"

	"github.com/njt/daterange/internal/dateparse"
)

var wordToNum = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9,
}

const countPattern = `(\d|one|two|three|four|five|six|seven|eight|nine)`

var (
	nMonthPattern = regexp.MustCompile(`\b(?:last|past|previous)\s` + countPattern + `\smonths?\b`)
	nUnitPattern  = regexp.MustCompile(`\b(?:last|past|previous)\s` + countPattern + `\s(day|week|year)s?\b`)
)

func count(s string) int {
	if n, ok := wordToNum[s]; ok {
		return n
	}
	return atoi(s)
}

// parseMonthLookback resolves "last N months". Months are approximated as 30 days when
// locating the start month; the end is the last day of the previous calendar month.
func parseMonthLookback(q string, today time.Time) (*DateRange, error) {
	m := nMonthPattern.FindStringSubmatch(q)
	if m == nil {
		return nil, nil
	}
	n := count(m[1])
	start := firstOfMonth(dateparse.AddDays(today, -30*n))
	end := dateparse.AddDays(today, -today.Day())
	return Span(start, end), nil
}

// parseUnitLookback resolves "last N days/weeks/years" into [today - N units, today].
func parseUnitLookback(q string, today time.Time) (*DateRange, error) {
	m := nUnitPattern.FindStringSubmatch(q)
	if m == nil {
		return nil, nil
	}
	n := count(m[1])
	var start time.Time
	switch m[2] {
	case "day":
		start = dateparse.AddDays(today, -n)
	case "week":
		start = dateparse.AddDays(today, -7*n)
	case "year":
		start = today.AddDate(-n, 0, 0)
	}
	return Span(start, today), nil
}
