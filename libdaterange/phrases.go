package libdaterange

import (
	"sort"
	"time"

	"github.com/njt/daterange/internal/dateparse"
)

// evaluator computes a range relative to today.
type evaluator func(today time.Time) *DateRange

// phrase binds a literal trigger substring to its evaluator.
type phrase struct {
	text string
	eval evaluator
}

// newPhraseTable returns the trigger phrases ordered longest first, so the most
// specific phrase contained in a query wins.
func newPhraseTable() []phrase {
	table := []phrase{
		{"previous day", dayEvaluation},
		{"yesterday", dayEvaluation},
		{"previous week", weekEvaluation},
		{"last week", weekEvaluation},
		{"fortnightly", fortnightEvaluation},
		{"fortnight", fortnightEvaluation},
		{"last two weeks", fortnightEvaluation},
		{"past two weeks", fortnightEvaluation},
		{"last three weeks", threeWeekEvaluation},
		{"past three weeks", threeWeekEvaluation},
		{"last four weeks", fourWeekEvaluation},
		{"past four weeks", fourWeekEvaluation},
		{"last month", lastMonthEvaluation},
		{"previous month", lastMonthEvaluation},
		{"current month", thisMonthEvaluation},
		{"ongoing month", thisMonthEvaluation},
		{"previous quarter", priorQuarterEvaluation},
		{"last quarter", priorQuarterEvaluation},
		{"quarter prior to the this", priorQuarterEvaluation},
		{"last year", previousYearEvaluation},
		{"previous year", previousYearEvaluation},
	}

	sort.SliceStable(table, func(i, j int) bool {
		if len(table[i].text) != len(table[j].text) {
			return len(table[i].text) > len(table[j].text)
		}
		return table[i].text < table[j].text
	})
	return table
}

// thisMonthEvaluation is month-to-date: only the first of the month is returned.
func thisMonthEvaluation(today time.Time) *DateRange {
	return Point(firstOfMonth(today))
}

func dayEvaluation(today time.Time) *DateRange {
	return Point(Anchor(today))
}

func weekEvaluation(today time.Time) *DateRange {
	return weeksBack(today, 14, 7)
}

func fortnightEvaluation(today time.Time) *DateRange {
	return weeksBack(today, 21, 14)
}

func threeWeekEvaluation(today time.Time) *DateRange {
	return weeksBack(today, 28, 7)
}

func fourWeekEvaluation(today time.Time) *DateRange {
	return weeksBack(today, 35, 7)
}

// weeksBack returns [anchor-from, anchor-to] in days.
func weeksBack(today time.Time, from, to int) *DateRange {
	anchor := Anchor(today)
	return Span(dateparse.AddDays(anchor, -from), dateparse.AddDays(anchor, -to))
}

func lastMonthEvaluation(today time.Time) *DateRange {
	end := dateparse.AddDays(firstOfMonth(today), -1)
	return Span(firstOfMonth(end), end)
}

func priorQuarterEvaluation(today time.Time) *DateRange {
	loc := today.Location()
	quarter := (int(today.Month())-1)/3 + 1
	if quarter == 1 {
		return Span(
			time.Date(today.Year()-1, time.October, 1, 0, 0, 0, 0, loc),
			time.Date(today.Year()-1, time.December, 1, 0, 0, 0, 0, loc),
		)
	}
	start := time.Date(today.Year(), time.Month(3*(quarter-2)+1), 1, 0, 0, 0, 0, loc)
	next := time.Date(today.Year(), time.Month(3*(quarter-1)+1), 1, 0, 0, 0, 0, loc)
	return Span(start, dateparse.AddDays(next, -1))
}

func previousYearEvaluation(today time.Time) *DateRange {
	year := today.Year() - 1
	return Span(startOfYear(year, today.Location()), endOfYear(year, today.Location()))
}
