package libdaterange

import (
	"errors"
	"fmt"
	"time"

	"github.com/njt/daterange/internal/dateparse"
)

// ErrInvalidDate is returned when a captured day, month or year cannot form a calendar date.
var ErrInvalidDate = errors.New("invalid date")

// DateRange is a resolved temporal reference. A zero End denotes a point date.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Point returns a single-date range.
func Point(d time.Time) *DateRange {
	return &DateRange{Start: d}
}

// Span returns a two-date range.
func Span(start, end time.Time) *DateRange {
	return &DateRange{Start: start, End: end}
}

// IsPoint reports whether the range holds a single date.
func (r *DateRange) IsPoint() bool {
	return r.End.IsZero()
}

// Strings renders the range as one or two YYYY-MM-DD strings.
func (r *DateRange) Strings() []string {
	if r.IsPoint() {
		return []string{dateparse.FormatDate(r.Start)}
	}
	return []string{dateparse.FormatDate(r.Start), dateparse.FormatDate(r.End)}
}

// ordered swaps the endpoints of a span whose start falls after its end.
func (r *DateRange) ordered() *DateRange {
	if !r.IsPoint() && r.Start.After(r.End) {
		return Span(r.End, r.Start)
	}
	return r
}

// epoch is the open lower bound used by "before" clauses.
func epoch(loc *time.Location) time.Time {
	return time.Date(1970, time.January, 1, 0, 0, 0, 0, loc)
}

// makeDate builds a calendar date, rejecting components that time.Date would normalise.
func makeDate(year, month, day int, loc *time.Location) (time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("%w: month %d", ErrInvalidDate, month)
	}
	if day < 1 || day > daysIn(time.Month(month), year) {
		return time.Time{}, fmt.Errorf("%w: day %d of %04d-%02d", ErrInvalidDate, day, year, month)
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc), nil
}

// daysIn returns the number of days in month m of year.
func daysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// lastOfMonth is the first day of the following month minus one day.
func lastOfMonth(t time.Time) time.Time {
	return dateparse.AddDays(firstOfMonth(t).AddDate(0, 1, 0), -1)
}

func startOfYear(year int, loc *time.Location) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
}

func endOfYear(year int, loc *time.Location) time.Time {
	return time.Date(year, time.December, 31, 0, 0, 0, 0, loc)
}
