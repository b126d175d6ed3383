package libdaterange

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday; the anchor Monday is 2024-05-13.
var testNow = time.Date(2024, 5, 15, 10, 30, 0, 0, time.UTC)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// naiveExtractor mimics an extractor that knows a few fragments and otherwise
// falls back to the reference date.
func naiveExtractor(known map[string][]string) Extractor {
	return ExtractorFunc(func(text string, ref time.Time) ([]time.Time, error) {
		dates, ok := known[text]
		if !ok {
			return []time.Time{ref}, nil
		}
		out := make([]time.Time, len(dates))
		for i, d := range dates {
			out[i] = day(d)
		}
		return out, nil
	})
}

func newTestResolver(opts Options) *Resolver {
	if opts.Extractor == nil {
		opts.Extractor = naiveExtractor(map[string][]string{
			"january 3rd 2013": {"2013-01-03"},
			"4 july":           {"2024-07-04"},
			"december 8":       {"2024-12-08"},
			"june 2017 sales information":                      {"2017-06-01"},
			"sales on the 14th of january":                     {"2024-01-14"},
			"show me sales from 15th november to 6th december": {"2023-12-06", "2023-11-15"},
			"31/02 or march 3 2020":                            {"2020-03-03"},
		})
	}
	return NewResolver(opts)
}

func TestResolveAt(t *testing.T) {
	r := newTestResolver(Options{})

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		// Absolute years
		{name: "year span", query: "Show me sales between 2013 and 2017", want: []string{"2013-01-01", "2017-12-31"}},
		{name: "reversed year span", query: "show me sales between 2017 and 2013", want: []string{"2013-01-01", "2017-12-31"}},
		{name: "from to span", query: "revenue from 2013 to 2015", want: []string{"2013-01-01", "2015-12-31"}},
		{name: "dash span", query: "revenue from 2013-2015", want: []string{"2013-01-01", "2015-12-31"}},
		{name: "single year", query: "Show me sales in 2013", want: []string{"2013-01-01", "2013-12-31"}},
		{name: "for the year", query: "sales for the year 2019", want: []string{"2019-01-01", "2019-12-31"}},
		{name: "before year", query: "sales before 2013", want: []string{"1970-01-01", "2013-01-01"}},
		{name: "up to year", query: "sales up to 2013", want: []string{"1970-01-01", "2013-01-01"}},
		{name: "after year", query: "sales after 2013", want: []string{"2013-01-01", "2024-05-15"}},
		{name: "this year", query: "Sales this year", want: []string{"2024-01-01", "2024-05-15"}},
		{name: "postal code is not a year", query: "Show me sales in postal code 2017", want: nil},

		// Before / after clauses
		{name: "before natural date", query: "Sales before january 3rd 2013", want: []string{"1970-01-01", "2013-01-03"}},
		{name: "before day month", query: "sales before 30/10", want: []string{"1970-01-01", "2024-10-30"}},
		{name: "after day month year", query: "sales after 12/12/2012", want: []string{"2012-12-12", "2024-05-15"}},
		{name: "after dotted date", query: "sales after 1.2.2020", want: []string{"2020-02-01", "2024-05-15"}},
		// A year followed by a separator and a digit is left to the clause parser, so this
		// resolves to October rather than to the start of 2013.
		{name: "after year month", query: "sales after 2013/10", want: []string{"2013-10-01", "2024-05-15"}},
		{name: "before iso date", query: "orders before 2013-10-12", want: []string{"1970-01-01", "2013-10-12"}},
		{name: "upto natural date", query: "sales upto december 8", want: []string{"1970-01-01", "2024-12-08"}},
		{name: "up to day month", query: "sales up to 1/3", want: []string{"1970-01-01", "2024-03-01"}},
		{name: "future after date is swapped", query: "sales after 4 july", want: []string{"2024-05-15", "2024-07-04"}},
		{name: "invalid numeric date", query: "sales after 12/13/2012", want: nil},
		{name: "invalid numeric date falls back to extractor", query: "sales after 31/02 or march 3 2020", want: []string{"2020-03-03", "2024-05-15"}},

		// Phrase table
		{name: "last month", query: "show me last month sales", want: []string{"2024-04-01", "2024-04-30"}},
		{name: "current month", query: "show me sales in postal code 300 for the current month", want: []string{"2024-05-01"}},
		{name: "yesterday", query: "revenue yesterday", want: []string{"2024-05-13"}},
		{name: "last week", query: "sales last week", want: []string{"2024-04-29", "2024-05-06"}},
		{name: "fortnight", query: "sales over the last fortnight", want: []string{"2024-04-22", "2024-04-29"}},
		{name: "past two weeks", query: "sales in the past two weeks", want: []string{"2024-04-22", "2024-04-29"}},
		{name: "three weeks", query: "sales in the last three weeks", want: []string{"2024-04-15", "2024-05-06"}},
		{name: "four weeks", query: "sales in the past four weeks", want: []string{"2024-04-08", "2024-05-06"}},
		{name: "last quarter", query: "sales in last quarter", want: []string{"2024-01-01", "2024-03-31"}},
		{name: "previous year", query: "previous year revenue", want: []string{"2023-01-01", "2023-12-31"}},

		// Month names
		{name: "month without year", query: "sales for august", want: []string{"2024-08-01", "2024-08-31"}},
		{name: "for this month name", query: "sales for this august", want: []string{"2024-08-01", "2024-08-31"}},
		{name: "month of february", query: "Sales in the month of February", want: []string{"2024-02-01", "2024-02-29"}},
		{name: "month with year", query: "sales during march 2019", want: []string{"2019-03-01", "2019-03-31"}},

		// Lookbacks
		{name: "past three months", query: "Sales for past three months", want: []string{"2024-02-01", "2024-04-30"}},
		{name: "last 2 months", query: "orders in the last 2 months", want: []string{"2024-03-01", "2024-04-30"}},
		{name: "past two days", query: "Sales in the past two days", want: []string{"2024-05-13", "2024-05-15"}},
		{name: "last two years", query: "show me last two years sales", want: []string{"2022-05-15", "2024-05-15"}},
		{name: "past five weeks", query: "signups over the past five weeks", want: []string{"2024-04-10", "2024-05-15"}},

		// Fallback
		{name: "this month", query: "sales for this month", want: []string{"2024-05-01", "2024-05-15"}},
		{name: "single extracted date", query: "Sales on the 14th of January", want: []string{"2024-01-14"}},
		{name: "month and year without lead-in", query: "june 2017 sales information", want: []string{"2017-06-01"}},
		{name: "extracted span is sorted", query: "show me sales from 15th november to 6th december", want: []string{"2023-11-15", "2023-12-06"}},
		{name: "no temporal reference", query: "show total revenue", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dr, ok := r.ResolveAt(tt.query, testNow)
			if tt.want == nil {
				assert.False(t, ok, "unexpected range %v", dr)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.want, dr.Strings())
		})
	}
}

func TestResolveAtNaturalExtractor(t *testing.T) {
	r := NewResolver(Options{})

	tests := []struct {
		query string
		want  []string
	}{
		{query: "Sales before january 3rd 2013", want: []string{"1970-01-01", "2013-01-03"}},
		{query: "sales after 4 july", want: []string{"2024-05-15", "2024-07-04"}},
		{query: "sales upto december 8", want: []string{"1970-01-01", "2024-12-08"}},
		{query: "sales up to 2013", want: []string{"1970-01-01", "2013-01-01"}},
		{query: "sales after 31/02 or march 3 2020", want: []string{"2020-03-03", "2024-05-15"}},
		{query: "orders before 3 days ago", want: []string{"1970-01-01", "2024-05-12"}},
		{query: "june 2017 sales information", want: []string{"2017-06-01"}},
		{query: "Sales on the 14th of January", want: []string{"2024-01-14"}},
		{query: "show me sales from 15th november to 6th december", want: []string{"2024-11-15", "2024-12-06"}},
		{query: "sales for this month", want: []string{"2024-05-01", "2024-05-15"}},
		{query: "Show me sales in postal code 2017", want: nil},
		{query: "revenue for 10 stores", want: nil},
		{query: "show total revenue", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			dr, ok := r.ResolveAt(tt.query, testNow)
			if tt.want == nil {
				assert.False(t, ok, "unexpected range %v", dr)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.want, dr.Strings())
		})
	}
}

func TestResolveAtStartNotAfterEnd(t *testing.T) {
	r := newTestResolver(Options{})
	queries := []string{
		"sales after 12/12/2012",
		"show me sales between 2017 and 2013",
		"sales last week",
		"sales before 30/10",
		"show me sales from 15th november to 6th december",
		"sales in last quarter",
	}

	// Every weekday and both sides of a quarter boundary.
	for offset := 0; offset < 60; offset++ {
		now := testNow.AddDate(0, 0, offset)
		for _, q := range queries {
			dr, ok := r.ResolveAt(q, now)
			require.True(t, ok, q)
			if !dr.IsPoint() {
				assert.False(t, dr.Start.After(dr.End), "%q at %s: %v", q, now.Format("2006-01-02"), dr.Strings())
			}
		}
	}
}

func TestResolveAtIdempotent(t *testing.T) {
	r := newTestResolver(Options{})
	for _, q := range []string{"sales last week", "sales for this month", "show total revenue"} {
		first, ok1 := r.ResolveAt(q, testNow)
		second, ok2 := r.ResolveAt(q, testNow)
		assert.Equal(t, ok1, ok2)
		assert.Equal(t, first, second)
	}
}

func TestMonthFirst(t *testing.T) {
	dayFirst := newTestResolver(Options{})
	monthFirst := newTestResolver(Options{MonthFirst: true})

	dr, ok := dayFirst.ResolveAt("sales before 10/12", testNow)
	require.True(t, ok)
	assert.Equal(t, []string{"1970-01-01", "2024-12-10"}, dr.Strings())

	dr, ok = monthFirst.ResolveAt("sales before 10/12", testNow)
	require.True(t, ok)
	assert.Equal(t, []string{"1970-01-01", "2024-10-12"}, dr.Strings())
}

func TestExtractorFailureIsNoMatch(t *testing.T) {
	failing := ExtractorFunc(func(string, time.Time) ([]time.Time, error) {
		return nil, errors.New("backend unavailable")
	})
	r := newTestResolver(Options{Extractor: failing})

	_, ok := r.ResolveAt("sales before the launch", testNow)
	assert.False(t, ok)

	// Built-in strategies still work without the extractor.
	dr, ok := r.ResolveAt("sales in 2013", testNow)
	require.True(t, ok)
	assert.Equal(t, []string{"2013-01-01", "2013-12-31"}, dr.Strings())

	// The current-month fallback does not need the extractor either.
	dr, ok = r.ResolveAt("sales for this month", testNow)
	require.True(t, ok)
	assert.Equal(t, []string{"2024-05-01", "2024-05-15"}, dr.Strings())
}

func TestParseDateUsesClock(t *testing.T) {
	r := newTestResolver(Options{Now: func() time.Time { return testNow }})

	assert.Equal(t, []string{"2024-04-01", "2024-04-30"}, r.ParseDate("show me last month sales"))
	assert.Nil(t, r.ParseDate("show total revenue"))

	dr, ok := r.Resolve("Sales this year")
	require.True(t, ok)
	assert.Equal(t, []string{"2024-01-01", "2024-05-15"}, dr.Strings())
}

func TestNewResolverDefaults(t *testing.T) {
	r := NewResolver(Options{})
	assert.IsType(t, NaturalExtractor{}, r.extractor)
	assert.NotNil(t, r.logger)
	assert.NotNil(t, r.now)
}
