package libdaterange

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnchor(t *testing.T) {
	tests := []struct {
		today string
		want  string
	}{
		{"2024-05-13", "2024-05-13"}, // Monday
		{"2024-05-15", "2024-05-13"},
		{"2024-05-19", "2024-05-13"}, // Sunday
		{"2024-05-20", "2024-05-20"},
		{"2024-01-03", "2024-01-01"},
		{"2024-01-01", "2024-01-01"},
		{"2023-01-01", "2022-12-26"},
	}

	for _, tt := range tests {
		t.Run(tt.today, func(t *testing.T) {
			got := Anchor(day(tt.today).Add(15 * time.Hour))
			assert.Equal(t, tt.want, got.Format("2006-01-02"))
			assert.Equal(t, time.Monday, got.Weekday())
		})
	}
}

func TestPhraseTableOrder(t *testing.T) {
	table := newPhraseTable()
	require.NotEmpty(t, table)
	for i := 1; i < len(table); i++ {
		assert.GreaterOrEqual(t, len(table[i-1].text), len(table[i].text))
	}

	// The longest contained phrase wins.
	r := newTestResolver(Options{})
	dr, err := r.parsePhrase("last quarter of last year", testNow)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-01", "2024-03-31"}, dr.Strings())

	dr, err = r.parsePhrase("fortnightly totals", testNow)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-04-22", "2024-04-29"}, dr.Strings())
}

func TestPriorQuarterEvaluation(t *testing.T) {
	tests := []struct {
		today string
		want  []string
	}{
		{"2024-02-10", []string{"2023-10-01", "2023-12-01"}},
		{"2024-04-01", []string{"2024-01-01", "2024-03-31"}},
		{"2024-09-30", []string{"2024-04-01", "2024-06-30"}},
		{"2024-11-05", []string{"2024-07-01", "2024-09-30"}},
	}

	for _, tt := range tests {
		t.Run(tt.today, func(t *testing.T) {
			assert.Equal(t, tt.want, priorQuarterEvaluation(day(tt.today)).Strings())
		})
	}
}

func TestLastMonthEvaluation(t *testing.T) {
	assert.Equal(t, []string{"2023-12-01", "2023-12-31"}, lastMonthEvaluation(day("2024-01-20")).Strings())
	assert.Equal(t, []string{"2024-02-01", "2024-02-29"}, lastMonthEvaluation(day("2024-03-31")).Strings())
	assert.Equal(t, []string{"2024-05-01"}, thisMonthEvaluation(day("2024-05-31")).Strings())
}

func TestParseMonthLastDay(t *testing.T) {
	want := map[string]string{
		"january": "31", "february": "28", "march": "31", "april": "30",
		"may": "31", "june": "30", "july": "31", "august": "31",
		"september": "30", "october": "31", "november": "30", "december": "31",
	}
	r := newTestResolver(Options{})

	for name, last := range want {
		t.Run(name, func(t *testing.T) {
			dr, err := r.parseMonth("sales for "+name+" 2023", testNow)
			require.NoError(t, err)
			require.NotNil(t, dr)
			got := dr.Strings()
			assert.Equal(t, "01", got[0][8:])
			assert.Equal(t, last, got[1][8:])
			assert.Equal(t, "2023", got[1][:4])
		})
	}

	dr, err := r.parseMonth("sales for february 2024", testNow)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-02-01", "2024-02-29"}, dr.Strings())
}

func TestMakeDate(t *testing.T) {
	_, err := makeDate(2023, 2, 29, time.UTC)
	assert.True(t, errors.Is(err, ErrInvalidDate))

	_, err = makeDate(2024, 13, 1, time.UTC)
	assert.ErrorIs(t, err, ErrInvalidDate)

	d, err := makeDate(2024, 2, 29, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", d.Format("2006-01-02"))
}

func TestDateRangeOrdered(t *testing.T) {
	span := Span(day("2024-07-04"), day("2024-05-15")).ordered()
	assert.Equal(t, []string{"2024-05-15", "2024-07-04"}, span.Strings())

	point := Point(day("2024-05-15"))
	assert.Same(t, point, point.ordered())
	assert.True(t, point.IsPoint())
}
