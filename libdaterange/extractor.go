package libdaterange

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/njt/daterange/internal/dateparse"
)

// Extractor locates absolute dates in free text. Implementations may return the
// reference date when they recognise nothing; callers treat that as "no match".
type Extractor interface {
	Extract(text string, ref time.Time) ([]time.Time, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(text string, ref time.Time) ([]time.Time, error)

// Extract calls f(text, ref).
func (f ExtractorFunc) Extract(text string, ref time.Time) ([]time.Time, error) {
	return f(text, ref)
}

// ErrNoDate is returned by extractors that found nothing date-like in the text.
var ErrNoDate = errors.New("no date found")

const monthWord = `(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:tember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)`

// dateExpression finds, in order of appearance, written dates (group 1) and the
// relative expressions naturaldate reads reliably (group 2). Text outside these
// forms is never handed to naturaldate, which would otherwise guess an offset
// from any number it sees.
var dateExpression = regexp.MustCompile(`\b(?:(` +
	`\d{4}-\d{2}-\d{2}` +
	`|` + monthWord + `\s+\d{1,2}(?:,?\s+\d{4})?` +
	`|\d{1,2}\s+(?:of\s+)?` + monthWord + `(?:,?\s+\d{4})?` +
	`|` + monthWord + `\s+\d{4}` +
	`)|(` +
	`today|yesterday|tomorrow|\d+\s+(?:day|week|month|year)s?\s+ago` +
	`))\b`)

// NaturalExtractor recognises written dates ("january 3rd 2013", "4 july", "june 2017")
// and simple relative expressions ("yesterday", "3 days ago"), the latter through
// go-naturaldate.
type NaturalExtractor struct{}

// Extract returns every date it could parse from text, in the order they appear.
func (NaturalExtractor) Extract(text string, ref time.Time) ([]time.Time, error) {
	text = strings.ToLower(dateparse.OrdinalSuffix.ReplaceAllString(text, "$1"))

	var dates []time.Time
	for _, m := range dateExpression.FindAllStringSubmatch(text, -1) {
		var (
			t  time.Time
			ok bool
		)
		if m[1] != "" {
			t, ok = dateparse.ParseAbsolute(m[1], ref)
		} else {
			var err error
			t, err = dateparse.ParseWithPast(m[2], ref)
			ok = err == nil
		}
		if ok {
			dates = append(dates, dateparse.StartOfDay(t))
		}
	}

	if len(dates) == 0 {
		return nil, ErrNoDate
	}
	return dates, nil
}
