// Package libdaterange resolves informal temporal references in free-text queries
// ("last quarter", "sales before 2013", "in August") into calendar dates and ranges.
package libdaterange

import (
	"errors"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/njt/daterange/internal/dateparse"
	"github.com/njt/daterange/internal/query"
)

// Options configures a Resolver. The zero value is usable.
type Options struct {
	// MonthFirst reads short numeric dates such as 10/12 as month/day instead of day/month.
	MonthFirst bool
	// Extractor is consulted when no built-in pattern matches. Defaults to NaturalExtractor.
	Extractor Extractor
	// Logger receives debug traces of strategy decisions. Defaults to a no-op logger.
	Logger *zap.Logger
	// Now supplies the current time for Resolve and ParseDate. Defaults to time.Now.
	Now func() time.Time
}

// strategy is one step of the resolution pipeline.
type strategy struct {
	name    string
	applies func(q string) bool
	resolve func(q string, today time.Time) (*DateRange, error)
}

// Resolver turns queries into date ranges. It is immutable once built and safe for
// concurrent use.
type Resolver struct {
	extractor  Extractor
	logger     *zap.Logger
	now        func() time.Time
	phrases    []phrase
	numeric    []rule
	strategies []strategy
}

// NewResolver builds a Resolver from opts.
func NewResolver(opts Options) *Resolver {
	r := &Resolver{
		extractor: opts.Extractor,
		logger:    opts.Logger,
		now:       opts.Now,
		phrases:   newPhraseTable(),
		numeric:   numericRules(opts.MonthFirst),
	}
	if r.extractor == nil {
		r.extractor = NaturalExtractor{}
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	if r.now == nil {
		r.now = time.Now
	}

	always := func(string) bool { return true }
	r.strategies = []strategy{
		{name: "year", applies: always, resolve: parseYear},
		{name: "before", applies: func(q string) bool { return query.ContainsAny(q, beforeKeywords...) }, resolve: r.parseBefore},
		{name: "after", applies: func(q string) bool { return strings.Contains(q, "after") }, resolve: r.parseAfter},
		{name: "phrase", applies: always, resolve: r.parsePhrase},
		{name: "month", applies: always, resolve: r.parseMonth},
		{name: "month lookback", applies: always, resolve: parseMonthLookback},
		{name: "unit lookback", applies: always, resolve: parseUnitLookback},
		{name: "fallback", applies: always, resolve: r.fallback},
	}
	return r
}

// ParseDate resolves q against the current date and returns nil, [date] or
// [start, end], each formatted YYYY-MM-DD.
func (r *Resolver) ParseDate(q string) []string {
	dr, ok := r.Resolve(q)
	if !ok {
		return nil
	}
	return dr.Strings()
}

// Resolve resolves q against the current date.
func (r *Resolver) Resolve(q string) (*DateRange, bool) {
	return r.ResolveAt(q, r.now())
}

// ResolveAt resolves q as if today were now. It never fails: a query without a
// recognisable temporal reference yields false.
func (r *Resolver) ResolveAt(q string, now time.Time) (*DateRange, bool) {
	q = query.Normalize(q)
	today := dateparse.StartOfDay(now)

	for _, s := range r.strategies {
		if !s.applies(q) {
			continue
		}
		dr, err := s.resolve(q, today)
		if err != nil {
			r.logger.Debug("Strategy abandoned",
				zap.String("strategy", s.name),
				zap.String("query", q),
				zap.Error(err))
			continue
		}
		if dr == nil {
			continue
		}
		dr = dr.ordered()
		r.logger.Debug("Strategy matched",
			zap.String("strategy", s.name),
			zap.String("query", q),
			zap.Strings("dates", dr.Strings()))
		return dr, true
	}
	return nil, false
}

func (r *Resolver) parsePhrase(q string, today time.Time) (*DateRange, error) {
	for _, p := range r.phrases {
		if strings.Contains(q, p.text) {
			return p.eval(today), nil
		}
	}
	return nil, nil
}

// fallback hands the whole query to the extractor.
func (r *Resolver) fallback(q string, today time.Time) (*DateRange, error) {
	dates := r.extract(q, today)

	// Nothing found, or only the extractor's default of today.
	if len(dates) == 0 || (len(dates) == 1 && dateparse.SameDay(dates[0], today)) {
		if query.ContainsAny(q, "this month", "current month", "ongoing month") {
			return Span(firstOfMonth(today), today), nil
		}
		return nil, nil
	}
	if len(dates) == 1 {
		return Point(dates[0]), nil
	}
	return Span(dates[0], dates[len(dates)-1]), nil
}

// extract returns the distinct dates the extractor found in text, sorted ascending.
// Extractor failures count as finding nothing.
func (r *Resolver) extract(text string, today time.Time) []time.Time {
	found, err := r.extractor.Extract(text, today)
	if err != nil {
		if !errors.Is(err, ErrNoDate) {
			r.logger.Debug("Extractor failed", zap.String("text", text), zap.Error(err))
		}
		return nil
	}

	seen := make(map[string]bool, len(found))
	dates := make([]time.Time, 0, len(found))
	for _, t := range found {
		d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, today.Location())
		key := dateparse.FormatDate(d)
		if seen[key] {
			continue
		}
		seen[key] = true
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// extractFirst returns the earliest date the extractor found in text. A lone date
// equal to today is how naive extractors say "nothing found", so it is rejected.
func (r *Resolver) extractFirst(text string, today time.Time) (time.Time, bool) {
	if text == "" {
		return time.Time{}, false
	}
	dates := r.extract(text, today)
	if len(dates) == 0 || dateparse.SameDay(dates[0], today) {
		return time.Time{}, false
	}
	return dates[0], true
}
