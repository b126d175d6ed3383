// Package batch resolves many queries concurrently against a single reference date.
package batch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/njt/daterange/internal/dateparse"
	"github.com/njt/daterange/internal/query"
	"github.com/njt/daterange/libdaterange"
)

// DefaultCacheSize is the number of resolved queries remembered per Runner.
const DefaultCacheSize = 1024

// Resolver is the part of *libdaterange.Resolver a Runner needs.
type Resolver interface {
	ResolveAt(q string, now time.Time) (*libdaterange.DateRange, bool)
}

// Result is the outcome for one input query. Dates is nil when nothing was found.
type Result struct {
	Query string   `json:"query" yaml:"query"`
	Dates []string `json:"dates" yaml:"dates"`
}

// Runner fans queries out over a bounded number of workers. Identical queries
// (after normalisation) resolved for the same day are served from a cache.
type Runner struct {
	resolver Resolver
	workers  int
	cache    *lru.Cache[string, []string]
	logger   *zap.Logger
}

// New creates a Runner. workers below 1 is treated as 1.
func New(resolver Resolver, workers int, logger *zap.Logger) (*Runner, error) {
	cache, err := lru.New[string, []string](DefaultCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		resolver: resolver,
		workers:  workers,
		cache:    cache,
		logger:   logger,
	}, nil
}

// Run resolves every query as of now and returns results in input order.
func (b *Runner) Run(ctx context.Context, queries []string, now time.Time) ([]Result, error) {
	results := make([]Result, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)

	for i, q := range queries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = Result{Query: q, Dates: b.resolve(q, now)}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	b.logger.Debug("Batch resolved",
		zap.Int("queries", len(queries)),
		zap.Int("cached", b.cache.Len()))
	return results, nil
}

func (b *Runner) resolve(q string, now time.Time) []string {
	key := dateparse.FormatDate(now) + "|" + query.Normalize(q)
	if dates, ok := b.cache.Get(key); ok {
		return dates
	}

	var dates []string
	if dr, ok := b.resolver.ResolveAt(q, now); ok {
		dates = dr.Strings()
	}
	b.cache.Add(key, dates)
	return dates
}

// ReadQueries reads one query per line, skipping blank lines and lines starting with #.
func ReadQueries(r io.Reader) ([]string, error) {
	var queries []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		queries = append(queries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read queries: %w", err)
	}
	return queries, nil
}
