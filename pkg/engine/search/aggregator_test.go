package search

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Folio/pkg/engine/core"
	"Folio/pkg/engine/logger"
	"Folio/pkg/source"
)

type fakeScraper struct {
	id       core.Source
	priority int
	books    []core.BookSummary
	err      error
}

func (f *fakeScraper) ID() core.Source { return f.id }
func (f *fakeScraper) Name() string    { return string(f.id) }
func (f *fakeScraper) BaseURL() string { return "https://" + string(f.id) + ".test" }
func (f *fakeScraper) Priority() int   { return f.priority }
func (f *fakeScraper) Search(ctx context.Context, query string) ([]core.BookSummary, error) {
	return f.books, f.err
}

func newTestAggregator(t *testing.T, scrapers ...source.Scraper) *Aggregator {
	t.Helper()
	log := logger.NewService("")
	log.SetLevel(logger.LevelError)

	registry := source.NewRegistry()
	for _, s := range scrapers {
		require.NoError(t, registry.Register(s))
	}
	return NewAggregator(registry, log, 3, 5*time.Second)
}

func book(src core.Source, title, link string) core.BookSummary {
	return core.BookSummary{Title: title, Link: link, Source: src}
}

func TestSearchMergesAndSorts(t *testing.T) {
	a := newTestAggregator(t,
		&fakeScraper{id: "beta", priority: 2, books: []core.BookSummary{
			book("beta", "Alpha Novel", "https://beta.test/1"),
		}},
		&fakeScraper{id: "alpha", priority: 1, books: []core.BookSummary{
			book("alpha", "Zeta Novel", "https://alpha.test/1"),
			book("alpha", "Beta Novel", "https://alpha.test/2"),
		}},
	)

	result := a.Search(context.Background(), "novel")

	require.Equal(t, 3, result.TotalResults)
	assert.Equal(t, "Found 3 results from 2 sources", result.Message)
	// Priority-1 source first, its own results title-ordered
	assert.Equal(t, "Beta Novel", result.Results[0].Title)
	assert.Equal(t, "Zeta Novel", result.Results[1].Title)
	assert.Equal(t, "Alpha Novel", result.Results[2].Title)
}

func TestSearchCountsFailedSources(t *testing.T) {
	a := newTestAggregator(t,
		&fakeScraper{id: "good", priority: 1, books: []core.BookSummary{
			book("good", "Found It", "https://good.test/1"),
		}},
		&fakeScraper{id: "bad", priority: 2, err: context.DeadlineExceeded},
	)

	result := a.Search(context.Background(), "novel")

	require.Equal(t, 1, result.TotalResults)
	assert.Equal(t, "1/2 sources had issues", result.Message)
}

func TestSearchAllSourcesFailed(t *testing.T) {
	a := newTestAggregator(t,
		&fakeScraper{id: "bad1", priority: 1, err: context.DeadlineExceeded},
		&fakeScraper{id: "bad2", priority: 2, err: context.DeadlineExceeded},
	)

	result := a.Search(context.Background(), "novel")

	assert.Zero(t, result.TotalResults)
	assert.Equal(t, "All sources failed", result.Message)
}

func TestSearchNoResults(t *testing.T) {
	a := newTestAggregator(t, &fakeScraper{id: "empty", priority: 1})

	result := a.Search(context.Background(), "obscure query")

	assert.Zero(t, result.TotalResults)
	assert.Equal(t, "No results found", result.Message)
	assert.Equal(t, "obscure query", result.Query)
}

func TestSearchDeduplicates(t *testing.T) {
	dup := book("alpha", "Same Book", "https://alpha.test/same")
	upper := dup
	upper.Link = "https://alpha.test/SAME"

	a := newTestAggregator(t,
		&fakeScraper{id: "alpha", priority: 1, books: []core.BookSummary{dup, upper}},
	)

	result := a.Search(context.Background(), "same")
	// Links differing only by case identify the same book
	assert.Equal(t, 1, result.TotalResults)
}
