package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"Folio/pkg/engine/core"
	"Folio/pkg/engine/logger"
	"Folio/pkg/engine/network"
)

const searchPage = `<html><body>
	<div class="book-item">
		<h3><a href="/b/timeless-assassin">Timeless Assassin</a></h3>
		<span class="author">Author: Gu Long</span>
		<img src="/covers/ta.jpg">
	</div>
	<div class="book-item">
		<h3><a href="/b/timeless-assassin">Timeless Assassin</a></h3>
	</div>
	<div class="book-item">
		<h3><a href="/b/another">Another Tale</a></h3>
	</div>
</body></html>`

func TestSiteScraperSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("keyword") != "timeless assassin" {
			t.Errorf("keyword = %q", r.URL.Query().Get("keyword"))
		}
		w.Write([]byte(searchPage))
	}))
	defer srv.Close()

	log := logger.NewService("")
	log.SetLevel(logger.LevelError)
	client, err := network.NewClient(network.Options{MaxRetries: 1}, log)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	s := New(Config{
		ID:               core.SourceNovelBin,
		Name:             "TestSite",
		BaseURL:          srv.URL,
		Priority:         1,
		SearchURL:        srv.URL + "/search?keyword=%s",
		ResultContainers: []string{".book-item"},
		TitleSelectors:   []string{"h3 a"},
		AuthorSelectors:  []string{".author"},
		CoverSelectors:   []string{"img"},
	}, client, log)

	books, err := s.Search(context.Background(), "timeless assassin")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	// Duplicate link collapses to one entry
	if len(books) != 2 {
		t.Fatalf("got %d books, want 2: %+v", len(books), books)
	}

	first := books[0]
	if first.Title != "Timeless Assassin" {
		t.Errorf("title = %q", first.Title)
	}
	if first.Author != "Gu Long" {
		t.Errorf("author label should be stripped, got %q", first.Author)
	}
	if first.Link != srv.URL+"/b/timeless-assassin" {
		t.Errorf("link = %q", first.Link)
	}
	if first.Cover != srv.URL+"/covers/ta.jpg" {
		t.Errorf("cover = %q", first.Cover)
	}
	if first.Source != core.SourceNovelBin {
		t.Errorf("source = %q", first.Source)
	}

	// Missing author falls back to the sentinel
	if books[1].Author != core.UnknownAuthor {
		t.Errorf("author = %q, want sentinel", books[1].Author)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	a := &stubScraper{id: "a", priority: 2}
	b := &stubScraper{id: "b", priority: 1}

	if err := r.Register(a); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(b); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(a); err == nil {
		t.Error("duplicate registration should fail")
	}

	if r.Count() != 2 {
		t.Errorf("count = %d", r.Count())
	}

	got, ok := r.Get("a")
	if !ok || got.ID() != "a" {
		t.Error("Get should find registered scraper")
	}
	if _, ok := r.Get("missing"); ok {
		t.Error("Get should miss unknown id")
	}

	all := r.All()
	if all[0].ID() != "b" || all[1].ID() != "a" {
		t.Errorf("All should order by priority, got %v, %v", all[0].ID(), all[1].ID())
	}
}

type stubScraper struct {
	id       core.Source
	priority int
}

func (s *stubScraper) ID() core.Source { return s.id }
func (s *stubScraper) Name() string    { return string(s.id) }
func (s *stubScraper) BaseURL() string { return "" }
func (s *stubScraper) Priority() int   { return s.priority }
func (s *stubScraper) Search(ctx context.Context, query string) ([]core.BookSummary, error) {
	return nil, nil
}
