package scrape

import (
	"strings"
	"testing"

	"Folio/pkg/engine/core"
	"Folio/pkg/engine/network"
)

func pageFrom(t *testing.T, html, url string) *Page {
	t.Helper()
	page, err := NewPage(&network.Result{Body: []byte(html), URL: url})
	if err != nil {
		t.Fatalf("NewPage: %v", err)
	}
	return page
}

func TestExtractTitle(t *testing.T) {
	page := pageFrom(t, `<html><body>
		<h1 class="novel-title">Timeless Assassin</h1>
	</body></html>`, "https://novelbin.com/b/x")

	if got := ExtractTitle(page, core.SourceNovelBin); got != "Timeless Assassin" {
		t.Errorf("got %q", got)
	}
}

func TestExtractTitleGenericFallsBackToH1(t *testing.T) {
	page := pageFrom(t, `<html><body><h1>Some Web Novel</h1></body></html>`, "https://example.com/x")

	if got := ExtractTitle(page, core.SourceGeneric); got != "Some Web Novel" {
		t.Errorf("got %q", got)
	}
}

func TestExtractTitleSentinelWhenMissing(t *testing.T) {
	page := pageFrom(t, `<html><body><p>nothing here</p></body></html>`, "https://example.com/x")

	if got := ExtractTitle(page, core.SourceGeneric); got != core.UnknownTitle {
		t.Errorf("got %q, want sentinel", got)
	}
}

func TestExtractTitleRejectsOverlong(t *testing.T) {
	long := strings.Repeat("x", 250)
	page := pageFrom(t, `<html><body>
		<h1>`+long+`</h1>
		<div class="book-title">Real Title</div>
	</body></html>`, "https://example.com/x")

	if got := ExtractTitle(page, core.SourceGeneric); got != "Real Title" {
		t.Errorf("got %q, want the next strategy's hit", got)
	}
}

func TestExtractAuthorLabelSibling(t *testing.T) {
	// novelbin marks the author up as a heading followed by the value
	page := pageFrom(t, `<html><body>
		<h3>Author:</h3><a href="/a/jin-yong">Jin Yong</a>
	</body></html>`, "https://novelbin.com/b/x")

	if got := ExtractAuthor(page, core.SourceNovelBin); got != "Jin Yong" {
		t.Errorf("got %q", got)
	}
}

func TestExtractAuthorStripsPrefix(t *testing.T) {
	tests := []struct {
		html string
		want string
	}{
		{`<div class="author">Author: Jane Doe</div>`, "Jane Doe"},
		{`<div class="author">By Jane Doe</div>`, "Jane Doe"},
		{`<div class="author">Written by: Jane Doe</div>`, "Jane Doe"},
		{`<div class="author">Jane Doe</div>`, "Jane Doe"},
	}
	for _, tt := range tests {
		page := pageFrom(t, "<html><body>"+tt.html+"</body></html>", "https://example.com/x")
		if got := ExtractAuthor(page, core.SourceGeneric); got != tt.want {
			t.Errorf("html %q: got %q, want %q", tt.html, got, tt.want)
		}
	}
}

func TestExtractAuthorSentinel(t *testing.T) {
	page := pageFrom(t, `<html><body><p>anonymous work</p></body></html>`, "https://example.com/x")
	if got := ExtractAuthor(page, core.SourceGeneric); got != core.UnknownAuthor {
		t.Errorf("got %q, want sentinel", got)
	}
}

func TestExtractDescriptionLengthBounds(t *testing.T) {
	// Too short to be a synopsis; the sentinel applies
	page := pageFrom(t, `<html><body><div class="description">short</div></body></html>`,
		"https://example.com/x")
	if got := ExtractDescription(page, core.SourceGeneric); got != core.NoDescription {
		t.Errorf("got %q, want sentinel for under-length description", got)
	}

	page = pageFrom(t, `<html><body>
		<div class="synopsis">A sweeping tale of revenge and redemption across three kingdoms.</div>
	</body></html>`, "https://example.com/x")
	want := "A sweeping tale of revenge and redemption across three kingdoms."
	if got := ExtractDescription(page, core.SourceGeneric); got != want {
		t.Errorf("got %q", got)
	}
}

func TestExtractCoverResolvesRelative(t *testing.T) {
	page := pageFrom(t, `<html><body>
		<div class="book-cover"><img src="/media/cover.jpg" alt="cover"></div>
	</body></html>`, "https://novelbin.com/b/x")

	got := ExtractCover(page, core.SourceNovelBin, "https://novelbin.com/b/x")
	if got != "https://novelbin.com/media/cover.jpg" {
		t.Errorf("got %q", got)
	}
}

func TestExtractCoverDataSrc(t *testing.T) {
	page := pageFrom(t, `<html><body>
		<div class="cover"><img data-src="https://cdn.example.com/c.jpg" alt="cover"></div>
	</body></html>`, "https://example.com/x")

	got := ExtractCover(page, core.SourceGeneric, "https://example.com/x")
	if got != "https://cdn.example.com/c.jpg" {
		t.Errorf("got %q", got)
	}
}

func TestToAbsoluteURL(t *testing.T) {
	base := "https://novelbin.com/b/some-book"
	tests := []struct {
		href string
		want string
	}{
		{"https://x.com/a", "https://x.com/a"},
		{"//cdn.x.com/a.jpg", "https://cdn.x.com/a.jpg"},
		{"/chapter-1", "https://novelbin.com/chapter-1"},
		{"chapter-1", "https://novelbin.com/b/some-book/chapter-1"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ToAbsoluteURL(tt.href, base); got != tt.want {
			t.Errorf("ToAbsoluteURL(%q) = %q, want %q", tt.href, got, tt.want)
		}
	}
}

func TestCleanText(t *testing.T) {
	if got := CleanText("  a \n\t b   c "); got != "a b c" {
		t.Errorf("got %q", got)
	}
}

func TestIsPlausible(t *testing.T) {
	filler := strings.Repeat("real content here ", 10)
	good := pageFrom(t, `<html><body><h1>Title</h1><p>`+filler+`</p></body></html>`,
		"https://example.com/x")
	if !good.IsPlausible() {
		t.Error("page with title and body should be plausible")
	}

	bare := pageFrom(t, `<html><body><p>tiny</p></body></html>`, "https://example.com/x")
	if bare.IsPlausible() {
		t.Error("page without a title element should not be plausible")
	}
}
