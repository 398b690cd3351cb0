package core

import "testing"

func TestParseSource(t *testing.T) {
	tests := []struct {
		in   string
		want Source
	}{
		{"novelbin", SourceNovelBin},
		{"NovelBin", SourceNovelBin},
		{" lightnovelworld ", SourceLightNovelWorld},
		{"novelfull", SourceNovelFull},
		{"somethingelse", SourceGeneric},
		{"", SourceGeneric},
	}
	for _, tt := range tests {
		if got := ParseSource(tt.in); got != tt.want {
			t.Errorf("ParseSource(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBookSummaryKey(t *testing.T) {
	a := BookSummary{Source: SourceNovelBin, Link: "https://x/B/Book"}
	b := BookSummary{Source: SourceNovelBin, Link: "https://x/b/book"}
	if a.Key() != b.Key() {
		t.Error("keys should match regardless of link case")
	}

	c := BookSummary{Source: SourceNovelFull, Link: "https://x/b/book"}
	if a.Key() == c.Key() {
		t.Error("different sources must not collide")
	}
}
