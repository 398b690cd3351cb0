package cache

import (
	"testing"
	"time"

	"Folio/pkg/engine/core"
)

func TestStoreSetGet(t *testing.T) {
	s := NewStore(time.Minute)
	defer s.Stop()

	s.Set("a", 1)
	v, ok := s.Get("a")
	if !ok {
		t.Fatal("expected hit for key a")
	}
	if v.(int) != 1 {
		t.Errorf("got %v, want 1", v)
	}

	if _, ok := s.Get("missing"); ok {
		t.Error("expected miss for unknown key")
	}
}

func TestStoreExpiry(t *testing.T) {
	s := NewStore(20 * time.Millisecond)
	defer s.Stop()

	s.Set("a", "x")
	if !s.Has("a") {
		t.Fatal("entry should be live before TTL")
	}

	time.Sleep(40 * time.Millisecond)
	if s.Has("a") {
		t.Error("entry should have expired")
	}
	// Lazy eviction removes the expired entry on access
	if s.Len() != 0 {
		t.Errorf("expected empty store after expired read, got %d entries", s.Len())
	}
}

func TestStoreDeleteAndClear(t *testing.T) {
	s := NewStore(time.Minute)
	defer s.Stop()

	s.Set("a", 1)
	s.Set("b", 2)

	s.Delete("a")
	if s.Has("a") {
		t.Error("deleted key should miss")
	}
	if !s.Has("b") {
		t.Error("other key should survive delete")
	}

	s.Clear()
	if s.Len() != 0 {
		t.Errorf("clear left %d entries", s.Len())
	}
}

func TestStoreKeys(t *testing.T) {
	s := NewStore(time.Minute)
	defer s.Stop()

	s.Set("a", 1)
	s.Set("b", 2)

	keys := s.Keys()
	if len(keys) != 2 {
		t.Fatalf("got %d keys, want 2", len(keys))
	}
}

func TestCachesClearKind(t *testing.T) {
	c := NewCaches(time.Minute, time.Minute, time.Minute)
	defer c.Stop()

	c.Search.Set("s", 1)
	c.Details.Set("d", 1)
	c.Chapters.Set("c", 1)

	if !c.ClearKind("search") {
		t.Fatal("search should be a known kind")
	}
	if c.Search.Len() != 0 || c.Details.Len() != 1 {
		t.Error("only the search store should have been cleared")
	}

	if c.ClearKind("bogus") {
		t.Error("unknown kind should be rejected")
	}

	if !c.ClearKind("all") {
		t.Fatal("all should be a known kind")
	}
	sizes := c.Sizes()
	for kind, n := range sizes {
		if n != 0 {
			t.Errorf("store %s not cleared: %d entries", kind, n)
		}
	}
}

func TestCacheKeys(t *testing.T) {
	if got := SearchKey("  Some Query "); got != "search:some query" {
		t.Errorf("SearchKey = %q", got)
	}
	if got := DetailsKey(core.SourceNovelBin, "https://x/b/y"); got != "book:novelbin:https://x/b/y" {
		t.Errorf("DetailsKey = %q", got)
	}
	if got := ChapterKey(core.SourceNovelFull, "u"); got != "chapter:novelfull:u" {
		t.Errorf("ChapterKey = %q", got)
	}
}
