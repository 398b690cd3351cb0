// Folio: A content-acquisition server for reading web-serialized novels.
// Copyright (C) 2025 The Folio Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

// Package cache provides in-memory TTL caching for scraped results.
// Entries expire lazily on read and are also reaped by a background
// sweep, so an idle server does not hold stale pages forever.
package cache

import (
	"strings"
	"sync"
	"time"

	"Folio/pkg/engine/core"
)

const sweepInterval = 5 * time.Minute

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// Store is a TTL key/value cache safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	items   map[string]entry
	ttl     time.Duration
	stop    chan struct{}
	stopped sync.Once
}

// NewStore creates a store whose entries live for ttl. A background
// sweeper removes expired entries until Stop is called.
func NewStore(ttl time.Duration) *Store {
	s := &Store{
		items: make(map[string]entry),
		ttl:   ttl,
		stop:  make(chan struct{}),
	}
	go s.sweep()
	return s
}

// Set stores value under key with the store's TTL.
func (s *Store) Set(key string, value interface{}) {
	s.mu.Lock()
	s.items[key] = entry{value: value, expiresAt: time.Now().Add(s.ttl)}
	s.mu.Unlock()
}

// Get returns the cached value, or false when absent or expired.
// Expired entries are removed on access.
func (s *Store) Get(key string) (interface{}, bool) {
	s.mu.RLock()
	e, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		s.mu.Lock()
		// Re-check: a writer may have refreshed the entry in between
		if cur, ok := s.items[key]; ok && time.Now().After(cur.expiresAt) {
			delete(s.items, key)
		}
		s.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

// Has reports whether key is present and unexpired.
func (s *Store) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Delete removes key from the store.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
}

// Clear removes all entries.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = make(map[string]entry)
	s.mu.Unlock()
}

// Len returns the number of entries, including any not yet swept.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Keys returns the keys of all unexpired entries.
func (s *Store) Keys() []string {
	now := time.Now()
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.items))
	for k, e := range s.items {
		if now.Before(e.expiresAt) {
			keys = append(keys, k)
		}
	}
	return keys
}

// Stop terminates the background sweeper.
func (s *Store) Stop() {
	s.stopped.Do(func() { close(s.stop) })
}

func (s *Store) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for k, e := range s.items {
				if now.After(e.expiresAt) {
					delete(s.items, k)
				}
			}
			s.mu.Unlock()
		case <-s.stop:
			return
		}
	}
}

// Caches bundles the three result stores, one per entity kind.
type Caches struct {
	Search   *Store
	Details  *Store
	Chapters *Store
}

// NewCaches creates the three stores with the given TTLs.
func NewCaches(searchTTL, detailsTTL, chaptersTTL time.Duration) *Caches {
	return &Caches{
		Search:   NewStore(searchTTL),
		Details:  NewStore(detailsTTL),
		Chapters: NewStore(chaptersTTL),
	}
}

// ClearKind clears one store by name ("search", "details", "chapters")
// or all three for "all" / "". It reports whether the kind was known.
func (c *Caches) ClearKind(kind string) bool {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "search":
		c.Search.Clear()
	case "details", "book":
		c.Details.Clear()
	case "chapters", "chapter":
		c.Chapters.Clear()
	case "", "all":
		c.Search.Clear()
		c.Details.Clear()
		c.Chapters.Clear()
	default:
		return false
	}
	return true
}

// Sizes returns per-store entry counts for the health endpoint.
func (c *Caches) Sizes() map[string]int {
	return map[string]int{
		"search":   c.Search.Len(),
		"details":  c.Details.Len(),
		"chapters": c.Chapters.Len(),
	}
}

// Stop stops all background sweepers.
func (c *Caches) Stop() {
	c.Search.Stop()
	c.Details.Stop()
	c.Chapters.Stop()
}

// SearchKey builds the cache key for an aggregated search.
func SearchKey(query string) string {
	return "search:" + strings.ToLower(strings.TrimSpace(query))
}

// DetailsKey builds the cache key for a book-details page.
func DetailsKey(source core.Source, url string) string {
	return "book:" + string(source) + ":" + url
}

// ChapterKey builds the cache key for a chapter-content page.
func ChapterKey(source core.Source, url string) string {
	return "chapter:" + string(source) + ":" + url
}
