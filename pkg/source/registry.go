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

package source

import (
	"fmt"
	"sort"
	"sync"

	"Folio/pkg/engine/core"
)

// Registry holds the registered site scrapers, keyed by source id.
type Registry struct {
	mu       sync.RWMutex
	scrapers map[core.Source]Scraper
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{scrapers: make(map[core.Source]Scraper)}
}

// Register adds a scraper. Registering the same id twice is an error.
func (r *Registry) Register(s Scraper) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.scrapers[s.ID()]; exists {
		return fmt.Errorf("source %q already registered", s.ID())
	}
	r.scrapers[s.ID()] = s
	return nil
}

// Get returns the scraper for id.
func (r *Registry) Get(id core.Source) (Scraper, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.scrapers[id]
	return s, ok
}

// All returns every registered scraper ordered by priority.
func (r *Registry) All() []Scraper {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Scraper, 0, len(r.scrapers))
	for _, s := range r.scrapers {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority() != out[j].Priority() {
			return out[i].Priority() < out[j].Priority()
		}
		return out[i].ID() < out[j].ID()
	})
	return out
}

// Count returns the number of registered scrapers.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.scrapers)
}
