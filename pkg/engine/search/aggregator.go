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

// Package search fans a query out to every registered source and
// merges the results. One slow or broken site degrades the response
// instead of failing it.
package search

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"Folio/pkg/engine/core"
	"Folio/pkg/engine/logger"
	"Folio/pkg/source"
)

const (
	defaultConcurrency = 3
	defaultTimeout     = 30 * time.Second
)

// Result is the merged outcome of one aggregated search.
type Result struct {
	Query        string             `json:"query"`
	TotalResults int                `json:"totalResults"`
	Results      []core.BookSummary `json:"results"`
	Message      string             `json:"message,omitempty"`
}

// Aggregator runs searches across the source registry.
type Aggregator struct {
	registry    *source.Registry
	log         logger.Logger
	concurrency int
	timeout     time.Duration
}

// NewAggregator creates an aggregator over registry. Non-positive
// concurrency or timeout select the defaults.
func NewAggregator(registry *source.Registry, log logger.Logger, concurrency int, timeout time.Duration) *Aggregator {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Aggregator{
		registry:    registry,
		log:         log,
		concurrency: concurrency,
		timeout:     timeout,
	}
}

// Search queries all sources concurrently and merges their results,
// deduplicated and ordered by source priority then title. Failed
// sources are counted into the result message, never into an error.
func (a *Aggregator) Search(ctx context.Context, query string) *Result {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	scrapers := a.registry.All()
	priorities := make(map[core.Source]int, len(scrapers))
	for _, s := range scrapers {
		priorities[s.ID()] = s.Priority()
	}

	var (
		mu      sync.Mutex
		merged  []core.BookSummary
		failed  int
		wg      sync.WaitGroup
		permits = make(chan struct{}, a.concurrency)
	)

	for _, s := range scrapers {
		wg.Add(1)
		go func(s source.Scraper) {
			defer wg.Done()

			select {
			case permits <- struct{}{}:
				defer func() { <-permits }()
			case <-ctx.Done():
				mu.Lock()
				failed++
				mu.Unlock()
				return
			}

			books, err := s.Search(ctx, query)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				a.log.Warn("[Search] %s failed: %v", s.Name(), err)
				failed++
				return
			}
			merged = append(merged, books...)
		}(s)
	}
	wg.Wait()

	merged = dedupe(merged)
	sort.SliceStable(merged, func(i, j int) bool {
		pi, pj := priorities[merged[i].Source], priorities[merged[j].Source]
		if pi != pj {
			return pi < pj
		}
		return strings.ToLower(merged[i].Title) < strings.ToLower(merged[j].Title)
	})

	result := &Result{
		Query:        query,
		TotalResults: len(merged),
		Results:      merged,
	}
	contributing := make(map[core.Source]bool)
	for _, b := range merged {
		contributing[b.Source] = true
	}
	total := len(scrapers)
	switch {
	case failed == 0 && len(merged) == 0:
		result.Message = "No results found"
	case failed > 0 && failed == total:
		result.Message = "All sources failed"
	case failed > 0:
		result.Message = fmt.Sprintf("%d/%d sources had issues", failed, total)
	default:
		result.Message = fmt.Sprintf("Found %d results from %d sources", len(merged), len(contributing))
	}

	a.log.Info("[Search] Query %q: %d results, %d/%d sources failed", query, len(merged), failed, total)
	return result
}

func dedupe(books []core.BookSummary) []core.BookSummary {
	seen := make(map[string]bool, len(books))
	out := books[:0]
	for _, b := range books {
		key := b.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, b)
	}
	return out
}
