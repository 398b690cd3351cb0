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

package scrape

import (
	"context"
	"strings"

	"Folio/pkg/engine/core"
	"Folio/pkg/engine/logger"
	"Folio/pkg/engine/network"
	"Folio/pkg/errors"
)

// Fetcher is the fetch dependency of the extractor. Both the plain and
// the robust client satisfy it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*network.Result, error)
}

// Extractor drives page-level extraction for book details, chapter
// indexes, and chapter content.
type Extractor struct {
	fetch    Fetcher
	log      logger.Logger
	gapProbe bool
	maxPages int
}

// NewExtractor creates an extractor. gapProbe enables speculative
// probing for chapters missing from sparse indexes; maxPages bounds
// pagination walks (<=0 means the default of 50).
func NewExtractor(fetch Fetcher, log logger.Logger, gapProbe bool, maxPages int) *Extractor {
	return &Extractor{
		fetch:    fetch,
		log:      log,
		gapProbe: gapProbe,
		maxPages: maxPages,
	}
}

// detailURLVariants returns the URLs to try for a book page, the given
// one first. Some layouts only expose the chapter index behind a
// rewritten path or a query flag.
func detailURLVariants(bookURL string) []string {
	variants := []string{bookURL}

	if strings.Contains(bookURL, "/b/") {
		base := strings.Replace(bookURL, "/b/", "/", 1)
		variants = append(variants, base, base+"/chapters", base+"/all-chapters")
	}
	variants = append(variants,
		bookURL+"?tab=chapters",
		bookURL+"?view=chapters",
		bookURL+"?show=all",
	)
	return variants
}

// ScrapeBookDetails fetches a book page (trying URL variants until one
// yields plausible content) and extracts the full detail record,
// including the paginated chapter index.
func (e *Extractor) ScrapeBookDetails(ctx context.Context, bookURL string, source core.Source) (*core.BookDetails, error) {
	var page *Page

	for _, variant := range detailURLVariants(bookURL) {
		res, err := e.fetch.Fetch(ctx, variant)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) ||
				errors.IsCircuitOpen(err) {
				return nil, err
			}
			e.log.Warn("[Details] Failed to load %s: %v", variant, err)
			continue
		}
		p, err := NewPage(res)
		if err != nil {
			continue
		}
		if p.IsPlausible() {
			e.log.Info("[Details] Loaded %s", variant)
			page = p
			break
		}
	}
	if page == nil {
		return nil, errors.ErrNoContent
	}

	details := &core.BookDetails{
		Title:       ExtractTitle(page, source),
		Author:      ExtractAuthor(page, source),
		Description: ExtractDescription(page, source),
		Cover:       ExtractCover(page, source, bookURL),
		Source:      source,
	}
	details.Chapters = e.ExtractChaptersWithPagination(ctx, page, source, bookURL)
	details.TotalChapters = len(details.Chapters)

	e.log.Info("[Details] Scraped %q with %d chapters", details.Title, details.TotalChapters)
	return details, nil
}
