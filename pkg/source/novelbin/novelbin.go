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

// Package novelbin scrapes novelbin.com. The site serves several
// layouts depending on edge cache, so every field carries a selector
// chain rather than a single selector.
package novelbin

import (
	"Folio/pkg/engine/core"
	"Folio/pkg/engine/logger"
	"Folio/pkg/engine/scrape"
	"Folio/pkg/source"
)

// New creates the novelbin scraper.
func New(fetch scrape.Fetcher, log logger.Logger) source.Scraper {
	return source.New(source.Config{
		ID:        core.SourceNovelBin,
		Name:      "NovelBin",
		BaseURL:   "https://novelbin.com",
		Priority:  1,
		SearchURL: "https://novelbin.com/search?keyword=%s",
		ResultContainers: []string{
			".book-item",
			".novel-item",
			".list-novel .row",
			".search-result-item",
			".book-list-item",
			".novel-list-item",
		},
		TitleSelectors: []string{
			"h3 a",
			".novel-title a",
			".book-name a",
			".title a",
			`a[href*="/b/"]`,
		},
		AuthorSelectors: []string{
			".author",
			".book-author",
			".novel-author",
			".writer",
		},
		CoverSelectors: []string{
			"img",
			".book-cover img",
			".novel-cover img",
		},
	}, fetch, log)
}
