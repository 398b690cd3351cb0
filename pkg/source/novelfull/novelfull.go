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

// Package novelfull scrapes novelfull.com.
package novelfull

import (
	"Folio/pkg/engine/core"
	"Folio/pkg/engine/logger"
	"Folio/pkg/engine/scrape"
	"Folio/pkg/source"
)

// New creates the novelfull scraper.
func New(fetch scrape.Fetcher, log logger.Logger) source.Scraper {
	return source.New(source.Config{
		ID:        core.SourceNovelFull,
		Name:      "NovelFull",
		BaseURL:   "https://novelfull.com",
		Priority:  3,
		SearchURL: "https://novelfull.com/search?keyword=%s",
		ResultContainers: []string{
			".list-stories .row",
			".story-item",
			".book-item",
		},
		TitleSelectors: []string{
			"h3 a",
			".story-title a",
			".book-name a",
			`a[href*="/novel/"]`,
		},
		AuthorSelectors: []string{
			".author",
			".story-author",
			".writer",
		},
		CoverSelectors: []string{
			"img",
			".book-cover img",
			".story-cover img",
		},
	}, fetch, log)
}
