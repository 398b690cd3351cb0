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

// Package lightnovelworld scrapes lightnovelworld.com.
package lightnovelworld

import (
	"Folio/pkg/engine/core"
	"Folio/pkg/engine/logger"
	"Folio/pkg/engine/scrape"
	"Folio/pkg/source"
)

// New creates the lightnovelworld scraper.
func New(fetch scrape.Fetcher, log logger.Logger) source.Scraper {
	return source.New(source.Config{
		ID:        core.SourceLightNovelWorld,
		Name:      "LightNovelWorld",
		BaseURL:   "https://www.lightnovelworld.com",
		Priority:  2,
		SearchURL: "https://www.lightnovelworld.com/search?keyword=%s",
		ResultContainers: []string{
			".novel-item",
			".book-item",
			".search-result-item",
		},
		TitleSelectors: []string{
			"h3 a",
			".novel-title a",
			".book-name a",
			`a[href*="/novel/"]`,
		},
		AuthorSelectors: []string{
			".author",
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
