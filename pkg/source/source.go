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

// Package source defines the scraper interface for novel-hosting sites
// and a selector-driven implementation shared by the built-in sites.
package source

import (
	"context"
	"fmt"
	"net/url"
	"regexp"

	"github.com/PuerkitoBio/goquery"

	"Folio/pkg/engine/core"
	"Folio/pkg/engine/logger"
	"Folio/pkg/engine/scrape"
)

// Scraper is one searchable novel site.
type Scraper interface {
	ID() core.Source
	Name() string
	BaseURL() string
	// Priority orders merged search results; lower sorts first.
	Priority() int
	Search(ctx context.Context, query string) ([]core.BookSummary, error)
}

// Config declares a site's identity and search-page selectors. The
// selector lists are chains: the first that matches anything wins.
type Config struct {
	ID        core.Source
	Name      string
	BaseURL   string
	Priority  int
	SearchURL string // format string taking the escaped query

	ResultContainers []string
	TitleSelectors   []string
	AuthorSelectors  []string
	CoverSelectors   []string
}

// SiteScraper implements Scraper from a Config.
type SiteScraper struct {
	cfg   Config
	fetch scrape.Fetcher
	log   logger.Logger
}

// New creates a scraper for one configured site.
func New(cfg Config, fetch scrape.Fetcher, log logger.Logger) *SiteScraper {
	return &SiteScraper{cfg: cfg, fetch: fetch, log: log}
}

func (s *SiteScraper) ID() core.Source { return s.cfg.ID }
func (s *SiteScraper) Name() string    { return s.cfg.Name }
func (s *SiteScraper) BaseURL() string { return s.cfg.BaseURL }
func (s *SiteScraper) Priority() int   { return s.cfg.Priority }

var authorLabelRe = regexp.MustCompile(`(?i)Author:?`)

// Search queries the site and extracts result summaries with the
// configured selector chains.
func (s *SiteScraper) Search(ctx context.Context, query string) ([]core.BookSummary, error) {
	searchURL := fmt.Sprintf(s.cfg.SearchURL, url.QueryEscape(query))
	s.log.Info("[%s] Searching for: %s", s.cfg.Name, query)

	res, err := s.fetch.Fetch(ctx, searchURL)
	if err != nil {
		return nil, fmt.Errorf("%s search: %w", s.cfg.Name, err)
	}
	page, err := scrape.NewPage(res)
	if err != nil {
		return nil, fmt.Errorf("%s search: %w", s.cfg.Name, err)
	}

	books := s.extractResults(page)
	s.log.Info("[%s] Found %d books", s.cfg.Name, len(books))
	return books, nil
}

func (s *SiteScraper) extractResults(page *Page) []core.BookSummary {
	var books []core.BookSummary
	seen := make(map[string]bool)

	for _, container := range s.cfg.ResultContainers {
		page.Doc.Find(container).Each(func(_ int, el *goquery.Selection) {
			book, ok := s.extractResult(el)
			if !ok || seen[book.Link] {
				return
			}
			books = append(books, book)
			seen[book.Link] = true
		})
		if len(books) > 0 {
			break
		}
	}
	return books
}

func (s *SiteScraper) extractResult(el *goquery.Selection) (core.BookSummary, bool) {
	var titleEl *goquery.Selection
	for _, sel := range s.cfg.TitleSelectors {
		if found := el.Find(sel).First(); found.Length() > 0 {
			titleEl = found
			break
		}
	}
	if titleEl == nil {
		return core.BookSummary{}, false
	}

	title := scrape.CleanText(titleEl.Text())
	link, _ := titleEl.Attr("href")
	if title == "" || link == "" {
		return core.BookSummary{}, false
	}

	author := core.UnknownAuthor
	for _, sel := range s.cfg.AuthorSelectors {
		if found := el.Find(sel).First(); found.Length() > 0 {
			if a := scrape.CleanText(authorLabelRe.ReplaceAllString(found.Text(), "")); a != "" {
				author = a
				break
			}
		}
	}

	cover := ""
	for _, sel := range s.cfg.CoverSelectors {
		if found := el.Find(sel).First(); found.Length() > 0 {
			if src, ok := found.Attr("src"); ok && src != "" {
				cover = src
			} else if src, ok := found.Attr("data-src"); ok && src != "" {
				cover = src
			}
			if cover != "" {
				break
			}
		}
	}

	if cover != "" {
		cover = scrape.ToAbsoluteURL(cover, s.cfg.BaseURL)
	}
	return core.BookSummary{
		Title:  title,
		Link:   scrape.ToAbsoluteURL(link, s.cfg.BaseURL),
		Author: author,
		Cover:  cover,
		Source: s.cfg.ID,
	}, true
}

// Page aliases the scrape page type for implementations in site
// subpackages.
type Page = scrape.Page
