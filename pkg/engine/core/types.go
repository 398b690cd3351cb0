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

package core

import "strings"

// Source identifies one external novel-hosting site the system knows how
// to scrape. SourceGeneric stands in for any unrecognized site and selects
// the cross-site fallback selector strategies.
type Source string

const (
	SourceNovelBin        Source = "novelbin"
	SourceLightNovelWorld Source = "lightnovelworld"
	SourceNovelFull       Source = "novelfull"
	SourceGeneric         Source = "generic"
)

// ParseSource maps a raw source identifier (typically a URL path segment)
// to a known Source, falling back to SourceGeneric so that requests for
// unsupported sites still get best-effort extraction.
func ParseSource(s string) Source {
	switch Source(strings.ToLower(strings.TrimSpace(s))) {
	case SourceNovelBin:
		return SourceNovelBin
	case SourceLightNovelWorld:
		return SourceLightNovelWorld
	case SourceNovelFull:
		return SourceNovelFull
	default:
		return SourceGeneric
	}
}

// Sentinel values used when extraction finds nothing. The API always
// returns a well-formed object; missing fields degrade to these instead
// of failing the whole request.
const (
	UnknownTitle   = "Unknown Title"
	UnknownAuthor  = "Unknown Author"
	UnknownChapter = "Unknown Chapter"
	NoDescription  = "No description available"
)

// BookSummary is a single search hit from one source.
type BookSummary struct {
	Title  string `json:"title"`
	Link   string `json:"link"`
	Author string `json:"author"`
	Cover  string `json:"cover"`
	Source Source `json:"source"`
}

// Key returns the identity of a summary: two hits are the same book when
// they come from the same source and point at the same page.
func (b BookSummary) Key() string {
	return string(b.Source) + "|" + strings.ToLower(b.Link)
}

// ChapterRef is one entry in a book's chapter index.
type ChapterRef struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

// BookDetails is the full record scraped from a book page.
type BookDetails struct {
	Title         string       `json:"title"`
	Author        string       `json:"author"`
	Description   string       `json:"description"`
	Cover         string       `json:"cover"`
	Chapters      []ChapterRef `json:"chapters"`
	TotalChapters int          `json:"totalChapters"`
	Source        Source       `json:"source"`
}

// ChapterContent is the readable text of a single chapter.
type ChapterContent struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	WordCount int    `json:"wordCount"`
	URL       string `json:"url"`
	Source    Source `json:"source"`
}
