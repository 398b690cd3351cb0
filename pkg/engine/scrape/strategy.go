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
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"Folio/pkg/engine/core"
)

// Mode selects what a FieldStrategy extracts from a matched element.
type Mode int

const (
	ModeText Mode = iota
	ModeAttr
	ModeHTML
	// ModeLabelNext takes the next sibling of an element whose text
	// contains Label. Used for "Author:" heading patterns.
	ModeLabelNext
)

// FieldStrategy is one attempt at extracting a field. Strategies run
// in order; the first non-empty, validated hit wins.
type FieldStrategy struct {
	Selector string
	Mode     Mode
	Attr     string
	Label    string
}

// StrategySet holds the per-field strategy chains for one site.
type StrategySet struct {
	Title       []FieldStrategy
	Author      []FieldStrategy
	Description []FieldStrategy
	Cover       []FieldStrategy
	Chapters    []string
}

func textStrategies(selectors ...string) []FieldStrategy {
	out := make([]FieldStrategy, len(selectors))
	for i, s := range selectors {
		out[i] = FieldStrategy{Selector: s, Mode: ModeText}
	}
	return out
}

var novelbinStrategies = StrategySet{
	Title: textStrategies(
		"h1.novel-title", "h1", ".book-title", ".title", "h1.title", "[data-title]",
	),
	Author: []FieldStrategy{
		{Selector: "h3", Mode: ModeLabelNext, Label: "Author"},
		{Selector: ".author", Mode: ModeText},
		{Selector: ".book-author", Mode: ModeText},
		{Selector: ".novel-author", Mode: ModeText},
		{Selector: ".writer", Mode: ModeText},
		{Selector: ".author-name", Mode: ModeText},
		{Selector: "span", Mode: ModeLabelNext, Label: "Author"},
	},
	Description: textStrategies(
		".description", ".synopsis", ".summary", ".book-description",
		".novel-description", ".content", ".book-content",
	),
	Cover: []FieldStrategy{
		{Selector: ".book-cover img", Mode: ModeAttr, Attr: "src"},
		{Selector: ".novel-cover img", Mode: ModeAttr, Attr: "src"},
		{Selector: ".cover img", Mode: ModeAttr, Attr: "src"},
		{Selector: `img[alt*="cover"]`, Mode: ModeAttr, Attr: "src"},
		{Selector: `img[src*="cover"]`, Mode: ModeAttr, Attr: "src"},
		{Selector: ".book-img img", Mode: ModeAttr, Attr: "src"},
		{Selector: ".novel-img img", Mode: ModeAttr, Attr: "src"},
	},
	Chapters: []string{
		".list-chapter a", "#list-chapter a", ".chapter-list a",
		`a[href*="chapter"]`, `a[href*="/ch-"]`, `a[href*="/c/"]`,
		".chapter-item a", ".chapter-link", `a[href*="/chapter-"]`,
		".chapter-row a", ".chapter-list-item a", ".chapter a",
	},
}

var genericStrategies = StrategySet{
	Title: textStrategies(
		"h1", "title", ".title", "[data-title]", "h1.title", ".book-title", ".novel-title",
	),
	Author: []FieldStrategy{
		{Selector: ".author", Mode: ModeText},
		{Selector: ".book-author", Mode: ModeText},
		{Selector: ".novel-author", Mode: ModeText},
		{Selector: ".writer", Mode: ModeText},
		{Selector: ".author-name", Mode: ModeText},
		{Selector: "h3", Mode: ModeLabelNext, Label: "Author"},
		{Selector: "span", Mode: ModeLabelNext, Label: "Author"},
	},
	Description: textStrategies(
		".description", ".synopsis", ".summary", ".book-description",
		".novel-description", ".content", ".book-content",
	),
	Cover: []FieldStrategy{
		{Selector: `img[alt*="cover"]`, Mode: ModeAttr, Attr: "src"},
		{Selector: `img[src*="cover"]`, Mode: ModeAttr, Attr: "src"},
		{Selector: ".cover img", Mode: ModeAttr, Attr: "src"},
		{Selector: ".book-cover img", Mode: ModeAttr, Attr: "src"},
		{Selector: ".novel-cover img", Mode: ModeAttr, Attr: "src"},
		{Selector: ".book-img img", Mode: ModeAttr, Attr: "src"},
		{Selector: ".novel-img img", Mode: ModeAttr, Attr: "src"},
	},
	Chapters: []string{
		`a[href*="chapter"]`, `a[href*="/ch-"]`, `a[href*="/c/"]`,
		`a[href*="/chapter-"]`, ".chapter a", ".chapter-list a", ".list-chapter a",
	},
}

// StrategiesFor returns the strategy set for a source, falling back to
// the generic set.
func StrategiesFor(source core.Source) StrategySet {
	switch source {
	case core.SourceNovelBin:
		return novelbinStrategies
	default:
		return genericStrategies
	}
}

// extractField runs a strategy chain and returns the first hit that
// passes validate, or "".
func extractField(page *Page, strategies []FieldStrategy, validate func(string) bool) string {
	for _, strat := range strategies {
		var content string
		switch strat.Mode {
		case ModeLabelNext:
			if sel := findByLabel(page.Doc, strat.Selector, strat.Label); sel != nil {
				content = sel.Text()
			}
		case ModeAttr:
			page.Doc.Find(strat.Selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
				v, ok := sel.Attr(strat.Attr)
				if !ok || strings.TrimSpace(v) == "" {
					// Lazy-loaded images keep the real URL in data-src
					v, ok = sel.Attr("data-src")
				}
				if !ok || strings.TrimSpace(v) == "" {
					return true
				}
				if validate != nil && !validate(CleanText(v)) {
					return true
				}
				content = v
				return false
			})
		case ModeHTML:
			if sel := page.Doc.Find(strat.Selector).First(); sel.Length() > 0 {
				if html, err := sel.Html(); err == nil {
					content = html
				}
			}
		default:
			page.Doc.Find(strat.Selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
				t := CleanText(sel.Text())
				if t == "" || (validate != nil && !validate(t)) {
					return true
				}
				content = t
				return false
			})
		}

		content = CleanText(content)
		if content == "" {
			continue
		}
		if validate != nil && !validate(content) {
			continue
		}
		return content
	}
	return ""
}

var authorPrefixRe = regexp.MustCompile(`(?i)^(Author|By|Written by):?\s*`)

func validTitle(s string) bool  { return len(s) > 0 && len(s) < 200 }
func validAuthor(s string) bool { return len(s) > 0 && len(s) < 100 }
func validDescription(s string) bool {
	return len(s) > 10 && len(s) < 2000
}
func validCover(s string) bool {
	return strings.Contains(s, "http") || strings.HasPrefix(s, "/")
}

// ExtractTitle returns the book title or the unknown sentinel.
func ExtractTitle(page *Page, source core.Source) string {
	if t := extractField(page, StrategiesFor(source).Title, validTitle); t != "" {
		return t
	}
	return core.UnknownTitle
}

// ExtractAuthor returns the author with any "Author:"/"By" label prefix
// stripped, or the unknown sentinel.
func ExtractAuthor(page *Page, source core.Source) string {
	author := extractField(page, StrategiesFor(source).Author, validAuthor)
	author = CleanText(authorPrefixRe.ReplaceAllString(author, ""))
	if author == "" {
		return core.UnknownAuthor
	}
	return author
}

// ExtractDescription returns the synopsis or the sentinel.
func ExtractDescription(page *Page, source core.Source) string {
	if d := extractField(page, StrategiesFor(source).Description, validDescription); d != "" {
		return d
	}
	return core.NoDescription
}

// ExtractCover returns an absolute cover image URL, or "".
func ExtractCover(page *Page, source core.Source, baseURL string) string {
	cover := extractField(page, StrategiesFor(source).Cover, validCover)
	if cover == "" {
		return ""
	}
	return ToAbsoluteURL(cover, baseURL)
}
