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

// Package scrape extracts novel metadata, chapter indexes, and chapter
// text from fetched pages. Every extraction runs a chain of selector
// strategies in order and takes the first plausible hit, so a layout
// change on one site degrades to the next strategy instead of failing.
package scrape

import (
	"bytes"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"Folio/pkg/engine/network"
)

// Page wraps a parsed document with where it came from.
type Page struct {
	Doc      *goquery.Document
	URL      string
	ViaProxy bool
}

// NewPage parses a fetch result into a Page.
func NewPage(res *network.Result) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body))
	if err != nil {
		return nil, err
	}
	return &Page{Doc: doc, URL: res.URL, ViaProxy: res.ViaProxy}, nil
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// CleanText collapses runs of whitespace to single spaces and trims.
func CleanText(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// ToAbsoluteURL resolves href against base. Scheme-relative and
// path-relative forms are handled; an empty href stays empty.
func ToAbsoluteURL(href, base string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http") {
		return href
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	if strings.HasPrefix(href, "/") {
		u, err := url.Parse(base)
		if err != nil {
			return href
		}
		return u.Scheme + "://" + u.Host + href
	}
	return strings.TrimSuffix(base, "/") + "/" + href
}

// FindAnchorByText returns the first anchor whose visible text contains
// needle, case-insensitive. Cascadia has no :contains() pseudo-class,
// so label-based navigation links are matched by iteration.
func (p *Page) FindAnchorByText(needle string) *goquery.Selection {
	needle = strings.ToLower(needle)
	var found *goquery.Selection
	p.Doc.Find("a").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if strings.Contains(strings.ToLower(sel.Text()), needle) {
			found = sel
			return false
		}
		return true
	})
	return found
}

// findByLabel returns the next sibling of the first element matching
// selector whose text contains label. Sites like novelbin mark up
// metadata as a heading ("Author:") followed by the value element.
func findByLabel(doc *goquery.Document, selector, label string) *goquery.Selection {
	label = strings.ToLower(label)
	var found *goquery.Selection
	doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if strings.Contains(strings.ToLower(sel.Text()), label) {
			if next := sel.Next(); next.Length() > 0 {
				found = next
				return false
			}
		}
		return true
	})
	return found
}

// IsPlausible reports whether the page looks like real content rather
// than an error page or an anti-bot interstitial: it needs a title
// element and a non-trivial body.
func (p *Page) IsPlausible() bool {
	hasTitle := p.Doc.Find("h1, .title, .book-title, .novel-title").Length() > 0
	hasBody := len(CleanText(p.Doc.Find("body").Text())) > 100
	return hasTitle && hasBody
}
