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

	"golang.org/x/net/html"

	"Folio/pkg/engine/core"
	"Folio/pkg/errors"
)

// minContentLength is the point below which selector extraction is
// judged to have missed the real chapter body and the readability
// fallback kicks in.
const minContentLength = 500

var contentSelectors = []string{
	"#chapter-content",
	".chapter-content",
	"#chr-content",
	".content",
	".chapter-text",
	".novel-content",
	".reading-content",
}

var chapterTitleSelectors = []string{
	"h1",
	".chapter-title",
	".title",
	"h2",
}

// ExtractChapterContent fetches a chapter page and returns its
// readable text. The selector chain is tried first; if it yields less
// than minContentLength characters, a readability walk over the raw
// node tree picks the densest text container instead.
func (e *Extractor) ExtractChapterContent(ctx context.Context, chapterURL string, source core.Source) (*core.ChapterContent, error) {
	res, err := e.fetch.Fetch(ctx, chapterURL)
	if err != nil {
		return nil, err
	}
	page, err := NewPage(res)
	if err != nil {
		return nil, err
	}

	var content string
	for _, selector := range contentSelectors {
		sel := page.Doc.Find(selector)
		if sel.Length() == 0 {
			continue
		}
		if text := CleanText(sel.Text()); text != "" {
			content = text
			break
		}
	}

	if len(content) < minContentLength {
		e.log.Debug("[Content] Selector extraction yielded %d chars for %s, trying readability walk",
			len(content), chapterURL)
		if fallback := readabilityText(res.Body); len(fallback) > len(content) {
			content = fallback
		}
	}

	// Text-proxy bodies arrive as rewritten markup; the whole body is
	// usable when nothing better matched.
	if content == "" && page.ViaProxy {
		content = CleanText(page.Doc.Find("body").Text())
	}

	if content == "" {
		return nil, errors.ErrNoContent
	}

	title := core.UnknownChapter
	for _, selector := range chapterTitleSelectors {
		if sel := page.Doc.Find(selector).First(); sel.Length() > 0 {
			if t := CleanText(sel.Text()); t != "" {
				title = t
				break
			}
		}
	}

	return &core.ChapterContent{
		Title:     title,
		Content:   content,
		WordCount: len(strings.Fields(content)),
		URL:       chapterURL,
		Source:    source,
	}, nil
}

// Tags whose subtrees never contain chapter prose.
var skipTags = map[string]bool{
	"script": true, "style": true, "nav": true, "header": true,
	"footer": true, "aside": true, "form": true, "noscript": true,
	"iframe": true, "button": true,
}

// readabilityText walks the raw node tree and returns the text of the
// single element holding the most direct prose. It trades precision
// for robustness on pages whose content container matches no known
// selector.
func readabilityText(body []byte) string {
	root, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return ""
	}

	var best string
	var bestScore int

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if skipTags[n.Data] {
				return
			}
			// Score an element by the text length of its direct
			// children, so wrappers do not shadow the real container.
			score := 0
			var text strings.Builder
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				switch c.Type {
				case html.TextNode:
					t := strings.TrimSpace(c.Data)
					score += len(t)
					text.WriteString(t)
					text.WriteString(" ")
				case html.ElementNode:
					if c.Data == "p" || c.Data == "br" {
						t := strings.TrimSpace(nodeText(c))
						score += len(t)
						text.WriteString(t)
						text.WriteString(" ")
					}
				}
			}
			if score > bestScore {
				bestScore = score
				best = text.String()
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return CleanText(best)
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && skipTags[c.Data] {
				continue
			}
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
