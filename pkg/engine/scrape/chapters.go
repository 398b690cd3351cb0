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
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"Folio/pkg/engine/core"
)

// UnnumberedChapter sorts unparsable chapter titles after everything
// with a real number.
const UnnumberedChapter = 999999

const paginationDelay = 1 * time.Second

// Navigation and boilerplate anchor texts that are never chapters.
var invalidChapterTitles = []string{
	"read now", "chapter list", "all chapters", "view all", "show all",
	"load more", "next", "previous", "back", "home", "menu", "search",
	"login", "register", "contact", "about", "privacy", "terms",
	"cookie", "sitemap", "rss", "feed", "more", "see all",
	"expand", "collapse",
}

var leadingDigitsRe = regexp.MustCompile(`^\d+`)

// IsValidChapter reports whether an anchor's text and href look like a
// real chapter link rather than site navigation.
func IsValidChapter(title, link string) bool {
	if title == "" || link == "" {
		return false
	}

	lowerTitle := strings.ToLower(strings.TrimSpace(title))
	lowerLink := strings.ToLower(link)

	for _, invalid := range invalidChapterTitles {
		if strings.Contains(lowerTitle, invalid) {
			return false
		}
	}

	hasPattern := strings.Contains(lowerTitle, "chapter") ||
		strings.Contains(lowerLink, "chapter") ||
		strings.Contains(lowerTitle, "ch-") ||
		strings.Contains(lowerLink, "ch-") ||
		strings.Contains(lowerLink, "/c/") ||
		strings.Contains(lowerLink, "/chapter-")

	if !hasPattern && !leadingDigitsRe.MatchString(strings.TrimSpace(title)) {
		return false
	}

	// The URL itself has to look chapter-shaped even when the title does
	if !strings.Contains(lowerLink, "chapter") &&
		!strings.Contains(lowerLink, "/ch-") &&
		!strings.Contains(lowerLink, "/c/") {
		return false
	}

	// In-page anchors like #tab-chapters
	if strings.HasPrefix(lowerLink, "#") {
		return false
	}

	return true
}

var (
	explicitChapterRe = regexp.MustCompile(`(?i)(?:chapter|ch\.?)\s*(\d+)`)
	anyNumberRe       = regexp.MustCompile(`(\d+)`)
)

// ChapterNumber parses the ordinal out of a chapter title. An explicit
// "Chapter N" / "Ch N" wins over any other digits, so "Vol 2 Chapter 5"
// numbers as 5, not 2. Titles with no number at all return
// UnnumberedChapter.
func ChapterNumber(title string) int {
	if m := explicitChapterRe.FindStringSubmatch(title); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}
	if m := anyNumberRe.FindStringSubmatch(title); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}
	return UnnumberedChapter
}

// DedupeAndSortChapters removes duplicate links and titles, then sorts
// by parsed chapter number with title as the tie-breaker.
func DedupeAndSortChapters(chapters []core.ChapterRef) []core.ChapterRef {
	seenLinks := make(map[string]bool)
	seenTitles := make(map[string]bool)
	unique := make([]core.ChapterRef, 0, len(chapters))

	for _, ch := range chapters {
		title := strings.ToLower(strings.TrimSpace(ch.Title))
		if ch.Link == "" || title == "" || seenLinks[ch.Link] || seenTitles[title] {
			continue
		}
		unique = append(unique, ch)
		seenLinks[ch.Link] = true
		seenTitles[title] = true
	}

	sort.SliceStable(unique, func(i, j int) bool {
		a, b := ChapterNumber(unique[i].Title), ChapterNumber(unique[j].Title)
		if a != b {
			return a < b
		}
		return unique[i].Title < unique[j].Title
	})
	return unique
}

// ExtractChapters pulls chapter links from one page using the source's
// selector chain, falling back to an any-anchor sweep when the chain
// finds nothing.
func (e *Extractor) ExtractChapters(page *Page, source core.Source, baseURL string) []core.ChapterRef {
	var chapters []core.ChapterRef
	seenLinks := make(map[string]bool)
	seenTitles := make(map[string]bool)

	collect := func(_ int, sel *goquery.Selection) {
		title := CleanText(sel.Text())
		link, _ := sel.Attr("href")
		lowerTitle := strings.ToLower(title)
		if link == "" || title == "" || seenLinks[link] || seenTitles[lowerTitle] {
			return
		}
		if !IsValidChapter(title, link) {
			return
		}
		chapters = append(chapters, core.ChapterRef{
			Title: title,
			Link:  ToAbsoluteURL(link, baseURL),
		})
		seenLinks[link] = true
		seenTitles[lowerTitle] = true
	}

	for _, selector := range StrategiesFor(source).Chapters {
		page.Doc.Find(selector).Each(collect)
		if len(chapters) > 0 {
			e.log.Debug("[Chapters] Found %d chapters with selector %q", len(chapters), selector)
			break
		}
	}

	if len(chapters) == 0 {
		// Aggressive sweep: any anchor whose href looks chapter-shaped
		page.Doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
			href, _ := sel.Attr("href")
			text := CleanText(sel.Text())
			lower := strings.ToLower(href)
			if href == "" || text == "" || seenLinks[href] || seenTitles[strings.ToLower(text)] {
				return
			}
			if !strings.Contains(lower, "chapter") && !strings.Contains(lower, "ch-") &&
				!strings.Contains(lower, "/c/") {
				return
			}
			chapters = append(chapters, core.ChapterRef{
				Title: text,
				Link:  ToAbsoluteURL(href, baseURL),
			})
			seenLinks[href] = true
			seenTitles[strings.ToLower(text)] = true
		})
	}

	return DedupeAndSortChapters(chapters)
}

// ajaxChapterEndpoints are novelbin's known chapter-list paths,
// formatted with the book id and resolved against the book's host.
var ajaxChapterEndpoints = []string{
	"/ajax/chapter-list/%s",
	"/api/chapters/%s",
	"/book/%s/chapters.json",
	"/ajax/book/%s/chapters",
	"/b/%s/chapters/ajax",
}

var bookIDRe = regexp.MustCompile(`/b/([^/?]+)`)

// tryAjaxChapters probes novelbin's AJAX endpoints for a complete
// chapter list, accepting either JSON or an HTML fragment.
func (e *Extractor) tryAjaxChapters(ctx context.Context, bookURL string) []core.ChapterRef {
	m := bookIDRe.FindStringSubmatch(bookURL)
	if m == nil {
		return nil
	}
	bookID := m[1]

	for _, pattern := range ajaxChapterEndpoints {
		ajaxURL := ToAbsoluteURL(fmt.Sprintf(pattern, bookID), bookURL)
		e.log.Debug("[Chapters] Trying AJAX endpoint %s", ajaxURL)

		res, err := e.fetch.Fetch(ctx, ajaxURL)
		if err != nil {
			continue
		}

		chapters := parseAjaxChapters(res.Body)
		filtered := chapters[:0]
		for _, ch := range chapters {
			if IsValidChapter(ch.Title, ch.Link) {
				ch.Link = ToAbsoluteURL(ch.Link, bookURL)
				filtered = append(filtered, ch)
			}
		}
		if len(filtered) > 0 {
			e.log.Info("[Chapters] AJAX endpoint yielded %d chapters", len(filtered))
			return filtered
		}
	}
	return nil
}

func parseAjaxChapters(body []byte) []core.ChapterRef {
	// JSON first: either {"chapters": [...]} or a bare array
	var wrapper struct {
		Chapters []core.ChapterRef `json:"chapters"`
	}
	if err := json.Unmarshal(body, &wrapper); err == nil && len(wrapper.Chapters) > 0 {
		return wrapper.Chapters
	}
	var list []core.ChapterRef
	if err := json.Unmarshal(body, &list); err == nil && len(list) > 0 {
		return list
	}

	// Otherwise treat it as an HTML fragment
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil
	}
	var chapters []core.ChapterRef
	doc.Find(`a[href*="chapter"]`).Each(func(_ int, sel *goquery.Selection) {
		title := CleanText(sel.Text())
		link, _ := sel.Attr("href")
		if title != "" && link != "" {
			chapters = append(chapters, core.ChapterRef{Title: title, Link: link})
		}
	})
	return chapters
}

// chapterListVariants are URL rewrites that often expose the full
// chapter index when the landing page only shows the latest few.
func chapterListVariants(bookURL string) []string {
	return []string{
		bookURL + "/chapters",
		bookURL + "/all-chapters",
		bookURL + "/chapter-list",
		bookURL + "?tab=chapters",
		bookURL + "?view=chapters",
		bookURL + "?show=all",
		strings.Replace(bookURL, "/b/", "/chapters/", 1),
	}
}

// findChapterListPage probes the variant URLs for a page dense with
// chapter links. A page with over 50 of them is taken as the full list.
func (e *Extractor) findChapterListPage(ctx context.Context, bookURL string) *Page {
	for _, variant := range chapterListVariants(bookURL) {
		res, err := e.fetch.Fetch(ctx, variant)
		if err != nil {
			continue
		}
		page, err := NewPage(res)
		if err != nil {
			continue
		}
		count := page.Doc.Find(`a[href*="chapter"]`).Length()
		e.log.Debug("[Chapters] Variant %s has %d chapter links", variant, count)
		if count > 50 {
			return page
		}
	}
	return nil
}

// nextPageLink finds the pagination "next" anchor, if any.
func nextPageLink(page *Page) string {
	selectors := []string{
		`.pagination .next a`,
		`.pagination a[rel="next"]`,
		`.page-next a`,
		`.next-page a`,
		`a[title*="Next"]`,
		`a[aria-label*="Next"]`,
	}
	for _, selector := range selectors {
		if sel := page.Doc.Find(selector).First(); sel.Length() > 0 {
			if href, ok := sel.Attr("href"); ok && href != "" && href != "#" {
				return href
			}
		}
	}
	// Text-matched fallback for sites with bare "Next" / ">" anchors
	for _, needle := range []string{"next page", "next", ">"} {
		if sel := page.FindAnchorByText(needle); sel != nil {
			if href, ok := sel.Attr("href"); ok && href != "" && href != "#" {
				return href
			}
		}
	}
	return ""
}

// gapProbeOffsets are the speculative chapter numbers checked past the
// visible maximum when gap probing is enabled.
var gapProbeOffsets = []int{10, 50, 100, 200}

// probeChapterGaps synthesizes refs for chapters the index skipped.
// When the numbered range is sparse, a few URLs past the maximum are
// probed to find the true ceiling, then the holes are filled in with
// generated "Chapter N" entries under the common novelbin URL shape.
func (e *Extractor) probeChapterGaps(ctx context.Context, bookURL string, existing []core.ChapterRef) []core.ChapterRef {
	nums := make(map[int]bool)
	minN, maxN := 0, 0
	count := 0
	for _, ch := range existing {
		n := ChapterNumber(ch.Title)
		if n == UnnumberedChapter {
			continue
		}
		nums[n] = true
		if count == 0 || n < minN {
			minN = n
		}
		if n > maxN {
			maxN = n
		}
		count++
	}
	if count == 0 || maxN-minN <= count {
		return nil
	}

	actualMax := maxN
	for _, offset := range gapProbeOffsets {
		probe := maxN + offset
		probeURL := fmt.Sprintf("%s/chapter-%d", bookURL, probe)
		res, err := e.fetch.Fetch(ctx, probeURL)
		if err != nil {
			break
		}
		body := strings.ToLower(string(res.Body))
		if strings.Contains(body, "chapter") && strings.Contains(body, "content") &&
			!strings.Contains(body, "404") {
			actualMax = probe
		} else {
			break
		}
	}

	var generated []core.ChapterRef
	for n := minN; n <= actualMax; n++ {
		if !nums[n] {
			generated = append(generated, core.ChapterRef{
				Title: fmt.Sprintf("Chapter %d", n),
				Link:  fmt.Sprintf("%s/chapter-%d", bookURL, n),
			})
		}
	}
	if len(generated) > 0 {
		e.log.Info("[Chapters] Gap probe generated %d chapter refs", len(generated))
	}
	return generated
}

// ExtractChaptersWithPagination runs the full acquisition pipeline for
// one book: AJAX endpoints (novelbin), chapter-list variant pages,
// per-page extraction following pagination links, and optionally the
// gap probe. Pages are fetched with a courtesy delay between them.
func (e *Extractor) ExtractChaptersWithPagination(ctx context.Context, page *Page, source core.Source, bookURL string) []core.ChapterRef {
	var all []core.ChapterRef

	if source == core.SourceNovelBin {
		if ajax := e.tryAjaxChapters(ctx, bookURL); len(ajax) > 0 {
			all = append(all, ajax...)
		}
		if listPage := e.findChapterListPage(ctx, bookURL); listPage != nil {
			page = listPage
		}
	}

	maxPages := e.maxPages
	if maxPages <= 0 {
		maxPages = 50
	}

	for pageNum := 1; pageNum <= maxPages; pageNum++ {
		all = append(all, e.ExtractChapters(page, source, bookURL)...)

		next := nextPageLink(page)
		if next == "" {
			break
		}
		nextURL := ToAbsoluteURL(next, bookURL)
		// Some themes render the next control pointing at the page itself
		if nextURL == page.URL {
			break
		}
		e.log.Debug("[Chapters] Following pagination to %s", nextURL)

		select {
		case <-time.After(paginationDelay):
		case <-ctx.Done():
			return DedupeAndSortChapters(all)
		}

		res, err := e.fetch.Fetch(ctx, nextURL)
		if err != nil {
			e.log.Warn("[Chapters] Failed to load next page %s: %v", nextURL, err)
			break
		}
		nextPage, err := NewPage(res)
		if err != nil {
			break
		}
		page = nextPage
	}

	if e.gapProbe && source == core.SourceNovelBin {
		all = append(all, e.probeChapterGaps(ctx, bookURL, all)...)
	}

	return DedupeAndSortChapters(all)
}
