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

// Package engine wires the fetch, cache, extraction, and search
// services into one facade that the API and CLI operate through.
package engine

import (
	"context"
	"time"

	"Folio/pkg/engine/cache"
	"Folio/pkg/engine/core"
	"Folio/pkg/engine/logger"
	"Folio/pkg/engine/network"
	"Folio/pkg/engine/scrape"
	"Folio/pkg/engine/search"
	"Folio/pkg/source"
)

// Options carries everything the engine needs from configuration.
type Options struct {
	LogFile  string
	LogLevel logger.Level

	ProxyURL      string
	FallbackProxy string
	MaxRetries    int

	SearchTTL   time.Duration
	DetailsTTL  time.Duration
	ChaptersTTL time.Duration

	BreakerThreshold int
	BreakerReset     time.Duration

	GapProbe bool
	MaxPages int

	SearchConcurrency int
	SearchTimeout     time.Duration
}

// Engine is the root service container.
type Engine struct {
	Logger    *logger.Service
	Client    *network.Client
	Robust    *network.RobustClient
	Caches    *cache.Caches
	Extractor *scrape.Extractor
	Sources   *source.Registry
	Search    *search.Aggregator
}

// New creates a fully wired engine.
func New(opts Options) (*Engine, error) {
	log := logger.NewService(opts.LogFile)
	log.SetLevel(opts.LogLevel)

	client, err := network.NewClient(network.Options{
		ProxyURL:      opts.ProxyURL,
		FallbackProxy: opts.FallbackProxy,
		MaxRetries:    opts.MaxRetries,
	}, log)
	if err != nil {
		return nil, err
	}

	breaker := network.NewCircuitBreaker(opts.BreakerThreshold, opts.BreakerReset)
	robust := network.NewRobustClient(client, breaker, log)

	caches := cache.NewCaches(opts.SearchTTL, opts.DetailsTTL, opts.ChaptersTTL)
	extractor := scrape.NewExtractor(robust, log, opts.GapProbe, opts.MaxPages)
	registry := source.NewRegistry()

	e := &Engine{
		Logger:    log,
		Client:    client,
		Robust:    robust,
		Caches:    caches,
		Extractor: extractor,
		Sources:   registry,
		Search:    search.NewAggregator(registry, log, opts.SearchConcurrency, opts.SearchTimeout),
	}
	return e, nil
}

// RegisterSource adds a site scraper to the registry.
func (e *Engine) RegisterSource(s source.Scraper) error {
	if err := e.Sources.Register(s); err != nil {
		return err
	}
	e.Logger.Info("[Engine] Registered source: %s", s.Name())
	return nil
}

// SearchBooks runs an aggregated search with the search cache in
// front of it.
func (e *Engine) SearchBooks(ctx context.Context, query string) *search.Result {
	key := cache.SearchKey(query)
	if v, ok := e.Caches.Search.Get(key); ok {
		e.Logger.Debug("[Engine] Search cache hit for %q", query)
		return v.(*search.Result)
	}

	result := e.Search.Search(ctx, query)
	e.Caches.Search.Set(key, result)
	return result
}

// BookDetails scrapes (or serves cached) book details.
func (e *Engine) BookDetails(ctx context.Context, src core.Source, url string) (*core.BookDetails, error) {
	key := cache.DetailsKey(src, url)
	if v, ok := e.Caches.Details.Get(key); ok {
		e.Logger.Debug("[Engine] Details cache hit for %s", url)
		return v.(*core.BookDetails), nil
	}

	details, err := e.Extractor.ScrapeBookDetails(ctx, url, src)
	if err != nil {
		return nil, err
	}
	e.Caches.Details.Set(key, details)
	return details, nil
}

// ChapterContent scrapes (or serves cached) chapter text.
func (e *Engine) ChapterContent(ctx context.Context, src core.Source, url string) (*core.ChapterContent, error) {
	key := cache.ChapterKey(src, url)
	if v, ok := e.Caches.Chapters.Get(key); ok {
		e.Logger.Debug("[Engine] Chapter cache hit for %s", url)
		return v.(*core.ChapterContent), nil
	}

	content, err := e.Extractor.ExtractChapterContent(ctx, url, src)
	if err != nil {
		return nil, err
	}
	e.Caches.Chapters.Set(key, content)
	return content, nil
}

// Close releases engine resources.
func (e *Engine) Close() error {
	e.Caches.Stop()
	return e.Logger.Close()
}
