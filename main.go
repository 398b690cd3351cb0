package main

import (
	"fmt"
	"os"

	"Folio/cmd"
	"Folio/internal/config"
	"Folio/pkg/engine"
	"Folio/pkg/engine/logger"
	"Folio/pkg/engine/scrape"
	"Folio/pkg/source"
	"Folio/pkg/source/lightnovelworld"
	"Folio/pkg/source/novelbin"
	"Folio/pkg/source/novelfull"
)

// registerSources registers all built-in novel sources with the engine
func registerSources(e *engine.Engine) {
	constructors := []func(scrape.Fetcher, logger.Logger) source.Scraper{
		novelbin.New,
		lightnovelworld.New,
		novelfull.New,
	}
	for _, create := range constructors {
		if err := e.RegisterSource(create(e.Robust, e.Logger)); err != nil {
			e.Logger.Error("[Main] Source registration failed: %v", err)
		}
	}
}

func main() {
	cfg := config.Load()

	e, err := engine.New(engine.Options{
		LogFile:           cfg.LogFile,
		LogLevel:          logger.ParseLevel(cfg.LogLevel),
		ProxyURL:          cfg.ProxyURL,
		FallbackProxy:     cfg.FallbackProxy,
		MaxRetries:        cfg.MaxRetries,
		SearchTTL:         cfg.SearchTTL,
		DetailsTTL:        cfg.DetailsTTL,
		ChaptersTTL:       cfg.ChaptersTTL,
		BreakerThreshold:  cfg.BreakerThreshold,
		BreakerReset:      cfg.BreakerReset,
		GapProbe:          cfg.GapProbe,
		MaxPages:          cfg.MaxPages,
		SearchConcurrency: cfg.SearchConcurrency,
		SearchTimeout:     cfg.SearchTimeout,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %s\n", err)
		os.Exit(1)
	}
	defer e.Close()

	registerSources(e)

	cmd.SetupEngine(e)
	cmd.Execute()
}
