package main

import (
	"context"
	"fmt"

	"mambascraper/pkg/auth"
	"mambascraper/pkg/checkpoint"
	"mambascraper/pkg/config"
	"mambascraper/pkg/errors"
	"mambascraper/pkg/logger"
	"mambascraper/pkg/mamba"
	"mambascraper/pkg/ratelimit"
	"mambascraper/pkg/scraper"
	"mambascraper/pkg/storage"
)

// app wires the crawl for one process run
type app struct {
	cfg      *config.Config
	logger   logger.Logger
	provider auth.Provider
}

// run prepares credentials and state, then crawls until the crawl stops.
// It returns the reason the crawl stopped.
func (a *app) run(ctx context.Context, setFilters bool) error {
	paths := a.cfg.Paths

	a.logger.InfoWithFields("mambascraper starting", map[string]interface{}{
		"version":     version,
		"set_filters": setFilters,
		"image_dir":   paths.ImageDir,
	})

	cookies := auth.Resolve(ctx, setFilters, a.provider, auth.NewCookieFile(paths.CookiesFile), a.logger)

	state := checkpoint.NewStore(paths.CursorFile, a.logger)
	if setFilters {
		if err := state.Delete(); err != nil {
			a.logger.WithError(errors.New(errors.ErrorTypePersistence, "cursor delete failed", err)).
				WarnWithFields("Could not reset crawl position", map[string]interface{}{
					"path": state.Path(),
				})
		}
	}

	blobs, err := storage.NewBlobStore(paths.ImageDir)
	if err != nil {
		a.logger.WithError(err).Fatal("Scraping stopped")
		return fmt.Errorf("failed to open image directory: %w", err)
	}

	limiter := ratelimit.NewFixedDelay(a.cfg.Fetch.RequestDelay)
	client := mamba.NewClient(a.cfg.API, cookies.HTTPCookies(), limiter, a.logger)
	// the API expects requests to come from the search page
	client.SetHeader("Referer", a.cfg.API.SearchURL)

	dump := storage.NewDumpFile(paths.DumpFile)
	s := scraper.New(client, blobs, state, dump, a.logger)

	a.logger.DebugWithFields("Crawler ready", map[string]interface{}{
		"request_delay": limiter.Delay().String(),
		"cookies":       len(cookies),
		"image_dir":     blobs.Dir(),
		"images":        blobs.Count(),
	})

	err = s.Run(ctx)
	if errors.Is(err, errors.ErrorTypeParse) {
		a.logger.InfoWithFields("Unparsed page body saved", map[string]interface{}{
			"file": dump.Path(),
		})
	}

	stats := s.Stats()
	a.logger.WithError(err).WithFields(map[string]interface{}{
		"pages":   stats.Pages,
		"saved":   stats.Saved,
		"skipped": stats.Skipped,
		"failed":  stats.Failed,
		"images":  blobs.Count(),
		"dir":     blobs.Dir(),
	}).Fatal("Scraping stopped")
	return err
}
