package scraper

import (
	"context"
	"fmt"
	"sync"

	"mambascraper/pkg/errors"
	"mambascraper/pkg/logger"
	"mambascraper/pkg/mamba"
)

// Stats counts what a run has done so far
type Stats struct {
	Pages   int `json:"pages"`
	Saved   int `json:"saved"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Scraper orchestrates the paginated crawl
type Scraper struct {
	fetcher PageFetcher
	blobs   BlobStore
	state   StateStore
	dump    DumpSink
	logger  logger.Logger

	mu    sync.Mutex
	stats Stats
}

// New creates a new Scraper instance
func New(fetcher PageFetcher, blobs BlobStore, state StateStore, dump DumpSink, log logger.Logger) *Scraper {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Scraper{
		fetcher: fetcher,
		blobs:   blobs,
		state:   state,
		dump:    dump,
		logger:  log,
	}
}

// Stats returns a snapshot of the run counters
func (s *Scraper) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Run crawls from the saved cursor, or from the first page when none is
// saved, until a page cannot be fetched or parsed or ctx is done. The
// returned error is never nil.
func (s *Scraper) Run(ctx context.Context) error {
	cursor, err := s.initialCursor()
	if err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			s.logger.WithFields(cursor.LogFields()).Info("Crawl interrupted")
			return err
		}

		next, err := s.ProcessPage(ctx, cursor)
		if err != nil {
			if ctx.Err() != nil {
				s.logger.WithFields(cursor.LogFields()).Info("Crawl interrupted")
			}
			return err
		}

		if err := s.state.Save(next); err != nil {
			s.logger.WithError(errors.New(errors.ErrorTypePersistence, "cursor save failed", err)).
				WarnWithFields("Could not save cursor", map[string]interface{}{
					"path": s.state.Path(),
				})
		}

		s.mu.Lock()
		s.stats.Pages++
		s.mu.Unlock()

		s.logger.InfoWithFields("Page processed", next.LogFields())
		cursor = next
	}
}

func (s *Scraper) initialCursor() (mamba.Cursor, error) {
	saved, err := s.state.Load()
	if err != nil {
		s.logger.WithError(err).ErrorWithFields("Cursor file is unreadable", map[string]interface{}{
			"path": s.state.Path(),
			"hint": "fix or remove the file, or rerun with --set-filters",
		})
		return mamba.Cursor{}, errors.New(errors.ErrorTypePersistence, "failed to load cursor", err)
	}

	if saved == nil {
		s.logger.Info("Starting fresh crawl")
		return mamba.FreshCursor(), nil
	}

	s.logger.InfoWithFields("Continue scraping", saved.LogFields())
	return *saved, nil
}

// ProcessPage fetches the page at cursor, downloads its images and returns
// the server's next cursor. It does not persist anything but the images.
// When ctx is done before every item has been attempted, or an item fails
// because of it, the page is incomplete and ctx's error is returned instead.
func (s *Scraper) ProcessPage(ctx context.Context, cursor mamba.Cursor) (mamba.Cursor, error) {
	body, err := s.fetcher.FetchPage(ctx, cursor)
	if err != nil {
		s.logger.WithError(err).ErrorWithFields("Failed to fetch page", cursor.LogFields())
		return mamba.Cursor{}, err
	}

	page, err := mamba.Extract(body)
	if err != nil {
		s.dumpBody(body)
		s.logger.WithError(err).ErrorWithFields("Failed to parse page", map[string]interface{}{
			"file": s.dump.Path(),
		})
		return mamba.Cursor{}, err
	}

	s.logger.DebugWithFields("Page fetched", map[string]interface{}{
		"items":  len(page.Items),
		"offset": cursor.SearcherOffset.String(),
	})

	for _, item := range page.Items {
		if err := ctx.Err(); err != nil {
			return mamba.Cursor{}, err
		}
		if !s.processItem(ctx, item) && ctx.Err() != nil {
			return mamba.Cursor{}, ctx.Err()
		}
	}

	return page.Cursor, nil
}

func (s *Scraper) dumpBody(body []byte) {
	if err := s.dump.Dump(body); err != nil {
		s.logger.WithError(err).WarnWithFields("Could not write dump file", map[string]interface{}{
			"file": s.dump.Path(),
		})
	}
}

// processItem reports false when the item failed
func (s *Scraper) processItem(ctx context.Context, item mamba.Item) bool {
	file, err := s.blobs.Path(item.ID)
	if err != nil {
		s.itemFailed(item, "", errors.New(errors.ErrorTypeDownload, "invalid profile id", err))
		return false
	}

	if s.blobs.Has(item.ID) {
		s.mu.Lock()
		s.stats.Skipped++
		s.mu.Unlock()
		s.logger.DebugWithFields("Image already saved", map[string]interface{}{
			"id":   item.ID,
			"file": file,
		})
		return true
	}

	data, err := s.fetcher.FetchBinary(ctx, item.ImageURL)
	if err != nil {
		s.itemFailed(item, file, errors.New(errors.ErrorTypeDownload, "image download failed", err))
		return false
	}

	if err := s.blobs.Save(item.ID, data); err != nil {
		s.itemFailed(item, file, errors.New(errors.ErrorTypeDownload, "image save failed", err))
		return false
	}

	s.mu.Lock()
	s.stats.Saved++
	s.mu.Unlock()

	s.logger.InfoWithFields("Image saved", map[string]interface{}{
		"id":   item.ID,
		"file": file,
	})
	return true
}

func (s *Scraper) itemFailed(item mamba.Item, file string, err error) {
	s.mu.Lock()
	s.stats.Failed++
	s.mu.Unlock()

	s.logger.WithError(err).ErrorWithFields(fmt.Sprintf("Failed to save image for profile %s", item.ID), map[string]interface{}{
		"id":   item.ID,
		"url":  item.ImageURL,
		"file": file,
	})
}
