package scraper

import (
	"context"

	"mambascraper/pkg/mamba"
)

// PageFetcher performs authenticated requests against the search API
type PageFetcher interface {
	FetchPage(ctx context.Context, cursor mamba.Cursor) ([]byte, error)
	FetchBinary(ctx context.Context, url string) ([]byte, error)
}

// BlobStore keeps one image per profile id
type BlobStore interface {
	Has(id string) bool
	Save(id string, data []byte) error
	Path(id string) (string, error)
}

// StateStore persists the cursor between runs
type StateStore interface {
	Load() (*mamba.Cursor, error)
	Save(cursor mamba.Cursor) error
	Path() string
}

// DumpSink receives the raw body of a page that failed to parse
type DumpSink interface {
	Dump(body []byte) error
	Path() string
}
