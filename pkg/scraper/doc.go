// Package scraper drives the cursor-paginated crawl.
//
// Each page is fetched with the current cursor, its items' images are
// downloaded one by one into the blob store, and only then is the server's
// next cursor persisted. A page whose items fail individually still
// advances the crawl; a page that cannot be fetched or parsed stops it.
//
// The crawl has no successful end: once the server stops returning a
// cursor the next page fails to parse and the run terminates.
//
//	s := scraper.New(client, blobs, cursors, dump, log)
//	err := s.Run(ctx) // always non-nil
package scraper
