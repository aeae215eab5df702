// Package checkpoint persists the crawl cursor between runs.
//
// A single JSON record mirroring the server's cursor is kept on disk and
// replaced atomically after every completed page, so an interrupted crawl
// resumes from the page after the last one that finished. A missing file
// means a fresh crawl.
package checkpoint
