// Package storage handles the files the scraper writes: downloaded images,
// the diagnostic dump of unparseable pages, and the atomic write helper the
// other file-backed stores share.
//
// Images are keyed by profile identifier and stored as {id}.jpg under the
// image directory. Saving an identifier that is already on disk is a no-op,
// so re-running a partially processed page never re-downloads or overwrites
// an image.
package storage
