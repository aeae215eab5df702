// Package mamba talks to the mamba.ru profile search API.
//
// Client performs authenticated requests: it attaches the session cookies
// captured during filter setup to every search page and image request, and
// waits on a fixed-delay limiter before each one. Extract decodes a search
// page into its items and the cursor for the next page.
//
// The cursor is opaque. A page's cursor is sent back verbatim to request the
// following page; only FreshCursor is constructed locally.
package mamba
