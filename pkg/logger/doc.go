// Package logger provides structured logging for the scraper.
//
// It wraps zerolog behind a small Logger interface so that components take
// a Logger through their constructors and tests can substitute
// NewTestLogger or NewNopLogger.
//
//	log := logger.GetLogger().WithField("component", "scraper")
//	log.InfoWithFields("Page processed", map[string]interface{}{
//	    "offset": 112,
//	})
//
// Console output is colourised; when LoggingConfig.File is set, events are
// also appended to that file as JSON.
package logger
