package auth

import (
	"context"

	"mambascraper/pkg/errors"
	"mambascraper/pkg/logger"
)

// Provider acquires a fresh set of session cookies
type Provider interface {
	Acquire(ctx context.Context) (Cookies, error)
}

// Resolve picks the cookies for this run.
//
// With acquire set the provider is asked first and its cookies are saved to
// file; a failed acquisition falls back to whatever file holds. Without
// acquire the file is used as is. A missing or unreadable file means the run
// proceeds unauthenticated.
func Resolve(ctx context.Context, acquire bool, provider Provider, file *CookieFile, log logger.Logger) Cookies {
	if acquire && provider != nil {
		cookies, err := provider.Acquire(ctx)
		if err == nil {
			log.InfoWithFields("Session cookies acquired", map[string]interface{}{
				"count":   len(cookies),
				"cookies": cookies.Sanitize(),
			})
			if err := file.Save(cookies); err != nil {
				log.WithError(errors.New(errors.ErrorTypePersistence, "cookie save failed", err)).
					WarnWithFields("Could not save cookies", map[string]interface{}{
						"file": file.Path(),
					})
			}
			return cookies
		}
		log.WithError(err).Warn("Login failed, falling back to saved cookies")
	}

	cookies, err := file.Load()
	if err != nil {
		log.WithError(err).WarnWithFields("Could not load cookies, continuing without session", map[string]interface{}{
			"file": file.Path(),
		})
		return nil
	}
	if cookies == nil {
		log.WarnWithFields("No saved cookies, continuing without session", map[string]interface{}{
			"file": file.Path(),
		})
		return nil
	}

	log.DebugWithFields("Saved cookies loaded", map[string]interface{}{
		"file":  file.Path(),
		"count": len(cookies),
		"names": cookies.Names(),
	})
	return cookies
}
