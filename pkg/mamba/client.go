package mamba

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"mambascraper/pkg/config"
	errs "mambascraper/pkg/errors"
	"mambascraper/pkg/logger"
	"mambascraper/pkg/ratelimit"
)

// Client performs authenticated requests against the search API and the
// image CDN
type Client struct {
	httpClient  *http.Client
	headers     map[string]string
	cookies     []*http.Cookie
	limiter     ratelimit.Limiter
	apiURL      string
	statusNames string
	limit       int
	logger      logger.Logger
}

// NewClient creates a client for the API described by cfg. cookies are sent
// with every request and never modified.
func NewClient(cfg config.APIConfig, cookies []*http.Cookie, limiter ratelimit.Limiter, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	if limiter == nil {
		limiter = ratelimit.NewFixedDelay(0)
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = config.DefaultConfig().API.UserAgent
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		headers: map[string]string{
			"User-Agent":      userAgent,
			"Accept-Language": "ru-RU,ru;q=0.9,en-US;q=0.8,en;q=0.7",
			"Cache-Control":   "no-cache",
		},
		cookies:     cookies,
		limiter:     limiter,
		apiURL:      cfg.APIURL,
		statusNames: cfg.StatusNames,
		limit:       cfg.Limit,
		logger:      log,
	}
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// FetchPage requests the search page addressed by cursor and returns the
// raw response body
func (c *Client) FetchPage(ctx context.Context, cursor Cursor) ([]byte, error) {
	pageURL, err := SearchURL(c.apiURL, cursor, c.statusNames, c.limit)
	if err != nil {
		return nil, &errs.Error{
			Type:    errs.ErrorTypeTransport,
			Message: "failed to build search URL",
			Err:     err,
		}
	}

	c.logger.DebugWithFields("fetching search page", cursor.LogFields())

	return c.get(ctx, pageURL, "application/json, text/plain, */*")
}

// FetchBinary downloads the resource at rawURL
func (c *Client) FetchBinary(ctx context.Context, rawURL string) ([]byte, error) {
	return c.get(ctx, rawURL, "image/avif,image/webp,image/*,*/*;q=0.8")
}

// get performs a paced GET carrying the session cookies and reads the body.
// Every failure is reported as a transport error.
func (c *Client) get(ctx context.Context, rawURL, accept string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &errs.Error{
			Type:    errs.ErrorTypeTransport,
			Message: "request cancelled while waiting",
			Err:     err,
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &errs.Error{
			Type:    errs.ErrorTypeTransport,
			Message: fmt.Sprintf("failed to create request for %s", rawURL),
			Err:     err,
		}
	}

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	req.Header.Set("Accept", accept)
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"url":      rawURL,
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, &errs.Error{
			Type:    errs.ErrorTypeTransport,
			Message: "request failed",
			Err:     err,
		}
	}
	defer resp.Body.Close()

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"url":      rawURL,
		"status":   resp.StatusCode,
		"duration": duration,
	})

	if err := c.checkResponseStatus(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &errs.Error{
			Type:    errs.ErrorTypeTransport,
			Message: "failed to read response body",
			Code:    resp.StatusCode,
			Err:     err,
		}
	}

	return body, nil
}

// checkResponseStatus turns any non-2xx status into a transport error
func (c *Client) checkResponseStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	fields := map[string]interface{}{
		"status": resp.StatusCode,
		"url":    resp.Request.URL.String(),
	}

	var message string
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		message = "access denied, session cookies may have expired"
	case resp.StatusCode == http.StatusNotFound:
		message = "resource not found"
	case resp.StatusCode == http.StatusTooManyRequests:
		message = "rate limit exceeded"
	case resp.StatusCode >= 500:
		message = "server error"
	default:
		message = fmt.Sprintf("unexpected status code: %d", resp.StatusCode)
	}

	c.logger.WarnWithFields(message, fields)

	return &errs.Error{
		Type:    errs.ErrorTypeTransport,
		Message: message,
		Code:    resp.StatusCode,
	}
}
