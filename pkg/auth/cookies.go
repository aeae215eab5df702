// Package auth produces and persists the session cookies the crawler
// attaches to every API request.
package auth

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"mambascraper/pkg/storage"
)

// Cookie is a single session cookie as stored in the cookies file
type Cookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Cookies is the full credential set for one run
type Cookies []Cookie

// HTTPCookies converts the set for use with net/http requests
func (c Cookies) HTTPCookies() []*http.Cookie {
	out := make([]*http.Cookie, 0, len(c))
	for _, cookie := range c {
		out = append(out, &http.Cookie{Name: cookie.Name, Value: cookie.Value})
	}
	return out
}

// Names lists cookie names in order, for logging
func (c Cookies) Names() []string {
	names := make([]string, 0, len(c))
	for _, cookie := range c {
		names = append(names, cookie.Name)
	}
	return names
}

// Sanitize returns a copy with values masked
func (c Cookies) Sanitize() Cookies {
	out := make(Cookies, len(c))
	for i, cookie := range c {
		out[i] = Cookie{Name: cookie.Name, Value: maskValue(cookie.Value)}
	}
	return out
}

func maskValue(value string) string {
	if len(value) <= 8 {
		return strings.Repeat("*", len(value))
	}
	return value[:4] + strings.Repeat("*", len(value)-8) + value[len(value)-4:]
}

// CookieFile is the JSON array of {name, value} records kept between runs
type CookieFile struct {
	path string
}

// NewCookieFile creates a cookie file handle at path
func NewCookieFile(path string) *CookieFile {
	return &CookieFile{path: path}
}

// Path returns the file location
func (f *CookieFile) Path() string {
	return f.path
}

// Load reads the saved cookies. A missing file yields nil, nil.
func (f *CookieFile) Load() (Cookies, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cookies file: %w", err)
	}

	var cookies Cookies
	if err := json.Unmarshal(data, &cookies); err != nil {
		return nil, fmt.Errorf("failed to decode cookies file %s: %w", f.path, err)
	}
	return cookies, nil
}

// Save replaces the file with cookies
func (f *CookieFile) Save(cookies Cookies) error {
	if cookies == nil {
		cookies = Cookies{}
	}
	data, err := json.MarshalIndent(cookies, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cookies: %w", err)
	}
	if err := storage.WriteFileAtomic(f.path, data, 0600); err != nil {
		return fmt.Errorf("failed to save cookies: %w", err)
	}
	return nil
}
