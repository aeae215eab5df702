package storage

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// blobExt is appended to every stored identifier
const blobExt = ".jpg"

// BlobStore persists downloaded images keyed by identifier
type BlobStore struct {
	dir   string
	saved map[string]bool
	mu    sync.RWMutex
}

// NewBlobStore creates the image directory if needed and indexes the
// images already in it
func NewBlobStore(dir string) (*BlobStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}

	s := &BlobStore{
		dir:   dir,
		saved: make(map[string]bool),
	}

	if err := s.scanExistingFiles(); err != nil {
		return nil, fmt.Errorf("failed to scan existing images: %w", err)
	}

	return s, nil
}

// scanExistingFiles records every {id}.jpg already present in the directory
func (s *BlobStore) scanExistingFiles() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != blobExt || strings.HasPrefix(name, ".") {
			continue
		}
		id, err := url.PathUnescape(strings.TrimSuffix(name, blobExt))
		if err != nil {
			continue
		}
		s.saved[id] = true
	}

	return nil
}

// fileName maps an identifier to its file name. PathEscape is injective and
// escapes separators, so distinct identifiers never share a file.
func fileName(id string) (string, error) {
	if id == "" || id == "." || id == ".." {
		return "", fmt.Errorf("invalid blob identifier %q", id)
	}
	return url.PathEscape(id) + blobExt, nil
}

// Path returns the file path an identifier is stored at
func (s *BlobStore) Path(id string) (string, error) {
	name, err := fileName(id)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dir, name), nil
}

// Has reports whether an image for id is already stored
func (s *BlobStore) Has(id string) bool {
	s.mu.RLock()
	known := s.saved[id]
	s.mu.RUnlock()
	if known {
		return true
	}

	path, err := s.Path(id)
	if err != nil {
		return false
	}
	if _, err := os.Stat(path); err != nil {
		return false
	}

	s.mu.Lock()
	s.saved[id] = true
	s.mu.Unlock()
	return true
}

// Save writes data for id unless an image for id already exists, in which
// case it returns nil without touching the file.
func (s *BlobStore) Save(id string, data []byte) error {
	path, err := s.Path(id)
	if err != nil {
		return err
	}

	if s.Has(id) {
		return nil
	}

	if err := WriteFileAtomic(path, data, 0644); err != nil {
		return fmt.Errorf("failed to save image %s: %w", id, err)
	}

	s.mu.Lock()
	s.saved[id] = true
	s.mu.Unlock()

	return nil
}

// Dir returns the image directory
func (s *BlobStore) Dir() string {
	return s.dir
}

// Count returns the number of stored images
func (s *BlobStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.saved)
}
