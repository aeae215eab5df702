package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"

	"mambascraper/pkg/logger"
	"mambascraper/pkg/mamba"
	"mambascraper/pkg/storage"
)

// Store handles cursor persistence
type Store struct {
	path   string
	logger logger.Logger
}

// NewStore creates a cursor store backed by the file at path
func NewStore(path string, log logger.Logger) *Store {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Store{
		path:   path,
		logger: log,
	}
}

// Load returns the saved cursor, or nil when no cursor has been saved
func (s *Store) Load() (*mamba.Cursor, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cursor file: %w", err)
	}

	var cursor mamba.Cursor
	if err := json.Unmarshal(data, &cursor); err != nil {
		return nil, fmt.Errorf("failed to decode cursor file %s: %w", s.path, err)
	}

	s.logger.DebugWithFields("Cursor loaded", cursor.LogFields())

	return &cursor, nil
}

// Save replaces the saved cursor
func (s *Store) Save(cursor mamba.Cursor) error {
	data, err := json.MarshalIndent(cursor, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cursor: %w", err)
	}

	if err := storage.WriteFileAtomic(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to save cursor: %w", err)
	}

	s.logger.DebugWithFields("Cursor saved", cursor.LogFields())

	return nil
}

// Delete removes the saved cursor. Deleting a missing cursor succeeds.
func (s *Store) Delete() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete cursor file: %w", err)
	}

	s.logger.InfoWithFields("Cursor deleted", map[string]interface{}{
		"path": s.path,
	})
	return nil
}

// Exists checks if a cursor file exists
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Path returns the cursor file location
func (s *Store) Path() string {
	return s.path
}
