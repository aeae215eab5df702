package storage

import "fmt"

// DumpFile keeps the single most recent unparseable page body
type DumpFile struct {
	path string
}

// NewDumpFile creates a dump sink writing to path
func NewDumpFile(path string) *DumpFile {
	return &DumpFile{path: path}
}

// Dump overwrites the dump file with body, verbatim
func (d *DumpFile) Dump(body []byte) error {
	if err := WriteFileAtomic(d.path, body, 0644); err != nil {
		return fmt.Errorf("failed to write dump file: %w", err)
	}
	return nil
}

// Path returns the dump file location
func (d *DumpFile) Path() string {
	return d.path
}
