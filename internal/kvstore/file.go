package kvstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps each key in its own file under a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore rooted at dir. The directory is created
// lazily on the first Set.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// keyFile maps a key to a file name, replacing path separators.
func (s *FileStore) keyFile(key string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(key)
	return filepath.Join(s.dir, safe+".dat")
}

// Get reads the value for key. Any read error is reported as a miss.
func (s *FileStore) Get(key string) (string, bool) {
	data, err := os.ReadFile(s.keyFile(key))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// Set writes the value for key atomically (write to temp file, then rename).
func (s *FileStore) Set(key, value string) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("creating store dir: %w", err)
	}
	path := s.keyFile(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(value), 0644); err != nil {
		return fmt.Errorf("writing store file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("renaming store file: %w", err)
	}
	return nil
}

// Close is a no-op for the file-backed store.
func (s *FileStore) Close() error { return nil }
