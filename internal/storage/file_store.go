// Package storage persists synthesized audio on the local filesystem.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultPattern names batch outputs incognito_audio_001.wav, incognito_audio_002.wav, ...
const DefaultPattern = "incognito_audio_%03d.wav"

// FileStore writes numbered audio files into Dir.
type FileStore struct {
	Dir     string
	Pattern string
}

// NewFileStore returns a FileStore for dir, defaulting the name pattern.
func NewFileStore(dir, pattern string) *FileStore {
	if dir == "" {
		dir = "."
	}
	if pattern == "" {
		pattern = DefaultPattern
	}
	return &FileStore{Dir: dir, Pattern: pattern}
}

// Ensure creates Dir if it does not exist yet.
func (fs *FileStore) Ensure() error {
	if err := os.MkdirAll(fs.Dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", fs.Dir, err)
	}
	return nil
}

// Path returns the file path for the given 1-based index.
func (fs *FileStore) Path(index int) string {
	return filepath.Join(fs.Dir, fmt.Sprintf(fs.Pattern, index))
}

// Save writes data under the name for index and returns the path.
func (fs *FileStore) Save(index int, data []byte) (string, error) {
	path := fs.Path(index)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
