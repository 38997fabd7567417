package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/user/memory-beacon/internal/interfaces"
)

var validKey = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// FileStore keeps one JSON file per key under a directory
type FileStore struct {
	dir  string
	lock sync.RWMutex
}

var _ interfaces.BlobStore = (*FileStore)(nil)

// NewFileStore creates a file store rooted at dir
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (fs *FileStore) path(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(fs.dir, key+".json"), nil
}

// Write replaces the blob stored under key. The blob lands in a temporary
// file first so a crash never leaves a half-written save.
func (fs *FileStore) Write(key string, blob []byte) error {
	path, err := fs.path(key)
	if err != nil {
		return err
	}

	fs.lock.Lock()
	defer fs.lock.Unlock()

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, blob, 0644); err != nil {
		return fmt.Errorf("failed to write blob: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace blob: %w", err)
	}
	return nil
}

// Read returns the blob stored under key and whether it exists
func (fs *FileStore) Read(key string) ([]byte, bool, error) {
	path, err := fs.path(key)
	if err != nil {
		return nil, false, err
	}

	fs.lock.RLock()
	defer fs.lock.RUnlock()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read blob: %w", err)
	}
	return data, true, nil
}
