package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileKV implements KV with one file per key under a base directory.
// Values are written whole; a snapshot file is the serialized collection
// itself, so the on-disk layout stays inspectable with standard tools.
type FileKV struct {
	baseDir string
	mu      sync.Mutex
}

// NewFileKV returns a FileKV rooted at baseDir, creating it if needed.
func NewFileKV(baseDir string) (*FileKV, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &FileKV{baseDir: baseDir}, nil
}

func (f *FileKV) path(key string) string {
	return filepath.Join(f.baseDir, key+".json")
}

// Get reads the snapshot file for key.
func (f *FileKV) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read snapshot %q: %w", key, err)
	}
	return string(data), true, nil
}

// Put writes the snapshot file for key. The write goes through a temp
// file and rename so readers never observe a torn snapshot.
func (f *FileKV) Put(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := f.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(value), 0644); err != nil {
		return fmt.Errorf("write snapshot %q: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("commit snapshot %q: %w", key, err)
	}
	return nil
}

// Delete removes the snapshot file for key.
func (f *FileKV) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete snapshot %q: %w", key, err)
	}
	return nil
}

// Close is a no-op for the file backend.
func (f *FileKV) Close() error { return nil }
