package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ScalarStore is the local-device durable store the cart persists
// through. It is deliberately tiny: string in, string out, keyed by a
// path-safe name. The cart must survive restarts without the hosted
// catalog connection being alive, so this is local by design.
type ScalarStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// FileStore keeps one file per key under a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cart dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

func (f *FileStore) Get(key string) (string, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return string(data), true, nil
}

func (f *FileStore) Set(key, value string) error {
	tmp := f.path(key) + ".tmp"
	if err := os.WriteFile(tmp, []byte(value), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := os.Rename(tmp, f.path(key)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
