package qastore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/yanqian/askbook/internal/domain/qa"
)

// FileStorage keeps every pair in a single JSON or YAML record file. Each write
// replaces the whole file through a synced temp file and a rename.
type FileStorage struct {
	fs     afero.Fs
	path   string
	format Format
}

// NewFileStorage constructs a file storage on top of fsys. Use afero.NewMemMapFs()
// in tests.
func NewFileStorage(fsys afero.Fs, path string) *FileStorage {
	return &FileStorage{fs: fsys, path: path, format: FormatFromPath(path)}
}

// NewOsFileStorage constructs a file storage on the operating system filesystem.
func NewOsFileStorage(path string) *FileStorage {
	return NewFileStorage(afero.NewOsFs(), path)
}

// LoadAll implements qa.Storage. A missing file is an empty store.
func (s *FileStorage) LoadAll(_ context.Context) ([]qa.Pair, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []qa.Pair{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	return decodeSnapshot(s.format, data)
}

// PersistAll implements qa.Storage.
func (s *FileStorage) PersistAll(_ context.Context, pairs []qa.Pair) error {
	data, err := encodeSnapshot(s.format, pairs)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	tmp := s.path + ".tmp"
	f, err := s.fs.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", tmp, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("sync %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp, err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

// Close implements qa.Storage.
func (s *FileStorage) Close() error { return nil }

var _ qa.Storage = (*FileStorage)(nil)
