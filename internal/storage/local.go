package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// LocalStore keeps renders on the local filesystem
type LocalStore struct {
	dir string
}

// NewLocalStore creates dir if needed
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	log.Printf("💾 Local audio store: %s", dir)
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Name() string { return "local" }

func (s *LocalStore) path(name string) (string, string, error) {
	clean, err := SanitizeFilename(name)
	if err != nil {
		return "", "", err
	}
	return clean, filepath.Join(s.dir, clean), nil
}

// Save writes data atomically via a temp file and rename
func (s *LocalStore) Save(_ context.Context, name, contentType string, data []byte) (Object, error) {
	clean, path, err := s.path(name)
	if err != nil {
		return Object{}, err
	}

	tmp, err := os.CreateTemp(s.dir, "."+clean+".*")
	if err != nil {
		return Object{}, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return Object{}, fmt.Errorf("failed to write render: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return Object{}, fmt.Errorf("failed to close render: %w", err)
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		return Object{}, fmt.Errorf("failed to set render permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return Object{}, fmt.Errorf("failed to store render: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return Object{}, fmt.Errorf("failed to stat render: %w", err)
	}

	if contentType == "" {
		contentType = ContentTypeFor(clean)
	}
	return Object{
		Name:        clean,
		Path:        path,
		ContentType: contentType,
		Size:        info.Size(),
		ModTime:     info.ModTime(),
	}, nil
}

// Open returns a reader for a stored render
func (s *LocalStore) Open(_ context.Context, name string) (io.ReadCloser, Object, error) {
	clean, path, err := s.path(name)
	if err != nil {
		return nil, Object{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, Object{}, fmt.Errorf("%w: %s", ErrNotFound, clean)
		}
		return nil, Object{}, fmt.Errorf("failed to open render: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, Object{}, fmt.Errorf("failed to stat render: %w", err)
	}

	return f, Object{
		Name:        clean,
		Path:        path,
		ContentType: ContentTypeFor(clean),
		Size:        info.Size(),
		ModTime:     info.ModTime(),
	}, nil
}

// URL is empty for local renders; the API serves them itself
func (s *LocalStore) URL(context.Context, string) (string, error) {
	return "", nil
}
