package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// FS stores objects as files under a base directory.
type FS struct {
	dir    string
	logger *zap.Logger
}

// NewFS creates the base directory if needed and returns an FS backend.
func NewFS(dir string, logger *zap.Logger) (*FS, error) {
	if dir == "" {
		return nil, errors.New("fs storage requires a directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FS{dir: dir, logger: logger.With(zap.String("storage", BackendFS))}, nil
}

// Dir returns the base directory.
func (s *FS) Dir() string { return s.dir }

// Put writes the object through a temporary file so readers never see a
// partially written report.
func (s *FS) Put(ctx context.Context, key string, r io.Reader) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	target := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating object directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	n, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("moving %s into place: %w", key, err)
	}

	s.logger.Debug("object stored", zap.String("key", key), zap.Int64("bytes", n))
	return nil
}

// Get opens a stored object.
func (s *FS) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(s.dir, filepath.FromSlash(key)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", key, err)
	}
	return f, nil
}
