// Package storage persists rendered report files.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"go.uber.org/zap"
)

// ErrObjectNotFound is returned by Get when no object exists under the key.
var ErrObjectNotFound = errors.New("object not found")

// Backend names.
const (
	BackendFS = "fs"
	BackendS3 = "s3"
)

// Storage is a flat key/value object store.
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

// Config selects and configures a backend.
type Config struct {
	Backend string
	// Dir is the base directory of the fs backend.
	Dir string
	S3  S3Config
}

// S3Config configures the s3 backend. Endpoint may point at an S3-compatible
// service such as MinIO; credentials fall back to the default AWS chain.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// New builds the configured backend.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (Storage, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Backend {
	case "", BackendFS:
		return NewFS(cfg.Dir, logger)
	case BackendS3:
		return NewS3(ctx, cfg.S3, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// ValidateKey rejects keys that are empty, absolute or escape the store.
func ValidateKey(key string) error {
	if key == "" {
		return errors.New("empty object key")
	}
	if strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return fmt.Errorf("invalid object key %q", key)
	}
	if clean := path.Clean(key); clean != key || clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("invalid object key %q", key)
	}
	return nil
}
