// Package content provides the content-store port for dataset blobs (the
// canonical feature-collection file, the icon and attached documents) and
// the deterministic path resolver that maps content identifiers to store
// locations.
//
// The store is an injected capability: the filesystem backend is the
// production default, the S3/MinIO backend targets object storage, and the
// in-memory backend backs tests.
package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/yeisme/geovault/pkg/configs"
)

// ErrNotFound is returned when a requested path does not exist in the store.
var ErrNotFound = errors.New("content not found")

// Store is the port through which the catalog writes and reads dataset
// blobs. Writes are whole-file overwrites; none of the backends implement
// write-to-temp-then-rename, so a crash mid-write can leave a truncated
// file. The catalog is the system of record and a missing blob is
// detectable and repairable by re-upload.
type Store interface {
	// Write stores data at path, creating parent folders as needed.
	Write(ctx context.Context, path string, data []byte) error
	// Read returns the full content at path, ErrNotFound if absent.
	Read(ctx context.Context, path string) ([]byte, error)
	// List returns the file names directly under dir. A missing dir is not
	// an error: it returns an empty list.
	List(ctx context.Context, dir string) ([]string, error)
	// Exists reports whether path holds content.
	Exists(ctx context.Context, path string) (bool, error)
	// RemoveAll removes dir and everything below it.
	RemoveAll(ctx context.Context, dir string) error
}

// New builds the content store selected by configuration.
func New(ctx context.Context) (Store, error) {
	cfg := configs.GetConfig().Storage

	switch configs.StorageType(cfg.Type) {
	case configs.StorageTypeFS:
		return NewFSStore(cfg.Root)
	case configs.StorageTypeS3:
		return NewS3Store(ctx, &cfg)
	case configs.StorageTypeMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported content storage type: %s", cfg.Type)
	}
}
