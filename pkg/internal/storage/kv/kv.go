// Package kv provides the key-value cache port used for catalog
// projections, with memory and redis backends.
package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yeisme/geovault/pkg/configs"
)

// ErrKeyNotFound is returned by Get for absent or expired keys.
var ErrKeyNotFound = errors.New("key not found")

// Client wraps a KVStore backend.
type Client struct {
	KVStore
}

// KVStore defines the key-value storage interface.
type KVStore interface {
	// Get returns the value for key, ErrKeyNotFound if absent.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores the value with an optional TTL (0 = no expiry).
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes a key.
	Delete(ctx context.Context, key string) error
	// Close releases the backend connection.
	Close() error
}

// New creates the KV client selected by configuration.
func New(ctx context.Context) (*Client, error) {
	cfg := configs.GetConfig().KV

	switch cfg.Type {
	case "memory", "":
		return &Client{KVStore: NewMemoryKV()}, nil
	case "redis":
		store, err := NewRedisKV(ctx, &cfg.Redis)
		if err != nil {
			return nil, err
		}

		return &Client{KVStore: store}, nil
	default:
		return nil, fmt.Errorf("unsupported KV type: %s", cfg.Type)
	}
}
