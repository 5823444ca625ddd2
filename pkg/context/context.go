// Package context extends context.Context with the storage manager so
// services can resolve their dependencies anywhere in the call tree.
package context

import (
	"context"

	"github.com/yeisme/geovault/pkg/internal/storage"
	"github.com/yeisme/geovault/pkg/internal/storage/content"
	dbc "github.com/yeisme/geovault/pkg/internal/storage/db"
	kvc "github.com/yeisme/geovault/pkg/internal/storage/kv"
	"github.com/yeisme/geovault/pkg/queue"
)

type ContextKey string

const (
	StorageManagerKey ContextKey = "storageManager"
)

// WithStorageManager stores the Manager in the context.
func WithStorageManager(ctx context.Context, mgr *storage.Manager) context.Context {
	return context.WithValue(ctx, StorageManagerKey, mgr)
}

// GetManager retrieves the Manager from the context.
func GetManager(ctx context.Context) *storage.Manager {
	if mgr, ok := ctx.Value(StorageManagerKey).(*storage.Manager); ok {
		return mgr
	}

	return nil
}

// GetDBClient retrieves the catalog DB client from the context.
func GetDBClient(ctx context.Context) *dbc.Client {
	if mgr := GetManager(ctx); mgr != nil {
		return mgr.GetDBClient()
	}

	return nil
}

// GetContentStore retrieves the content store from the context.
func GetContentStore(ctx context.Context) content.Store {
	if mgr := GetManager(ctx); mgr != nil {
		return mgr.GetContentStore()
	}

	return nil
}

// GetKVClient retrieves the KV cache client from the context.
func GetKVClient(ctx context.Context) *kvc.Client {
	if mgr := GetManager(ctx); mgr != nil {
		return mgr.GetKVClient()
	}

	return nil
}

// GetBus retrieves the event bus from the context.
func GetBus(ctx context.Context) *queue.Bus {
	if mgr := GetManager(ctx); mgr != nil {
		return mgr.GetBus()
	}

	return nil
}
