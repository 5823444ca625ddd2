// Package storage aggregates the storage resources of the dataset store:
// the relational catalog (DB), the content store (blobs), the KV cache and
// the event bus.
//
// Example:
//
//	ctx := context.Background()
//	mgr, err := storage.Init(ctx)
//	if err != nil {
//		// handle error
//	}
//
//	dbClient := mgr.GetDBClient()
//	store := mgr.GetContentStore()
package storage

import (
	"context"
	"sync"

	"github.com/yeisme/geovault/pkg/internal/storage/content"
	dbc "github.com/yeisme/geovault/pkg/internal/storage/db"
	kvc "github.com/yeisme/geovault/pkg/internal/storage/kv"
	nlog "github.com/yeisme/geovault/pkg/log"
	"github.com/yeisme/geovault/pkg/queue"
)

// Manager aggregates all storage resources.
type Manager struct {
	DB      *dbc.Client
	Content content.Store
	KV      *kvc.Client
	Bus     *queue.Bus
}

var (
	mgr     *Manager
	mgrOnce sync.Once
)

// Init initializes default storage from global configuration. Repeated
// calls return the already-initialized instance.
func Init(ctx context.Context) (*Manager, error) {
	var err error

	mgrOnce.Do(func() {
		m := &Manager{}

		if dbi, e := dbc.New(ctx); e != nil {
			err = e

			return
		} else {
			m.DB = dbi
		}

		if store, e := content.New(ctx); e != nil {
			err = e

			return
		} else {
			m.Content = store
		}

		if kvi, e := kvc.New(ctx); e != nil {
			err = e

			return
		} else {
			m.KV = kvi
		}

		m.Bus = queue.NewBus()

		mgr = m

		nlog.Logger().Info().Msg("storage manager initialized")
	})

	return mgr, err
}

// NewManager assembles a manager from explicit components; tests use this
// to wire in-memory backends.
func NewManager(db *dbc.Client, store content.Store, kv *kvc.Client, bus *queue.Bus) *Manager {
	return &Manager{DB: db, Content: store, KV: kv, Bus: bus}
}

// GetDBClient returns the catalog DB client.
func (m *Manager) GetDBClient() *dbc.Client {
	return m.DB
}

// GetContentStore returns the content store.
func (m *Manager) GetContentStore() content.Store {
	return m.Content
}

// GetKVClient returns the KV cache client.
func (m *Manager) GetKVClient() *kvc.Client {
	return m.KV
}

// GetBus returns the event bus.
func (m *Manager) GetBus() *queue.Bus {
	return m.Bus
}
