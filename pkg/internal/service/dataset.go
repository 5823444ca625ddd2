package service

import (
	"context"
	"fmt"
	"time"

	ctxPkg "github.com/yeisme/geovault/pkg/context"
	"github.com/yeisme/geovault/pkg/internal/model"
	"github.com/yeisme/geovault/pkg/internal/storage/content"
	"github.com/yeisme/geovault/pkg/internal/storage/db"
	"github.com/yeisme/geovault/pkg/internal/storage/kv"
	"github.com/yeisme/geovault/pkg/internal/types"
	"github.com/yeisme/geovault/pkg/queue"
)

// datasetCacheTTL bounds how long a catalog projection may be served from
// the KV cache.
const datasetCacheTTL = 5 * time.Minute

// DatasetService orchestrates catalog mutations and content writes. The
// ordering policy is fixed: the catalog commit is the durability boundary,
// the content write follows and is best-effort.
type DatasetService struct {
	dbClient   *db.Client
	store      content.Store
	kvClient   *kv.Client
	bus        *queue.Bus
	categories CategoryResolver
}

// NewDatasetService resolves its dependencies from the request context.
func NewDatasetService(c context.Context) *DatasetService {
	return &DatasetService{
		dbClient:   ctxPkg.GetDBClient(c),
		store:      ctxPkg.GetContentStore(c),
		kvClient:   ctxPkg.GetKVClient(c),
		bus:        ctxPkg.GetBus(c),
		categories: NewCategoryService(c),
	}
}

func datasetCacheKey(id uint) string {
	return fmt.Sprintf("dataset:%d", id)
}

// toDatasetResponse projects a catalog row for callers.
func toDatasetResponse(d *model.Dataset) *types.DatasetResponse {
	resp := &types.DatasetResponse{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Location:    d.Location,
		ContentID:   d.ContentID,
		Icon:        d.Icon,
		CategoryID:  d.CategoryID,
		Version:     d.Version,
		IsActive:    d.IsActive,
		IsArchived:  d.IsArchived,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if d.Category.ID != 0 {
		resp.CategoryName = d.Category.Name
	}

	return resp
}
