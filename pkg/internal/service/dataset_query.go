package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"

	"github.com/yeisme/geovault/pkg/internal/model"
	"github.com/yeisme/geovault/pkg/internal/types"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// Get returns the catalog projection of one dataset, served from the KV
// cache when fresh.
func (s *DatasetService) Get(ctx context.Context, datasetID uint) (*types.DatasetResponse, error) {
	if s.kvClient != nil {
		if data, err := s.kvClient.Get(ctx, datasetCacheKey(datasetID)); err == nil {
			var cached types.DatasetResponse
			if err := sonic.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	dbx := s.dbClient.GetDB().WithContext(ctx)

	var dataset model.Dataset
	if err := dbx.Preload("Category").First(&dataset, datasetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDatasetNotFound
		}

		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	resp := toDatasetResponse(&dataset)

	if s.kvClient != nil {
		if data, err := sonic.Marshal(resp); err == nil {
			_ = s.kvClient.Set(ctx, datasetCacheKey(datasetID), data, datasetCacheTTL)
		}
	}

	return resp, nil
}

// List returns a catalog page. Archived datasets are hidden unless
// IncludeHidden is set; OnlyActive additionally filters by visibility.
func (s *DatasetService) List(ctx context.Context, req *types.ListDatasetsRequest) (*types.ListDatasetsResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}

	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	dbx := s.dbClient.GetDB().WithContext(ctx).Model(&model.Dataset{})

	if req.CategoryID != 0 {
		dbx = dbx.Where("category_id = ?", req.CategoryID)
	}

	if req.City != "" {
		dbx = dbx.Where("location = ?", req.City)
	}

	if req.OnlyActive {
		dbx = dbx.Where("is_active = ?", true)
	}

	if !req.IncludeHidden {
		dbx = dbx.Where("is_archived = ?", false)
	}

	var total int64
	if err := dbx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count datasets: %w", err)
	}

	var datasets []model.Dataset

	err := dbx.Preload("Category").
		Order("name ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&datasets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}

	resp := &types.ListDatasetsResponse{
		Datasets: make([]types.DatasetResponse, 0, len(datasets)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}

	for i := range datasets {
		resp.Datasets = append(resp.Datasets, *toDatasetResponse(&datasets[i]))
	}

	return resp, nil
}

// invalidateCache drops the cached projection after any mutation.
func (s *DatasetService) invalidateCache(ctx context.Context, datasetID uint) {
	if s.kvClient != nil {
		_ = s.kvClient.Delete(ctx, datasetCacheKey(datasetID))
	}
}
