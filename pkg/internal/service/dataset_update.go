package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/yeisme/geovault/pkg/internal/model"
	"github.com/yeisme/geovault/pkg/internal/storage/content"
	"github.com/yeisme/geovault/pkg/internal/types"
	nlog "github.com/yeisme/geovault/pkg/log"
)

// UpdateMetadata applies a partial update to name/description/location/
// category. The catalog version does not change, but an audit entry is
// still appended with an unchanged version pair.
func (s *DatasetService) UpdateMetadata(ctx context.Context, datasetID uint, actor string, req *types.UpdateDatasetRequest) (*types.DatasetResponse, error) {
	dbx := s.dbClient.GetDB().WithContext(ctx)

	var dataset model.Dataset
	if err := dbx.Preload("Category").First(&dataset, datasetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDatasetNotFound
		}

		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	updates := map[string]any{}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" || utf8.RuneCountInString(name) > 255 {
			return nil, fmt.Errorf("invalid dataset name %q", *req.Name)
		}

		if name != dataset.Name {
			var count int64
			if err := dbx.Model(&model.Dataset{}).Where("name = ? AND id <> ?", name, dataset.ID).Count(&count).Error; err != nil {
				return nil, fmt.Errorf("failed to check name uniqueness: %w", err)
			}

			if count > 0 {
				return nil, ErrDuplicateName
			}
		}

		updates["name"] = name
		dataset.Name = name
	}

	if req.Description != nil {
		updates["description"] = *req.Description
		dataset.Description = *req.Description
	}

	if req.Location != nil {
		updates["location"] = *req.Location
		dataset.Location = *req.Location
	}

	// category changes are existence-checked, never auto-created here
	if req.CategoryID != nil || req.CategoryName != nil {
		var (
			id   uint
			name string
		)

		if req.CategoryID != nil {
			id = *req.CategoryID
		}

		if req.CategoryName != nil {
			name = *req.CategoryName
		}

		category, err := s.categories.Resolve(ctx, id, name)
		if err != nil {
			return nil, err
		}

		updates["category_id"] = category.ID
		dataset.CategoryID = category.ID
		dataset.Category = *category
	}

	if len(updates) == 0 {
		return toDatasetResponse(&dataset), nil
	}

	err := dbx.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&dataset).Updates(updates).Error; err != nil {
			return err
		}

		return tx.Create(&model.Modification{
			DatasetID:     dataset.ID,
			Actor:         actor,
			Action:        model.ActionUpdated,
			VersionBefore: dataset.Version,
			VersionAfter:  dataset.Version,
			Comment:       req.Comment,
		}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update dataset metadata: %w", err)
	}

	s.invalidateCache(ctx, dataset.ID)
	s.publishDatasetEvent(ctx, &dataset, model.ActionUpdated, actor, req.Comment)

	return toDatasetResponse(&dataset), nil
}

// ToggleActive flips dataset visibility without touching the version.
func (s *DatasetService) ToggleActive(ctx context.Context, datasetID uint, actor string, req *types.ToggleActiveRequest) (*types.DatasetResponse, error) {
	dbx := s.dbClient.GetDB().WithContext(ctx)

	var dataset model.Dataset
	if err := dbx.Preload("Category").First(&dataset, datasetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDatasetNotFound
		}

		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	err := dbx.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&dataset).Update("is_active", req.Active).Error; err != nil {
			return err
		}

		return tx.Create(&model.Modification{
			DatasetID:     dataset.ID,
			Actor:         actor,
			Action:        model.ActionUpdated,
			VersionBefore: dataset.Version,
			VersionAfter:  dataset.Version,
			Comment:       req.Comment,
		}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to toggle dataset: %w", err)
	}

	dataset.IsActive = req.Active

	s.invalidateCache(ctx, dataset.ID)
	s.publishDatasetEvent(ctx, &dataset, model.ActionUpdated, actor, req.Comment)

	return toDatasetResponse(&dataset), nil
}

// Archive marks a dataset archived; the row and its content stay in place.
func (s *DatasetService) Archive(ctx context.Context, datasetID uint, actor, comment string) (*types.DatasetResponse, error) {
	return s.setArchived(ctx, datasetID, actor, comment, true)
}

// Restore clears the archived flag.
func (s *DatasetService) Restore(ctx context.Context, datasetID uint, actor, comment string) (*types.DatasetResponse, error) {
	return s.setArchived(ctx, datasetID, actor, comment, false)
}

func (s *DatasetService) setArchived(ctx context.Context, datasetID uint, actor, comment string, archived bool) (*types.DatasetResponse, error) {
	dbx := s.dbClient.GetDB().WithContext(ctx)

	var dataset model.Dataset
	if err := dbx.Preload("Category").First(&dataset, datasetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDatasetNotFound
		}

		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	action := model.ActionArchived
	if !archived {
		action = model.ActionRestored
	}

	err := dbx.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&dataset).Update("is_archived", archived).Error; err != nil {
			return err
		}

		return tx.Create(&model.Modification{
			DatasetID:     dataset.ID,
			Actor:         actor,
			Action:        action,
			VersionBefore: dataset.Version,
			VersionAfter:  dataset.Version,
			Comment:       comment,
		}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to change archive state: %w", err)
	}

	dataset.IsArchived = archived

	s.invalidateCache(ctx, dataset.ID)
	s.publishDatasetEvent(ctx, &dataset, action, actor, comment)

	return toDatasetResponse(&dataset), nil
}

// Delete hard-removes the catalog row, then appends a trailing audit entry
// referencing the now-deleted dataset id. The ordering is intentional and
// relies on the audit table carrying no foreign key; the history of a
// deleted dataset stays queryable. The content folder is removed
// best-effort afterwards.
func (s *DatasetService) Delete(ctx context.Context, datasetID uint, actor, comment string) error {
	dbx := s.dbClient.GetDB().WithContext(ctx)

	var dataset model.Dataset
	if err := dbx.First(&dataset, datasetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDatasetNotFound
		}

		return fmt.Errorf("failed to load dataset: %w", err)
	}

	if err := dbx.Delete(&model.Dataset{}, dataset.ID).Error; err != nil {
		return fmt.Errorf("failed to delete dataset: %w", err)
	}

	if err := dbx.Create(&model.Modification{
		DatasetID:     dataset.ID,
		Actor:         actor,
		Action:        model.ActionArchived,
		VersionBefore: dataset.Version,
		VersionAfter:  dataset.Version,
		Comment:       comment,
	}).Error; err != nil {
		nlog.Logger().Error().Err(err).
			Uint("dataset_id", dataset.ID).
			Msg("failed to append audit entry after delete")
	}

	if err := s.store.RemoveAll(ctx, content.FolderName(dataset.ContentID)); err != nil {
		nlog.Logger().Warn().Err(err).
			Uint("dataset_id", dataset.ID).
			Str("content_id", dataset.ContentID).
			Msg("failed to remove content folder after delete")
	}

	s.invalidateCache(ctx, dataset.ID)
	s.publishDatasetEvent(ctx, &dataset, model.ActionArchived, actor, comment)

	return nil
}
