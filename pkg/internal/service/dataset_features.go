package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"

	"github.com/yeisme/geovault/pkg/internal/model"
	"github.com/yeisme/geovault/pkg/internal/storage/content"
	"github.com/yeisme/geovault/pkg/internal/types"
	nlog "github.com/yeisme/geovault/pkg/log"
)

// ReplaceFeatures swaps only the features array of the stored document;
// every other top-level key is preserved verbatim. The file is written
// first, then the catalog version increments together with the audit entry.
// No lock guards concurrent replacements: two racing calls can both read
// the same pre-update version and the second file write wins.
func (s *DatasetService) ReplaceFeatures(ctx context.Context, datasetID uint, actor string, req *types.ReplaceFeaturesRequest) (*types.DatasetResponse, error) {
	if strings.TrimSpace(req.Comment) == "" {
		return nil, ErrMissingComment
	}

	dbx := s.dbClient.GetDB().WithContext(ctx)

	var dataset model.Dataset
	if err := dbx.Preload("Category").First(&dataset, datasetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDatasetNotFound
		}

		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	doc, err := s.readDocument(ctx, dataset.ContentID)
	if err != nil {
		return nil, err
	}

	features := req.Features
	if features == nil {
		features = []any{}
	}

	doc["features"] = features

	if err := s.writeDocument(ctx, dataset.ContentID, doc); err != nil {
		return nil, fmt.Errorf("failed to write content file: %w", err)
	}

	versionBefore := dataset.Version
	versionAfter := versionBefore + 1

	err = dbx.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&dataset).Update("version", versionAfter).Error; err != nil {
			return err
		}

		return tx.Create(&model.Modification{
			DatasetID:     dataset.ID,
			Actor:         actor,
			Action:        model.ActionUpdated,
			VersionBefore: versionBefore,
			VersionAfter:  versionAfter,
			Comment:       req.Comment,
		}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record feature replacement: %w", err)
	}

	dataset.Version = versionAfter

	s.invalidateCache(ctx, dataset.ID)
	s.publishDatasetEvent(ctx, &dataset, model.ActionUpdated, actor, req.Comment)

	return toDatasetResponse(&dataset), nil
}

// ReplaceContent swaps the whole stored document for a new one, which must
// itself pass the ingestion gate. Same ordering as ReplaceFeatures, audited
// as file_replaced.
func (s *DatasetService) ReplaceContent(ctx context.Context, datasetID uint, actor string, req *types.ReplaceContentRequest) (*types.DatasetResponse, error) {
	if strings.TrimSpace(req.Comment) == "" {
		return nil, ErrMissingComment
	}

	dbx := s.dbClient.GetDB().WithContext(ctx)

	var dataset model.Dataset
	if err := dbx.Preload("Category").First(&dataset, datasetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDatasetNotFound
		}

		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	doc, err := decodeAndValidate(req.Content)
	if err != nil {
		return nil, err
	}

	if err := s.writeDocument(ctx, dataset.ContentID, doc); err != nil {
		return nil, fmt.Errorf("failed to write content file: %w", err)
	}

	versionBefore := dataset.Version
	versionAfter := versionBefore + 1

	err = dbx.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&dataset).Update("version", versionAfter).Error; err != nil {
			return err
		}

		return tx.Create(&model.Modification{
			DatasetID:     dataset.ID,
			Actor:         actor,
			Action:        model.ActionFileReplaced,
			VersionBefore: versionBefore,
			VersionAfter:  versionAfter,
			Comment:       req.Comment,
		}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record content replacement: %w", err)
	}

	dataset.Version = versionAfter

	s.invalidateCache(ctx, dataset.ID)
	s.publishDatasetEvent(ctx, &dataset, model.ActionFileReplaced, actor, req.Comment)

	return toDatasetResponse(&dataset), nil
}

// GetContent returns the stored feature-collection document.
func (s *DatasetService) GetContent(ctx context.Context, datasetID uint) (map[string]any, error) {
	dbx := s.dbClient.GetDB().WithContext(ctx)

	var dataset model.Dataset
	if err := dbx.First(&dataset, datasetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDatasetNotFound
		}

		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	data, err := s.store.Read(ctx, content.ContentPath(dataset.ContentID))
	if err != nil {
		return nil, fmt.Errorf("failed to read content file: %w", err)
	}

	var doc map[string]any
	if err := sonic.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode content file: %w", err)
	}

	return doc, nil
}

// readDocument loads the stored document. A missing file is the documented
// catalog-then-file inconsistency; it is logged and replaced with an empty
// collection skeleton so the dataset can be repaired by replacement.
func (s *DatasetService) readDocument(ctx context.Context, contentID string) (map[string]any, error) {
	data, err := s.store.Read(ctx, content.ContentPath(contentID))
	if errors.Is(err, content.ErrNotFound) {
		nlog.Logger().Warn().
			Str("content_id", contentID).
			Msg("content file missing, rebuilding from empty skeleton")

		return map[string]any{"type": "FeatureCollection", "features": []any{}}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read content file: %w", err)
	}

	var doc map[string]any
	if err := sonic.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode content file: %w", err)
	}

	return doc, nil
}
