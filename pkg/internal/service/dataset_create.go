package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"

	"github.com/yeisme/geovault/pkg/internal/geo"
	"github.com/yeisme/geovault/pkg/internal/model"
	"github.com/yeisme/geovault/pkg/internal/storage/content"
	"github.com/yeisme/geovault/pkg/internal/types"
	nlog "github.com/yeisme/geovault/pkg/log"
	"github.com/yeisme/geovault/pkg/metrics"
)

// Create ingests a new dataset. All checks and the validation gate run
// before any write. The catalog row and the initial audit entry commit
// atomically first; only then are the content file and icon written, so a
// failed file write leaves a repairable catalog row instead of an orphan
// file.
func (s *DatasetService) Create(ctx context.Context, actor string, req *types.CreateDatasetRequest) (*types.DatasetResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || utf8.RuneCountInString(name) > 255 {
		return nil, fmt.Errorf("invalid dataset name %q", req.Name)
	}

	if !content.HasCanonicalExt(req.ContentID) {
		return nil, ErrInvalidExtension
	}

	doc, err := decodeAndValidate(req.Content)
	if err != nil {
		return nil, err
	}

	dbx := s.dbClient.GetDB().WithContext(ctx)

	var count int64
	if err := dbx.Model(&model.Dataset{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check name uniqueness: %w", err)
	}

	if count > 0 {
		return nil, ErrDuplicateName
	}

	if err := dbx.Model(&model.Dataset{}).Where("content_id = ?", req.ContentID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check content id uniqueness: %w", err)
	}

	if count > 0 {
		return nil, ErrDuplicateContentID
	}

	category, err := s.categories.ResolveOrCreate(ctx, req.CategoryID, req.CategoryName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCategoryResolution, err)
	}

	dataset := model.Dataset{
		Name:        name,
		Description: req.Description,
		Location:    req.Location,
		ContentID:   req.ContentID,
		Icon:        model.DefaultIcon,
		CategoryID:  category.ID,
		Version:     1,
		IsActive:    true,
	}

	// catalog row and initial audit entry commit together
	err = dbx.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&dataset).Error; err != nil {
			return err
		}

		return tx.Create(&model.Modification{
			DatasetID:     dataset.ID,
			Actor:         actor,
			Action:        model.ActionCreated,
			VersionBefore: 0,
			VersionAfter:  1,
			Comment:       req.Comment,
		}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create dataset: %w", err)
	}

	// content write happens after the commit; a failure surfaces to the
	// caller but the catalog row stays, repairable by content replacement
	if err := s.writeDocument(ctx, req.ContentID, doc); err != nil {
		nlog.Logger().Error().Err(err).
			Uint("dataset_id", dataset.ID).
			Str("content_id", req.ContentID).
			Msg("content write failed after catalog commit")

		return nil, fmt.Errorf("failed to write content file: %w", err)
	}

	if len(req.IconMap) > 0 && req.Icon != "" && req.Icon != model.DefaultIcon {
		if err := s.store.Write(ctx, content.IconPath(req.ContentID, req.Icon), req.IconMap); err != nil {
			nlog.Logger().Error().Err(err).
				Uint("dataset_id", dataset.ID).
				Msg("icon write failed")
		} else if err := dbx.Model(&dataset).Update("icon", req.Icon).Error; err != nil {
			nlog.Logger().Error().Err(err).
				Uint("dataset_id", dataset.ID).
				Msg("icon patch failed")
		} else {
			dataset.Icon = req.Icon
		}
	}

	dataset.Category = *category
	s.publishDatasetEvent(ctx, &dataset, model.ActionCreated, actor, req.Comment)

	return toDatasetResponse(&dataset), nil
}

// decodeAndValidate decodes raw content and runs it through the ingestion
// gate.
func decodeAndValidate(raw []byte) (map[string]any, error) {
	var doc map[string]any
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		metrics.ValidationRejections.Inc()

		return nil, &geo.ValidationError{Reasons: []string{"document is not valid JSON"}}
	}

	if err := geo.ValidateCollection(doc); err != nil {
		metrics.ValidationRejections.Inc()

		return nil, err
	}

	return doc, nil
}

// writeDocument stores the canonical feature-collection file,
// pretty-printed.
func (s *DatasetService) writeDocument(ctx context.Context, contentID string, doc map[string]any) error {
	data, err := sonic.ConfigDefault.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	return s.store.Write(ctx, content.ContentPath(contentID), data)
}

// IsValidationError reports whether err is an ingestion-gate rejection.
func IsValidationError(err error) bool {
	var verr *geo.ValidationError

	return errors.As(err, &verr)
}
