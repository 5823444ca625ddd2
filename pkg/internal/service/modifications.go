package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	ctxPkg "github.com/yeisme/geovault/pkg/context"
	"github.com/yeisme/geovault/pkg/internal/model"
	"github.com/yeisme/geovault/pkg/internal/storage/db"
	"github.com/yeisme/geovault/pkg/internal/types"
)

// ModificationService reads the append-only audit log. Entries are written
// exclusively by DatasetService; the one mutation allowed here is the
// comment correction path.
type ModificationService struct {
	dbClient *db.Client
}

// NewModificationService resolves its dependencies from the request context.
func NewModificationService(c context.Context) *ModificationService {
	return &ModificationService{dbClient: ctxPkg.GetDBClient(c)}
}

// ListByDataset returns the audit trail of one dataset, newest first.
// Entries survive dataset deletion, so listing by a deleted id still works.
func (s *ModificationService) ListByDataset(ctx context.Context, datasetID uint) (*types.ListModificationsResponse, error) {
	dbx := s.dbClient.GetDB().WithContext(ctx)

	var mods []model.Modification

	err := dbx.Where("dataset_id = ?", datasetID).
		Order("created_at DESC, id DESC").
		Find(&mods).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list modifications: %w", err)
	}

	resp := &types.ListModificationsResponse{
		Modifications: make([]types.ModificationResponse, 0, len(mods)),
	}

	for _, m := range mods {
		resp.Modifications = append(resp.Modifications, types.ModificationResponse{
			ID:            m.ID,
			DatasetID:     m.DatasetID,
			Actor:         m.Actor,
			Action:        m.Action,
			VersionBefore: m.VersionBefore,
			VersionAfter:  m.VersionAfter,
			Comment:       m.Comment,
			CreatedAt:     m.CreatedAt,
		})
	}

	return resp, nil
}

// EditComment corrects the free-text comment of one audit entry. Nothing
// else on the entry is mutable.
func (s *ModificationService) EditComment(ctx context.Context, modificationID uint, req *types.EditModificationCommentRequest) error {
	if strings.TrimSpace(req.Comment) == "" {
		return ErrMissingComment
	}

	dbx := s.dbClient.GetDB().WithContext(ctx)

	var mod model.Modification
	if err := dbx.First(&mod, modificationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrModificationNotFound
		}

		return fmt.Errorf("failed to load modification: %w", err)
	}

	if err := dbx.Model(&mod).Update("comment", req.Comment).Error; err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}

	return nil
}
