package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yeisme/geovault/pkg/internal/model"
	"github.com/yeisme/geovault/pkg/internal/storage/content"
	"github.com/yeisme/geovault/pkg/internal/types"
	nlog "github.com/yeisme/geovault/pkg/log"
)

const (
	// AcceptedDocumentType is the only media type persisted to the uploads
	// folder.
	AcceptedDocumentType = "application/pdf"
	documentExt          = ".pdf"
)

// AttachDocuments persists reference documents into the dataset's uploads
// folder, created lazily on first use. Files whose declared media type is
// not the accepted document type are dropped; the call fails only when
// nothing qualifies. One audit entry summarizes the accepted file names.
func (s *DatasetService) AttachDocuments(ctx context.Context, datasetID uint, actor string, req *types.AttachDocumentsRequest) (*types.AttachDocumentsResponse, error) {
	dbx := s.dbClient.GetDB().WithContext(ctx)

	var dataset model.Dataset
	if err := dbx.First(&dataset, datasetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDatasetNotFound
		}

		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	accepted := make([]types.DocumentUpload, 0, len(req.Files))
	rejected := make([]string, 0)

	for _, file := range req.Files {
		if strings.EqualFold(strings.TrimSpace(file.ContentType), AcceptedDocumentType) {
			accepted = append(accepted, file)
		} else {
			rejected = append(rejected, file.FileName)
		}
	}

	if len(accepted) == 0 {
		return nil, ErrNoAcceptedDocuments
	}

	names := make([]string, 0, len(accepted))

	for _, file := range accepted {
		path := content.UploadPath(dataset.ContentID, file.FileName)
		if err := s.store.Write(ctx, path, file.Data); err != nil {
			return nil, fmt.Errorf("failed to store document %q: %w", file.FileName, err)
		}

		names = append(names, file.FileName)
	}

	comment := req.Comment
	if comment == "" {
		comment = "attached: " + strings.Join(names, ", ")
	}

	if err := dbx.Create(&model.Modification{
		DatasetID:     dataset.ID,
		Actor:         actor,
		Action:        model.ActionUpdated,
		VersionBefore: dataset.Version,
		VersionAfter:  dataset.Version,
		Comment:       comment,
	}).Error; err != nil {
		nlog.Logger().Error().Err(err).
			Uint("dataset_id", dataset.ID).
			Msg("failed to append audit entry for document attachment")
	}

	s.publishDatasetEvent(ctx, &dataset, model.ActionUpdated, actor, comment)

	return &types.AttachDocumentsResponse{Accepted: names, Rejected: rejected}, nil
}

// ListDocuments lists the uploads folder, filtered by the document
// extension. A dataset with no uploads yet yields an empty list, not an
// error.
func (s *DatasetService) ListDocuments(ctx context.Context, datasetID uint) (*types.ListDocumentsResponse, error) {
	dbx := s.dbClient.GetDB().WithContext(ctx)

	var dataset model.Dataset
	if err := dbx.First(&dataset, datasetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDatasetNotFound
		}

		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	names, err := s.store.List(ctx, content.UploadsDir(dataset.ContentID))
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}

	documents := make([]string, 0, len(names))

	for _, name := range names {
		if strings.HasSuffix(strings.ToLower(name), documentExt) {
			documents = append(documents, name)
		}
	}

	return &types.ListDocumentsResponse{Documents: documents}, nil
}
