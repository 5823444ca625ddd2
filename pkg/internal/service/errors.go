package service

import "errors"

// Typed errors raised by the catalog. All are signalled before any
// persistent side effect, except the documented catalog-then-file gap: a
// content write that fails after the catalog commit is logged, not rolled
// back.
var (
	ErrDatasetNotFound      = errors.New("dataset not found")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrModificationNotFound = errors.New("modification not found")
	ErrDuplicateName        = errors.New("dataset name already in use")
	ErrDuplicateContentID   = errors.New("content identifier already in use")
	ErrInvalidExtension     = errors.New("content identifier must end in .geojson")
	ErrMissingComment       = errors.New("a non-empty comment is required")
	ErrCategoryResolution   = errors.New("category resolution failed")
	ErrCategoryInUse        = errors.New("category is referenced by datasets")
	ErrNoAcceptedDocuments  = errors.New("no file with an accepted media type")
)
