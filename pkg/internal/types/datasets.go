package types

import "time"

// CreateDatasetRequest carries everything needed to ingest a new dataset.
// Content is the raw feature-collection document; it is validated by the
// ingestion gate before anything is written.
type CreateDatasetRequest struct {
	Name        string `form:"name" json:"name" rule:"required,max=255"`
	Description string `form:"description" json:"description"`
	Location    string `form:"location" json:"location"`
	// ContentID names the stored file and must end in the canonical
	// extension.
	ContentID string `form:"content_id" json:"content_id" rule:"required,max=512"`
	// Category resolves by numeric id, exact name, or is created.
	CategoryID   uint   `form:"category_id" json:"category_id"`
	CategoryName string `form:"category_name" json:"category_name"`
	Icon         string `form:"icon" json:"icon"`
	Comment      string `form:"comment" json:"comment"`

	Content []byte `json:"-"`
	IconMap []byte `json:"-"`
}

// UpdateDatasetRequest is a partial metadata update. Nil pointers leave the
// field untouched. The catalog version does not change.
type UpdateDatasetRequest struct {
	Name         *string `json:"name,omitempty" rule:"omitempty,max=255"`
	Description  *string `json:"description,omitempty"`
	Location     *string `json:"location,omitempty"`
	CategoryID   *uint   `json:"category_id,omitempty"`
	CategoryName *string `json:"category_name,omitempty"`
	Comment      string  `json:"comment"`
}

// ReplaceFeaturesRequest swaps the features array of the stored document.
// The comment is mandatory: feature replacement is the one mutation that
// always needs an audit explanation.
type ReplaceFeaturesRequest struct {
	Features []any  `json:"features" rule:"required"`
	Comment  string `json:"comment" rule:"required"`
}

// ReplaceContentRequest swaps the whole stored document for a new one that
// passes the ingestion gate.
type ReplaceContentRequest struct {
	Content []byte `json:"-"`
	Comment string `json:"comment" rule:"required"`
}

// ToggleActiveRequest flips dataset visibility.
type ToggleActiveRequest struct {
	Active  bool   `json:"active"`
	Comment string `json:"comment"`
}

// ListDatasetsRequest filters the catalog listing.
type ListDatasetsRequest struct {
	CategoryID    uint   `form:"category_id" json:"category_id"`
	City          string `form:"city" json:"city"`
	OnlyActive    bool   `form:"only_active" json:"only_active"`
	IncludeHidden bool   `form:"include_hidden" json:"include_hidden"`
	Page          int    `form:"page" json:"page" rule:"omitempty,gte=1"`
	PageSize      int    `form:"page_size" json:"page_size" rule:"omitempty,gte=1,lte=200"`
}

// DatasetResponse is the catalog projection returned to callers.
type DatasetResponse struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Location     string    `json:"location,omitempty"`
	ContentID    string    `json:"content_id"`
	Icon         string    `json:"icon"`
	CategoryID   uint      `json:"category_id"`
	CategoryName string    `json:"category_name,omitempty"`
	Version      int       `json:"version"`
	IsActive     bool      `json:"is_active"`
	IsArchived   bool      `json:"is_archived"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ListDatasetsResponse wraps a catalog page.
type ListDatasetsResponse struct {
	Datasets []DatasetResponse `json:"datasets"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}
