package types

import "time"

// CreateCategoryRequest adds a named grouping.
type CreateCategoryRequest struct {
	Name string `json:"name" rule:"required,max=255"`
}

// CategoryResponse is the category projection, with the number of datasets
// currently referencing it.
type CategoryResponse struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	DatasetCount int64     `json:"dataset_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// ListCategoriesResponse lists all categories.
type ListCategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
}
