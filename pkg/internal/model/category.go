package model

import "time"

// Category is a simple named grouping for datasets. Deletion is blocked
// while any dataset references it.
type Category struct {
	ID   uint   `gorm:"primaryKey"           json:"id"`
	Name string `gorm:"size:255;uniqueIndex" json:"name"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
