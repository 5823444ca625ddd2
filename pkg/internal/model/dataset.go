package model

import (
	"time"
)

// DefaultIcon is the sentinel icon identifier assigned to datasets created
// without a custom icon.
const DefaultIcon = "default.png"

// Dataset is the catalog row of a named, versioned geographic collection.
// The feature-collection document itself lives in the content store under
// the folder derived from ContentID; the catalog is the system of record.
//
// Rows are hard-deleted on Delete, so there is no soft-delete column.
type Dataset struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// Name is unique across the catalog, 1-255 chars.
	Name        string `gorm:"size:255;uniqueIndex" json:"name"`
	Description string `gorm:"type:text"            json:"description"`
	Location    string `gorm:"size:255"             json:"location"`
	// ContentID names the on-disk feature-collection file and derives the
	// storage folder. Unique, always ends in the canonical extension.
	ContentID string `gorm:"size:512;uniqueIndex"          json:"content_id"`
	Icon      string `gorm:"size:255;default:'default.png'" json:"icon"`

	CategoryID uint     `gorm:"index"                json:"category_id"`
	Category   Category `gorm:"foreignKey:CategoryID" json:"category"`

	// Version starts at 1 and increments once per content-affecting
	// mutation. Must equal VersionAfter of the latest modification.
	Version    int  `gorm:"default:1"     json:"version"`
	IsActive   bool `gorm:"default:true"  json:"is_active"`
	IsArchived bool `gorm:"default:false" json:"is_archived"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
