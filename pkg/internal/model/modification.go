package model

import "time"

// Audit actions recorded in the modification log.
const (
	ActionCreated      = "created"
	ActionUpdated      = "updated"
	ActionFileReplaced = "file_replaced"
	ActionArchived     = "archived"
	ActionRestored     = "restored"
)

// Modification is one append-only audit entry for a dataset mutation.
//
// DatasetID is a plain indexed column on purpose: no foreign-key constraint
// is declared, so entries appended after a hard dataset delete still insert
// and the full history of a deleted dataset stays queryable.
type Modification struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	DatasetID uint   `gorm:"index"      json:"dataset_id"`
	Actor     string `gorm:"size:255"   json:"actor"`
	// Action is one of created, updated, file_replaced, archived, restored.
	Action        string `gorm:"size:32;index" json:"action"`
	VersionBefore int    `json:"version_before"`
	VersionAfter  int    `json:"version_after"`
	// Comment is the only mutable field, via the explicit correction path.
	Comment string `gorm:"type:text" json:"comment"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
