package types

import "time"

// ModificationResponse is one audit entry, newest first in listings.
type ModificationResponse struct {
	ID            uint      `json:"id"`
	DatasetID     uint      `json:"dataset_id"`
	Actor         string    `json:"actor"`
	Action        string    `json:"action"`
	VersionBefore int       `json:"version_before"`
	VersionAfter  int       `json:"version_after"`
	Comment       string    `json:"comment,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ListModificationsResponse wraps the audit trail of one dataset.
type ListModificationsResponse struct {
	Modifications []ModificationResponse `json:"modifications"`
}

// EditModificationCommentRequest is the only permitted audit mutation:
// correcting the free-text comment of an existing entry.
type EditModificationCommentRequest struct {
	Comment string `json:"comment" rule:"required"`
}
