package types

// DocumentUpload is one file offered for attachment. Only uploads whose
// declared media type is the accepted document type are persisted.
type DocumentUpload struct {
	FileName    string `json:"file_name" rule:"required,max=255"`
	ContentType string `json:"content_type" rule:"required"`
	Data        []byte `json:"-"`
}

// AttachDocumentsRequest attaches reference documents to a dataset's
// uploads folder.
type AttachDocumentsRequest struct {
	Files   []DocumentUpload `json:"files" rule:"required,min=1"`
	Comment string           `json:"comment"`
}

// AttachDocumentsResponse reports the file names that survived filtering.
type AttachDocumentsResponse struct {
	Accepted []string `json:"accepted"`
	Rejected []string `json:"rejected,omitempty"`
}

// ListDocumentsResponse lists the uploads folder. Empty when no document
// has been attached yet.
type ListDocumentsResponse struct {
	Documents []string `json:"documents"`
}
