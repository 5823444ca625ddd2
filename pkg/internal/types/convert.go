package types

import "github.com/yeisme/geovault/pkg/internal/geo"

// ConvertRequest runs heterogeneous input through the row-permissive
// conversion pipeline. Exactly one of Rows or Collection is consumed:
// tabular callers send Rows (or raw delimited text via the boundary),
// geographic callers send a decoded collection.
type ConvertRequest struct {
	Mapping    geo.FieldMapping `json:"mapping" rule:"required"`
	Rows       []map[string]any `json:"rows,omitempty"`
	Collection []byte           `json:"-"`
	// Delimiter applies when the boundary passes raw delimited text.
	Delimiter string `json:"delimiter,omitempty"`
}

// ConvertResponse carries the normalized collection and how many input
// rows were silently dropped.
type ConvertResponse struct {
	Collection any `json:"collection"`
	Accepted   int `json:"accepted"`
	Dropped    int `json:"dropped"`
}
