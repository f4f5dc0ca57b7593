package records

import "github.com/FACorreiaa/go-admin-dashboard/internal/types"

// CreateRecordRequest carries the add-record form fields.
type CreateRecordRequest struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Status      string `json:"status"`
	Value       string `json:"value"`
	Description string `json:"description"`
}

// UpdateRecordRequest carries the edit-record form fields. Nil fields
// keep their stored value.
type UpdateRecordRequest struct {
	Name        *string `json:"name,omitempty"`
	Category    *string `json:"category,omitempty"`
	Status      *string `json:"status,omitempty"`
	Value       *string `json:"value,omitempty"`
	Description *string `json:"description,omitempty"`
}

// GenerateRecordsRequest sets how many sample records to create.
type GenerateRecordsRequest struct {
	Count int `json:"count"`
}

// ListRecordsResponse is one page of the records table.
type ListRecordsResponse struct {
	Rows        []types.Record `json:"rows"`
	Total       int            `json:"total"`
	Page        int            `json:"page"`
	RowsPerPage int            `json:"rowsPerPage"`
}

// RefreshRecordsResponse returns the reloaded collection and tells the
// client whether to reset its table state to the defaults.
type RefreshRecordsResponse struct {
	Rows       []types.Record `json:"rows"`
	Total      int            `json:"total"`
	ResetQuery bool           `json:"resetQuery"`
}
