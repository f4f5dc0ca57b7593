package types

import "time"

// Record is a dashboard entry managed through the records screens.
// CreatedAt is stamped once on creation; UpdatedAt only on updates.
type Record struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Category    string     `json:"category"`
	Status      string     `json:"status"`
	Value       string     `json:"value"`
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// RecordDraft carries the fields a user can enter on the add/edit form.
type RecordDraft struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Status      string `json:"status"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
}

// RecordPatch is a partial update. Nil fields are left untouched.
type RecordPatch struct {
	Name        *string `json:"name,omitempty"`
	Category    *string `json:"category,omitempty"`
	Status      *string `json:"status,omitempty"`
	Value       *string `json:"value,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Apply merges the non-nil fields of the patch over the record.
func (p RecordPatch) Apply(r *Record) {
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Category != nil {
		r.Category = *p.Category
	}
	if p.Status != nil {
		r.Status = *p.Status
	}
	if p.Value != nil {
		r.Value = *p.Value
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
}

// RecordStatuses and RecordCategories are the values offered by the UI
// filters and used by the sample data generator.
var RecordStatuses = []string{"Active", "Pending", "Completed", "Cancelled", "On Hold"}
var RecordCategories = []string{"Category A", "Category B", "Category C", "Category D", "Category E"}
