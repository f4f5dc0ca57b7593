package user

import "github.com/FACorreiaa/go-admin-dashboard/internal/types"

// CreateUserRequest carries the add-user form fields.
type CreateUserRequest struct {
	Name     string        `json:"name"`
	Username string        `json:"username"`
	Email    string        `json:"email"`
	Phone    string        `json:"phone"`
	Website  string        `json:"website"`
	Company  types.Company `json:"company"`
	Address  types.Address `json:"address"`
}

// UpdateUserRequest carries the edit-user form fields. Nil fields keep
// their stored value; a non-nil company or address replaces the whole
// nested group.
type UpdateUserRequest struct {
	Name     *string        `json:"name,omitempty"`
	Username *string        `json:"username,omitempty"`
	Email    *string        `json:"email,omitempty"`
	Phone    *string        `json:"phone,omitempty"`
	Website  *string        `json:"website,omitempty"`
	Company  *types.Company `json:"company,omitempty"`
	Address  *types.Address `json:"address,omitempty"`
}

// ListUsersResponse is one page of the users table.
type ListUsersResponse struct {
	Rows        []types.User `json:"rows"`
	Total       int          `json:"total"`
	Page        int          `json:"page"`
	RowsPerPage int          `json:"rowsPerPage"`
	Loading     bool         `json:"loading"`
}

// RefreshUsersResponse returns the re-seeded collection and tells the
// client whether to reset its table state to the defaults.
type RefreshUsersResponse struct {
	Rows       []types.User `json:"rows"`
	Total      int          `json:"total"`
	ResetQuery bool         `json:"resetQuery"`
}
