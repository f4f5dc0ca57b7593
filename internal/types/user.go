package types

import "time"

type Geo struct {
	Lat string `json:"lat"`
	Lng string `json:"lng"`
}

type Address struct {
	Street  string `json:"street"`
	Suite   string `json:"suite"`
	City    string `json:"city"`
	Zipcode string `json:"zipcode"`
	Geo     Geo    `json:"geo"`
}

type Company struct {
	Name        string `json:"name"`
	CatchPhrase string `json:"catchPhrase"`
	Bs          string `json:"bs"`
}

// User mirrors the entity shape of the external feed (JSONPlaceholder
// users) plus the timestamps the store stamps on local mutations.
// Feed-sourced users have no CreatedAt, which is why it is a pointer.
type User struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone,omitempty"`
	Website   string     `json:"website,omitempty"`
	Company   Company    `json:"company"`
	Address   Address    `json:"address"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// UserDraft carries the add/edit user form fields, including the nested
// company and address groups.
type UserDraft struct {
	Name     string  `json:"name"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Phone    string  `json:"phone,omitempty"`
	Website  string  `json:"website,omitempty"`
	Company  Company `json:"company"`
	Address  Address `json:"address"`
}

// UserPatch is a partial update. Nil fields are left untouched; a non-nil
// Company or Address replaces the whole nested object, matching how the
// edit form submits its draft.
type UserPatch struct {
	Name     *string  `json:"name,omitempty"`
	Username *string  `json:"username,omitempty"`
	Email    *string  `json:"email,omitempty"`
	Phone    *string  `json:"phone,omitempty"`
	Website  *string  `json:"website,omitempty"`
	Company  *Company `json:"company,omitempty"`
	Address  *Address `json:"address,omitempty"`
}

func (p UserPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Website != nil {
		u.Website = *p.Website
	}
	if p.Company != nil {
		u.Company = *p.Company
	}
	if p.Address != nil {
		u.Address = *p.Address
	}
}
