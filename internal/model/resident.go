package model

import "time"

// Resident is a person living in the care center.
type Resident struct {
	ID        string     `json:"id"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Room      string     `json:"room,omitempty"`
	BirthDate *time.Time `json:"birthDate,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	Archived  bool       `json:"archived,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FullName joins first and last name for display.
func (r Resident) FullName() string {
	switch {
	case r.FirstName == "":
		return r.LastName
	case r.LastName == "":
		return r.FirstName
	default:
		return r.FirstName + " " + r.LastName
	}
}
