package domain

import "time"

// Hospital is a vaccination site users can book appointments at.
type Hospital struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Address    string    `json:"address"`
	District   string    `json:"district"`
	Province   string    `json:"province"`
	PostalCode string    `json:"postalcode"`
	Tel        string    `json:"tel,omitempty"`
	Region     string    `json:"region"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// VacCenter is a row of the legacy vaccination center table.
type VacCenter struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Tel  string `json:"tel"`
}
