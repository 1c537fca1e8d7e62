package domain

import "time"

// Address is a shipping/billing destination owned by a user. At most one
// address per user carries IsDefault.
type Address struct {
	ID         string    `json:"id"`
	UserID     string    `json:"-"`
	Type       string    `json:"type"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Company    string    `json:"company,omitempty"`
	Address1   string    `json:"address1"`
	Address2   string    `json:"address2,omitempty"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	PostalCode string    `json:"postalCode"`
	Country    string    `json:"country"`
	Phone      string    `json:"phone,omitempty"`
	IsDefault  bool      `json:"isDefault"`
	CreatedAt  time.Time `json:"createdAt"`
}
