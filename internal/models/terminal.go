package models

import (
	"time"
)

// Terminal is a physical transport terminal registered by an
// administrator. A terminal may own tricycle fare rows created in the
// same upload; deleting a terminal cascades to those rows only, never
// to the global jeepney table.
type Terminal struct {
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
	Name            string    `json:"name"`
	AssociationName string    `json:"associationName"`
	Barangay        string    `json:"barangay"`
	Municipality    string    `json:"municipality"`
	Latitude        float64   `json:"latitude"`
	Longitude       float64   `json:"longitude"`
	TransportTypeID int64     `json:"transportTypeId"`
	ID              int64     `json:"id"`
}

// TableName returns the terminal table name.
func (Terminal) TableName() string {
	return "terminals"
}
