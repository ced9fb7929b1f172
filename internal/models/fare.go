package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FareCategory identifies which fare regime an upload belongs to.
// LTFRB covers the nationwide jeepney tariff; LGU covers per-locality
// tricycle tariffs.
type FareCategory string

const (
	CategoryLTFRB FareCategory = "LTFRB"
	CategoryLGU   FareCategory = "LGU"
)

// ParseFareCategory converts a raw string into a FareCategory.
// Matching is case-insensitive; anything else is rejected.
func ParseFareCategory(s string) (FareCategory, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(CategoryLTFRB):
		return CategoryLTFRB, nil
	case string(CategoryLGU):
		return CategoryLGU, nil
	default:
		return "", fmt.Errorf("unknown fare category %q", s)
	}
}

// Valid reports whether the category is one of the known regimes.
func (c FareCategory) Valid() bool {
	return c == CategoryLTFRB || c == CategoryLGU
}

// JeepneyFare is one row of the nationwide LTFRB fare matrix.
// The table is global: every LTFRB upload replaces it wholesale.
type JeepneyFare struct {
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
	RegularFare    decimal.Decimal `json:"regularFare"`
	DiscountedFare decimal.Decimal `json:"discountedFare"`
	ID             int64           `json:"id"`
	DistanceKM     int             `json:"distanceKm"`
}

// TableName returns the jeepney fare table name.
func (JeepneyFare) TableName() string {
	return "jeepney_fares"
}

// TricycleFare is one row of a locality's tricycle fare schedule.
// Rows are logically partitioned by Place; an upload for one place
// must never disturb another place's rows. TerminalID is set only
// when the row was created alongside its owning terminal.
type TricycleFare struct {
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
	Place      string          `json:"place"`
	Location   string          `json:"location"`
	Fare       decimal.Decimal `json:"fare"`
	TerminalID *int64          `json:"terminalId,omitempty"`
	ID         int64           `json:"id"`
}

// TableName returns the tricycle fare table name.
func (TricycleFare) TableName() string {
	return "tricycle_fares"
}
