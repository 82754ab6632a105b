package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DentalService is a catalog entry. Consulted services copy its name, unit and
// price when created, so later catalog edits never rewrite history.
type DentalService struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:200;not null" json:"name"`
	Unit        string          `gorm:"size:50" json:"unit"`
	Price       decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"price"`
	Description string          `gorm:"size:255" json:"description"`
	Active      bool            `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
