package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product: fabric, accessories or readymade stock. Quantity can go negative
// when bookings oversell; the inventory package logs it but does not block.
type Product struct {
	ID            uint   `gorm:"primaryKey"`
	Name          string `gorm:"size:100;not null"`
	StockCode     string `gorm:"size:50;index"`
	Unit          string `gorm:"size:20"` // meter, piece, suit
	Quantity      int    `gorm:"not null;default:0"`
	UnitPrice     decimal.Decimal     `gorm:"type:decimal(20,4);not null;default:0"`
	CostPrice     decimal.NullDecimal `gorm:"type:decimal(20,4)"`
	MaterialCost  decimal.NullDecimal `gorm:"type:decimal(20,4)"`
	CuttingCost   decimal.NullDecimal `gorm:"type:decimal(20,4)"`
	StitchingCost decimal.NullDecimal `gorm:"type:decimal(20,4)"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
