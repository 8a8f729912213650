package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type MovementDirection string

const (
	MovementIn  MovementDirection = "IN"  // restock, booking reversal
	MovementOut MovementDirection = "OUT" // consumption by a booking
)

// StockMovement is an append-only audit row. One row per affected product per
// booking-affecting event; never mutated afterwards.
type StockMovement struct {
	ID        uint              `gorm:"primaryKey"`
	ProductID uint              `gorm:"index;not null"`
	Product   Product           `gorm:"foreignKey:ProductID"`
	Direction MovementDirection `gorm:"size:5;not null"`
	Quantity  int               `gorm:"not null"` // always positive, direction carries the sign
	UnitCost  decimal.NullDecimal `gorm:"type:decimal(20,4)"`
	Note      string            `gorm:"size:255"`
	CreatedAt time.Time
}
