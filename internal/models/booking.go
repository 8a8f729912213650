package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingType string

const (
	BookingTypeStitching BookingType = "STITCHING"
	BookingTypeSuit      BookingType = "SUIT"
)

type BookingStatus string

const (
	StatusPending          BookingStatus = "PENDING"
	StatusMeasurementTaken BookingStatus = "MEASUREMENT_TAKEN"
	StatusCutting          BookingStatus = "CUTTING"
	StatusStitching        BookingStatus = "STITCHING"
	StatusTrial            BookingStatus = "TRIAL"
	StatusReady            BookingStatus = "READY"
	StatusDelivered        BookingStatus = "DELIVERED"
	StatusCancelled        BookingStatus = "CANCELLED"
)

// IsTerminal reports whether the status ends the booking lifecycle. Terminal
// bookings are excluded from the dashboard's active-order counts.
func (s BookingStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

type Booking struct {
	ID            uint          `gorm:"primaryKey"`
	BookingNumber string        `gorm:"size:50;uniqueIndex;not null"`
	CustomerID    uint          `gorm:"index;not null"`
	Customer      Customer      `gorm:"foreignKey:CustomerID"`
	Type          BookingType   `gorm:"size:20;not null"`
	Status        BookingStatus `gorm:"size:30;not null;index"`

	BookingDate  time.Time `gorm:"index;not null"`
	ReturnDate   *time.Time
	DeliveryDate *time.Time
	TrialDate    *time.Time

	TailorID *uint     `gorm:"index"`
	Tailor   *Employee `gorm:"foreignKey:TailorID"`
	CutterID *uint     `gorm:"index"`
	Cutter   *Employee `gorm:"foreignKey:CutterID"`

	TotalAmount     decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"`
	AdvanceAmount   decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"`
	RemainingAmount decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"` // total - advance, recomputed on every financial edit

	Notes     string        `gorm:"size:500"`
	Items     []BookingItem `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BookingItem freezes the product's per-unit costs at creation time so later
// price changes don't retroactively alter historical cost. Items are immutable
// after the booking is created.
type BookingItem struct {
	ID        uint    `gorm:"primaryKey"`
	BookingID uint    `gorm:"index;not null"`
	ProductID uint    `gorm:"index;not null"`
	Product   Product `gorm:"foreignKey:ProductID"`

	Quantity   int             `gorm:"not null"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"`
	Discount   decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"`

	// Cost snapshot: product cost fields x quantity, nulls propagate as null.
	CostPrice     decimal.NullDecimal `gorm:"type:decimal(20,4)"`
	MaterialCost  decimal.NullDecimal `gorm:"type:decimal(20,4)"`
	CuttingCost   decimal.NullDecimal `gorm:"type:decimal(20,4)"`
	StitchingCost decimal.NullDecimal `gorm:"type:decimal(20,4)"`

	// Stitching style choices, only meaningful for STITCHING bookings.
	CuffStyle   string `gorm:"size:50"`
	CollarStyle string `gorm:"size:50"`
	HemStyle    string `gorm:"size:50"`
	PocketStyle string `gorm:"size:50"`

	CreatedAt time.Time
}
