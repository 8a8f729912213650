package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase: supplier restock. Items feed inventory back in; the paid amount
// leaves the cash account through the ledger.
type Purchase struct {
	ID            uint      `gorm:"primaryKey"`
	SupplierName  string    `gorm:"size:100;not null"`
	InvoiceNumber string    `gorm:"size:50"`
	Date          time.Time `gorm:"index;not null"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"`
	PaidAmount    decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"`
	Notes         string    `gorm:"size:500"`
	Items         []PurchaseItem `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type PurchaseItem struct {
	ID         uint    `gorm:"primaryKey"`
	PurchaseID uint    `gorm:"index;not null"`
	ProductID  uint    `gorm:"index;not null"`
	Product    Product `gorm:"foreignKey:ProductID"`
	Quantity   int     `gorm:"not null"`
	UnitCost   decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"`
	CreatedAt  time.Time
}
