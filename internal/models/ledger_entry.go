package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type EntryType string

const (
	EntryTypeDebit  EntryType = "DEBIT"  // increases the account balance
	EntryTypeCredit EntryType = "CREDIT" // decreases the account balance
)

// LedgerEntry is immutable by convention: never edited in place, deleted only
// when a booking's full reversal removes the entries tagged with it.
type LedgerEntry struct {
	ID          uint      `gorm:"primaryKey"`
	AccountID   uint      `gorm:"index;not null"`
	Account     Account   `gorm:"foreignKey:AccountID"`
	Type        EntryType `gorm:"size:10;not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,4);not null"` // always positive, sign lives in Type
	Description string    `gorm:"size:255"`
	BookingID   *uint     `gorm:"index"`
	CreatedAt   time.Time
}
