package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountTypeCustomer AccountType = "customer"
	AccountTypeCash     AccountType = "cash"
)

// CashAccountName is the reserved name of the shop's single cash account.
const CashAccountName = "Cash Account"

// Account carries a cached running balance: sum of DEBIT amounts minus sum of
// CREDIT amounts over its ledger entries, plus the opening balance. Every entry
// mutation must keep Balance in sync inside the same transaction, which is why
// balances are only ever touched by the ledger package.
type Account struct {
	ID             uint        `gorm:"primaryKey"`
	Name           string      `gorm:"size:100;not null;uniqueIndex"`
	Type           AccountType `gorm:"size:20;not null;index"`
	CustomerID     *uint       `gorm:"uniqueIndex"`
	OpeningBalance decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"`
	Balance        decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
