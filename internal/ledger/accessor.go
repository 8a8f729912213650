package ledger

import (
	"errors"
	"fmt"

	"github.com/WAQASUMAR33/taylorapp-sub000/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrInvalidAmount   = errors.New("entry amount must be positive")
)

// PostEntry appends one ledger entry and applies the matching balance change
// to the account inside the caller's transaction. This is the only place a
// cached balance moves: DEBIT adds the amount, CREDIT subtracts it.
func PostEntry(tx *gorm.DB, accountID uint, entryType models.EntryType, amount decimal.Decimal, description string, bookingID *uint) (uint, error) {
	if !amount.IsPositive() {
		return 0, ErrInvalidAmount
	}

	var account models.Account
	if err := tx.First(&account, accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrAccountNotFound
		}
		return 0, fmt.Errorf("load account %d: %w", accountID, err)
	}

	entry := models.LedgerEntry{
		AccountID:   accountID,
		Type:        entryType,
		Amount:      amount,
		Description: description,
		BookingID:   bookingID,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return 0, fmt.Errorf("create ledger entry: %w", err)
	}

	delta := amount
	if entryType == models.EntryTypeCredit {
		delta = amount.Neg()
	}
	if err := applyBalance(tx, accountID, delta); err != nil {
		return 0, err
	}

	return entry.ID, nil
}

// CashAccount returns the shop's reserved cash account, creating it with a
// zero balance on first use. A concurrent first use loses the insert race on
// the unique name index and falls back to re-reading the winner's row.
func CashAccount(tx *gorm.DB) (*models.Account, error) {
	var account models.Account
	err := tx.Where("type = ?", models.AccountTypeCash).First(&account).Error
	if err == nil {
		return &account, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load cash account: %w", err)
	}

	account = models.Account{
		Name: models.CashAccountName,
		Type: models.AccountTypeCash,
	}
	if createErr := tx.Create(&account).Error; createErr != nil {
		if err := tx.Where("type = ?", models.AccountTypeCash).First(&account).Error; err != nil {
			return nil, fmt.Errorf("create cash account: %w", createErr)
		}
	}
	return &account, nil
}

// AccountForCustomer returns the customer's ledger account, creating it lazily
// the same way the cash account is.
func AccountForCustomer(tx *gorm.DB, customerID uint) (*models.Account, error) {
	var account models.Account
	err := tx.Where("customer_id = ?", customerID).First(&account).Error
	if err == nil {
		return &account, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load customer account: %w", err)
	}

	var customer models.Customer
	if err := tx.First(&customer, customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("load customer %d: %w", customerID, err)
	}

	account = models.Account{
		// Customer names are not unique, the id suffix keeps the account name so.
		Name:       fmt.Sprintf("%s #%d", customer.Name, customer.ID),
		Type:       models.AccountTypeCustomer,
		CustomerID: &customer.ID,
	}
	if createErr := tx.Create(&account).Error; createErr != nil {
		if err := tx.Where("customer_id = ?", customerID).First(&account).Error; err != nil {
			return nil, fmt.Errorf("create customer account: %w", createErr)
		}
	}
	return &account, nil
}

// ReverseEntriesForBooking removes every ledger entry tagged with the booking
// and applies the inverse of their net effect to each touched account, so the
// cached balances stay equal to the sum of the remaining entries.
func ReverseEntriesForBooking(tx *gorm.DB, bookingID uint) error {
	var entries []models.LedgerEntry
	if err := tx.Where("booking_id = ?", bookingID).Find(&entries).Error; err != nil {
		return fmt.Errorf("load entries for booking %d: %w", bookingID, err)
	}
	if len(entries) == 0 {
		return nil
	}

	net := make(map[uint]decimal.Decimal)
	for _, e := range entries {
		d := e.Amount
		if e.Type == models.EntryTypeCredit {
			d = d.Neg()
		}
		net[e.AccountID] = net[e.AccountID].Add(d)
	}

	for accountID, delta := range net {
		if delta.IsZero() {
			continue
		}
		if err := applyBalance(tx, accountID, delta.Neg()); err != nil {
			return err
		}
	}

	if err := tx.Where("booking_id = ?", bookingID).Delete(&models.LedgerEntry{}).Error; err != nil {
		return fmt.Errorf("delete entries for booking %d: %w", bookingID, err)
	}
	return nil
}

// applyBalance does the arithmetic in decimal space instead of a SQL
// expression so the stored balance never picks up float rounding.
func applyBalance(tx *gorm.DB, accountID uint, delta decimal.Decimal) error {
	var account models.Account
	if err := tx.First(&account, accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("load account %d: %w", accountID, err)
	}
	newBalance := account.Balance.Add(delta)
	if err := tx.Model(&models.Account{}).Where("id = ?", accountID).
		Update("balance", newBalance).Error; err != nil {
		return fmt.Errorf("update balance of account %d: %w", accountID, err)
	}
	return nil
}
