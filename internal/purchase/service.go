package purchase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/WAQASUMAR33/taylorapp-sub000/internal/inventory"
	"github.com/WAQASUMAR33/taylorapp-sub000/internal/ledger"
	"github.com/WAQASUMAR33/taylorapp-sub000/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrPurchaseNotFound = errors.New("purchase not found")

// Service runs supplier restock as one transaction: purchase rows, IN stock
// movements, and the cash-account credit for whatever was paid commit or roll
// back together, mirroring the booking workflows.
type Service struct {
	DB            *gorm.DB
	CashAccountID uint
	TxTimeout     time.Duration
}

func NewService(db *gorm.DB, cashAccountID uint, txTimeout time.Duration) *Service {
	return &Service{DB: db, CashAccountID: cashAccountID, TxTimeout: txTimeout}
}

type ItemInput struct {
	ProductID uint
	Quantity  int
	UnitCost  decimal.Decimal
}

type CreateInput struct {
	SupplierName  string
	InvoiceNumber string
	Date          *time.Time
	PaidAmount    decimal.Decimal
	Notes         string
	Items         []ItemInput
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Purchase, error) {
	ctx, cancel := context.WithTimeout(ctx, s.TxTimeout)
	defer cancel()

	var created models.Purchase
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		date := time.Now()
		if in.Date != nil {
			date = *in.Date
		}

		total := decimal.Zero
		p := models.Purchase{
			SupplierName:  in.SupplierName,
			InvoiceNumber: in.InvoiceNumber,
			Date:          date,
			PaidAmount:    in.PaidAmount,
			Notes:         in.Notes,
		}
		for _, item := range in.Items {
			total = total.Add(item.UnitCost.Mul(decimal.NewFromInt(int64(item.Quantity))))
			p.Items = append(p.Items, models.PurchaseItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitCost:  item.UnitCost,
			})
		}
		p.TotalAmount = total

		if err := tx.Create(&p).Error; err != nil {
			return fmt.Errorf("create purchase: %w", err)
		}

		for _, item := range p.Items {
			if err := inventory.AdjustQuantity(tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
			note := fmt.Sprintf("Purchase from %s: %s", p.SupplierName, p.InvoiceNumber)
			cost := decimal.NullDecimal{Valid: true, Decimal: item.UnitCost}
			if err := inventory.RecordMovement(tx, item.ProductID, models.MovementIn, item.Quantity, note, cost); err != nil {
				return err
			}
		}

		if in.PaidAmount.IsPositive() {
			desc := fmt.Sprintf("Payment to %s for Purchase: %s", p.SupplierName, p.InvoiceNumber)
			if _, err := ledger.PostEntry(tx, s.CashAccountID, models.EntryTypeCredit, in.PaidAmount, desc, nil); err != nil {
				return err
			}
		}

		return tx.Preload("Items.Product").First(&created, p.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Delete reverses a purchase: stock goes back out, and any paid amount comes
// back into the cash account as an offsetting debit entry.
func (s *Service) Delete(ctx context.Context, id uint) error {
	ctx, cancel := context.WithTimeout(ctx, s.TxTimeout)
	defer cancel()

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p models.Purchase
		if err := tx.Preload("Items").First(&p, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPurchaseNotFound
			}
			return fmt.Errorf("load purchase: %w", err)
		}

		for _, item := range p.Items {
			if err := inventory.AdjustQuantity(tx, item.ProductID, -item.Quantity); err != nil {
				return err
			}
			note := fmt.Sprintf("Purchase Deletion Reversal: %s", p.InvoiceNumber)
			if err := inventory.RecordMovement(tx, item.ProductID, models.MovementOut, item.Quantity, note, decimal.NullDecimal{}); err != nil {
				return err
			}
		}

		if p.PaidAmount.IsPositive() {
			desc := fmt.Sprintf("Reversal of payment to %s for Purchase: %s", p.SupplierName, p.InvoiceNumber)
			if _, err := ledger.PostEntry(tx, s.CashAccountID, models.EntryTypeDebit, p.PaidAmount, desc, nil); err != nil {
				return err
			}
		}

		if err := tx.Where("purchase_id = ?", p.ID).Delete(&models.PurchaseItem{}).Error; err != nil {
			return fmt.Errorf("delete purchase items: %w", err)
		}
		if err := tx.Delete(&models.Purchase{}, p.ID).Error; err != nil {
			return fmt.Errorf("delete purchase: %w", err)
		}
		return nil
	})
}

func (s *Service) List(ctx context.Context) ([]models.Purchase, error) {
	var purchases []models.Purchase
	err := s.DB.WithContext(ctx).Preload("Items.Product").
		Order("date DESC, id DESC").Find(&purchases).Error
	if err != nil {
		return nil, err
	}
	return purchases, nil
}
