package booking

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
	"gorm.io/gorm/clause"
)

var (
	ErrBookingNotFound  = errors.New("booking not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrInvalidStaff     = errors.New("staff assignment invalid")
)

// Service runs the booking workflows. Each workflow is one transaction with a
// bounded timeout: booking rows, stock adjustments and ledger postings commit
// together or roll back together.
type Service struct {
	DB            *gorm.DB
	CashAccountID uint
	TxTimeout     time.Duration
}

func NewService(db *gorm.DB, cashAccountID uint, txTimeout time.Duration) *Service {
	return &Service{DB: db, CashAccountID: cashAccountID, TxTimeout: txTimeout}
}

type ItemInput struct {
	ProductID   uint
	Quantity    int
	UnitPrice   decimal.Decimal
	Discount    decimal.Decimal
	CuffStyle   string
	CollarStyle string
	HemStyle    string
	PocketStyle string
}

type CreateInput struct {
	CustomerID      uint
	Type            models.BookingType
	Items           []ItemInput
	TotalAmount     decimal.Decimal
	AdvanceAmount   decimal.Decimal
	RemainingAmount *decimal.Decimal // honored if provided, otherwise total - advance
	BookingDate     *time.Time
	ReturnDate      *time.Time
	DeliveryDate    *time.Time
	TrialDate       *time.Time
	TailorID        *uint
	CutterID        *uint
	Notes           string
}

type UpdateInput struct {
	Status        *models.BookingStatus
	BookingDate   *time.Time
	ReturnDate    *time.Time
	DeliveryDate  *time.Time
	TrialDate     *time.Time
	TailorID      *uint
	CutterID      *uint
	Notes         *string
	TotalAmount   *decimal.Decimal
	AdvanceAmount *decimal.Decimal
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.TxTimeout)
	defer cancel()

	var created models.Booking
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.First(&customer, in.CustomerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCustomerNotFound
			}
			return fmt.Errorf("load customer: %w", err)
		}

		if err := validateStaff(tx, in.TailorID, models.EmployeeRoleTailor); err != nil {
			return err
		}
		if err := validateStaff(tx, in.CutterID, models.EmployeeRoleCutter); err != nil {
			return err
		}

		account, err := ledger.AccountForCustomer(tx, customer.ID)
		if err != nil {
			return err
		}

		now := time.Now()
		bookingDate := now
		if in.BookingDate != nil {
			bookingDate = *in.BookingDate
		}
		remaining := in.TotalAmount.Sub(in.AdvanceAmount)
		if in.RemainingAmount != nil {
			remaining = *in.RemainingAmount
		}

		bk := models.Booking{
			BookingNumber:   GenerateBookingNumber(now),
			CustomerID:      customer.ID,
			Type:            in.Type,
			Status:          models.StatusPending,
			BookingDate:     bookingDate,
			ReturnDate:      in.ReturnDate,
			DeliveryDate:    in.DeliveryDate,
			TrialDate:       in.TrialDate,
			TailorID:        in.TailorID,
			CutterID:        in.CutterID,
			TotalAmount:     in.TotalAmount,
			AdvanceAmount:   in.AdvanceAmount,
			RemainingAmount: remaining,
			Notes:           in.Notes,
		}

		for _, item := range in.Items {
			var product models.Product
			if err := tx.First(&product, item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return inventory.ErrProductNotFound
				}
				return fmt.Errorf("load product %d: %w", item.ProductID, err)
			}

			qty := decimal.NewFromInt(int64(item.Quantity))
			bk.Items = append(bk.Items, models.BookingItem{
				ProductID:  product.ID,
				Quantity:   item.Quantity,
				UnitPrice:  item.UnitPrice,
				Discount:   item.Discount,
				TotalPrice: item.UnitPrice.Mul(qty).Sub(item.Discount),
				// Frozen cost snapshot; null product costs stay null.
				CostPrice:     mulNull(product.CostPrice, qty),
				MaterialCost:  mulNull(product.MaterialCost, qty),
				CuttingCost:   mulNull(product.CuttingCost, qty),
				StitchingCost: mulNull(product.StitchingCost, qty),
				CuffStyle:     item.CuffStyle,
				CollarStyle:   item.CollarStyle,
				HemStyle:      item.HemStyle,
				PocketStyle:   item.PocketStyle,
			})
		}

		if err := tx.Create(&bk).Error; err != nil {
			return fmt.Errorf("create booking: %w", err)
		}

		for _, item := range bk.Items {
			if err := inventory.AdjustQuantity(tx, item.ProductID, -item.Quantity); err != nil {
				return err
			}
			note := fmt.Sprintf("Booking Order: %s", bk.BookingNumber)
			if err := inventory.RecordMovement(tx, item.ProductID, models.MovementOut, item.Quantity, note, decimal.NullDecimal{}); err != nil {
				return err
			}
		}

		if in.TotalAmount.IsPositive() {
			desc := fmt.Sprintf("Booking Order: %s", bk.BookingNumber)
			if _, err := ledger.PostEntry(tx, account.ID, models.EntryTypeDebit, in.TotalAmount, desc, &bk.ID); err != nil {
				return err
			}
		}
		if in.AdvanceAmount.IsPositive() {
			desc := fmt.Sprintf("Advance Payment for Booking: %s", bk.BookingNumber)
			if _, err := ledger.PostEntry(tx, account.ID, models.EntryTypeCredit, in.AdvanceAmount, desc, &bk.ID); err != nil {
				return err
			}
			cashDesc := fmt.Sprintf("Advance from %s for Booking: %s", customer.Name, bk.BookingNumber)
			if _, err := ledger.PostEntry(tx, s.CashAccountID, models.EntryTypeDebit, in.AdvanceAmount, cashDesc, &bk.ID); err != nil {
				return err
			}
		}

		return preloadBooking(tx).First(&created, bk.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *Service) Update(ctx context.Context, id uint, in UpdateInput) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.TxTimeout)
	defer cancel()

	var updated models.Booking
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var bk models.Booking
		if err := tx.Preload("Customer").First(&bk, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("load booking: %w", err)
		}

		if in.Status != nil {
			if err := ValidateTransition(bk.Status, *in.Status); err != nil {
				return err
			}
			bk.Status = *in.Status
		}

		if in.TailorID != nil {
			if err := validateStaff(tx, in.TailorID, models.EmployeeRoleTailor); err != nil {
				return err
			}
			bk.TailorID = in.TailorID
		}
		if in.CutterID != nil {
			if err := validateStaff(tx, in.CutterID, models.EmployeeRoleCutter); err != nil {
				return err
			}
			bk.CutterID = in.CutterID
		}

		if in.BookingDate != nil {
			bk.BookingDate = *in.BookingDate
		}
		if in.ReturnDate != nil {
			bk.ReturnDate = in.ReturnDate
		}
		if in.DeliveryDate != nil {
			bk.DeliveryDate = in.DeliveryDate
		}
		if in.TrialDate != nil {
			bk.TrialDate = in.TrialDate
		}
		if in.Notes != nil {
			bk.Notes = *in.Notes
		}

		if in.TotalAmount != nil || in.AdvanceAmount != nil {
			newTotal := bk.TotalAmount
			if in.TotalAmount != nil {
				newTotal = *in.TotalAmount
			}
			newAdvance := bk.AdvanceAmount
			if in.AdvanceAmount != nil {
				newAdvance = *in.AdvanceAmount
			}

			if err := s.postFinancialRevision(tx, &bk, newTotal, newAdvance); err != nil {
				return err
			}

			bk.TotalAmount = newTotal
			bk.AdvanceAmount = newAdvance
			bk.RemainingAmount = newTotal.Sub(newAdvance)
		}

		if err := tx.Omit(clause.Associations).Save(&bk).Error; err != nil {
			return fmt.Errorf("save booking: %w", err)
		}

		return preloadBooking(tx).First(&updated, bk.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// postFinancialRevision posts the adjustment entries for a changed total or
// advance. Balances move only through the ledger postings themselves, so the
// cached balance stays equal to the entry sums.
func (s *Service) postFinancialRevision(tx *gorm.DB, bk *models.Booking, newTotal, newAdvance decimal.Decimal) error {
	account, err := ledger.AccountForCustomer(tx, bk.CustomerID)
	if err != nil {
		return err
	}

	totalDiff := newTotal.Sub(bk.TotalAmount)
	advanceDiff := newAdvance.Sub(bk.AdvanceAmount)

	if !totalDiff.IsZero() {
		entryType := models.EntryTypeDebit
		if totalDiff.IsNegative() {
			entryType = models.EntryTypeCredit
		}
		desc := fmt.Sprintf("Booking Total Adjustment: %s", bk.BookingNumber)
		if _, err := ledger.PostEntry(tx, account.ID, entryType, totalDiff.Abs(), desc, &bk.ID); err != nil {
			return err
		}
	}

	if !advanceDiff.IsZero() {
		// More advance received credits the customer and puts cash in the
		// till; a reduced advance is the mirror image.
		customerType := models.EntryTypeCredit
		cashType := models.EntryTypeDebit
		if advanceDiff.IsNegative() {
			customerType = models.EntryTypeDebit
			cashType = models.EntryTypeCredit
		}
		desc := fmt.Sprintf("Advance Adjustment for Booking: %s", bk.BookingNumber)
		if _, err := ledger.PostEntry(tx, account.ID, customerType, advanceDiff.Abs(), desc, &bk.ID); err != nil {
			return err
		}
		cashDesc := fmt.Sprintf("Advance from %s for Booking: %s", bk.Customer.Name, bk.BookingNumber)
		if _, err := ledger.PostEntry(tx, s.CashAccountID, cashType, advanceDiff.Abs(), cashDesc, &bk.ID); err != nil {
			return err
		}
	}

	return nil
}

// Delete fully reverses a booking: stock goes back with IN movements, the
// booking's ledger entries are reversed and removed, then the booking and its
// items are deleted. All in one transaction.
func (s *Service) Delete(ctx context.Context, id uint) error {
	ctx, cancel := context.WithTimeout(ctx, s.TxTimeout)
	defer cancel()

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var bk models.Booking
		if err := tx.Preload("Items").First(&bk, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("load booking: %w", err)
		}

		for _, item := range bk.Items {
			if err := inventory.AdjustQuantity(tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
			note := fmt.Sprintf("Booking Deletion Reversal: %s", bk.BookingNumber)
			if err := inventory.RecordMovement(tx, item.ProductID, models.MovementIn, item.Quantity, note, decimal.NullDecimal{}); err != nil {
				return err
			}
		}

		if err := ledger.ReverseEntriesForBooking(tx, bk.ID); err != nil {
			return err
		}

		if err := tx.Where("booking_id = ?", bk.ID).Delete(&models.BookingItem{}).Error; err != nil {
			return fmt.Errorf("delete booking items: %w", err)
		}
		if err := tx.Delete(&models.Booking{}, bk.ID).Error; err != nil {
			return fmt.Errorf("delete booking: %w", err)
		}
		return nil
	})
}

func (s *Service) Get(ctx context.Context, id uint) (*models.Booking, error) {
	var bk models.Booking
	if err := preloadBooking(s.DB.WithContext(ctx)).First(&bk, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &bk, nil
}

// List returns bookings newest-first, optionally filtered by customer.
func (s *Service) List(ctx context.Context, customerID *uint) ([]models.Booking, error) {
	q := preloadBooking(s.DB.WithContext(ctx)).Order("created_at DESC, id DESC")
	if customerID != nil {
		q = q.Where("customer_id = ?", *customerID)
	}
	var bookings []models.Booking
	if err := q.Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func preloadBooking(db *gorm.DB) *gorm.DB {
	return db.Preload("Customer").Preload("Tailor").Preload("Cutter").Preload("Items.Product")
}

func validateStaff(tx *gorm.DB, employeeID *uint, role models.EmployeeRole) error {
	if employeeID == nil {
		return nil
	}
	var employee models.Employee
	if err := tx.First(&employee, *employeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: employee %d not found", ErrInvalidStaff, *employeeID)
		}
		return fmt.Errorf("load employee: %w", err)
	}
	if employee.Role != role {
		return fmt.Errorf("%w: employee %d is not a %s", ErrInvalidStaff, *employeeID, role)
	}
	return nil
}

func mulNull(v decimal.NullDecimal, qty decimal.Decimal) decimal.NullDecimal {
	if !v.Valid {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Valid: true, Decimal: v.Decimal.Mul(qty)}
}
