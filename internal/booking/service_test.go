package booking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/WAQASUMAR33/taylorapp-sub000/internal/database"
	"github.com/WAQASUMAR33/taylorapp-sub000/internal/ledger"
	"github.com/WAQASUMAR33/taylorapp-sub000/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB, *models.Account) {
	t.Helper()
	db := newTestDB(t)
	cash, err := ledger.CashAccount(db)
	require.NoError(t, err)
	return NewService(db, cash.ID, 10*time.Second), db, cash
}

func seedCustomer(t *testing.T, db *gorm.DB, name string) *models.Customer {
	t.Helper()
	cust := models.Customer{Name: name, Phone: "0300-1234567"}
	require.NoError(t, db.Create(&cust).Error)
	return &cust
}

func seedProduct(t *testing.T, db *gorm.DB, name string, qty int, price int64) *models.Product {
	t.Helper()
	p := models.Product{
		Name:      name,
		Unit:      "piece",
		Quantity:  qty,
		UnitPrice: decimal.NewFromInt(price),
	}
	require.NoError(t, db.Create(&p).Error)
	return &p
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func requireDecimal(t *testing.T, want int64, got decimal.Decimal) {
	t.Helper()
	require.True(t, got.Equal(dec(want)), "want %d, got %s", want, got)
}

// entrySum recomputes an account balance from its entries, the way the cached
// balance must always read.
func entrySum(t *testing.T, db *gorm.DB, accountID uint) decimal.Decimal {
	t.Helper()
	var entries []models.LedgerEntry
	require.NoError(t, db.Where("account_id = ?", accountID).Find(&entries).Error)
	sum := decimal.Zero
	for _, e := range entries {
		if e.Type == models.EntryTypeDebit {
			sum = sum.Add(e.Amount)
		} else {
			sum = sum.Sub(e.Amount)
		}
	}
	return sum
}

func reloadAccount(t *testing.T, db *gorm.DB, id uint) *models.Account {
	t.Helper()
	var a models.Account
	require.NoError(t, db.First(&a, id).Error)
	return &a
}

func reloadProduct(t *testing.T, db *gorm.DB, id uint) *models.Product {
	t.Helper()
	var p models.Product
	require.NoError(t, db.First(&p, id).Error)
	return &p
}

func TestCreateBookingSimpleScenario(t *testing.T) {
	svc, db, cash := newTestService(t)
	cust := seedCustomer(t, db, "Ahmed Khan")
	product := seedProduct(t, db, "Wash n Wear", 10, 100)

	bk, err := svc.Create(context.Background(), CreateInput{
		CustomerID:    cust.ID,
		Type:          models.BookingTypeStitching,
		Items:         []ItemInput{{ProductID: product.ID, Quantity: 2, UnitPrice: dec(100)}},
		TotalAmount:   dec(200),
		AdvanceAmount: dec(50),
	})
	require.NoError(t, err)

	require.NotEmpty(t, bk.BookingNumber)
	require.Equal(t, models.StatusPending, bk.Status)
	requireDecimal(t, 150, bk.RemainingAmount)

	require.Equal(t, 8, reloadProduct(t, db, product.ID).Quantity)

	account, err := ledger.AccountForCustomer(db, cust.ID)
	require.NoError(t, err)
	requireDecimal(t, 150, reloadAccount(t, db, account.ID).Balance) // 200 debit - 50 credit
	requireDecimal(t, 50, reloadAccount(t, db, cash.ID).Balance)

	// Exactly one cash-side DEBIT of the advance, tagged with the booking.
	var cashEntries []models.LedgerEntry
	require.NoError(t, db.Where("account_id = ? AND booking_id = ?", cash.ID, bk.ID).Find(&cashEntries).Error)
	require.Len(t, cashEntries, 1)
	require.Equal(t, models.EntryTypeDebit, cashEntries[0].Type)
	requireDecimal(t, 50, cashEntries[0].Amount)

	var movements []models.StockMovement
	require.NoError(t, db.Where("product_id = ?", product.ID).Find(&movements).Error)
	require.Len(t, movements, 1)
	require.Equal(t, models.MovementOut, movements[0].Direction)
	require.Equal(t, 2, movements[0].Quantity)
}

func TestCreateBookingAtomicity(t *testing.T) {
	svc, db, _ := newTestService(t)
	cust := seedCustomer(t, db, "Bilal")
	product := seedProduct(t, db, "Cotton", 10, 100)

	_, err := svc.Create(context.Background(), CreateInput{
		CustomerID: cust.ID,
		Type:       models.BookingTypeStitching,
		Items: []ItemInput{
			{ProductID: product.ID, Quantity: 2, UnitPrice: dec(100)},
			{ProductID: 9999, Quantity: 1, UnitPrice: dec(50)}, // no such product
		},
		TotalAmount:   dec(250),
		AdvanceAmount: dec(50),
	})
	require.Error(t, err)

	var bookings, items, movements, entries int64
	db.Model(&models.Booking{}).Count(&bookings)
	db.Model(&models.BookingItem{}).Count(&items)
	db.Model(&models.StockMovement{}).Count(&movements)
	db.Model(&models.LedgerEntry{}).Count(&entries)
	require.Zero(t, bookings)
	require.Zero(t, items)
	require.Zero(t, movements)
	require.Zero(t, entries)
	require.Equal(t, 10, reloadProduct(t, db, product.ID).Quantity)
}

func TestDeleteBookingFullReversal(t *testing.T) {
	svc, db, cash := newTestService(t)
	cust := seedCustomer(t, db, "Ahmed Khan")
	product := seedProduct(t, db, "Wash n Wear", 10, 100)

	bk, err := svc.Create(context.Background(), CreateInput{
		CustomerID:    cust.ID,
		Type:          models.BookingTypeSuit,
		Items:         []ItemInput{{ProductID: product.ID, Quantity: 3, UnitPrice: dec(100)}},
		TotalAmount:   dec(300),
		AdvanceAmount: dec(100),
	})
	require.NoError(t, err)
	require.Equal(t, 7, reloadProduct(t, db, product.ID).Quantity)

	require.NoError(t, svc.Delete(context.Background(), bk.ID))

	require.Equal(t, 10, reloadProduct(t, db, product.ID).Quantity)

	account, err := ledger.AccountForCustomer(db, cust.ID)
	require.NoError(t, err)
	requireDecimal(t, 0, reloadAccount(t, db, account.ID).Balance)
	requireDecimal(t, 0, reloadAccount(t, db, cash.ID).Balance)

	var remaining int64
	db.Model(&models.LedgerEntry{}).Where("booking_id = ?", bk.ID).Count(&remaining)
	require.Zero(t, remaining)

	// The audit trail keeps the matching OUT/IN pair.
	var movements []models.StockMovement
	require.NoError(t, db.Where("product_id = ?", product.ID).Order("id ASC").Find(&movements).Error)
	require.Len(t, movements, 2)
	require.Equal(t, models.MovementOut, movements[0].Direction)
	require.Equal(t, models.MovementIn, movements[1].Direction)
	require.Equal(t, 3, movements[0].Quantity)
	require.Equal(t, 3, movements[1].Quantity)

	_, err = svc.Get(context.Background(), bk.ID)
	require.ErrorIs(t, err, ErrBookingNotFound)
}

func TestUpdateBookingFinancialRevision(t *testing.T) {
	svc, db, cash := newTestService(t)
	cust := seedCustomer(t, db, "Ahmed Khan")
	product := seedProduct(t, db, "Wash n Wear", 10, 100)

	bk, err := svc.Create(context.Background(), CreateInput{
		CustomerID:    cust.ID,
		Type:          models.BookingTypeStitching,
		Items:         []ItemInput{{ProductID: product.ID, Quantity: 2, UnitPrice: dec(100)}},
		TotalAmount:   dec(200),
		AdvanceAmount: dec(50),
	})
	require.NoError(t, err)

	newTotal := dec(250)
	newAdvance := dec(80)
	updated, err := svc.Update(context.Background(), bk.ID, UpdateInput{
		TotalAmount:   &newTotal,
		AdvanceAmount: &newAdvance,
	})
	require.NoError(t, err)

	requireDecimal(t, 250, updated.TotalAmount)
	requireDecimal(t, 80, updated.AdvanceAmount)
	requireDecimal(t, 170, updated.RemainingAmount)

	account, err := ledger.AccountForCustomer(db, cust.ID)
	require.NoError(t, err)
	// 200 - 50 = 150, then +50 total adjustment, -30 advance adjustment.
	requireDecimal(t, 170, reloadAccount(t, db, account.ID).Balance)
	requireDecimal(t, 80, reloadAccount(t, db, cash.ID).Balance)
}

func TestBalanceInvariantAcrossWorkflows(t *testing.T) {
	svc, db, cash := newTestService(t)
	cust := seedCustomer(t, db, "Ahmed Khan")
	other := seedCustomer(t, db, "Bilal")
	product := seedProduct(t, db, "Wash n Wear", 50, 100)

	bk1, err := svc.Create(context.Background(), CreateInput{
		CustomerID:    cust.ID,
		Type:          models.BookingTypeStitching,
		Items:         []ItemInput{{ProductID: product.ID, Quantity: 2, UnitPrice: dec(100)}},
		TotalAmount:   dec(200),
		AdvanceAmount: dec(50),
	})
	require.NoError(t, err)

	bk2, err := svc.Create(context.Background(), CreateInput{
		CustomerID:    other.ID,
		Type:          models.BookingTypeSuit,
		Items:         []ItemInput{{ProductID: product.ID, Quantity: 1, UnitPrice: dec(500)}},
		TotalAmount:   dec(500),
		AdvanceAmount: dec(200),
	})
	require.NoError(t, err)

	lowerTotal := dec(180)
	_, err = svc.Update(context.Background(), bk1.ID, UpdateInput{TotalAmount: &lowerTotal})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), bk2.ID))

	var accounts []models.Account
	require.NoError(t, db.Find(&accounts).Error)
	require.NotEmpty(t, accounts)
	for _, a := range accounts {
		want := a.OpeningBalance.Add(entrySum(t, db, a.ID))
		require.True(t, a.Balance.Equal(want),
			"account %q: cached balance %s, entries say %s", a.Name, a.Balance, want)
	}

	// Only bk2's advance was reversed out of the till.
	requireDecimal(t, 50, reloadAccount(t, db, cash.ID).Balance)
}

func TestUpdateBookingNotFound(t *testing.T) {
	svc, db, _ := newTestService(t)
	seedCustomer(t, db, "Ahmed Khan")

	newTotal := dec(100)
	_, err := svc.Update(context.Background(), 9999, UpdateInput{TotalAmount: &newTotal})
	require.ErrorIs(t, err, ErrBookingNotFound)

	var entries, bookings int64
	db.Model(&models.LedgerEntry{}).Count(&entries)
	db.Model(&models.Booking{}).Count(&bookings)
	require.Zero(t, entries)
	require.Zero(t, bookings)
}

func TestDeleteBookingNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)
	require.ErrorIs(t, svc.Delete(context.Background(), 4242), ErrBookingNotFound)
}

func TestUpdateBookingStatusTransitions(t *testing.T) {
	svc, db, _ := newTestService(t)
	cust := seedCustomer(t, db, "Ahmed Khan")
	product := seedProduct(t, db, "Wash n Wear", 10, 100)

	bk, err := svc.Create(context.Background(), CreateInput{
		CustomerID:  cust.ID,
		Type:        models.BookingTypeStitching,
		Items:       []ItemInput{{ProductID: product.ID, Quantity: 1, UnitPrice: dec(100)}},
		TotalAmount: dec(100),
	})
	require.NoError(t, err)

	cutting := models.StatusCutting
	updated, err := svc.Update(context.Background(), bk.ID, UpdateInput{Status: &cutting})
	require.NoError(t, err)
	require.Equal(t, models.StatusCutting, updated.Status)

	pending := models.StatusPending
	_, err = svc.Update(context.Background(), bk.ID, UpdateInput{Status: &pending})
	require.ErrorIs(t, err, ErrInvalidTransition)

	delivered := models.StatusDelivered
	_, err = svc.Update(context.Background(), bk.ID, UpdateInput{Status: &delivered})
	require.NoError(t, err)

	ready := models.StatusReady
	_, err = svc.Update(context.Background(), bk.ID, UpdateInput{Status: &ready})
	require.ErrorIs(t, err, ErrInvalidTransition)

	cancelled := models.StatusCancelled
	_, err = svc.Update(context.Background(), bk.ID, UpdateInput{Status: &cancelled})
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCreateBookingCostSnapshot(t *testing.T) {
	svc, db, _ := newTestService(t)
	cust := seedCustomer(t, db, "Ahmed Khan")

	product := models.Product{
		Name:      "Karandi",
		Quantity:  20,
		UnitPrice: dec(300),
		CostPrice: decimal.NullDecimal{Valid: true, Decimal: dec(40)},
		// MaterialCost left null on purpose.
		CuttingCost: decimal.NullDecimal{Valid: true, Decimal: dec(15)},
	}
	require.NoError(t, db.Create(&product).Error)

	bk, err := svc.Create(context.Background(), CreateInput{
		CustomerID:  cust.ID,
		Type:        models.BookingTypeStitching,
		Items:       []ItemInput{{ProductID: product.ID, Quantity: 3, UnitPrice: dec(300)}},
		TotalAmount: dec(900),
	})
	require.NoError(t, err)
	require.Len(t, bk.Items, 1)

	item := bk.Items[0]
	require.True(t, item.CostPrice.Valid)
	requireDecimal(t, 120, item.CostPrice.Decimal) // 40 x 3
	require.False(t, item.MaterialCost.Valid)      // null propagates
	require.True(t, item.CuttingCost.Valid)
	requireDecimal(t, 45, item.CuttingCost.Decimal)

	// Later product price changes must not rewrite the frozen snapshot.
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", product.ID).
		Update("cost_price", decimal.NullDecimal{Valid: true, Decimal: dec(99)}).Error)
	var stored models.BookingItem
	require.NoError(t, db.First(&stored, item.ID).Error)
	requireDecimal(t, 120, stored.CostPrice.Decimal)
}

func TestCreateBookingAllowsOversell(t *testing.T) {
	svc, db, _ := newTestService(t)
	cust := seedCustomer(t, db, "Ahmed Khan")
	product := seedProduct(t, db, "Linen", 1, 100)

	_, err := svc.Create(context.Background(), CreateInput{
		CustomerID:  cust.ID,
		Type:        models.BookingTypeSuit,
		Items:       []ItemInput{{ProductID: product.ID, Quantity: 5, UnitPrice: dec(100)}},
		TotalAmount: dec(500),
	})
	require.NoError(t, err)
	require.Equal(t, -4, reloadProduct(t, db, product.ID).Quantity)
}

func TestCreateBookingHonorsExplicitRemaining(t *testing.T) {
	svc, db, _ := newTestService(t)
	cust := seedCustomer(t, db, "Ahmed Khan")
	product := seedProduct(t, db, "Boski", 10, 100)

	explicit := dec(120)
	bk, err := svc.Create(context.Background(), CreateInput{
		CustomerID:      cust.ID,
		Type:            models.BookingTypeStitching,
		Items:           []ItemInput{{ProductID: product.ID, Quantity: 1, UnitPrice: dec(100)}},
		TotalAmount:     dec(200),
		AdvanceAmount:   dec(50),
		RemainingAmount: &explicit,
	})
	require.NoError(t, err)
	requireDecimal(t, 120, bk.RemainingAmount)
}

func TestListBookingsNewestFirst(t *testing.T) {
	svc, db, _ := newTestService(t)
	cust := seedCustomer(t, db, "Ahmed Khan")
	other := seedCustomer(t, db, "Bilal")
	product := seedProduct(t, db, "Cotton", 50, 100)

	for i, c := range []*models.Customer{cust, other, cust} {
		_, err := svc.Create(context.Background(), CreateInput{
			CustomerID:  c.ID,
			Type:        models.BookingTypeStitching,
			Items:       []ItemInput{{ProductID: product.ID, Quantity: 1, UnitPrice: dec(100)}},
			TotalAmount: dec(int64(100 * (i + 1))),
		})
		require.NoError(t, err)
	}

	all, err := svc.List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.True(t, all[0].ID > all[1].ID && all[1].ID > all[2].ID)

	mine, err := svc.List(context.Background(), &cust.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	for _, bk := range mine {
		require.Equal(t, cust.ID, bk.CustomerID)
	}
}
