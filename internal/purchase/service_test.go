package purchase

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

func newTestService(t *testing.T) (*Service, *gorm.DB, *models.Account) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cash, err := ledger.CashAccount(db)
	require.NoError(t, err)
	return NewService(db, cash.ID, 10*time.Second), db, cash
}

func seedProduct(t *testing.T, db *gorm.DB, qty int) *models.Product {
	t.Helper()
	p := models.Product{
		Name:      "Karandi",
		Unit:      "meter",
		Quantity:  qty,
		UnitPrice: decimal.NewFromInt(300),
	}
	require.NoError(t, db.Create(&p).Error)
	return &p
}

func cashBalance(t *testing.T, db *gorm.DB, id uint) decimal.Decimal {
	t.Helper()
	var a models.Account
	require.NoError(t, db.First(&a, id).Error)
	return a.Balance
}

func currentQuantity(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var p models.Product
	require.NoError(t, db.First(&p, id).Error)
	return p.Quantity
}

func TestCreatePurchaseRestocks(t *testing.T) {
	svc, db, cash := newTestService(t)
	p := seedProduct(t, db, 5)

	created, err := svc.Create(context.Background(), CreateInput{
		SupplierName:  "Fabrics Wholesale",
		InvoiceNumber: "INV-0091",
		PaidAmount:    decimal.NewFromInt(600),
		Items: []ItemInput{
			{ProductID: p.ID, Quantity: 10, UnitCost: decimal.NewFromInt(80)},
		},
	})
	require.NoError(t, err)

	require.True(t, created.TotalAmount.Equal(decimal.NewFromInt(800)), "got %s", created.TotalAmount)
	require.Equal(t, 15, currentQuantity(t, db, p.ID))
	require.True(t, cashBalance(t, db, cash.ID).Equal(decimal.NewFromInt(-600)))

	var movements []models.StockMovement
	require.NoError(t, db.Where("product_id = ?", p.ID).Find(&movements).Error)
	require.Len(t, movements, 1)
	require.Equal(t, models.MovementIn, movements[0].Direction)
	require.Equal(t, 10, movements[0].Quantity)
	require.True(t, movements[0].UnitCost.Valid)
	require.True(t, movements[0].UnitCost.Decimal.Equal(decimal.NewFromInt(80)))
}

func TestCreatePurchaseAtomicity(t *testing.T) {
	svc, db, cash := newTestService(t)
	p := seedProduct(t, db, 5)

	_, err := svc.Create(context.Background(), CreateInput{
		SupplierName:  "Fabrics Wholesale",
		InvoiceNumber: "INV-0092",
		PaidAmount:    decimal.NewFromInt(100),
		Items: []ItemInput{
			{ProductID: p.ID, Quantity: 3, UnitCost: decimal.NewFromInt(80)},
			{ProductID: 9999, Quantity: 1, UnitCost: decimal.NewFromInt(50)},
		},
	})
	require.Error(t, err)

	var purchases, movements int64
	db.Model(&models.Purchase{}).Count(&purchases)
	db.Model(&models.StockMovement{}).Count(&movements)
	require.Zero(t, purchases)
	require.Zero(t, movements)
	require.Equal(t, 5, currentQuantity(t, db, p.ID))
	require.True(t, cashBalance(t, db, cash.ID).IsZero())
}

func TestDeletePurchaseReverses(t *testing.T) {
	svc, db, cash := newTestService(t)
	p := seedProduct(t, db, 5)

	created, err := svc.Create(context.Background(), CreateInput{
		SupplierName:  "Fabrics Wholesale",
		InvoiceNumber: "INV-0093",
		PaidAmount:    decimal.NewFromInt(400),
		Items: []ItemInput{
			{ProductID: p.ID, Quantity: 5, UnitCost: decimal.NewFromInt(80)},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 10, currentQuantity(t, db, p.ID))

	require.NoError(t, svc.Delete(context.Background(), created.ID))

	require.Equal(t, 5, currentQuantity(t, db, p.ID))
	require.True(t, cashBalance(t, db, cash.ID).IsZero())

	var purchases, items int64
	db.Model(&models.Purchase{}).Count(&purchases)
	db.Model(&models.PurchaseItem{}).Count(&items)
	require.Zero(t, purchases)
	require.Zero(t, items)

	// The offsetting debit stays in the ledger next to the original credit.
	var entries []models.LedgerEntry
	require.NoError(t, db.Where("account_id = ?", cash.ID).Order("id ASC").Find(&entries).Error)
	require.Len(t, entries, 2)
	require.Equal(t, models.EntryTypeCredit, entries[0].Type)
	require.Equal(t, models.EntryTypeDebit, entries[1].Type)
}

func TestDeletePurchaseNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)
	require.ErrorIs(t, svc.Delete(context.Background(), 4242), ErrPurchaseNotFound)
}

func TestListPurchasesNewestFirst(t *testing.T) {
	svc, db, _ := newTestService(t)
	p := seedProduct(t, db, 0)

	for _, inv := range []string{"INV-1", "INV-2"} {
		_, err := svc.Create(context.Background(), CreateInput{
			SupplierName:  "Fabrics Wholesale",
			InvoiceNumber: inv,
			Items:         []ItemInput{{ProductID: p.ID, Quantity: 1, UnitCost: decimal.NewFromInt(10)}},
		})
		require.NoError(t, err)
	}

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "INV-2", list[0].InvoiceNumber)
	require.Len(t, list[0].Items, 1)
}
