package inventory

import (
	"fmt"
	"testing"

	"github.com/WAQASUMAR33/taylorapp-sub000/internal/database"
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

func seedProduct(t *testing.T, db *gorm.DB, qty int) *models.Product {
	t.Helper()
	p := models.Product{
		Name:      "Wash n Wear",
		Unit:      "meter",
		Quantity:  qty,
		UnitPrice: decimal.NewFromInt(250),
	}
	require.NoError(t, db.Create(&p).Error)
	return &p
}

func currentQuantity(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var p models.Product
	require.NoError(t, db.First(&p, id).Error)
	return p.Quantity
}

func TestAdjustQuantity(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, 10)

	require.NoError(t, AdjustQuantity(db, p.ID, -3))
	require.Equal(t, 7, currentQuantity(t, db, p.ID))

	require.NoError(t, AdjustQuantity(db, p.ID, 5))
	require.Equal(t, 12, currentQuantity(t, db, p.ID))
}

func TestAdjustQuantityAllowsNegativeStock(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, 2)

	require.NoError(t, AdjustQuantity(db, p.ID, -6))
	require.Equal(t, -4, currentQuantity(t, db, p.ID))
}

func TestAdjustQuantityUnknownProduct(t *testing.T) {
	db := newTestDB(t)
	require.ErrorIs(t, AdjustQuantity(db, 9999, -1), ErrProductNotFound)
}

func TestRecordMovement(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, 10)

	cost := decimal.NullDecimal{Valid: true, Decimal: decimal.NewFromInt(80)}
	require.NoError(t, RecordMovement(db, p.ID, models.MovementIn, 4, "Purchase Order: PO-1", cost))

	var movements []models.StockMovement
	require.NoError(t, db.Where("product_id = ?", p.ID).Find(&movements).Error)
	require.Len(t, movements, 1)
	require.Equal(t, models.MovementIn, movements[0].Direction)
	require.Equal(t, 4, movements[0].Quantity)
	require.Equal(t, "Purchase Order: PO-1", movements[0].Note)
	require.True(t, movements[0].UnitCost.Valid)
	require.True(t, movements[0].UnitCost.Decimal.Equal(decimal.NewFromInt(80)))
}

func TestRecordMovementRejectsNonPositiveQuantity(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, 10)

	require.ErrorIs(t, RecordMovement(db, p.ID, models.MovementOut, 0, "", decimal.NullDecimal{}), ErrInvalidQuantity)
	require.ErrorIs(t, RecordMovement(db, p.ID, models.MovementOut, -2, "", decimal.NullDecimal{}), ErrInvalidQuantity)

	var count int64
	db.Model(&models.StockMovement{}).Count(&count)
	require.Zero(t, count)
}
