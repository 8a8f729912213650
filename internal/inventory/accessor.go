package inventory

import (
	"errors"
	"fmt"

	"github.com/WAQASUMAR33/taylorapp-sub000/internal/config"
	"github.com/WAQASUMAR33/taylorapp-sub000/internal/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidQuantity = errors.New("movement quantity must be positive")
)

// AdjustQuantity applies a signed delta to the product's on-hand quantity
// inside the caller's transaction. There is no stock floor: overbooking can
// drive the quantity negative, which is logged but not blocked.
func AdjustQuantity(tx *gorm.DB, productID uint, delta int) error {
	var product models.Product
	if err := tx.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("load product %d: %w", productID, err)
	}

	newQty := product.Quantity + delta
	if newQty < 0 {
		config.GetLogger().WithFields(logrus.Fields{
			"product_id": productID,
			"quantity":   newQty,
		}).Warn("product stock went negative")
	}

	if err := tx.Model(&models.Product{}).Where("id = ?", productID).
		Update("quantity", newQty).Error; err != nil {
		return fmt.Errorf("update quantity of product %d: %w", productID, err)
	}
	return nil
}

// RecordMovement appends one stock-movement audit row. Direction and the sign
// of the paired AdjustQuantity delta must agree; that is caller discipline,
// the accessor only checks its own arguments.
func RecordMovement(tx *gorm.DB, productID uint, direction models.MovementDirection, quantity int, note string, unitCost decimal.NullDecimal) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	movement := models.StockMovement{
		ProductID: productID,
		Direction: direction,
		Quantity:  quantity,
		UnitCost:  unitCost,
		Note:      note,
	}
	if err := tx.Create(&movement).Error; err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}
