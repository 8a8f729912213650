package inventory

import (
	"errors"
	"strconv"

	"github.com/WAQASUMAR33/taylorapp-sub000/internal/database"
	"github.com/WAQASUMAR33/taylorapp-sub000/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var validate = validator.New()

type ProductRequest struct {
	Name          string              `json:"name" validate:"required"`
	StockCode     string              `json:"stock_code"`
	Unit          string              `json:"unit"`
	Quantity      *int                `json:"quantity"`
	UnitPrice     decimal.Decimal     `json:"unit_price"`
	CostPrice     decimal.NullDecimal `json:"cost_price"`
	MaterialCost  decimal.NullDecimal `json:"material_cost"`
	CuttingCost   decimal.NullDecimal `json:"cutting_cost"`
	StitchingCost decimal.NullDecimal `json:"stitching_cost"`
}

type ProductResponse struct {
	ID            uint                `json:"id"`
	Name          string              `json:"name"`
	StockCode     string              `json:"stock_code"`
	Unit          string              `json:"unit"`
	Quantity      int                 `json:"quantity"`
	UnitPrice     decimal.Decimal     `json:"unit_price"`
	CostPrice     decimal.NullDecimal `json:"cost_price"`
	MaterialCost  decimal.NullDecimal `json:"material_cost"`
	CuttingCost   decimal.NullDecimal `json:"cutting_cost"`
	StitchingCost decimal.NullDecimal `json:"stitching_cost"`
}

func toProductResponse(p *models.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		StockCode:     p.StockCode,
		Unit:          p.Unit,
		Quantity:      p.Quantity,
		UnitPrice:     p.UnitPrice,
		CostPrice:     p.CostPrice,
		MaterialCost:  p.MaterialCost,
		CuttingCost:   p.CuttingCost,
		StitchingCost: p.StitchingCost,
	}
}

// -------------------------------------------------
// POST /api/products
// -------------------------------------------------
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Validation failed: "+err.Error())
		}

		product := models.Product{
			Name:          body.Name,
			StockCode:     body.StockCode,
			Unit:          body.Unit,
			UnitPrice:     body.UnitPrice,
			CostPrice:     body.CostPrice,
			MaterialCost:  body.MaterialCost,
			CuttingCost:   body.CuttingCost,
			StitchingCost: body.StitchingCost,
		}
		if body.Quantity != nil {
			product.Quantity = *body.Quantity
		}

		if err := database.DB.Create(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create product")
		}

		return c.Status(fiber.StatusCreated).JSON(toProductResponse(&product))
	}
}

// -------------------------------------------------
// PUT /api/products/:id
// -------------------------------------------------
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var product models.Product
		if err := database.DB.First(&product, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Product not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load product")
		}

		var body ProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Validation failed: "+err.Error())
		}

		product.Name = body.Name
		product.StockCode = body.StockCode
		product.Unit = body.Unit
		product.UnitPrice = body.UnitPrice
		product.CostPrice = body.CostPrice
		product.MaterialCost = body.MaterialCost
		product.CuttingCost = body.CuttingCost
		product.StitchingCost = body.StitchingCost
		if body.Quantity != nil {
			product.Quantity = *body.Quantity
		}

		if err := database.DB.Save(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update product")
		}

		return c.JSON(toProductResponse(&product))
	}
}

// -------------------------------------------------
// DELETE /api/products/:id
// -------------------------------------------------
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var product models.Product
		if err := database.DB.First(&product, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Product not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load product")
		}

		var itemCount int64
		database.DB.Model(&models.BookingItem{}).Where("product_id = ?", product.ID).Count(&itemCount)
		if itemCount > 0 {
			return fiber.NewError(fiber.StatusConflict, "Product is referenced by bookings and cannot be deleted")
		}

		if err := database.DB.Delete(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete product")
		}

		return c.JSON(fiber.Map{"message": "Product deleted"})
	}
}

// -------------------------------------------------
// GET /api/products?q=shirt
// -------------------------------------------------
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Model(&models.Product{}).Order("name ASC")
		if search := c.Query("q"); search != "" {
			q = q.Where("name LIKE ?", "%"+search+"%")
		}

		var products []models.Product
		if err := q.Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load products")
		}

		out := make([]ProductResponse, 0, len(products))
		for i := range products {
			out = append(out, toProductResponse(&products[i]))
		}
		return c.JSON(out)
	}
}

// -------------------------------------------------
// GET /api/stock-movements?product_id=5&direction=OUT
// -------------------------------------------------
func ListStockMovementsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Model(&models.StockMovement{}).Preload("Product").Order("created_at DESC, id DESC")

		if productIDStr := c.Query("product_id"); productIDStr != "" {
			productID, err := strconv.ParseUint(productIDStr, 10, 32)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "product_id must be a number")
			}
			q = q.Where("product_id = ?", uint(productID))
		}
		if direction := c.Query("direction"); direction != "" {
			if direction != string(models.MovementIn) && direction != string(models.MovementOut) {
				return fiber.NewError(fiber.StatusBadRequest, "direction must be IN or OUT")
			}
			q = q.Where("direction = ?", direction)
		}

		var movements []models.StockMovement
		if err := q.Limit(200).Find(&movements).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load stock movements")
		}

		type movementResponse struct {
			ID          uint                     `json:"id"`
			ProductID   uint                     `json:"product_id"`
			ProductName string                   `json:"product_name"`
			Direction   models.MovementDirection `json:"direction"`
			Quantity    int                      `json:"quantity"`
			UnitCost    decimal.NullDecimal      `json:"unit_cost"`
			Note        string                   `json:"note"`
			CreatedAt   string                   `json:"created_at"`
		}
		out := make([]movementResponse, 0, len(movements))
		for _, m := range movements {
			out = append(out, movementResponse{
				ID:          m.ID,
				ProductID:   m.ProductID,
				ProductName: m.Product.Name,
				Direction:   m.Direction,
				Quantity:    m.Quantity,
				UnitCost:    m.UnitCost,
				Note:        m.Note,
				CreatedAt:   m.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}
		return c.JSON(out)
	}
}
