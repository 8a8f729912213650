package purchase

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/WAQASUMAR33/taylorapp-sub000/internal/audit"
	"github.com/WAQASUMAR33/taylorapp-sub000/internal/auth"
	"github.com/WAQASUMAR33/taylorapp-sub000/internal/config"
	"github.com/WAQASUMAR33/taylorapp-sub000/internal/database"
	"github.com/WAQASUMAR33/taylorapp-sub000/internal/inventory"
	"github.com/WAQASUMAR33/taylorapp-sub000/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

type PurchaseItemRequest struct {
	ProductID uint            `json:"product_id" validate:"required"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

type CreatePurchaseRequest struct {
	SupplierName  string                `json:"supplier_name" validate:"required"`
	InvoiceNumber string                `json:"invoice_number"`
	Date          *string               `json:"date"`
	PaidAmount    decimal.Decimal       `json:"paid_amount"` // missing -> 0
	Notes         string                `json:"notes"`
	Items         []PurchaseItemRequest `json:"items" validate:"required,min=1,dive"`
}

type PurchaseItemResponse struct {
	ID          uint            `json:"id"`
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
}

type PurchaseResponse struct {
	ID            uint                   `json:"id"`
	SupplierName  string                 `json:"supplier_name"`
	InvoiceNumber string                 `json:"invoice_number"`
	Date          string                 `json:"date"`
	TotalAmount   decimal.Decimal        `json:"total_amount"`
	PaidAmount    decimal.Decimal        `json:"paid_amount"`
	Notes         string                 `json:"notes"`
	Items         []PurchaseItemResponse `json:"items"`
}

func toPurchaseResponse(p *models.Purchase) PurchaseResponse {
	resp := PurchaseResponse{
		ID:            p.ID,
		SupplierName:  p.SupplierName,
		InvoiceNumber: p.InvoiceNumber,
		Date:          p.Date.Format("2006-01-02"),
		TotalAmount:   p.TotalAmount,
		PaidAmount:    p.PaidAmount,
		Notes:         p.Notes,
		Items:         make([]PurchaseItemResponse, 0, len(p.Items)),
	}
	for _, item := range p.Items {
		resp.Items = append(resp.Items, PurchaseItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.Product.Name,
			Quantity:    item.Quantity,
			UnitCost:    item.UnitCost,
		})
	}
	return resp
}

// -------------------------------------------------
// POST /api/purchases
// -------------------------------------------------
func CreatePurchaseHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePurchaseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Validation failed: "+err.Error())
		}
		if body.PaidAmount.IsNegative() {
			return fiber.NewError(fiber.StatusBadRequest, "paid_amount must not be negative")
		}

		in := CreateInput{
			SupplierName:  body.SupplierName,
			InvoiceNumber: body.InvoiceNumber,
			PaidAmount:    body.PaidAmount,
			Notes:         body.Notes,
		}
		for _, item := range body.Items {
			in.Items = append(in.Items, ItemInput{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitCost:  item.UnitCost,
			})
		}
		if body.Date != nil && *body.Date != "" {
			d, err := time.Parse("2006-01-02", *body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "date must be 'YYYY-MM-DD'")
			}
			in.Date = &d
		}

		p, err := svc.Create(c.Context(), in)
		if err != nil {
			return mapServiceError(err)
		}

		writePurchaseAudit(c, models.AuditActionCreate, p,
			fmt.Sprintf("Purchase recorded: %s (%s)", p.SupplierName, p.TotalAmount.String()))

		return c.Status(fiber.StatusCreated).JSON(toPurchaseResponse(p))
	}
}

// -------------------------------------------------
// GET /api/purchases
// -------------------------------------------------
func ListPurchasesHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		purchases, err := svc.List(c.Context())
		if err != nil {
			return mapServiceError(err)
		}

		out := make([]PurchaseResponse, 0, len(purchases))
		for i := range purchases {
			out = append(out, toPurchaseResponse(&purchases[i]))
		}
		return c.JSON(out)
	}
}

// -------------------------------------------------
// DELETE /api/purchases/:id
// -------------------------------------------------
func DeletePurchaseHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := c.Params("id")
		id, err := strconv.ParseUint(idStr, 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "id must be a number")
		}

		if err := svc.Delete(c.Context(), uint(id)); err != nil {
			return mapServiceError(err)
		}

		return c.JSON(fiber.Map{"message": "Purchase deleted, stock and cash effects reversed"})
	}
}

func mapServiceError(err error) error {
	switch {
	case errors.Is(err, ErrPurchaseNotFound), errors.Is(err, inventory.ErrProductNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, inventory.ErrInvalidQuantity):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		config.LogError(config.GetLogger(), "purchase/handler.go", "mapServiceError", "purchase workflow", nil, err)
		return fiber.NewError(fiber.StatusInternalServerError, "Purchase operation failed")
	}
}

func writePurchaseAudit(c *fiber.Ctx, action models.AuditAction, p *models.Purchase, description string) {
	userID, _ := c.Locals(auth.CtxUserIDKey).(uint)
	userName := ""
	var user models.User
	if err := database.DB.First(&user, userID).Error; err == nil {
		userName = user.Name
	}
	if err := audit.WriteLog(audit.LogOptions{
		UserID:      userID,
		UserName:    userName,
		EntityType:  "purchase",
		EntityID:    p.ID,
		Action:      action,
		Description: description,
		After:       toPurchaseResponse(p),
	}); err != nil {
		config.GetLogger().Warnf("audit log failed: %v", err)
	}
}
