package customer

import (
	"errors"

	"github.com/WAQASUMAR33/taylorapp-sub000/internal/database"
	"github.com/WAQASUMAR33/taylorapp-sub000/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var validate = validator.New()

type CustomerRequest struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address"`
	City    string `json:"city"`
	Notes   string `json:"notes"`
}

type CustomerResponse struct {
	ID      uint            `json:"id"`
	Name    string          `json:"name"`
	Phone   string          `json:"phone"`
	Email   string          `json:"email"`
	Address string          `json:"address"`
	City    string          `json:"city"`
	Notes   string          `json:"notes"`
	Balance decimal.Decimal `json:"balance"` // outstanding ledger balance, 0 if no account yet
}

func toCustomerResponse(cust *models.Customer) CustomerResponse {
	resp := CustomerResponse{
		ID:      cust.ID,
		Name:    cust.Name,
		Phone:   cust.Phone,
		Email:   cust.Email,
		Address: cust.Address,
		City:    cust.City,
		Notes:   cust.Notes,
	}
	if cust.Account != nil {
		resp.Balance = cust.Account.Balance
	}
	return resp
}

// -------------------------------------------------
// POST /api/customers
// -------------------------------------------------
func CreateCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Validation failed: "+err.Error())
		}

		cust := models.Customer{
			Name:    body.Name,
			Phone:   body.Phone,
			Email:   body.Email,
			Address: body.Address,
			City:    body.City,
			Notes:   body.Notes,
		}
		if err := database.DB.Create(&cust).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create customer")
		}

		return c.Status(fiber.StatusCreated).JSON(toCustomerResponse(&cust))
	}
}

// -------------------------------------------------
// GET /api/customers?q=khan
// -------------------------------------------------
func ListCustomersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Model(&models.Customer{}).Preload("Account").Order("name ASC")
		if search := c.Query("q"); search != "" {
			q = q.Where("name LIKE ? OR phone LIKE ?", "%"+search+"%", "%"+search+"%")
		}

		var customers []models.Customer
		if err := q.Find(&customers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load customers")
		}

		out := make([]CustomerResponse, 0, len(customers))
		for i := range customers {
			out = append(out, toCustomerResponse(&customers[i]))
		}
		return c.JSON(out)
	}
}

// -------------------------------------------------
// GET /api/customers/:id
// -------------------------------------------------
func GetCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var cust models.Customer
		if err := database.DB.Preload("Account").First(&cust, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Customer not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load customer")
		}

		return c.JSON(toCustomerResponse(&cust))
	}
}

// -------------------------------------------------
// PUT /api/customers/:id
// -------------------------------------------------
func UpdateCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var cust models.Customer
		if err := database.DB.First(&cust, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Customer not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load customer")
		}

		var body CustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Validation failed: "+err.Error())
		}

		cust.Name = body.Name
		cust.Phone = body.Phone
		cust.Email = body.Email
		cust.Address = body.Address
		cust.City = body.City
		cust.Notes = body.Notes

		if err := database.DB.Save(&cust).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update customer")
		}

		return c.JSON(toCustomerResponse(&cust))
	}
}

// -------------------------------------------------
// DELETE /api/customers/:id
// -------------------------------------------------
func DeleteCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var cust models.Customer
		if err := database.DB.Preload("Account").First(&cust, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Customer not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load customer")
		}

		var bookingCount int64
		database.DB.Model(&models.Booking{}).Where("customer_id = ?", cust.ID).Count(&bookingCount)
		if bookingCount > 0 {
			return fiber.NewError(fiber.StatusConflict, "Customer has bookings and cannot be deleted")
		}
		if cust.Account != nil && !cust.Account.Balance.IsZero() {
			return fiber.NewError(fiber.StatusConflict, "Customer has an outstanding balance and cannot be deleted")
		}

		if cust.Account != nil {
			if err := database.DB.Delete(cust.Account).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not delete customer account")
			}
		}
		if err := database.DB.Delete(&cust).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete customer")
		}

		return c.JSON(fiber.Map{"message": "Customer deleted"})
	}
}
