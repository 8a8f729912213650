package employee

import (
	"errors"
	"time"

	"github.com/WAQASUMAR33/taylorapp-sub000/internal/database"
	"github.com/WAQASUMAR33/taylorapp-sub000/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var validate = validator.New()

type EmployeeRequest struct {
	Name          string              `json:"name" validate:"required"`
	Phone         string              `json:"phone"`
	Address       string              `json:"address"`
	Role          models.EmployeeRole `json:"role" validate:"required,oneof=tailor cutter salesman"`
	MonthlySalary decimal.Decimal     `json:"monthly_salary"`
	Active        *bool               `json:"active"`
	JoinedAt      *string             `json:"joined_at"` // YYYY-MM-DD
}

type EmployeeResponse struct {
	ID            uint                `json:"id"`
	Name          string              `json:"name"`
	Phone         string              `json:"phone"`
	Address       string              `json:"address"`
	Role          models.EmployeeRole `json:"role"`
	MonthlySalary decimal.Decimal     `json:"monthly_salary"`
	Active        bool                `json:"active"`
	JoinedAt      *string             `json:"joined_at"`
}

func toEmployeeResponse(e *models.Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:            e.ID,
		Name:          e.Name,
		Phone:         e.Phone,
		Address:       e.Address,
		Role:          e.Role,
		MonthlySalary: e.MonthlySalary,
		Active:        e.Active,
	}
	if e.JoinedAt != nil {
		s := e.JoinedAt.Format("2006-01-02")
		resp.JoinedAt = &s
	}
	return resp
}

func applyRequest(e *models.Employee, body *EmployeeRequest) error {
	e.Name = body.Name
	e.Phone = body.Phone
	e.Address = body.Address
	e.Role = body.Role
	e.MonthlySalary = body.MonthlySalary
	if body.Active != nil {
		e.Active = *body.Active
	}
	if body.JoinedAt != nil && *body.JoinedAt != "" {
		d, err := time.Parse("2006-01-02", *body.JoinedAt)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "joined_at must be 'YYYY-MM-DD'")
		}
		e.JoinedAt = &d
	}
	return nil
}

// -------------------------------------------------
// POST /api/employees
// -------------------------------------------------
func CreateEmployeeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body EmployeeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Validation failed: "+err.Error())
		}

		employee := models.Employee{Active: true}
		if err := applyRequest(&employee, &body); err != nil {
			return err
		}

		if err := database.DB.Create(&employee).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create employee")
		}

		return c.Status(fiber.StatusCreated).JSON(toEmployeeResponse(&employee))
	}
}

// -------------------------------------------------
// GET /api/employees?role=tailor
// -------------------------------------------------
func ListEmployeesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Model(&models.Employee{}).Order("name ASC")
		if role := c.Query("role"); role != "" {
			q = q.Where("role = ?", role)
		}
		if c.Query("active") == "true" {
			q = q.Where("active = ?", true)
		}

		var employees []models.Employee
		if err := q.Find(&employees).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load employees")
		}

		out := make([]EmployeeResponse, 0, len(employees))
		for i := range employees {
			out = append(out, toEmployeeResponse(&employees[i]))
		}
		return c.JSON(out)
	}
}

// -------------------------------------------------
// PUT /api/employees/:id
// -------------------------------------------------
func UpdateEmployeeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var employee models.Employee
		if err := database.DB.First(&employee, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Employee not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load employee")
		}

		var body EmployeeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Validation failed: "+err.Error())
		}
		if err := applyRequest(&employee, &body); err != nil {
			return err
		}

		if err := database.DB.Save(&employee).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update employee")
		}

		return c.JSON(toEmployeeResponse(&employee))
	}
}

// -------------------------------------------------
// DELETE /api/employees/:id
// -------------------------------------------------
func DeleteEmployeeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var employee models.Employee
		if err := database.DB.First(&employee, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Employee not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load employee")
		}

		var assigned int64
		database.DB.Model(&models.Booking{}).
			Where("tailor_id = ? OR cutter_id = ?", employee.ID, employee.ID).
			Count(&assigned)
		if assigned > 0 {
			// Keep the history intact, just deactivate.
			if err := database.DB.Model(&employee).Update("active", false).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not deactivate employee")
			}
			return c.JSON(fiber.Map{"message": "Employee has booking history and was deactivated instead of deleted"})
		}

		if err := database.DB.Delete(&employee).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete employee")
		}

		return c.JSON(fiber.Map{"message": "Employee deleted"})
	}
}
