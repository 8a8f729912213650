package booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/WAQASUMAR33/taylorapp-sub000/internal/audit"
	"github.com/WAQASUMAR33/taylorapp-sub000/internal/auth"
	"github.com/WAQASUMAR33/taylorapp-sub000/internal/config"
	"github.com/WAQASUMAR33/taylorapp-sub000/internal/database"
	"github.com/WAQASUMAR33/taylorapp-sub000/internal/inventory"
	"github.com/WAQASUMAR33/taylorapp-sub000/internal/ledger"
	"github.com/WAQASUMAR33/taylorapp-sub000/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

type BookingItemRequest struct {
	ProductID   uint            `json:"product_id" validate:"required"`
	Quantity    int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	CuffStyle   string          `json:"cuff_style"`
	CollarStyle string          `json:"collar_style"`
	HemStyle    string          `json:"hem_style"`
	PocketStyle string          `json:"pocket_style"`
}

type CreateBookingRequest struct {
	CustomerID      uint                 `json:"customer_id" validate:"required"`
	BookingType     models.BookingType   `json:"booking_type" validate:"required,oneof=STITCHING SUIT"`
	Items           []BookingItemRequest `json:"items" validate:"required,min=1,dive"`
	TotalAmount     *decimal.Decimal     `json:"total_amount" validate:"required"`
	AdvanceAmount   decimal.Decimal      `json:"advance_amount"` // missing -> 0
	RemainingAmount *decimal.Decimal     `json:"remaining_amount"`
	BookingDate     *string              `json:"booking_date"`
	ReturnDate      *string              `json:"return_date"`
	DeliveryDate    *string              `json:"delivery_date"`
	TrialDate       *string              `json:"trial_date"`
	TailorID        *uint                `json:"tailor_id"`
	CutterID        *uint                `json:"cutter_id"`
	Notes           string               `json:"notes"`
}

type UpdateBookingRequest struct {
	Status        *models.BookingStatus `json:"status"`
	BookingDate   *string               `json:"booking_date"`
	ReturnDate    *string               `json:"return_date"`
	DeliveryDate  *string               `json:"delivery_date"`
	TrialDate     *string               `json:"trial_date"`
	TailorID      *uint                 `json:"tailor_id"`
	CutterID      *uint                 `json:"cutter_id"`
	Notes         *string               `json:"notes"`
	TotalAmount   *decimal.Decimal      `json:"total_amount"`
	AdvanceAmount *decimal.Decimal      `json:"advance_amount"`
}

type BookingItemResponse struct {
	ID          uint            `json:"id"`
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	CuffStyle   string          `json:"cuff_style,omitempty"`
	CollarStyle string          `json:"collar_style,omitempty"`
	HemStyle    string          `json:"hem_style,omitempty"`
	PocketStyle string          `json:"pocket_style,omitempty"`
}

type BookingResponse struct {
	ID              uint                  `json:"id"`
	BookingNumber   string                `json:"booking_number"`
	CustomerID      uint                  `json:"customer_id"`
	CustomerName    string                `json:"customer_name"`
	BookingType     models.BookingType    `json:"booking_type"`
	Status          models.BookingStatus  `json:"status"`
	BookingDate     string                `json:"booking_date"`
	ReturnDate      *string               `json:"return_date"`
	DeliveryDate    *string               `json:"delivery_date"`
	TrialDate       *string               `json:"trial_date"`
	TailorID        *uint                 `json:"tailor_id"`
	TailorName      string                `json:"tailor_name,omitempty"`
	CutterID        *uint                 `json:"cutter_id"`
	CutterName      string                `json:"cutter_name,omitempty"`
	TotalAmount     decimal.Decimal       `json:"total_amount"`
	AdvanceAmount   decimal.Decimal       `json:"advance_amount"`
	RemainingAmount decimal.Decimal       `json:"remaining_amount"`
	Notes           string                `json:"notes"`
	Items           []BookingItemResponse `json:"items"`
}

// -------------------------------------------------
// POST /api/bookings
// -------------------------------------------------
func CreateBookingHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateBookingRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Validation failed: "+err.Error())
		}
		if body.TotalAmount.IsNegative() || body.AdvanceAmount.IsNegative() {
			return fiber.NewError(fiber.StatusBadRequest, "Amounts must not be negative")
		}

		in := CreateInput{
			CustomerID:      body.CustomerID,
			Type:            body.BookingType,
			TotalAmount:     *body.TotalAmount,
			AdvanceAmount:   body.AdvanceAmount,
			RemainingAmount: body.RemainingAmount,
			TailorID:        body.TailorID,
			CutterID:        body.CutterID,
			Notes:           body.Notes,
		}
		for _, item := range body.Items {
			in.Items = append(in.Items, ItemInput{
				ProductID:   item.ProductID,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
				Discount:    item.Discount,
				CuffStyle:   item.CuffStyle,
				CollarStyle: item.CollarStyle,
				HemStyle:    item.HemStyle,
				PocketStyle: item.PocketStyle,
			})
		}

		var err error
		if in.BookingDate, err = parseDate(body.BookingDate); err != nil {
			return err
		}
		if in.ReturnDate, err = parseDate(body.ReturnDate); err != nil {
			return err
		}
		if in.DeliveryDate, err = parseDate(body.DeliveryDate); err != nil {
			return err
		}
		if in.TrialDate, err = parseDate(body.TrialDate); err != nil {
			return err
		}

		bk, err := svc.Create(c.Context(), in)
		if err != nil {
			return mapServiceError(err)
		}

		writeBookingAudit(c, models.AuditActionCreate, bk, nil,
			fmt.Sprintf("Booking created: %s (%s %s)", bk.BookingNumber, bk.TotalAmount.String(), bk.Customer.Name))

		return c.Status(fiber.StatusCreated).JSON(toBookingResponse(bk))
	}
}

// -------------------------------------------------
// PUT /api/bookings/:id
// -------------------------------------------------
func UpdateBookingHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}

		var body UpdateBookingRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.TotalAmount != nil && body.TotalAmount.IsNegative() {
			return fiber.NewError(fiber.StatusBadRequest, "total_amount must not be negative")
		}
		if body.AdvanceAmount != nil && body.AdvanceAmount.IsNegative() {
			return fiber.NewError(fiber.StatusBadRequest, "advance_amount must not be negative")
		}

		before, err := svc.Get(c.Context(), id)
		if err != nil {
			return mapServiceError(err)
		}

		in := UpdateInput{
			Status:        body.Status,
			TailorID:      body.TailorID,
			CutterID:      body.CutterID,
			Notes:         body.Notes,
			TotalAmount:   body.TotalAmount,
			AdvanceAmount: body.AdvanceAmount,
		}
		if in.BookingDate, err = parseDate(body.BookingDate); err != nil {
			return err
		}
		if in.ReturnDate, err = parseDate(body.ReturnDate); err != nil {
			return err
		}
		if in.DeliveryDate, err = parseDate(body.DeliveryDate); err != nil {
			return err
		}
		if in.TrialDate, err = parseDate(body.TrialDate); err != nil {
			return err
		}

		bk, err := svc.Update(c.Context(), id, in)
		if err != nil {
			return mapServiceError(err)
		}

		writeBookingAudit(c, models.AuditActionUpdate, bk, toBookingResponse(before),
			fmt.Sprintf("Booking updated: %s", bk.BookingNumber))

		return c.JSON(toBookingResponse(bk))
	}
}

// -------------------------------------------------
// DELETE /api/bookings/:id
// -------------------------------------------------
func DeleteBookingHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}

		before, err := svc.Get(c.Context(), id)
		if err != nil {
			return mapServiceError(err)
		}

		if err := svc.Delete(c.Context(), id); err != nil {
			return mapServiceError(err)
		}

		writeBookingAudit(c, models.AuditActionDelete, before, toBookingResponse(before),
			fmt.Sprintf("Booking deleted with full reversal: %s", before.BookingNumber))

		return c.JSON(fiber.Map{
			"message": fmt.Sprintf("Booking %s deleted, stock and ledger effects reversed", before.BookingNumber),
		})
	}
}

// -------------------------------------------------
// GET /api/bookings/:id
// -------------------------------------------------
func GetBookingHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}

		bk, err := svc.Get(c.Context(), id)
		if err != nil {
			return mapServiceError(err)
		}

		return c.JSON(toBookingResponse(bk))
	}
}

// -------------------------------------------------
// GET /api/bookings?customer_id=3
// -------------------------------------------------
func ListBookingsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var customerID *uint
		if s := c.Query("customer_id"); s != "" {
			n, err := strconv.ParseUint(s, 10, 32)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "customer_id must be a number")
			}
			id := uint(n)
			customerID = &id
		}

		bookings, err := svc.List(c.Context(), customerID)
		if err != nil {
			return mapServiceError(err)
		}

		out := make([]BookingResponse, 0, len(bookings))
		for i := range bookings {
			out = append(out, toBookingResponse(&bookings[i]))
		}
		return c.JSON(out)
	}
}

func toBookingResponse(bk *models.Booking) BookingResponse {
	resp := BookingResponse{
		ID:              bk.ID,
		BookingNumber:   bk.BookingNumber,
		CustomerID:      bk.CustomerID,
		CustomerName:    bk.Customer.Name,
		BookingType:     bk.Type,
		Status:          bk.Status,
		BookingDate:     bk.BookingDate.Format("2006-01-02"),
		ReturnDate:      formatDate(bk.ReturnDate),
		DeliveryDate:    formatDate(bk.DeliveryDate),
		TrialDate:       formatDate(bk.TrialDate),
		TailorID:        bk.TailorID,
		CutterID:        bk.CutterID,
		TotalAmount:     bk.TotalAmount,
		AdvanceAmount:   bk.AdvanceAmount,
		RemainingAmount: bk.RemainingAmount,
		Notes:           bk.Notes,
		Items:           make([]BookingItemResponse, 0, len(bk.Items)),
	}
	if bk.Tailor != nil {
		resp.TailorName = bk.Tailor.Name
	}
	if bk.Cutter != nil {
		resp.CutterName = bk.Cutter.Name
	}
	for _, item := range bk.Items {
		resp.Items = append(resp.Items, BookingItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.Product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Discount:    item.Discount,
			TotalPrice:  item.TotalPrice,
			CuffStyle:   item.CuffStyle,
			CollarStyle: item.CollarStyle,
			HemStyle:    item.HemStyle,
			PocketStyle: item.PocketStyle,
		})
	}
	return resp
}

// mapServiceError translates workflow errors into HTTP statuses. Anything not
// recognized is logged and surfaced as a generic failure.
func mapServiceError(err error) error {
	switch {
	case errors.Is(err, ErrBookingNotFound),
		errors.Is(err, ErrCustomerNotFound),
		errors.Is(err, inventory.ErrProductNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrInvalidStaff),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, inventory.ErrInvalidQuantity):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		config.LogError(config.GetLogger(), "booking/handler.go", "mapServiceError", "transaction timeout", nil, err)
		return fiber.NewError(fiber.StatusInternalServerError, "Operation timed out and was rolled back")
	default:
		config.LogError(config.GetLogger(), "booking/handler.go", "mapServiceError", "booking workflow", nil, err)
		return fiber.NewError(fiber.StatusInternalServerError, "Booking operation failed")
	}
}

func parseID(c *fiber.Ctx) (uint, error) {
	idStr := c.Params("id")
	if idStr == "" {
		return 0, fiber.NewError(fiber.StatusBadRequest, "id is required")
	}
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "id must be a number")
	}
	return uint(id), nil
}

func parseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Date must be 'YYYY-MM-DD'")
	}
	return &d, nil
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

func writeBookingAudit(c *fiber.Ctx, action models.AuditAction, bk *models.Booking, before any, description string) {
	userID, _ := c.Locals(auth.CtxUserIDKey).(uint)
	userName := ""
	var user models.User
	if err := database.DB.First(&user, userID).Error; err == nil {
		userName = user.Name
	}
	if err := audit.WriteLog(audit.LogOptions{
		UserID:      userID,
		UserName:    userName,
		EntityType:  "booking",
		EntityID:    bk.ID,
		Action:      action,
		Description: description,
		Before:      before,
		After:       toBookingResponse(bk),
	}); err != nil {
		config.GetLogger().Warnf("audit log failed: %v", err)
	}
}
