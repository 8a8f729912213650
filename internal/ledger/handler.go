package ledger

import (
	"errors"
	"strconv"

	"github.com/WAQASUMAR33/taylorapp-sub000/internal/database"
	"github.com/WAQASUMAR33/taylorapp-sub000/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AccountResponse struct {
	ID             uint               `json:"id"`
	Name           string             `json:"name"`
	Type           models.AccountType `json:"type"`
	CustomerID     *uint              `json:"customer_id"`
	OpeningBalance decimal.Decimal    `json:"opening_balance"`
	Balance        decimal.Decimal    `json:"balance"`
}

type EntryResponse struct {
	ID          uint             `json:"id"`
	AccountID   uint             `json:"account_id"`
	Type        models.EntryType `json:"type"`
	Amount      decimal.Decimal  `json:"amount"`
	Description string           `json:"description"`
	BookingID   *uint            `json:"booking_id"`
	CreatedAt   string           `json:"created_at"`
}

// -------------------------------------------------
// GET /api/accounts?type=customer
// -------------------------------------------------
func ListAccountsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Model(&models.Account{}).Order("name ASC")
		if t := c.Query("type"); t != "" {
			if t != string(models.AccountTypeCustomer) && t != string(models.AccountTypeCash) {
				return fiber.NewError(fiber.StatusBadRequest, "type must be customer or cash")
			}
			q = q.Where("type = ?", t)
		}

		var accounts []models.Account
		if err := q.Find(&accounts).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load accounts")
		}

		out := make([]AccountResponse, 0, len(accounts))
		for _, a := range accounts {
			out = append(out, AccountResponse{
				ID:             a.ID,
				Name:           a.Name,
				Type:           a.Type,
				CustomerID:     a.CustomerID,
				OpeningBalance: a.OpeningBalance,
				Balance:        a.Balance,
			})
		}
		return c.JSON(out)
	}
}

// -------------------------------------------------
// GET /api/accounts/:id/entries
// -------------------------------------------------
func AccountStatementHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := c.Params("id")
		id, err := strconv.ParseUint(idStr, 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "id must be a number")
		}

		var account models.Account
		if err := database.DB.First(&account, uint(id)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Account not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load account")
		}

		var entries []models.LedgerEntry
		if err := database.DB.Where("account_id = ?", account.ID).
			Order("created_at DESC, id DESC").Find(&entries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load entries")
		}

		out := make([]EntryResponse, 0, len(entries))
		for _, e := range entries {
			out = append(out, EntryResponse{
				ID:          e.ID,
				AccountID:   e.AccountID,
				Type:        e.Type,
				Amount:      e.Amount,
				Description: e.Description,
				BookingID:   e.BookingID,
				CreatedAt:   e.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}

		return c.JSON(fiber.Map{
			"account": AccountResponse{
				ID:             account.ID,
				Name:           account.Name,
				Type:           account.Type,
				CustomerID:     account.CustomerID,
				OpeningBalance: account.OpeningBalance,
				Balance:        account.Balance,
			},
			"entries": out,
		})
	}
}
