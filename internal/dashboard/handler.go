package dashboard

import (
	"github.com/WAQASUMAR33/taylorapp-sub000/internal/database"
	"github.com/WAQASUMAR33/taylorapp-sub000/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type StatusCount struct {
	Status models.BookingStatus `json:"status"`
	Count  int64                `json:"count"`
}

type LowStockProduct struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type SummaryResponse struct {
	ActiveBookings   int64             `json:"active_bookings"` // everything not DELIVERED/CANCELLED
	StatusBreakdown  []StatusCount     `json:"status_breakdown"`
	TotalCustomers   int64             `json:"total_customers"`
	TotalProducts    int64             `json:"total_products"`
	LowStockProducts []LowStockProduct `json:"low_stock_products"`
	Receivables      decimal.Decimal   `json:"receivables"` // sum of positive customer balances
	CashBalance      decimal.Decimal   `json:"cash_balance"`
}

// -------------------------------------------------
// GET /api/dashboard/summary?low_stock_below=5
// -------------------------------------------------
func SummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var resp SummaryResponse

		if err := database.DB.Model(&models.Booking{}).
			Where("status NOT IN ?", []models.BookingStatus{models.StatusDelivered, models.StatusCancelled}).
			Count(&resp.ActiveBookings).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not count bookings")
		}

		rows, err := database.DB.Model(&models.Booking{}).
			Select("status, COUNT(*) as count").
			Group("status").Rows()
		if err == nil {
			defer rows.Close()
			for rows.Next() {
				var sc StatusCount
				if err := rows.Scan(&sc.Status, &sc.Count); err == nil {
					resp.StatusBreakdown = append(resp.StatusBreakdown, sc)
				}
			}
		}

		database.DB.Model(&models.Customer{}).Count(&resp.TotalCustomers)
		database.DB.Model(&models.Product{}).Count(&resp.TotalProducts)

		threshold := c.QueryInt("low_stock_below", 5)
		var lowStock []models.Product
		database.DB.Where("quantity < ?", threshold).Order("quantity ASC").Limit(20).Find(&lowStock)
		for _, p := range lowStock {
			resp.LowStockProducts = append(resp.LowStockProducts, LowStockProduct{
				ID:       p.ID,
				Name:     p.Name,
				Quantity: p.Quantity,
			})
		}

		// Decimal sums are done in Go to keep the arithmetic exact across
		// database engines.
		var customerAccounts []models.Account
		database.DB.Where("type = ?", models.AccountTypeCustomer).Find(&customerAccounts)
		resp.Receivables = decimal.Zero
		for _, a := range customerAccounts {
			if a.Balance.IsPositive() {
				resp.Receivables = resp.Receivables.Add(a.Balance)
			}
		}

		var cash models.Account
		if err := database.DB.Where("type = ?", models.AccountTypeCash).First(&cash).Error; err == nil {
			resp.CashBalance = cash.Balance
		} else {
			resp.CashBalance = decimal.Zero
		}

		return c.JSON(resp)
	}
}
