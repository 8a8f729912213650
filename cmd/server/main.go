package main

import (
	"strings"

	"github.com/WAQASUMAR33/taylorapp-sub000/internal/audit"
	"github.com/WAQASUMAR33/taylorapp-sub000/internal/auth"
	"github.com/WAQASUMAR33/taylorapp-sub000/internal/booking"
	"github.com/WAQASUMAR33/taylorapp-sub000/internal/config"
	"github.com/WAQASUMAR33/taylorapp-sub000/internal/customer"
	"github.com/WAQASUMAR33/taylorapp-sub000/internal/dashboard"
	"github.com/WAQASUMAR33/taylorapp-sub000/internal/database"
	"github.com/WAQASUMAR33/taylorapp-sub000/internal/employee"
	"github.com/WAQASUMAR33/taylorapp-sub000/internal/inventory"
	"github.com/WAQASUMAR33/taylorapp-sub000/internal/ledger"
	"github.com/WAQASUMAR33/taylorapp-sub000/internal/models"
	"github.com/WAQASUMAR33/taylorapp-sub000/internal/purchase"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	logger := config.GetLogger()
	cfg := config.Load()
	database.Init(cfg)

	// The cash account is resolved exactly once at startup and handed to the
	// workflows by id, so no request path ever does a name-based lookup.
	cashAccount, err := ledger.CashAccount(database.DB)
	if err != nil {
		logger.Fatalf("could not resolve cash account: %v", err)
	}

	bookingSvc := booking.NewService(database.DB, cashAccount.ID, cfg.BookingTxTimeout)
	purchaseSvc := purchase.NewService(database.DB, cashAccount.ID, cfg.BookingTxTimeout)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			logger.Errorf("unexpected error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Bookings
	protected.Post("/bookings", booking.CreateBookingHandler(bookingSvc))
	protected.Get("/bookings", booking.ListBookingsHandler(bookingSvc))
	protected.Get("/bookings/:id", booking.GetBookingHandler(bookingSvc))
	protected.Put("/bookings/:id", booking.UpdateBookingHandler(bookingSvc))
	protected.Delete("/bookings/:id", booking.DeleteBookingHandler(bookingSvc))

	// Customers
	protected.Post("/customers", customer.CreateCustomerHandler())
	protected.Get("/customers", customer.ListCustomersHandler())
	protected.Get("/customers/:id", customer.GetCustomerHandler())
	protected.Put("/customers/:id", customer.UpdateCustomerHandler())

	// Products & stock
	protected.Get("/products", inventory.ListProductsHandler())
	protected.Get("/stock-movements", inventory.ListStockMovementsHandler())

	// Employees
	protected.Get("/employees", employee.ListEmployeesHandler())

	// Purchases
	protected.Post("/purchases", purchase.CreatePurchaseHandler(purchaseSvc))
	protected.Get("/purchases", purchase.ListPurchasesHandler(purchaseSvc))

	// Ledger
	protected.Get("/accounts", ledger.ListAccountsHandler())
	protected.Get("/accounts/:id/entries", ledger.AccountStatementHandler())

	// Dashboard
	protected.Get("/dashboard/summary", dashboard.SummaryHandler())

	// Admin only
	adminRoutes := protected.Group("")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	adminRoutes.Post("/products", inventory.CreateProductHandler())
	adminRoutes.Put("/products/:id", inventory.UpdateProductHandler())
	adminRoutes.Delete("/products/:id", inventory.DeleteProductHandler())

	adminRoutes.Post("/employees", employee.CreateEmployeeHandler())
	adminRoutes.Put("/employees/:id", employee.UpdateEmployeeHandler())
	adminRoutes.Delete("/employees/:id", employee.DeleteEmployeeHandler())

	adminRoutes.Delete("/customers/:id", customer.DeleteCustomerHandler())
	adminRoutes.Delete("/purchases/:id", purchase.DeletePurchaseHandler(purchaseSvc))

	adminRoutes.Get("/audit-logs", audit.ListAuditLogsHandler())

	logger.Infof("server listening on port %s", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		logger.Fatal(err)
	}
}
