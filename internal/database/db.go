package database

import (
	"github.com/WAQASUMAR33/taylorapp-sub000/internal/config"
	"github.com/WAQASUMAR33/taylorapp-sub000/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	logger := config.GetLogger()

	var err error
	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		logger.Fatalf("could not connect to database: %v", err)
	}

	if err := Migrate(DB); err != nil {
		logger.Fatalf("migration failed: %v", err)
	}

	logger.Info("database connected, migration complete")
}

// Migrate runs AutoMigrate for every model. Shared with the test suite, which
// runs it against an in-memory SQLite database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Account{},
		&models.LedgerEntry{},
		&models.Product{},
		&models.StockMovement{},
		&models.Employee{},
		&models.Booking{},
		&models.BookingItem{},
		&models.Purchase{},
		&models.PurchaseItem{},
		&models.AuditLog{},
	)
}
