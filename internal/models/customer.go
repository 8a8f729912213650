package models

import "time"

type Customer struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null"`
	Phone     string `gorm:"size:50;index"`
	Email     string `gorm:"size:100"`
	Address   string `gorm:"size:255"`
	City      string `gorm:"size:100"`
	Notes     string `gorm:"size:500"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Account  *Account  `gorm:"foreignKey:CustomerID"`
	Bookings []Booking `gorm:"foreignKey:CustomerID"`
}
