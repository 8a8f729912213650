package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type EmployeeRole string

const (
	EmployeeRoleTailor   EmployeeRole = "tailor"
	EmployeeRoleCutter   EmployeeRole = "cutter"
	EmployeeRoleSalesman EmployeeRole = "salesman"
)

type Employee struct {
	ID            uint         `gorm:"primaryKey"`
	Name          string       `gorm:"size:100;not null"`
	Phone         string       `gorm:"size:50"`
	Address       string       `gorm:"size:255"`
	Role          EmployeeRole `gorm:"size:20;not null;index"`
	MonthlySalary decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"`
	Active        bool         `gorm:"not null;default:true"`
	JoinedAt      *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
