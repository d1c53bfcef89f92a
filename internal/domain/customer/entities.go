package customer

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound = errors.New("customer not found")
)

// Table: customers
type Customer struct {
	ID            uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"customer_id"`
	FirstName     string    `gorm:"column:first_name;size:100;not null" json:"first_name"`
	LastName      string    `gorm:"column:last_name;size:100;not null" json:"last_name"`
	Age           int       `gorm:"column:age;not null;default:0" json:"age"`
	PhoneNumber   string    `gorm:"column:phone_number;size:15" json:"phone_number"`
	MonthlySalary float64   `gorm:"column:monthly_salary;type:decimal(18,2);not null" json:"monthly_salary"`
	// Set once at registration/ingestion, never recomputed.
	ApprovedLimit float64   `gorm:"column:approved_limit;type:decimal(18,2);not null" json:"approved_limit"`
	CurrentDebt   float64   `gorm:"column:current_debt;type:decimal(18,2);not null;default:0" json:"current_debt"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Customer) TableName() string { return "customers" }

func (c Customer) Name() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
