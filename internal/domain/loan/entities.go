package loan

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("loan not found")
)

type Status string

// Only StatusApproved is produced today: the creation flow and ingestion both persist
// approved loans, rejected requests are never stored.
const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
	StatusPaid     Status = "PAID"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusPaid:
		return true
	}
	return false
}

type Loan struct {
	ID               uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"loan_id"`
	CustomerID       uint64     `gorm:"column:customer_id;not null;index:idx_loans_customer_status" json:"customer_id"`
	LoanAmount       float64    `gorm:"column:loan_amount;type:decimal(18,2);not null" json:"loan_amount"`
	Tenure           int        `gorm:"column:tenure;not null" json:"tenure"`
	InterestRate     float64    `gorm:"column:interest_rate;type:decimal(6,2);not null" json:"interest_rate"`
	MonthlyRepayment float64    `gorm:"column:monthly_repayment;type:decimal(18,2);not null" json:"monthly_repayment"`
	EMIsPaidOnTime   int        `gorm:"column:emis_paid_on_time;not null;default:0" json:"emis_paid_on_time"`
	StartDate        *time.Time `gorm:"column:start_date;type:date" json:"start_date,omitempty"`
	EndDate          *time.Time `gorm:"column:end_date;type:date" json:"end_date,omitempty"`
	Status           Status     `gorm:"column:status;size:10;not null;default:'PENDING';index:idx_loans_customer_status" json:"status"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Loan) TableName() string { return "loans" }

// RepaymentsLeft is derived on read: tenure minus whole calendar months elapsed since
// start_date, never below zero. Paid loans have none left; loans without a start date
// have not begun amortizing.
func (l Loan) RepaymentsLeft(asOf time.Time) int {
	if l.Status == StatusPaid {
		return 0
	}
	if l.StartDate == nil {
		return l.Tenure
	}
	// start dates are calendar dates stored at UTC midnight
	start, now := l.StartDate.UTC(), asOf.UTC()
	elapsed := (now.Year()-start.Year())*12 + int(now.Month()) - int(start.Month())
	if elapsed < 0 {
		elapsed = 0
	}
	if left := l.Tenure - elapsed; left > 0 {
		return left
	}
	return 0
}
