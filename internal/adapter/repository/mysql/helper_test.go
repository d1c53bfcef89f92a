package mysql

import (
	"testing"
	"time"

	"credit-approval-service/internal/domain/customer"
	"credit-approval-service/internal/domain/loan"
	"credit-approval-service/internal/infrastructure/db"

	"gorm.io/gorm"
)

// openTestDB returns a migrated in-memory sqlite database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

func makeCustomer(first string, salary float64) *customer.Customer {
	return &customer.Customer{
		FirstName:     first,
		LastName:      "Test",
		Age:           30,
		PhoneNumber:   "9876543210",
		MonthlySalary: salary,
		ApprovedLimit: salary * 36,
	}
}

func makeLoan(customerID uint64, amount float64, status loan.Status) *loan.Loan {
	start := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 12, 0)
	return &loan.Loan{
		CustomerID:       customerID,
		LoanAmount:       amount,
		Tenure:           12,
		InterestRate:     10.5,
		MonthlyRepayment: 8815.03,
		EMIsPaidOnTime:   3,
		StartDate:        &start,
		EndDate:          &end,
		Status:           status,
	}
}
