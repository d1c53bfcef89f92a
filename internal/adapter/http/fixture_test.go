package http

import (
	"context"
	"testing"

	repo "credit-approval-service/internal/adapter/repository/mysql"
	"credit-approval-service/internal/domain/customer"
	"credit-approval-service/internal/domain/loan"
	"credit-approval-service/internal/infrastructure/db"
	custuc "credit-approval-service/internal/usecase/customer"
	loanuc "credit-approval-service/internal/usecase/loan"

	"gorm.io/gorm"
)

// fixture wires the real usecases over a migrated in-memory sqlite database.
type fixture struct {
	db        *gorm.DB
	customers *CustomerHandler
	loans     *LoanHandler
}

func newFixture(t *testing.T) *fixture {
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
	return &fixture{
		db:        gdb,
		customers: NewCustomerHandler(custuc.NewUsecase(repo.NewCustomerRepository(gdb), nil)),
		loans:     NewLoanHandler(loanuc.NewUsecase(repo.NewGormUoW(gdb), nil, nil)),
	}
}

func (f *fixture) seedCustomer(t *testing.T, salary float64) uint64 {
	t.Helper()
	c := &customer.Customer{
		FirstName:     "Asha",
		LastName:      "Rao",
		Age:           31,
		PhoneNumber:   "9876543210",
		MonthlySalary: salary,
		ApprovedLimit: salary * 36,
	}
	if err := repo.NewCustomerRepository(f.db).Create(context.Background(), c); err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return c.ID
}

func (f *fixture) seedLoan(t *testing.T, customerID uint64, repayment float64) uint64 {
	t.Helper()
	l := &loan.Loan{
		CustomerID:       customerID,
		LoanAmount:       200000,
		Tenure:           12,
		InterestRate:     10,
		MonthlyRepayment: repayment,
		Status:           loan.StatusApproved,
	}
	if err := repo.NewLoanRepository(f.db).Create(context.Background(), l); err != nil {
		t.Fatalf("seed loan: %v", err)
	}
	return l.ID
}
