package customer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"credit-approval-service/internal/domain/credit"
	"credit-approval-service/internal/domain/customer"
)

type Usecase struct {
	repo customer.Repository
	log  *slog.Logger
}

func NewUsecase(r customer.Repository, log *slog.Logger) *Usecase {
	if log == nil {
		log = slog.Default()
	}
	return &Usecase{repo: r, log: log}
}

// Register stores a new customer with an approved limit derived from the income and no
// current debt.
func (u *Usecase) Register(ctx context.Context, in RegisterInput) (*CustomerDTO, error) {
	first := strings.TrimSpace(in.FirstName)
	last := strings.TrimSpace(in.LastName)
	if first == "" || last == "" {
		return nil, fmt.Errorf("%w: first and last name are required", credit.ErrInvalidArgument)
	}
	if in.Age < 0 {
		return nil, fmt.Errorf("%w: age must not be negative", credit.ErrInvalidArgument)
	}
	limit, err := credit.ApprovedLimit(in.MonthlyIncome)
	if err != nil {
		return nil, err
	}

	c := &customer.Customer{
		FirstName:     first,
		LastName:      last,
		Age:           in.Age,
		PhoneNumber:   strings.TrimSpace(in.PhoneNumber),
		MonthlySalary: in.MonthlyIncome,
		ApprovedLimit: limit,
	}
	if err := u.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	u.log.InfoContext(ctx, "customer registered", "customer_id", c.ID, "approved_limit", limit)
	return toDTO(c), nil
}

func (u *Usecase) Get(ctx context.Context, id uint64) (*CustomerDTO, error) {
	c, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDTO(c), nil
}

func toDTO(c *customer.Customer) *CustomerDTO {
	return &CustomerDTO{
		CustomerID:    c.ID,
		FirstName:     c.FirstName,
		LastName:      c.LastName,
		Name:          c.Name(),
		Age:           c.Age,
		MonthlyIncome: c.MonthlySalary,
		ApprovedLimit: c.ApprovedLimit,
		PhoneNumber:   c.PhoneNumber,
	}
}
