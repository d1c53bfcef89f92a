package loanmock

import (
	"context"

	domain "credit-approval-service/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset lookups return domain.ErrNotFound or empty results, unset writes succeed.
type Repo struct {
	CreateFn         func(ctx context.Context, l *domain.Loan) error
	GetByIDFn        func(ctx context.Context, id uint64) (*domain.Loan, error)
	ListByCustomerFn func(ctx context.Context, customerID uint64, statuses ...domain.Status) ([]domain.Loan, error)
	ExistsFn         func(ctx context.Context, id uint64) (bool, error)
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Loan, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) ListByCustomer(ctx context.Context, customerID uint64, statuses ...domain.Status) ([]domain.Loan, error) {
	if m.ListByCustomerFn != nil {
		return m.ListByCustomerFn(ctx, customerID, statuses...)
	}
	return nil, nil
}

func (m *Repo) Exists(ctx context.Context, id uint64) (bool, error) {
	if m.ExistsFn != nil {
		return m.ExistsFn(ctx, id)
	}
	return false, nil
}
