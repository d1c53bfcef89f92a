package customermock

import (
	"context"

	domain "credit-approval-service/internal/domain/customer"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset lookups return domain.ErrNotFound, unset writes succeed.
type Repo struct {
	CreateFn           func(ctx context.Context, c *domain.Customer) error
	GetByIDFn          func(ctx context.Context, id uint64) (*domain.Customer, error)
	GetByIDForUpdateFn func(ctx context.Context, id uint64) (*domain.Customer, error)
	AddDebtFn          func(ctx context.Context, id uint64, amount float64) error
	ExistsFn           func(ctx context.Context, id uint64) (bool, error)
}

func (m *Repo) Create(ctx context.Context, c *domain.Customer) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, c)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Customer, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByIDForUpdate(ctx context.Context, id uint64) (*domain.Customer, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) AddDebt(ctx context.Context, id uint64, amount float64) error {
	if m.AddDebtFn != nil {
		return m.AddDebtFn(ctx, id, amount)
	}
	return nil
}

func (m *Repo) Exists(ctx context.Context, id uint64) (bool, error) {
	if m.ExistsFn != nil {
		return m.ExistsFn(ctx, id)
	}
	return false, nil
}
