package uowmock

import (
	"context"
	"errors"
	"sync"

	"credit-approval-service/internal/domain/customer"
	"credit-approval-service/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn         func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinCustomerTxFn func(ctx context.Context, customerID uint64, fn func(r uow.Repos, c *customer.Customer) error) error
}

// Convenience fluent setters
func New() *UoW { return &UoW{} }
func (m *UoW) WithWithinTx(fn func(context.Context, func(uow.Repos) error) error) *UoW {
	m.WithinTxFn = fn
	return m
}
func (m *UoW) WithWithinCustomerTx(fn func(context.Context, uint64, func(uow.Repos, *customer.Customer) error) error) *UoW {
	m.WithinCustomerTxFn = fn
	return m
}
func (m *UoW) Reset() { *m = UoW{} }

// Serial passes r straight through and runs every transaction body under one mutex,
// standing in for the customer row lock. There is no rollback.
func Serial(r uow.Repos) *UoW {
	var mu sync.Mutex
	return &UoW{
		WithinTxFn: func(_ context.Context, fn func(uow.Repos) error) error {
			mu.Lock()
			defer mu.Unlock()
			return fn(r)
		},
		WithinCustomerTxFn: func(ctx context.Context, customerID uint64, fn func(uow.Repos, *customer.Customer) error) error {
			mu.Lock()
			defer mu.Unlock()
			c, err := r.Customers.GetByIDForUpdate(ctx, customerID)
			if err != nil {
				return err
			}
			return fn(r, c)
		},
	}
}

// Methods implementing UnitOfWork
func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}
func (m *UoW) WithinCustomerTx(ctx context.Context, customerID uint64, fn func(r uow.Repos, c *customer.Customer) error) error {
	if m.WithinCustomerTxFn != nil {
		return m.WithinCustomerTxFn(ctx, customerID, fn)
	}
	return errUnimplemented
}
