package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByID(ctx context.Context, id uint64) (*Loan, error)

	// ListByCustomer returns every loan of the customer when no status is given,
	// otherwise only loans in one of the given statuses.
	ListByCustomer(ctx context.Context, customerID uint64, statuses ...Status) ([]Loan, error)
	Exists(ctx context.Context, id uint64) (bool, error)
}
