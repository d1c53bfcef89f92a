package customer

import "context"

type Repository interface {
	// Create assigns the id unless the caller already set one (ingestion).
	Create(ctx context.Context, c *Customer) error
	GetByID(ctx context.Context, id uint64) (*Customer, error)

	// GetByIDForUpdate locks the customer row for the rest of the enclosing transaction.
	GetByIDForUpdate(ctx context.Context, id uint64) (*Customer, error)

	// AddDebt increments current_debt by amount.
	AddDebt(ctx context.Context, id uint64, amount float64) error
	Exists(ctx context.Context, id uint64) (bool, error)
}
