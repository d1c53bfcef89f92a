package mysql

import (
	"context"
	"errors"

	"credit-approval-service/internal/domain/customer"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CustomerRepository struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) *CustomerRepository { return &CustomerRepository{db: db} }

// Create inserts c. A zero ID is assigned by the database, a non-zero one is kept.
func (r *CustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CustomerRepository) GetByID(ctx context.Context, id uint64) (*customer.Customer, error) {
	var out customer.Customer
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&out).Error; err != nil {
		return nil, mapCustomerErr(err)
	}
	return &out, nil
}

// GetByIDForUpdate must run inside a transaction to hold the lock.
func (r *CustomerRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*customer.Customer, error) {
	var out customer.Customer
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&out).Error
	if err != nil {
		return nil, mapCustomerErr(err)
	}
	return &out, nil
}

func (r *CustomerRepository) AddDebt(ctx context.Context, id uint64, amount float64) error {
	res := r.db.WithContext(ctx).
		Model(&customer.Customer{}).
		Where("id = ?", id).
		UpdateColumn("current_debt", gorm.Expr("current_debt + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return customer.ErrNotFound
	}
	return nil
}

func (r *CustomerRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&customer.Customer{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

func mapCustomerErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return customer.ErrNotFound
	}
	return err
}
