package loan

import (
	"context"
	"sync"

	"credit-approval-service/internal/domain/customer"
	"credit-approval-service/internal/domain/loan"
	"credit-approval-service/internal/domain/uow"
	"credit-approval-service/internal/testutil/customermock"
	"credit-approval-service/internal/testutil/loanmock"
	"credit-approval-service/internal/testutil/uowmock"
)

// memStore backs the function mocks with maps so flows can be exercised end to end.
type memStore struct {
	mu        sync.Mutex
	customers map[uint64]customer.Customer
	loans     []loan.Loan
	nextLoan  uint64
}

func newMemStore(cs ...customer.Customer) *memStore {
	s := &memStore{customers: map[uint64]customer.Customer{}, nextLoan: 1000}
	for _, c := range cs {
		s.customers[c.ID] = c
	}
	return s
}

func (s *memStore) getCustomer(_ context.Context, id uint64) (*customer.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.customers[id]
	if !ok {
		return nil, customer.ErrNotFound
	}
	return &c, nil
}

func (s *memStore) repos() uow.Repos {
	return uow.Repos{
		Customers: &customermock.Repo{
			GetByIDFn:          s.getCustomer,
			GetByIDForUpdateFn: s.getCustomer,
			ExistsFn: func(_ context.Context, id uint64) (bool, error) {
				s.mu.Lock()
				defer s.mu.Unlock()
				_, ok := s.customers[id]
				return ok, nil
			},
			AddDebtFn: func(_ context.Context, id uint64, amount float64) error {
				s.mu.Lock()
				defer s.mu.Unlock()
				c, ok := s.customers[id]
				if !ok {
					return customer.ErrNotFound
				}
				c.CurrentDebt += amount
				s.customers[id] = c
				return nil
			},
		},
		Loans: &loanmock.Repo{
			CreateFn: func(_ context.Context, l *loan.Loan) error {
				s.mu.Lock()
				defer s.mu.Unlock()
				s.nextLoan++
				l.ID = s.nextLoan
				s.loans = append(s.loans, *l)
				return nil
			},
			GetByIDFn: func(_ context.Context, id uint64) (*loan.Loan, error) {
				s.mu.Lock()
				defer s.mu.Unlock()
				for _, l := range s.loans {
					if l.ID == id {
						return &l, nil
					}
				}
				return nil, loan.ErrNotFound
			},
			ListByCustomerFn: func(_ context.Context, customerID uint64, statuses ...loan.Status) ([]loan.Loan, error) {
				s.mu.Lock()
				defer s.mu.Unlock()
				var out []loan.Loan
				for _, l := range s.loans {
					if l.CustomerID != customerID {
						continue
					}
					if len(statuses) == 0 || hasStatus(statuses, l.Status) {
						out = append(out, l)
					}
				}
				return out, nil
			},
		},
	}
}

func (s *memStore) uow() *uowmock.UoW { return uowmock.Serial(s.repos()) }

func (s *memStore) addLoan(l loan.Loan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextLoan++
	l.ID = s.nextLoan
	s.loans = append(s.loans, l)
}

func hasStatus(list []loan.Status, st loan.Status) bool {
	for _, x := range list {
		if x == st {
			return true
		}
	}
	return false
}
