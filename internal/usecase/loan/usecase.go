package loan

import (
	"context"
	"log/slog"
	"time"

	"credit-approval-service/internal/domain/credit"
	"credit-approval-service/internal/domain/customer"
	"credit-approval-service/internal/domain/loan"
	"credit-approval-service/internal/domain/uow"
	"credit-approval-service/internal/metrics"
)

type Usecase struct {
	uow     uow.UnitOfWork
	metrics *metrics.Metrics
	log     *slog.Logger
	now     func() time.Time
}

func NewUsecase(u uow.UnitOfWork, m *metrics.Metrics, log *slog.Logger) *Usecase {
	if log == nil {
		log = slog.Default()
	}
	return &Usecase{uow: u, metrics: m, log: log, now: time.Now}
}

// WithClock replaces the clock used as the decision date.
func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

func candidate(in Input) credit.Candidate {
	return credit.Candidate{Amount: in.LoanAmount, Rate: in.InterestRate, Tenure: in.Tenure}
}

// CheckEligibility answers with the decision as is: an approval that needed a higher rate
// is still an approval, carrying the corrected rate.
func (u *Usecase) CheckEligibility(ctx context.Context, in Input) (*EligibilityDTO, error) {
	start := time.Now()
	defer func() { u.metrics.ObserveDecisionLatency(metrics.FlowEligibility, time.Since(start)) }()

	var d credit.Decision
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		c, err := r.Customers.GetByID(ctx, in.CustomerID)
		if err != nil {
			return err
		}
		history, err := r.Loans.ListByCustomer(ctx, c.ID)
		if err != nil {
			return err
		}
		d, err = credit.Decide(c, history, candidate(in), u.now())
		return err
	})
	if err != nil {
		return nil, err
	}

	u.metrics.IncrementOutcome(metrics.FlowEligibility, outcome(d.Approved, d.RateCorrected()))
	return &EligibilityDTO{
		CustomerID:            in.CustomerID,
		Approval:              d.Approved,
		InterestRate:          d.RequestedRate,
		CorrectedInterestRate: d.CorrectedRate,
		Tenure:                in.Tenure,
		MonthlyInstallment:    d.Installment,
	}, nil
}

// Create books the loan only when it is approved at the requested rate. The customer row
// stays locked from reading the history until the loan and the debt update are written.
func (u *Usecase) Create(ctx context.Context, in Input) (*CreateResultDTO, error) {
	start := time.Now()
	defer func() { u.metrics.ObserveDecisionLatency(metrics.FlowCreation, time.Since(start)) }()

	out := &CreateResultDTO{CustomerID: in.CustomerID}
	err := u.uow.WithinCustomerTx(ctx, in.CustomerID, func(r uow.Repos, c *customer.Customer) error {
		history, err := r.Loans.ListByCustomer(ctx, c.ID)
		if err != nil {
			return err
		}
		d, err := credit.Decide(c, history, candidate(in), u.now())
		if err != nil {
			return err
		}
		out.MonthlyInstallment = d.Installment
		out.LoanApproved, out.Message = d.ForCreation()
		if !out.LoanApproved {
			return nil
		}

		l := &loan.Loan{
			CustomerID:       c.ID,
			LoanAmount:       in.LoanAmount,
			Tenure:           in.Tenure,
			InterestRate:     in.InterestRate,
			MonthlyRepayment: d.Installment,
			Status:           loan.StatusApproved,
		}
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		if err := r.Customers.AddDebt(ctx, c.ID, in.LoanAmount); err != nil {
			return err
		}
		id := l.ID
		out.LoanID = &id
		return nil
	})
	if err != nil {
		return nil, err
	}

	if out.LoanApproved {
		u.metrics.IncrementOutcome(metrics.FlowCreation, "approved")
		u.log.InfoContext(ctx, "loan created", "loan_id", *out.LoanID, "customer_id", in.CustomerID, "amount", in.LoanAmount)
	} else {
		u.metrics.IncrementOutcome(metrics.FlowCreation, "rejected")
		u.log.InfoContext(ctx, "loan rejected", "customer_id", in.CustomerID, "reason", out.Message)
	}
	return out, nil
}

func (u *Usecase) Get(ctx context.Context, loanID uint64) (*LoanDetailDTO, error) {
	var out *LoanDetailDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		l, err := r.Loans.GetByID(ctx, loanID)
		if err != nil {
			return err
		}
		c, err := r.Customers.GetByID(ctx, l.CustomerID)
		if err != nil {
			return err
		}
		out = &LoanDetailDTO{
			LoanID: l.ID,
			Customer: CustomerSummary{
				CustomerID:  c.ID,
				FirstName:   c.FirstName,
				LastName:    c.LastName,
				PhoneNumber: c.PhoneNumber,
				Age:         c.Age,
			},
			LoanAmount:       l.LoanAmount,
			InterestRate:     l.InterestRate,
			MonthlyRepayment: l.MonthlyRepayment,
			Tenure:           l.Tenure,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListByCustomer returns the customer's approved loans with repayments left as of now.
func (u *Usecase) ListByCustomer(ctx context.Context, customerID uint64) ([]LoanSummaryDTO, error) {
	asOf := u.now()
	out := []LoanSummaryDTO{}
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if ok, err := r.Customers.Exists(ctx, customerID); err != nil {
			return err
		} else if !ok {
			return customer.ErrNotFound
		}
		loans, err := r.Loans.ListByCustomer(ctx, customerID, loan.StatusApproved)
		if err != nil {
			return err
		}
		for _, l := range loans {
			out = append(out, LoanSummaryDTO{
				LoanID:           l.ID,
				LoanAmount:       l.LoanAmount,
				InterestRate:     l.InterestRate,
				MonthlyRepayment: l.MonthlyRepayment,
				RepaymentsLeft:   l.RepaymentsLeft(asOf),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func outcome(approved, corrected bool) string {
	switch {
	case !approved:
		return "rejected"
	case corrected:
		return "corrected"
	}
	return "approved"
}
