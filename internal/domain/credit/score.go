package credit

import (
	"math"
	"time"

	"credit-approval-service/internal/domain/customer"
	"credit-approval-service/internal/domain/loan"
)

const (
	MaxScore = 100.0

	paymentHistoryWeight = 40.0
)

// Score rates a customer between 0 and 100 for a prospective loan of candidateAmount.
//
// A customer whose approved principal plus the candidate would exceed the approved limit
// scores 0 outright. Otherwise, with any history at all, four capped penalties are taken
// off 100: payment history (up to 40), number of loans (up to 20), loans started in the
// calendar year of asOf (up to 20) and approved principal measured in months of salary
// (up to 20).
//
// The score is fractional because the payment-history penalty is proportional.
func Score(c *customer.Customer, candidateAmount float64, history []loan.Loan, asOf time.Time) (float64, error) {
	if c == nil {
		return 0, invalid("customer is required")
	}
	if !finite(c.MonthlySalary) || c.MonthlySalary <= 0 {
		return 0, invalid("monthly salary must be positive, got %v", c.MonthlySalary)
	}
	if !finite(candidateAmount) || candidateAmount < 0 {
		return 0, invalid("loan amount must not be negative, got %v", candidateAmount)
	}

	approvedDebt := ApprovedPrincipal(history)
	if approvedDebt+candidateAmount > c.ApprovedLimit {
		return 0, nil
	}
	if len(history) == 0 {
		return MaxScore, nil
	}

	score := MaxScore
	score -= paymentHistoryPenalty(history)
	score -= loanCountPenalty(len(history))
	score -= recentActivityPenalty(StartedInYear(history, asOf.Year()))
	score -= volumePenalty(approvedDebt / c.MonthlySalary)

	if score < 0 {
		return 0, nil
	}
	return score, nil
}

func paymentHistoryPenalty(history []loan.Loan) float64 {
	var onTime, total int
	for _, l := range history {
		onTime += l.EMIsPaidOnTime
		total += l.Tenure
	}
	if total == 0 {
		return 0
	}
	ratio := math.Min(math.Max(float64(onTime)/float64(total), 0), 1)
	return paymentHistoryWeight * (1 - ratio)
}

func loanCountPenalty(n int) float64 {
	switch {
	case n > 5:
		return 20
	case n > 3:
		return 10
	}
	return 0
}

func recentActivityPenalty(n int) float64 {
	switch {
	case n > 3:
		return 20
	case n > 1:
		return 10
	}
	return 0
}

// salaryMonths is approved principal divided by monthly salary.
func volumePenalty(salaryMonths float64) float64 {
	switch {
	case salaryMonths > 24:
		return 20
	case salaryMonths > 12:
		return 10
	}
	return 0
}

// ApprovedPrincipal sums loan_amount over approved loans.
func ApprovedPrincipal(history []loan.Loan) float64 {
	var sum float64
	for _, l := range history {
		if l.Status == loan.StatusApproved {
			sum += l.LoanAmount
		}
	}
	return sum
}

// ApprovedEMITotal sums monthly_repayment over approved loans.
func ApprovedEMITotal(history []loan.Loan) float64 {
	var sum float64
	for _, l := range history {
		if l.Status == loan.StatusApproved {
			sum += l.MonthlyRepayment
		}
	}
	return sum
}

// StartedInYear counts loans whose start date falls in year. Loans without a start date
// are not counted.
func StartedInYear(history []loan.Loan, year int) int {
	n := 0
	for _, l := range history {
		if l.StartDate != nil && l.StartDate.Year() == year {
			n++
		}
	}
	return n
}
