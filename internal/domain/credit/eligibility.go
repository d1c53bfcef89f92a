package credit

import (
	"fmt"
	"strconv"
	"time"

	"credit-approval-service/internal/domain/customer"
	"credit-approval-service/internal/domain/loan"
)

const (
	ReasonApproved       = "Loan approved"
	ReasonDebtServiceCap = "EMIs would exceed 50% of monthly salary"
	ReasonLowCreditScore = "Low credit score"

	// Share of monthly salary all approved EMIs together may consume.
	DebtServiceRatio = 0.5
)

// Candidate is the loan being applied for.
type Candidate struct {
	Amount float64
	Rate   float64 // annual, percent
	Tenure int     // months
}

// Decision is the verdict on a candidate loan. A rejection is an ordinary outcome with
// Approved=false and a Reason, not an error.
type Decision struct {
	Approved      bool
	RequestedRate float64
	CorrectedRate float64
	Installment   float64
	// Score is left at zero when the debt-service cap rejects before scoring.
	Score  float64
	Reason string
}

// RateCorrected reports whether the score tier raised the rate above the request.
func (d Decision) RateCorrected() bool { return d.CorrectedRate != d.RequestedRate }

// ForCreation applies the stricter loan-creation reading of the decision: a loan is only
// booked at the rate that was asked for, so an approval that needed a rate correction is
// turned down with the minimum acceptable rate in the message.
func (d Decision) ForCreation() (approved bool, message string) {
	if !d.Approved {
		return false, d.Reason
	}
	if d.RateCorrected() {
		return false, MinimumRateMessage(d.CorrectedRate)
	}
	return true, ReasonApproved
}

// MinimumRateMessage renders the corrected rate with one decimal, e.g. "16.0".
func MinimumRateMessage(rate float64) string {
	return fmt.Sprintf("Interest rate should be at least %s%%", strconv.FormatFloat(rate, 'f', 1, 64))
}

// Decide runs the eligibility policy, short-circuiting on the first rejection:
//
//  1. installment of the candidate
//  2. debt-service cap: approved EMIs plus the installment may not exceed half the salary
//  3. credit score tiers:
//     score > 50       approve at the requested rate
//     30 < score <= 50 approve at no less than 12%
//     10 < score <= 30 approve at no less than 16%
//     score <= 10      reject
//
// history is every loan of the customer; aggregates only count approved loans where the
// policy says so.
func Decide(c *customer.Customer, history []loan.Loan, cand Candidate, asOf time.Time) (Decision, error) {
	if c == nil {
		return Decision{}, invalid("customer is required")
	}
	if !finite(c.MonthlySalary) || c.MonthlySalary <= 0 {
		return Decision{}, invalid("monthly salary must be positive, got %v", c.MonthlySalary)
	}

	installment, err := ComputeEMI(cand.Amount, cand.Rate, cand.Tenure)
	if err != nil {
		return Decision{}, err
	}

	d := Decision{
		RequestedRate: cand.Rate,
		CorrectedRate: cand.Rate,
		Installment:   installment,
	}

	if ApprovedEMITotal(history)+installment > DebtServiceRatio*c.MonthlySalary {
		d.Reason = ReasonDebtServiceCap
		return d, nil
	}

	score, err := Score(c, cand.Amount, history, asOf)
	if err != nil {
		return Decision{}, err
	}
	d.Score = score

	floor, ok := rateFloor(score)
	if !ok {
		d.Reason = ReasonLowCreditScore
		return d, nil
	}
	d.Approved = true
	if cand.Rate < floor {
		d.CorrectedRate = floor
	}
	d.Reason = ReasonApproved
	return d, nil
}

// rateFloor maps a score to the minimum rate of its tier. Upper bounds are inclusive, so
// exactly 50 lands in the 12% tier.
func rateFloor(score float64) (float64, bool) {
	switch {
	case score > 50:
		return 0, true
	case score > 30:
		return 12.0, true
	case score > 10:
		return 16.0, true
	}
	return 0, false
}
