package credit

import "github.com/shopspring/decimal"

var (
	lakh             = decimal.NewFromInt(100_000)
	salaryMultiplier = decimal.NewFromInt(36)
)

// ApprovedLimit is 36 months of salary rounded to the nearest 100000. Exact halves round
// to even (12500 -> 400000).
func ApprovedLimit(monthlySalary float64) (float64, error) {
	if !finite(monthlySalary) || monthlySalary <= 0 {
		return 0, invalid("monthly salary must be positive, got %v", monthlySalary)
	}
	lakhs := decimal.NewFromFloat(monthlySalary).Mul(salaryMultiplier).Div(lakh).RoundBank(0)
	return lakhs.Mul(lakh).InexactFloat64(), nil
}
