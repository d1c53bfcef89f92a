package credit

import (
	"math"

	"github.com/shopspring/decimal"
)

// ComputeEMI returns the equated monthly installment for a reducing-balance loan:
//
//	r   = annualRatePercent / 1200
//	emi = P * r * (1+r)^n / ((1+r)^n - 1)
//
// rounded to 2 decimal places, half away from zero. A zero rate makes the formula
// divide by zero, so it amortizes straight-line as P / n instead.
func ComputeEMI(principal, annualRatePercent float64, tenureMonths int) (float64, error) {
	switch {
	case !finite(principal) || principal <= 0:
		return 0, invalid("principal must be positive, got %v", principal)
	case tenureMonths <= 0:
		return 0, invalid("tenure must be positive, got %d", tenureMonths)
	case !finite(annualRatePercent) || annualRatePercent < 0:
		return 0, invalid("interest rate must not be negative, got %v", annualRatePercent)
	}

	if annualRatePercent == 0 {
		return straightLine(principal, tenureMonths), nil
	}

	r := annualRatePercent / 1200
	factor := math.Pow(1+r, float64(tenureMonths))
	// rates small enough to vanish in float64 behave like zero
	if factor-1 == 0 {
		return straightLine(principal, tenureMonths), nil
	}
	emi := principal * r * factor / (factor - 1)
	// (1+r)^n overflows for long tenures; the installment tends to the interest P*r
	if math.IsInf(factor, 1) || !finite(emi) {
		emi = principal * r
	}
	if !finite(emi) {
		return 0, invalid("installment overflows for principal %v at %v%%", principal, annualRatePercent)
	}
	return round2(emi), nil
}

func straightLine(principal float64, tenureMonths int) float64 {
	return decimal.NewFromFloat(principal).
		Div(decimal.NewFromInt(int64(tenureMonths))).
		Round(2).
		InexactFloat64()
}

func round2(f float64) float64 {
	return decimal.NewFromFloat(f).Round(2).InexactFloat64()
}
