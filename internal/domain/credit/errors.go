// Package credit is the credit-decision engine: EMI amortization, credit scoring over a
// customer's loan history, the eligibility and rate-correction policy, and the
// approved-limit rule. Everything here is pure; callers hand in the customer and the
// loans they already loaded.
package credit

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidArgument marks malformed numeric input. Policy rejections are not errors,
// see Decision.
var ErrInvalidArgument = errors.New("invalid argument")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidArgument}, args...)...)
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
