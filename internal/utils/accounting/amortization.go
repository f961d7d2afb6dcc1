package accounting

import (
	"fmt"
	"time"

	"github.com/bizbooks/ledger-backend/internal/apperrors"
	"github.com/bizbooks/ledger-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ErrInvalidTerm indicates an amortization request with a non-positive term or principal.
var ErrInvalidTerm = fmt.Errorf("%w: loan term and principal must be positive", apperrors.ErrValidation)

// moneyPlaces is the rounding precision for schedule rows.
const moneyPlaces = 2

var (
	hundred      = decimal.NewFromInt(100)
	twelve       = decimal.NewFromInt(12)
	one          = decimal.NewFromInt(1)
	percentScale = hundred.Mul(twelve) // annual percent -> monthly rate divisor
)

// MonthlyRate converts an annual percentage rate into a monthly decimal rate.
func MonthlyRate(annualRatePercent decimal.Decimal) decimal.Decimal {
	return annualRatePercent.Div(percentScale)
}

// FixedPayment computes the fixed monthly payment for an amortizing loan using the
// standard annuity formula: P * r * (1+r)^n / ((1+r)^n - 1). A zero rate degrades
// to straight principal division.
func FixedPayment(principal decimal.Decimal, annualRatePercent decimal.Decimal, termMonths int) (decimal.Decimal, error) {
	if termMonths <= 0 || !principal.IsPositive() {
		return decimal.Zero, ErrInvalidTerm
	}
	if annualRatePercent.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: interest rate may not be negative", apperrors.ErrValidation)
	}

	n := decimal.NewFromInt(int64(termMonths))
	r := MonthlyRate(annualRatePercent)
	if r.IsZero() {
		return principal.Div(n).Round(moneyPlaces), nil
	}

	compound := one.Add(r).Pow(n)
	payment := principal.Mul(r).Mul(compound).Div(compound.Sub(one))
	return payment.Round(moneyPlaces), nil
}

// AmortizationSchedule produces the full payment schedule for a loan. Each row splits
// the fixed payment into interest on the remaining balance and principal reduction.
// Rounding residue is absorbed into the final period's principal portion so the last
// row's remaining balance is exactly zero and the principal portions sum to the
// original principal.
func AmortizationSchedule(principal decimal.Decimal, annualRatePercent decimal.Decimal, termMonths int, startDate time.Time) ([]domain.PaymentRow, error) {
	payment, err := FixedPayment(principal, annualRatePercent, termMonths)
	if err != nil {
		return nil, err
	}

	r := MonthlyRate(annualRatePercent)
	rows := make([]domain.PaymentRow, 0, termMonths)
	remaining := principal

	for period := 1; period <= termMonths; period++ {
		interest := remaining.Mul(r).Round(moneyPlaces)
		principalPortion := payment.Sub(interest)
		if principalPortion.IsNegative() {
			principalPortion = decimal.Zero
		}
		if period == termMonths || principalPortion.GreaterThan(remaining) {
			// Final period (or overshoot) clears the balance exactly.
			principalPortion = remaining
		}
		remaining = remaining.Sub(principalPortion)

		// A balance that zeroes out early still yields a row per remaining
		// period; those rows carry zero payment and zero principal.
		rows = append(rows, domain.PaymentRow{
			Period:           period,
			Date:             startDate.AddDate(0, period, 0),
			Payment:          principalPortion.Add(interest),
			PrincipalPortion: principalPortion,
			InterestPortion:  interest,
			RemainingBalance: remaining,
		})
	}

	return rows, nil
}

// SplitPayment splits a single loan payment into interest and principal given the
// current outstanding balance. Principal is clamped to [0, outstanding].
func SplitPayment(outstanding decimal.Decimal, annualRatePercent decimal.Decimal, paymentAmount decimal.Decimal) (principal decimal.Decimal, interest decimal.Decimal) {
	interest = outstanding.Mul(MonthlyRate(annualRatePercent)).Round(moneyPlaces)
	principal = paymentAmount.Sub(interest)
	if principal.IsNegative() {
		principal = decimal.Zero
	}
	if principal.GreaterThan(outstanding) {
		principal = outstanding
	}
	return principal, interest
}
