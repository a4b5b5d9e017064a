// Package finance implements the compound interest engine.
// Every function is pure: no state is kept between calls.
package finance

import (
	"math"

	"github.com/simaogato/compound-backend/internal/domain"
)

// AnnualToMonthly converts an annual rate in percent into the equivalent
// compound monthly rate, as a fraction
func AnnualToMonthly(annualRate float64) float64 {
	return math.Pow(1+annualRate/100, 1.0/12) - 1
}

// MonthlyToAnnual converts a monthly rate in percent into the equivalent
// compound annual rate, in percent
func MonthlyToAnnual(monthlyRate float64) float64 {
	return (math.Pow(1+monthlyRate/100, 12) - 1) * 100
}

// EffectiveRate returns the fractional rate applied once per capitalization period
// after the annual administrative fee.
// Logic:
//   - Same cadence: the fee is subtracted from the stated rate directly
//   - Different cadence: the stated rate becomes an annual effective rate, the fee
//     is subtracted, and the net annual rate is converted to the capitalization cadence
//
// The result is floored at zero: a fee above the gross rate stops compounding,
// it never shrinks the balance.
func EffectiveRate(
	interestRate float64,
	interestBase domain.InterestBase,
	capitalization domain.Capitalization,
	adminFeeRate float64,
) float64 {
	if string(interestBase) == string(capitalization) {
		return math.Max(interestRate/100-adminFeeRate/100, 0)
	}

	var annualEffective float64
	if interestBase == domain.InterestBaseMonthly {
		annualEffective = math.Pow(1+interestRate/100, 12) - 1
	} else {
		annualEffective = interestRate / 100
	}

	netAnnual := math.Max(annualEffective-adminFeeRate/100, 0)

	if capitalization == domain.CapitalizationMonthly {
		return math.Pow(1+netAnnual, 1.0/12) - 1
	}
	return netAnnual
}

// annualizedNetReturn is the headline yearly return in percent.
// A yearly quote subtracts the fee as-is (no floor), a monthly quote goes
// through EffectiveRate and is compounded to a year.
func annualizedNetReturn(interestRate float64, interestBase domain.InterestBase, adminFeeRate float64) float64 {
	if interestBase == domain.InterestBaseYearly {
		return interestRate - adminFeeRate
	}
	monthly := EffectiveRate(interestRate, domain.InterestBaseMonthly, domain.CapitalizationMonthly, adminFeeRate)
	return MonthlyToAnnual(monthly * 100)
}
