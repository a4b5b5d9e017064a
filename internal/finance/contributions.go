package finance

import "github.com/simaogato/compound-backend/internal/domain"

// FixedContributionPerPeriod converts the recurring contribution into the
// amount paid on each capitalization period
func FixedContributionPerPeriod(
	amount float64,
	frequency domain.ContributionFrequency,
	capitalization domain.Capitalization,
) float64 {
	switch {
	case frequency == domain.ContributionNone:
		return 0
	case string(frequency) == string(capitalization):
		return amount
	case frequency == domain.ContributionYearly && capitalization == domain.CapitalizationMonthly:
		return amount / 12
	case frequency == domain.ContributionMonthly && capitalization == domain.CapitalizationYearly:
		return amount * 12
	}
	return amount
}

// VariableContributionForPeriod sums every variable contribution active on the
// 1-indexed simulation period.
// Logic, per entry:
//   - months window, monthly capitalization: amount when the month is in the window
//   - months window, yearly capitalization: amount times the months of the window
//     overlapping this year
//   - years window, monthly capitalization: amount on every month of the mapped range
//   - years window, yearly capitalization: amount once, when the year starts inside
//     the mapped range
func VariableContributionForPeriod(
	periodIndex int,
	capitalization domain.Capitalization,
	entries []domain.VariableContribution,
) float64 {
	total := 0.0
	for _, vc := range entries {
		total += contributionFromEntry(periodIndex, capitalization, vc)
	}
	return total
}

func contributionFromEntry(periodIndex int, capitalization domain.Capitalization, vc domain.VariableContribution) float64 {
	start, end := vc.MonthRange()

	if capitalization == domain.CapitalizationMonthly {
		if periodIndex >= start && periodIndex <= end {
			return vc.Amount
		}
		return 0
	}

	yearStart := (periodIndex-1)*12 + 1
	yearEnd := periodIndex * 12

	if vc.PeriodType == domain.PeriodYears {
		if yearStart >= start && yearStart <= end {
			return vc.Amount
		}
		return 0
	}

	overlap := min(end, yearEnd) - max(start, yearStart) + 1
	if overlap <= 0 {
		return 0
	}
	return vc.Amount * float64(overlap)
}
