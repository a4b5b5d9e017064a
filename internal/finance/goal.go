package finance

import "github.com/simaogato/compound-backend/internal/domain"

// goalTolerance treats a balance within one cent of the target as reaching it
const goalTolerance = 0.01

// monthlyPlan is the monthly-only accrual the goal search runs
type monthlyPlan struct {
	initial  float64
	rate     float64
	fixed    float64
	variable []domain.VariableContribution
}

func newMonthlyPlan(in domain.GoalInputs) monthlyPlan {
	return monthlyPlan{
		initial:  in.InitialInvestment,
		rate:     EffectiveRate(in.InterestRate, in.InterestBase, domain.CapitalizationMonthly, in.AdminFeeRate),
		fixed:    FixedContributionPerPeriod(in.Contribution, in.ContributionFrequency, domain.CapitalizationMonthly),
		variable: in.VariableContributions,
	}
}

// balanceAfter simulates the given number of months from the initial investment
func (p monthlyPlan) balanceAfter(months int) float64 {
	balance := p.initial
	for m := 1; m <= months; m++ {
		contribution := p.fixed + VariableContributionForPeriod(m, domain.CapitalizationMonthly, p.variable)
		balance, _ = Advance(balance, p.rate, contribution)
	}
	return balance
}

func (p monthlyPlan) reaches(months int, target float64) bool {
	return p.balanceAfter(months) >= target-goalTolerance
}

// TimeToGoal finds the number of months needed for the balance to reach the
// target, always simulating monthly whatever capitalization the caller uses.
// The balance never decreases with time (rates and contributions are
// non-negative), so a lower-bound binary search over [0, MaxHorizonMonths]
// returns the first month within one cent of the target.
// Returns false when the target is out of reach within 100 years.
func TimeToGoal(inputs domain.GoalInputs, targetValue float64) (domain.GoalDuration, bool) {
	plan := newMonthlyPlan(inputs)

	if !plan.reaches(domain.MaxHorizonMonths, targetValue) {
		return domain.GoalDuration{}, false
	}

	low, high := 0, domain.MaxHorizonMonths
	for low < high {
		mid := low + (high-low)/2
		if plan.reaches(mid, targetValue) {
			high = mid
		} else {
			low = mid + 1
		}
	}

	return domain.GoalDuration{
		Months:          low,
		Years:           low / 12,
		MonthsRemainder: low % 12,
	}, true
}
