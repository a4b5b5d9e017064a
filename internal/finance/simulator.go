package finance

import (
	"math"

	"github.com/simaogato/compound-backend/internal/domain"
)

// Advance moves a balance forward by one period: interest accrues on the
// opening balance, then the contribution is added (ordinary annuity).
// Returns the new balance and the interest earned.
func Advance(balance, rate, contribution float64) (float64, float64) {
	interest := balance * rate
	return balance + interest + contribution, interest
}

// ledgerState is carried from one period to the next
type ledgerState struct {
	balance       float64
	totalInvested float64
}

// schedule holds what stays constant across periods
type schedule struct {
	rate           float64
	fixed          float64
	capitalization domain.Capitalization
	variable       []domain.VariableContribution
}

func (s schedule) step(state ledgerState, period int) (ledgerState, domain.PeriodRecord) {
	contribution := s.fixed + VariableContributionForPeriod(period, s.capitalization, s.variable)
	balance, interest := Advance(state.balance, s.rate, contribution)

	next := ledgerState{
		balance:       balance,
		totalInvested: state.totalInvested + contribution,
	}
	return next, domain.PeriodRecord{
		Period:         period,
		InitialBalance: state.balance,
		Contribution:   contribution,
		Interest:       interest,
		FinalBalance:   next.balance,
		TotalInvested:  next.totalInvested,
	}
}

// TotalPeriods returns the number of capitalization periods in the horizon.
// Yearly capitalization drops a trailing partial year.
func TotalPeriods(period int, unit domain.PeriodUnit, capitalization domain.Capitalization) int {
	months := period
	if unit == domain.PeriodYears {
		months = period * 12
	}
	if capitalization == domain.CapitalizationYearly {
		return months / 12
	}
	return months
}

// Calculate runs the period-by-period projection.
// Logic:
//  1. Resolve the effective rate and fixed contribution for the capitalization cadence
//  2. Fold over periods 1..N, emitting one record per period
//  3. Discount the nominal value by monthly inflation over the horizon in months
//  4. When a positive target is set, search the time to reach it
func Calculate(inputs domain.CalculationInputs) domain.CalculationResults {
	sched := schedule{
		rate: EffectiveRate(
			inputs.InterestRate,
			inputs.InterestBase,
			inputs.Capitalization,
			inputs.AdminFeeRate,
		),
		fixed:          FixedContributionPerPeriod(inputs.Contribution, inputs.ContributionFrequency, inputs.Capitalization),
		capitalization: inputs.Capitalization,
		variable:       inputs.VariableContributions,
	}

	totalPeriods := TotalPeriods(inputs.Period, inputs.PeriodUnit, inputs.Capitalization)

	state := ledgerState{
		balance:       inputs.InitialInvestment,
		totalInvested: inputs.InitialInvestment,
	}
	periods := make([]domain.PeriodRecord, 0, max(totalPeriods, 0))
	for i := 1; i <= totalPeriods; i++ {
		var record domain.PeriodRecord
		state, record = sched.step(state, i)
		periods = append(periods, record)
	}

	futureValueNominal := state.balance
	monthlyInflation := AnnualToMonthly(inputs.InflationRate)
	inflationFactor := math.Pow(1+monthlyInflation, float64(inputs.TotalMonths()))

	lastInterest := 0.0
	if len(periods) > 0 {
		lastInterest = periods[len(periods)-1].Interest
	}

	results := domain.CalculationResults{
		FutureValueNominal:      futureValueNominal,
		FutureValueReal:         futureValueNominal / inflationFactor,
		TotalInvested:           state.totalInvested,
		TotalInterest:           futureValueNominal - state.totalInvested,
		NetReturn:               annualizedNetReturn(inputs.InterestRate, inputs.InterestBase, inputs.AdminFeeRate),
		LastMonthInterest:       lastInterest,
		Periods:                 periods,
		EffectiveCapitalization: inputs.Capitalization,
	}

	if inputs.HasTarget() {
		if goal, ok := TimeToGoal(inputs.GoalInputs(), *inputs.TargetValue); ok {
			results.TimeToGoal = &goal
		}
	}

	return results
}

// FutureValue is the closed form of a constant-rate ordinary annuity:
// FV = P(1+i)^n + A((1+i)^n - 1)/i
func FutureValue(principal, contribution, rate float64, periods int) float64 {
	n := float64(periods)
	if rate == 0 {
		return principal + contribution*n
	}
	growth := math.Pow(1+rate, n)
	return principal*growth + contribution*(growth-1)/rate
}
