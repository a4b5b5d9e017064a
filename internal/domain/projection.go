package domain

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// MaxHorizonMonths bounds every simulation to 100 years
const MaxHorizonMonths = 1200

// InterestBase is the cadence an interest rate is quoted in
type InterestBase string

const (
	InterestBaseMonthly InterestBase = "monthly"
	InterestBaseYearly  InterestBase = "yearly"
)

// Capitalization is the cadence at which interest is applied
type Capitalization string

const (
	CapitalizationMonthly Capitalization = "monthly"
	CapitalizationYearly  Capitalization = "yearly"
)

// ContributionFrequency is the native cadence of the fixed contribution
type ContributionFrequency string

const (
	ContributionMonthly ContributionFrequency = "monthly"
	ContributionYearly  ContributionFrequency = "yearly"
	ContributionNone    ContributionFrequency = "none"
)

// PeriodUnit expresses a duration in months or years
type PeriodUnit string

const (
	PeriodMonths PeriodUnit = "months"
	PeriodYears  PeriodUnit = "years"
)

// VariableContribution is an extra amount paid on every period inside
// [StartPeriod, EndPeriod], counted in PeriodType units (1-indexed).
// Year windows cover months (StartPeriod-1)*12+1 through EndPeriod*12.
type VariableContribution struct {
	ID          uuid.UUID
	Amount      float64
	StartPeriod int
	EndPeriod   int
	PeriodType  PeriodUnit
}

// MonthRange returns the window expressed in absolute months
func (v VariableContribution) MonthRange() (start, end int) {
	if v.PeriodType == PeriodYears {
		return (v.StartPeriod-1)*12 + 1, v.EndPeriod * 12
	}
	return v.StartPeriod, v.EndPeriod
}

// Validate ensures the contribution window is well formed
func (v VariableContribution) Validate() error {
	if v.Amount <= 0 || math.IsNaN(v.Amount) || math.IsInf(v.Amount, 0) {
		return errors.New("variable contribution amount must be positive")
	}
	if v.PeriodType != PeriodMonths && v.PeriodType != PeriodYears {
		return fmt.Errorf("invalid variable contribution period type %q", v.PeriodType)
	}
	if v.StartPeriod < 1 {
		return errors.New("variable contribution start period must be at least 1")
	}
	if v.EndPeriod < v.StartPeriod {
		return errors.New("variable contribution end period must be greater than or equal to start period")
	}
	return nil
}

// CalculationInputs holds everything a projection depends on.
// TargetValue is optional and triggers the time-to-goal search when positive.
type CalculationInputs struct {
	InitialInvestment     float64
	Contribution          float64
	ContributionFrequency ContributionFrequency
	InterestRate          float64
	InterestBase          InterestBase
	Period                int
	PeriodUnit            PeriodUnit
	Capitalization        Capitalization
	InflationRate         float64 // annual, percent
	AdminFeeRate          float64 // annual, percent
	TargetValue           *float64
	VariableContributions []VariableContribution
}

// TotalMonths returns the simulation horizon in months
func (in CalculationInputs) TotalMonths() int {
	if in.PeriodUnit == PeriodYears {
		return in.Period * 12
	}
	return in.Period
}

// HasTarget reports whether a positive goal was requested
func (in CalculationInputs) HasTarget() bool {
	return in.TargetValue != nil && *in.TargetValue > 0
}

// GoalInputs strips the horizon, which the goal search does not use
func (in CalculationInputs) GoalInputs() GoalInputs {
	return GoalInputs{
		InitialInvestment:     in.InitialInvestment,
		Contribution:          in.Contribution,
		ContributionFrequency: in.ContributionFrequency,
		InterestRate:          in.InterestRate,
		InterestBase:          in.InterestBase,
		AdminFeeRate:          in.AdminFeeRate,
		VariableContributions: in.VariableContributions,
	}
}

// Validate ensures the inputs lie inside the domain the engine is defined on
func (in CalculationInputs) Validate() error {
	if err := in.GoalInputs().Validate(); err != nil {
		return err
	}
	if in.Period <= 0 {
		return errors.New("period must be positive")
	}
	if in.PeriodUnit != PeriodMonths && in.PeriodUnit != PeriodYears {
		return fmt.Errorf("invalid period unit %q", in.PeriodUnit)
	}
	if in.TotalMonths() > MaxHorizonMonths {
		return fmt.Errorf("period must be at most %d months", MaxHorizonMonths)
	}
	if in.Capitalization != CapitalizationMonthly && in.Capitalization != CapitalizationYearly {
		return fmt.Errorf("invalid capitalization %q", in.Capitalization)
	}
	if err := nonNegative("inflation rate", in.InflationRate); err != nil {
		return err
	}
	if in.TargetValue != nil {
		if err := nonNegative("target value", *in.TargetValue); err != nil {
			return err
		}
	}
	return nil
}

// GoalInputs is CalculationInputs without the horizon and reporting fields
type GoalInputs struct {
	InitialInvestment     float64
	Contribution          float64
	ContributionFrequency ContributionFrequency
	InterestRate          float64
	InterestBase          InterestBase
	AdminFeeRate          float64
	VariableContributions []VariableContribution
}

// Validate checks the fields shared by projections and goal searches
func (g GoalInputs) Validate() error {
	if err := nonNegative("initial investment", g.InitialInvestment); err != nil {
		return err
	}
	if err := nonNegative("contribution", g.Contribution); err != nil {
		return err
	}
	switch g.ContributionFrequency {
	case ContributionMonthly, ContributionYearly, ContributionNone:
	default:
		return fmt.Errorf("invalid contribution frequency %q", g.ContributionFrequency)
	}
	if err := nonNegative("interest rate", g.InterestRate); err != nil {
		return err
	}
	if g.InterestBase != InterestBaseMonthly && g.InterestBase != InterestBaseYearly {
		return fmt.Errorf("invalid interest base %q", g.InterestBase)
	}
	if err := nonNegative("admin fee rate", g.AdminFeeRate); err != nil {
		return err
	}
	for i, vc := range g.VariableContributions {
		if err := vc.Validate(); err != nil {
			return fmt.Errorf("variable contribution %d: %w", i+1, err)
		}
	}
	return nil
}

func nonNegative(field string, v float64) error {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%s must be a non-negative number", field)
	}
	return nil
}

// PeriodRecord is one row of the projection ledger (1-indexed)
type PeriodRecord struct {
	Period         int
	InitialBalance float64
	Contribution   float64
	Interest       float64
	FinalBalance   float64
	TotalInvested  float64
}

// GoalDuration is the time needed to reach a target value
type GoalDuration struct {
	Months          int
	Years           int
	MonthsRemainder int
}

// CalculationResults is the output of a projection
// TotalInterest is always FutureValueNominal - TotalInvested.
type CalculationResults struct {
	FutureValueNominal      float64
	FutureValueReal         float64
	TotalInvested           float64
	TotalInterest           float64
	NetReturn               float64 // annualized, percent
	LastMonthInterest       float64
	Periods                 []PeriodRecord
	EffectiveCapitalization Capitalization
	TimeToGoal              *GoalDuration
}

// ErrGoalUnreachable is returned when the target is not reached within MaxHorizonMonths
var ErrGoalUnreachable = errors.New("goal not reachable within 100 years")

// ErrProjectionOverflow is returned when a projection exceeds the float64 range
var ErrProjectionOverflow = errors.New("invalid inputs: projection exceeds the representable range")

// Finite reports whether every amount of the results is a finite number
func (r CalculationResults) Finite() bool {
	for _, v := range []float64{r.FutureValueNominal, r.FutureValueReal, r.TotalInvested, r.TotalInterest, r.NetReturn, r.LastMonthInterest} {
		if !isFinite(v) {
			return false
		}
	}
	for _, p := range r.Periods {
		for _, v := range []float64{p.InitialBalance, p.Contribution, p.Interest, p.FinalBalance, p.TotalInvested} {
			if !isFinite(v) {
				return false
			}
		}
	}
	return true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
