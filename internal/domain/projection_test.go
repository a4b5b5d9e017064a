package domain

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func validInputs() CalculationInputs {
	return CalculationInputs{
		InitialInvestment:     1000,
		Contribution:          200,
		ContributionFrequency: ContributionMonthly,
		InterestRate:          1,
		InterestBase:          InterestBaseMonthly,
		Period:                12,
		PeriodUnit:            PeriodMonths,
		Capitalization:        CapitalizationMonthly,
		InflationRate:         4,
	}
}

func TestCalculationInputs_Validate(t *testing.T) {
	negative := -1.0

	tests := []struct {
		name    string
		mutate  func(in *CalculationInputs)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "Defaults should pass",
			mutate:  func(in *CalculationInputs) {},
			wantErr: false,
		},
		{
			name: "Zero rate, zero contribution and fee above rate should pass",
			mutate: func(in *CalculationInputs) {
				in.InterestRate = 0
				in.Contribution = 0
				in.ContributionFrequency = ContributionNone
				in.AdminFeeRate = 5
			},
			wantErr: false,
		},
		{
			name:    "Negative initial investment should fail",
			mutate:  func(in *CalculationInputs) { in.InitialInvestment = -10 },
			wantErr: true,
			errMsg:  "initial investment must be a non-negative number",
		},
		{
			name:    "NaN rate should fail",
			mutate:  func(in *CalculationInputs) { in.InterestRate = math.NaN() },
			wantErr: true,
			errMsg:  "interest rate must be a non-negative number",
		},
		{
			name:    "Zero period should fail",
			mutate:  func(in *CalculationInputs) { in.Period = 0 },
			wantErr: true,
			errMsg:  "period must be positive",
		},
		{
			name: "Horizon above 100 years should fail",
			mutate: func(in *CalculationInputs) {
				in.Period = 101
				in.PeriodUnit = PeriodYears
			},
			wantErr: true,
			errMsg:  "period must be at most 1200 months",
		},
		{
			name:    "Unknown capitalization should fail",
			mutate:  func(in *CalculationInputs) { in.Capitalization = "daily" },
			wantErr: true,
			errMsg:  "invalid capitalization",
		},
		{
			name:    "Unknown contribution frequency should fail",
			mutate:  func(in *CalculationInputs) { in.ContributionFrequency = "weekly" },
			wantErr: true,
			errMsg:  "invalid contribution frequency",
		},
		{
			name:    "Negative target should fail",
			mutate:  func(in *CalculationInputs) { in.TargetValue = &negative },
			wantErr: true,
			errMsg:  "target value must be a non-negative number",
		},
		{
			name: "Inverted variable contribution window should fail",
			mutate: func(in *CalculationInputs) {
				in.VariableContributions = []VariableContribution{
					{ID: uuid.New(), Amount: 100, StartPeriod: 5, EndPeriod: 2, PeriodType: PeriodMonths},
				}
			},
			wantErr: true,
			errMsg:  "variable contribution 1: variable contribution end period must be greater than or equal to start period",
		},
		{
			name: "Variable contribution starting at zero should fail",
			mutate: func(in *CalculationInputs) {
				in.VariableContributions = []VariableContribution{
					{ID: uuid.New(), Amount: 100, StartPeriod: 0, EndPeriod: 2, PeriodType: PeriodYears},
				}
			},
			wantErr: true,
			errMsg:  "start period must be at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInputs()
			tt.mutate(&in)

			err := in.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestVariableContribution_MonthRange(t *testing.T) {
	months := VariableContribution{StartPeriod: 3, EndPeriod: 7, PeriodType: PeriodMonths}
	start, end := months.MonthRange()
	assert.Equal(t, 3, start)
	assert.Equal(t, 7, end)

	// Year 1 covers months 1-12, year 2 covers 13-24
	years := VariableContribution{StartPeriod: 2, EndPeriod: 4, PeriodType: PeriodYears}
	start, end = years.MonthRange()
	assert.Equal(t, 13, start)
	assert.Equal(t, 48, end)
}

func TestCalculationInputs_TotalMonthsAndTarget(t *testing.T) {
	in := validInputs()
	assert.Equal(t, 12, in.TotalMonths())
	assert.False(t, in.HasTarget())

	in.Period = 3
	in.PeriodUnit = PeriodYears
	assert.Equal(t, 36, in.TotalMonths())

	zero := 0.0
	in.TargetValue = &zero
	assert.False(t, in.HasTarget())

	target := 5000.0
	in.TargetValue = &target
	assert.True(t, in.HasTarget())
}

func TestPreferences_Validate(t *testing.T) {
	prefs := DefaultPreferences(DefaultProfileID)
	assert.NoError(t, prefs.Validate())

	prefs.ID = uuid.Nil
	assert.EqualError(t, prefs.Validate(), "preferences must have a profile ID")

	prefs = DefaultPreferences(uuid.New())
	prefs.Inputs.Period = -1
	assert.Error(t, prefs.Validate())
}

func TestCalculationResults_Finite(t *testing.T) {
	ok := CalculationResults{
		FutureValueNominal: 1100,
		TotalInvested:      1000,
		TotalInterest:      100,
		Periods:            []PeriodRecord{{Period: 1, InitialBalance: 1000, Interest: 100, FinalBalance: 1100, TotalInvested: 1000}},
	}
	assert.True(t, ok.Finite())

	overflow := ok
	overflow.NetReturn = math.Inf(1)
	assert.False(t, overflow.Finite())

	badPeriod := ok
	badPeriod.Periods = []PeriodRecord{{Period: 1, FinalBalance: math.NaN()}}
	assert.False(t, badPeriod.Finite())
}
