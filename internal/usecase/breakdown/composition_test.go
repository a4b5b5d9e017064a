package breakdown

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/compound-backend/internal/domain"
	"github.com/simaogato/compound-backend/internal/finance"
)

func TestCalculateComposition_ContributionScenario(t *testing.T) {
	// 1000 initial, 200/month, 5% a.m., 24 months
	// Expected: Principal=1000, Contributions=4800, Interest=6325.50
	results := finance.Calculate(domain.CalculationInputs{
		InitialInvestment:     1000,
		Contribution:          200,
		ContributionFrequency: domain.ContributionMonthly,
		InterestRate:          5,
		InterestBase:          domain.InterestBaseMonthly,
		Period:                24,
		PeriodUnit:            domain.PeriodMonths,
		Capitalization:        domain.CapitalizationMonthly,
	})

	composition, err := CalculateComposition(1000, &results)

	require.NoError(t, err)
	require.Len(t, composition.Parts, 3)

	assert.True(t, composition.Total.Equal(decimal.RequireFromString("12125.50")), "Total should be 12125.50")
	assert.True(t, composition.Parts[0].Amount.Equal(decimal.NewFromInt(1000)), "Principal should be 1000")
	assert.True(t, composition.Parts[1].Amount.Equal(decimal.NewFromInt(4800)), "Contributions should be 4800")
	assert.True(t, composition.Parts[2].Amount.Equal(decimal.RequireFromString("6325.50")), "Interest should be 6325.50")
	assert.Equal(t, PartInterest, composition.Parts[2].Kind)
}

func TestCalculateComposition_SharesSumToHundred(t *testing.T) {
	// Thirds do not round cleanly: 33.33 + 33.33 + 33.34
	results := &domain.CalculationResults{
		FutureValueNominal: 3,
		TotalInvested:      2,
	}

	composition, err := CalculateComposition(1, results)

	require.NoError(t, err)

	sum := decimal.Zero
	for _, p := range composition.Parts {
		sum = sum.Add(p.Share)
	}
	assert.True(t, sum.Equal(decimal.NewFromInt(100)), "shares should add up to 100, got %s", sum)
	assert.True(t, composition.Parts[0].Share.Equal(decimal.RequireFromString("33.33")))
	assert.True(t, composition.Parts[2].Share.Equal(decimal.RequireFromString("33.34")))
}

func TestCalculateComposition_ZeroTotal(t *testing.T) {
	composition, err := CalculateComposition(0, &domain.CalculationResults{})

	require.NoError(t, err)
	for _, p := range composition.Parts {
		assert.True(t, p.Amount.IsZero())
		assert.True(t, p.Share.IsZero())
	}
}

func TestCalculateComposition_InvalidInput(t *testing.T) {
	_, err := CalculateComposition(100, nil)
	assert.EqualError(t, err, "results cannot be empty")

	_, err = CalculateComposition(-1, &domain.CalculationResults{})
	assert.Error(t, err)
}

func TestInterestSeries(t *testing.T) {
	periods := make([]domain.PeriodRecord, 0, 45)
	for i := 1; i <= 45; i++ {
		periods = append(periods, domain.PeriodRecord{Period: i, Interest: float64(i)})
	}

	points := InterestSeries(periods, domain.CapitalizationMonthly, 20)

	// step = 45/20 = 2: periods 1,3,...,45
	require.Len(t, points, 23)
	assert.Equal(t, 1, points[0].Period)
	assert.Equal(t, "M1", points[0].Label)
	assert.Equal(t, 3, points[1].Period)
	assert.Equal(t, 45, points[len(points)-1].Period)
	assert.Equal(t, "Y3M9", points[len(points)-1].Label)
}

func TestInterestSeries_KeepsLastPeriod(t *testing.T) {
	periods := make([]domain.PeriodRecord, 0, 10)
	for i := 1; i <= 10; i++ {
		periods = append(periods, domain.PeriodRecord{Period: i})
	}

	points := InterestSeries(periods, domain.CapitalizationYearly, 3)

	// step = 3: indexes 0,3,6,9
	require.Len(t, points, 4)
	assert.Equal(t, 10, points[3].Period)
	assert.Equal(t, "Year 10", points[3].Label)
}

func TestInterestSeries_ShortLedger(t *testing.T) {
	assert.Empty(t, InterestSeries(nil, domain.CapitalizationMonthly, 0))

	points := InterestSeries([]domain.PeriodRecord{{Period: 1}, {Period: 2}}, domain.CapitalizationMonthly, 0)
	assert.Len(t, points, 2)
}
