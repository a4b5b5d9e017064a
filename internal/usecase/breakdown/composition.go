package breakdown

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/simaogato/compound-backend/internal/domain"
)

// PartKind names a slice of the final balance
type PartKind string

const (
	PartPrincipal     PartKind = "PRINCIPAL"
	PartContributions PartKind = "CONTRIBUTIONS"
	PartInterest      PartKind = "INTEREST"
)

// Part is one slice of the final balance
type Part struct {
	Kind   PartKind
	Amount decimal.Decimal // rounded to cents
	Share  decimal.Decimal // percent of the total, two decimals
}

// Composition splits the nominal future value into what was paid in and what was earned
type Composition struct {
	Total decimal.Decimal
	Parts []Part
}

var hundred = decimal.NewFromInt(100)

// CalculateComposition splits the final balance of a projection
// Logic:
//  1. Round principal, contributions and the total to cents
//  2. Interest takes whatever is left, so the parts always add up to the total
//  3. Shares are rounded to two decimals and the last share takes the rounding
//     remainder, so shares add up to exactly 100 (no cent lost)
func CalculateComposition(initialInvestment float64, results *domain.CalculationResults) (*Composition, error) {
	if results == nil {
		return nil, errors.New("results cannot be empty")
	}
	if initialInvestment < 0 {
		return nil, errors.New("initial investment must be positive or zero")
	}

	total := decimal.NewFromFloat(results.FutureValueNominal).Round(2)
	principal := decimal.NewFromFloat(initialInvestment).Round(2)
	contributions := decimal.NewFromFloat(results.TotalInvested).Round(2).Sub(principal)
	if contributions.IsNegative() {
		contributions = decimal.Zero
	}
	interest := total.Sub(principal).Sub(contributions)

	parts := []Part{
		{Kind: PartPrincipal, Amount: principal},
		{Kind: PartContributions, Amount: contributions},
		{Kind: PartInterest, Amount: interest},
	}

	if !total.IsPositive() {
		for i := range parts {
			parts[i].Share = decimal.Zero
		}
		return &Composition{Total: total, Parts: parts}, nil
	}

	sharesSoFar := decimal.Zero
	for i := range parts[:len(parts)-1] {
		share := parts[i].Amount.Mul(hundred).Div(total).Round(2)
		parts[i].Share = share
		sharesSoFar = sharesSoFar.Add(share)
	}
	parts[len(parts)-1].Share = hundred.Sub(sharesSoFar)

	// Safety check: amounts must add up to the total exactly
	sum := decimal.Zero
	for _, p := range parts {
		sum = sum.Add(p.Amount)
	}
	if !sum.Equal(total) {
		return nil, errors.New("composition does not equal total amount")
	}

	return &Composition{Total: total, Parts: parts}, nil
}
