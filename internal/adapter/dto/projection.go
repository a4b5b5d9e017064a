// Package dto holds the JSON shapes shared by the HTTP and gRPC transports.
package dto

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/simaogato/compound-backend/internal/domain"
	"github.com/simaogato/compound-backend/internal/usecase/breakdown"
	"github.com/simaogato/compound-backend/internal/usecase/export"
)

// VariableContribution is the wire form of domain.VariableContribution
// An empty ID is assigned a fresh UUID.
type VariableContribution struct {
	ID          string  `json:"id,omitempty"`
	Amount      float64 `json:"amount"`
	StartPeriod int     `json:"startPeriod"`
	EndPeriod   int     `json:"endPeriod"`
	PeriodType  string  `json:"periodType"`
}

// CalculationRequest is the wire form of domain.CalculationInputs
type CalculationRequest struct {
	InitialInvestment     float64                `json:"initialInvestment"`
	Contribution          float64                `json:"contribution"`
	ContributionFrequency string                 `json:"contributionFrequency"`
	InterestRate          float64                `json:"interestRate"`
	InterestBase          string                 `json:"interestBase"`
	Period                int                    `json:"period"`
	PeriodUnit            string                 `json:"periodUnit"`
	Capitalization        string                 `json:"capitalization"`
	InflationRate         float64                `json:"inflationRate"`
	AdminFeeRate          float64                `json:"adminFeeRate"`
	TargetValue           *float64               `json:"targetValue,omitempty"`
	VariableContributions []VariableContribution `json:"variableContributions,omitempty"`
}

// GoalRequest asks how long the inputs take to reach TargetValue
type GoalRequest struct {
	CalculationRequest
	TargetValue float64 `json:"targetValue"`
}

// PeriodRecord is one ledger row
type PeriodRecord struct {
	Period         int     `json:"period"`
	Label          string  `json:"label"`
	InitialBalance float64 `json:"initialBalance"`
	Contribution   float64 `json:"contribution"`
	Interest       float64 `json:"interest"`
	FinalBalance   float64 `json:"finalBalance"`
	TotalInvested  float64 `json:"totalInvested"`
}

// GoalResponse is the wire form of domain.GoalDuration
type GoalResponse struct {
	Months          int    `json:"months"`
	Years           int    `json:"years"`
	MonthsRemainder int    `json:"monthsRemainder"`
	Description     string `json:"description"`
}

// CalculationResponse is the wire form of domain.CalculationResults
type CalculationResponse struct {
	FutureValueNominal      float64        `json:"futureValueNominal"`
	FutureValueReal         float64        `json:"futureValueReal"`
	TotalInvested           float64        `json:"totalInvested"`
	TotalInterest           float64        `json:"totalInterest"`
	NetReturn               float64        `json:"netReturn"`
	LastMonthInterest       float64        `json:"lastMonthInterest"`
	EffectiveCapitalization string         `json:"effectiveCapitalization"`
	Periods                 []PeriodRecord `json:"periods"`
	TimeToGoal              *GoalResponse  `json:"timeToGoal,omitempty"`
}

// ToDomain converts the request into engine inputs
func (r CalculationRequest) ToDomain() (domain.CalculationInputs, error) {
	variable, err := variableToDomain(r.VariableContributions)
	if err != nil {
		return domain.CalculationInputs{}, err
	}

	return domain.CalculationInputs{
		InitialInvestment:     r.InitialInvestment,
		Contribution:          r.Contribution,
		ContributionFrequency: domain.ContributionFrequency(r.ContributionFrequency),
		InterestRate:          r.InterestRate,
		InterestBase:          domain.InterestBase(r.InterestBase),
		Period:                r.Period,
		PeriodUnit:            domain.PeriodUnit(r.PeriodUnit),
		Capitalization:        domain.Capitalization(r.Capitalization),
		InflationRate:         r.InflationRate,
		AdminFeeRate:          r.AdminFeeRate,
		TargetValue:           r.TargetValue,
		VariableContributions: variable,
	}, nil
}

// ToDomain converts the request into goal search inputs
func (r GoalRequest) ToDomain() (domain.GoalInputs, float64, error) {
	inputs, err := r.CalculationRequest.ToDomain()
	if err != nil {
		return domain.GoalInputs{}, 0, err
	}
	return inputs.GoalInputs(), r.TargetValue, nil
}

func variableToDomain(in []VariableContribution) ([]domain.VariableContribution, error) {
	out := make([]domain.VariableContribution, 0, len(in))
	for _, vc := range in {
		id := uuid.New()
		if vc.ID != "" {
			parsed, err := uuid.Parse(vc.ID)
			if err != nil {
				return nil, fmt.Errorf("invalid variable contribution id format: %w", err)
			}
			id = parsed
		}
		out = append(out, domain.VariableContribution{
			ID:          id,
			Amount:      vc.Amount,
			StartPeriod: vc.StartPeriod,
			EndPeriod:   vc.EndPeriod,
			PeriodType:  domain.PeriodUnit(vc.PeriodType),
		})
	}
	return out, nil
}

// FromDomainInputs converts engine inputs back into their wire form
func FromDomainInputs(in domain.CalculationInputs) CalculationRequest {
	variable := make([]VariableContribution, 0, len(in.VariableContributions))
	for _, vc := range in.VariableContributions {
		variable = append(variable, VariableContribution{
			ID:          vc.ID.String(),
			Amount:      vc.Amount,
			StartPeriod: vc.StartPeriod,
			EndPeriod:   vc.EndPeriod,
			PeriodType:  string(vc.PeriodType),
		})
	}

	return CalculationRequest{
		InitialInvestment:     in.InitialInvestment,
		Contribution:          in.Contribution,
		ContributionFrequency: string(in.ContributionFrequency),
		InterestRate:          in.InterestRate,
		InterestBase:          string(in.InterestBase),
		Period:                in.Period,
		PeriodUnit:            string(in.PeriodUnit),
		Capitalization:        string(in.Capitalization),
		InflationRate:         in.InflationRate,
		AdminFeeRate:          in.AdminFeeRate,
		TargetValue:           in.TargetValue,
		VariableContributions: variable,
	}
}

// FromDomainResults converts engine results into the response shape
func FromDomainResults(res *domain.CalculationResults) CalculationResponse {
	periods := make([]PeriodRecord, 0, len(res.Periods))
	for _, p := range res.Periods {
		periods = append(periods, PeriodRecord{
			Period:         p.Period,
			Label:          export.PeriodLabel(p.Period, res.EffectiveCapitalization),
			InitialBalance: p.InitialBalance,
			Contribution:   p.Contribution,
			Interest:       p.Interest,
			FinalBalance:   p.FinalBalance,
			TotalInvested:  p.TotalInvested,
		})
	}

	resp := CalculationResponse{
		FutureValueNominal:      res.FutureValueNominal,
		FutureValueReal:         res.FutureValueReal,
		TotalInvested:           res.TotalInvested,
		TotalInterest:           res.TotalInterest,
		NetReturn:               res.NetReturn,
		LastMonthInterest:       res.LastMonthInterest,
		EffectiveCapitalization: string(res.EffectiveCapitalization),
		Periods:                 periods,
	}
	if res.TimeToGoal != nil {
		goal := FromDomainGoal(res.TimeToGoal)
		resp.TimeToGoal = &goal
	}
	return resp
}

// FromDomainGoal converts a goal duration into the response shape
func FromDomainGoal(goal *domain.GoalDuration) GoalResponse {
	return GoalResponse{
		Months:          goal.Months,
		Years:           goal.Years,
		MonthsRemainder: goal.MonthsRemainder,
		Description:     export.FormatDuration(goal.Months),
	}
}

// BreakdownPart is one slice of the final balance
type BreakdownPart struct {
	Kind   string `json:"kind"`
	Amount string `json:"amount"`
	Share  string `json:"share"`
}

// InterestPoint is one sample of the interest chart
type InterestPoint struct {
	Period   int     `json:"period"`
	Label    string  `json:"label"`
	Interest float64 `json:"interest"`
}

// BreakdownResponse feeds the composition and interest charts
type BreakdownResponse struct {
	Total          string          `json:"total"`
	Parts          []BreakdownPart `json:"parts"`
	InterestSeries []InterestPoint `json:"interestSeries"`
}

// FromBreakdown converts the breakdown usecase output into the response shape
func FromBreakdown(c *breakdown.Composition, series []breakdown.InterestPoint) BreakdownResponse {
	parts := make([]BreakdownPart, 0, len(c.Parts))
	for _, p := range c.Parts {
		parts = append(parts, BreakdownPart{
			Kind:   string(p.Kind),
			Amount: p.Amount.StringFixed(2),
			Share:  p.Share.StringFixed(2),
		})
	}

	points := make([]InterestPoint, 0, len(series))
	for _, p := range series {
		points = append(points, InterestPoint{Period: p.Period, Label: p.Label, Interest: p.Interest})
	}

	return BreakdownResponse{
		Total:          c.Total.StringFixed(2),
		Parts:          parts,
		InterestSeries: points,
	}
}

// Preferences is the wire form of domain.Preferences
type Preferences struct {
	ID           string             `json:"id"`
	Inputs       CalculationRequest `json:"inputs"`
	ShowAdvanced bool               `json:"showAdvanced"`
	UpdatedAt    *time.Time         `json:"updatedAt,omitempty"`
}

// ToDomain converts the wire preferences for the given profile
func (p Preferences) ToDomain(id uuid.UUID) (*domain.Preferences, error) {
	inputs, err := p.Inputs.ToDomain()
	if err != nil {
		return nil, err
	}
	return &domain.Preferences{
		ID:           id,
		Inputs:       inputs,
		ShowAdvanced: p.ShowAdvanced,
	}, nil
}

// FromDomainPreferences converts stored preferences into their wire form
func FromDomainPreferences(p *domain.Preferences) Preferences {
	out := Preferences{
		ID:           p.ID.String(),
		Inputs:       FromDomainInputs(p.Inputs),
		ShowAdvanced: p.ShowAdvanced,
	}
	if !p.UpdatedAt.IsZero() {
		updated := p.UpdatedAt
		out.UpdatedAt = &updated
	}
	return out
}
