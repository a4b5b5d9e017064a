package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// DefaultProfileID identifies the preference profile seeded on startup
var DefaultProfileID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// ErrPreferencesNotFound is returned by repositories when no profile is stored
var ErrPreferencesNotFound = errors.New("preferences not found")

// Preferences is the last-used calculator state of a client.
// It is presentation state: the engine never reads it.
type Preferences struct {
	ID           uuid.UUID
	Inputs       CalculationInputs
	ShowAdvanced bool
	UpdatedAt    time.Time
}

// DefaultPreferences returns the calculator defaults for a profile
func DefaultPreferences(id uuid.UUID) *Preferences {
	return &Preferences{
		ID: id,
		Inputs: CalculationInputs{
			InitialInvestment:     1000,
			Contribution:          200,
			ContributionFrequency: ContributionMonthly,
			InterestRate:          1,
			InterestBase:          InterestBaseMonthly,
			Period:                12,
			PeriodUnit:            PeriodMonths,
			Capitalization:        CapitalizationMonthly,
			InflationRate:         4,
			AdminFeeRate:          0,
			VariableContributions: []VariableContribution{},
		},
		ShowAdvanced: false,
	}
}

// Validate ensures the stored inputs could be fed to a projection
func (p *Preferences) Validate() error {
	if p.ID == uuid.Nil {
		return errors.New("preferences must have a profile ID")
	}
	return p.Inputs.Validate()
}
