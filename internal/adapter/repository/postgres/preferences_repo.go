package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/compound-backend/internal/domain"
)

// preferencesRepository implements domain.PreferencesRepository
type preferencesRepository struct {
	db *DB
}

// NewPreferencesRepository creates a new preferences repository
func NewPreferencesRepository(db *DB) domain.PreferencesRepository {
	return &preferencesRepository{db: db}
}

// variableContributionRow is the JSONB shape of one variable contribution
type variableContributionRow struct {
	ID          uuid.UUID `json:"id"`
	Amount      string    `json:"amount"`
	StartPeriod int       `json:"start_period"`
	EndPeriod   int       `json:"end_period"`
	PeriodType  string    `json:"period_type"`
}

// Save creates or replaces the preferences of a profile
func (r *preferencesRepository) Save(ctx context.Context, prefs *domain.Preferences) error {
	query := `
		INSERT INTO preferences (
			id, initial_investment, contribution, contribution_frequency,
			interest_rate, interest_base, period, period_unit, capitalization,
			inflation_rate, admin_fee_rate, target_value, variable_contributions,
			show_advanced, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO UPDATE SET
			initial_investment = EXCLUDED.initial_investment,
			contribution = EXCLUDED.contribution,
			contribution_frequency = EXCLUDED.contribution_frequency,
			interest_rate = EXCLUDED.interest_rate,
			interest_base = EXCLUDED.interest_base,
			period = EXCLUDED.period,
			period_unit = EXCLUDED.period_unit,
			capitalization = EXCLUDED.capitalization,
			inflation_rate = EXCLUDED.inflation_rate,
			admin_fee_rate = EXCLUDED.admin_fee_rate,
			target_value = EXCLUDED.target_value,
			variable_contributions = EXCLUDED.variable_contributions,
			show_advanced = EXCLUDED.show_advanced,
			updated_at = EXCLUDED.updated_at
	`

	in := prefs.Inputs

	var target sql.NullString
	if in.TargetValue != nil {
		target = sql.NullString{String: decimalString(*in.TargetValue), Valid: true}
	}

	variable, err := encodeVariableContributions(in.VariableContributions)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query,
		prefs.ID,
		decimalString(in.InitialInvestment),
		decimalString(in.Contribution),
		string(in.ContributionFrequency),
		decimalString(in.InterestRate),
		string(in.InterestBase),
		in.Period,
		string(in.PeriodUnit),
		string(in.Capitalization),
		decimalString(in.InflationRate),
		decimalString(in.AdminFeeRate),
		target,
		string(variable),
		prefs.ShowAdvanced,
		prefs.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert preferences: %w", err)
	}

	return nil
}

// Get retrieves the preferences of a profile
func (r *preferencesRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Preferences, error) {
	query := `
		SELECT id, initial_investment, contribution, contribution_frequency,
			interest_rate, interest_base, period, period_unit, capitalization,
			inflation_rate, admin_fee_rate, target_value, variable_contributions,
			show_advanced, updated_at
		FROM preferences
		WHERE id = $1
	`

	var prefs domain.Preferences
	var initialStr, contributionStr, rateStr, inflationStr, feeStr string
	var frequency, base, unit, capitalization string
	var target sql.NullString
	var variableJSON []byte

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&prefs.ID,
		&initialStr,
		&contributionStr,
		&frequency,
		&rateStr,
		&base,
		&prefs.Inputs.Period,
		&unit,
		&capitalization,
		&inflationStr,
		&feeStr,
		&target,
		&variableJSON,
		&prefs.ShowAdvanced,
		&prefs.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("profile %s: %w", id, domain.ErrPreferencesNotFound)
		}
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}

	// Parse NUMERIC columns
	amounts := []struct {
		column string
		raw    string
		dst    *float64
	}{
		{"initial_investment", initialStr, &prefs.Inputs.InitialInvestment},
		{"contribution", contributionStr, &prefs.Inputs.Contribution},
		{"interest_rate", rateStr, &prefs.Inputs.InterestRate},
		{"inflation_rate", inflationStr, &prefs.Inputs.InflationRate},
		{"admin_fee_rate", feeStr, &prefs.Inputs.AdminFeeRate},
	}
	for _, a := range amounts {
		v, err := parseDecimal(a.column, a.raw)
		if err != nil {
			return nil, err
		}
		*a.dst = v
	}

	if target.Valid {
		v, err := parseDecimal("target_value", target.String)
		if err != nil {
			return nil, err
		}
		prefs.Inputs.TargetValue = &v
	}

	prefs.Inputs.ContributionFrequency = domain.ContributionFrequency(frequency)
	prefs.Inputs.InterestBase = domain.InterestBase(base)
	prefs.Inputs.PeriodUnit = domain.PeriodUnit(unit)
	prefs.Inputs.Capitalization = domain.Capitalization(capitalization)

	prefs.Inputs.VariableContributions, err = decodeVariableContributions(variableJSON)
	if err != nil {
		return nil, err
	}

	return &prefs, nil
}

func decimalString(v float64) string {
	return decimal.NewFromFloat(v).String()
}

func parseDecimal(column, raw string) (float64, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", column, err)
	}
	return d.InexactFloat64(), nil
}

func encodeVariableContributions(entries []domain.VariableContribution) ([]byte, error) {
	rows := make([]variableContributionRow, 0, len(entries))
	for _, vc := range entries {
		rows = append(rows, variableContributionRow{
			ID:          vc.ID,
			Amount:      decimalString(vc.Amount),
			StartPeriod: vc.StartPeriod,
			EndPeriod:   vc.EndPeriod,
			PeriodType:  string(vc.PeriodType),
		})
	}

	raw, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to encode variable contributions: %w", err)
	}
	return raw, nil
}

func decodeVariableContributions(raw []byte) ([]domain.VariableContribution, error) {
	var rows []variableContributionRow
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &rows); err != nil {
			return nil, fmt.Errorf("failed to parse variable_contributions: %w", err)
		}
	}

	entries := make([]domain.VariableContribution, 0, len(rows))
	for _, row := range rows {
		amount, err := parseDecimal("variable contribution amount", row.Amount)
		if err != nil {
			return nil, err
		}
		entries = append(entries, domain.VariableContribution{
			ID:          row.ID,
			Amount:      amount,
			StartPeriod: row.StartPeriod,
			EndPeriod:   row.EndPeriod,
			PeriodType:  domain.PeriodUnit(row.PeriodType),
		})
	}
	return entries, nil
}
