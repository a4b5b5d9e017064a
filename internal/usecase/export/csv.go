package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/simaogato/compound-backend/internal/domain"
)

// Filename is the suggested name of the exported ledger
const Filename = "projection-ledger.csv"

var header = []string{
	"Period",
	"Initial Balance",
	"Contribution",
	"Interest",
	"Final Balance",
	"Total Invested",
}

// WriteCSV writes the projection ledger as comma-separated rows.
// Amounts are fixed to two decimals (half away from zero).
func WriteCSV(w io.Writer, periods []domain.PeriodRecord, capitalization domain.Capitalization) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, p := range periods {
		row := []string{
			PeriodLabel(p.Period, capitalization),
			money(p.InitialBalance),
			money(p.Contribution),
			money(p.Interest),
			money(p.FinalBalance),
			money(p.TotalInvested),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write period %d: %w", p.Period, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
