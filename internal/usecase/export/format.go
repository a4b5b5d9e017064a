package export

import (
	"fmt"

	"github.com/simaogato/compound-backend/internal/domain"
)

// PeriodLabel renders a ledger period for tables and charts.
// Monthly periods read M5, Y2 or Y1M3; yearly periods read "Year 3".
func PeriodLabel(period int, capitalization domain.Capitalization) string {
	if capitalization == domain.CapitalizationYearly {
		return fmt.Sprintf("Year %d", period)
	}

	years, months := period/12, period%12
	switch {
	case years == 0:
		return fmt.Sprintf("M%d", period)
	case months == 0:
		return fmt.Sprintf("Y%d", years)
	default:
		return fmt.Sprintf("Y%dM%d", years, months)
	}
}

// FormatDuration renders a month count as "1 year and 2 months"
func FormatDuration(months int) string {
	years, rest := months/12, months%12
	switch {
	case years == 0:
		return plural(months, "month")
	case rest == 0:
		return plural(years, "year")
	default:
		return plural(years, "year") + " and " + plural(rest, "month")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
