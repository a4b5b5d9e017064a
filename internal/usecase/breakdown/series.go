package breakdown

import (
	"github.com/simaogato/compound-backend/internal/domain"
	"github.com/simaogato/compound-backend/internal/usecase/export"
)

// DefaultSeriesPoints is the chart resolution used when none is requested
const DefaultSeriesPoints = 20

// InterestPoint is one sample of the interest-per-period chart
type InterestPoint struct {
	Period   int
	Label    string
	Interest float64
}

// InterestSeries samples the ledger down to about maxPoints points.
// Every step-th period is kept, step = max(1, len/maxPoints), and the last
// period is always included.
func InterestSeries(periods []domain.PeriodRecord, capitalization domain.Capitalization, maxPoints int) []InterestPoint {
	if maxPoints <= 0 {
		maxPoints = DefaultSeriesPoints
	}

	step := max(1, len(periods)/maxPoints)

	points := make([]InterestPoint, 0, min(len(periods), maxPoints+1))
	for i, p := range periods {
		if i%step != 0 && i != len(periods)-1 {
			continue
		}
		points = append(points, InterestPoint{
			Period:   p.Period,
			Label:    export.PeriodLabel(p.Period, capitalization),
			Interest: p.Interest,
		})
	}
	return points
}
