package analytics

import (
	"context"
	"math"
	"time"

	"github.com/jordanlanch/referralhub/pkg/domain"
	"github.com/jordanlanch/referralhub/pkg/models"
)

// Cohort periods
const (
	PeriodDay   = "day"
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

const (
	defaultCohortCount = 8
	maxCohortCount     = 52
)

// Cohort groups the referrals created in the same period
type Cohort struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Period    string    `json:"period"` // "day", "week", "month"
	Referrals int       `json:"referrals"`
	models.AnalyticsSummary
}

// periodBounds returns the window that is i periods before now
func periodBounds(now time.Time, period string, i int) (time.Time, time.Time, bool) {
	day := now.UTC().Truncate(24 * time.Hour)

	switch period {
	case PeriodDay:
		start := day.AddDate(0, 0, -i)
		return start, start.AddDate(0, 0, 1), true
	case PeriodWeek:
		start := day.AddDate(0, 0, -i*7-6)
		return start, start.AddDate(0, 0, 7), true
	case PeriodMonth:
		first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
		start := first.AddDate(0, -i, 0)
		return start, start.AddDate(0, 1, 0), true
	default:
		return time.Time{}, time.Time{}, false
	}
}

// GetCohorts buckets referrals by creation time over the last count periods,
// oldest first. Periods without referrals are skipped. Counters are the
// referrals' current totals, not activity inside the period.
func (s *Service) GetCohorts(ctx context.Context, period string, count int) ([]Cohort, error) {
	if count <= 0 {
		count = defaultCohortCount
	}
	if count > maxCohortCount {
		count = maxCohortCount
	}
	if _, _, ok := periodBounds(s.now(), period, 0); !ok {
		return nil, domain.NewValidationError("period must be one of day, week, month")
	}

	referrals, err := s.referrals.ListReferrals(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var cohorts []Cohort

	for i := count - 1; i >= 0; i-- {
		startDate, endDate, _ := periodBounds(now, period, i)

		var members []*models.Referral
		for _, r := range referrals {
			created := r.CreatedAt.UTC()
			if !created.Before(startDate) && created.Before(endDate) {
				members = append(members, r)
			}
		}

		// Only include cohorts with referrals
		if len(members) == 0 {
			continue
		}

		sum := Aggregate(members)
		sum.ConversionRate = math.Round(sum.ConversionRate*100) / 100 // Round to 2 decimals

		cohorts = append(cohorts, Cohort{
			StartDate:        startDate,
			EndDate:          endDate,
			Period:           period,
			Referrals:        len(members),
			AnalyticsSummary: sum,
		})
	}

	return cohorts, nil
}
