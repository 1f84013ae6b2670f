package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordanlanch/referralhub/pkg/domain"
	"github.com/jordanlanch/referralhub/pkg/models"
	"github.com/jordanlanch/referralhub/pkg/store/memory"
)

func setupCohorts(t *testing.T) *Service {
	t.Helper()
	ctx := context.Background()
	store := memory.New()

	day := func(m time.Month, d int) time.Time { return time.Date(2024, m, d, 9, 0, 0, 0, time.UTC) }
	for _, r := range []*models.Referral{
		{ID: "r1", CampaignID: "C1", Code: "R1", Clicks: 4, Conversions: 1, CreatedAt: day(time.June, 20)},
		{ID: "r2", CampaignID: "C1", Code: "R2", CreatedAt: day(time.June, 15)},
		{ID: "r3", CampaignID: "C2", Code: "R3", Clicks: 3, Conversions: 1, CreatedAt: day(time.June, 10)},
		{ID: "r4", CampaignID: "C2", Code: "R4", Clicks: 2, CreatedAt: day(time.May, 1)},
	} {
		require.NoError(t, store.CreateReferral(ctx, r))
	}

	svc := NewService(store, store)
	svc.now = func() time.Time { return time.Date(2024, time.June, 20, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestGetCohorts_Week(t *testing.T) {
	svc := setupCohorts(t)

	cohorts, err := svc.GetCohorts(context.Background(), PeriodWeek, 2)
	require.NoError(t, err)
	require.Len(t, cohorts, 2)

	assert.Equal(t, time.Date(2024, time.June, 7, 0, 0, 0, 0, time.UTC), cohorts[0].StartDate)
	assert.Equal(t, 1, cohorts[0].Referrals)
	assert.Equal(t, int64(3), cohorts[0].TotalClicks)
	assert.Equal(t, 33.33, cohorts[0].ConversionRate)

	assert.Equal(t, time.Date(2024, time.June, 21, 0, 0, 0, 0, time.UTC), cohorts[1].EndDate)
	assert.Equal(t, 2, cohorts[1].Referrals)
	assert.Equal(t, int64(4), cohorts[1].TotalClicks)
	assert.Equal(t, int64(1), cohorts[1].TotalConversions)
	assert.Equal(t, float64(25), cohorts[1].ConversionRate)
	assert.Equal(t, PeriodWeek, cohorts[1].Period)
}

func TestGetCohorts_DayAndMonth(t *testing.T) {
	svc := setupCohorts(t)
	ctx := context.Background()

	days, err := svc.GetCohorts(ctx, PeriodDay, 1)
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, 1, days[0].Referrals)

	months, err := svc.GetCohorts(ctx, PeriodMonth, 2)
	require.NoError(t, err)
	require.Len(t, months, 2)
	assert.Equal(t, time.May, months[0].StartDate.Month())
	assert.Equal(t, 1, months[0].Referrals)
	assert.Equal(t, 3, months[1].Referrals)
}

func TestGetCohorts_SkipsEmptyPeriods(t *testing.T) {
	svc := setupCohorts(t)

	cohorts, err := svc.GetCohorts(context.Background(), PeriodDay, 0)
	require.NoError(t, err)
	require.Len(t, cohorts, 2)
	assert.Equal(t, 15, cohorts[0].StartDate.Day())
	assert.Equal(t, 20, cohorts[1].StartDate.Day())
}

func TestGetCohorts_InvalidPeriod(t *testing.T) {
	svc := setupCohorts(t)

	_, err := svc.GetCohorts(context.Background(), "year", 3)
	require.Error(t, err)
	var derr *domain.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.ErrCodeValidation, derr.Code)
}
