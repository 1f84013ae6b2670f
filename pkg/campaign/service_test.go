package campaign

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordanlanch/referralhub/pkg/domain"
	"github.com/jordanlanch/referralhub/pkg/logger"
	"github.com/jordanlanch/referralhub/pkg/models"
	"github.com/jordanlanch/referralhub/pkg/store/memory"
)

var start = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func newRequest(title string, end time.Time, active bool) models.CreateCampaignRequest {
	return models.CreateCampaignRequest{
		Title:       title,
		Description: "Invite friends",
		Reward:      "$10 credit",
		StartDate:   start,
		EndDate:     end,
		Active:      active,
		CreatedBy:   "u1",
	}
}

func TestCreateAndGet(t *testing.T) {
	s := NewService(memory.New(), nil, logger.Nop())
	ctx := context.Background()

	c, err := s.Create(ctx, newRequest("  Summer  ", start.AddDate(0, 1, 0), true))
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "Summer", c.Title)
	assert.True(t, c.Active)

	got, err := s.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Title, got.Title)

	_, err = s.Get(ctx, "missing")
	assert.True(t, domain.IsNotFound(err))
}

func TestCreate_EndBeforeStart(t *testing.T) {
	s := NewService(memory.New(), nil, logger.Nop())

	_, err := s.Create(context.Background(), newRequest("Bad", start.AddDate(0, 0, -1), true))
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestUpdate_PartialMerge(t *testing.T) {
	s := NewService(memory.New(), nil, logger.Nop())
	ctx := context.Background()

	c, err := s.Create(ctx, newRequest("Summer", start.AddDate(0, 1, 0), true))
	require.NoError(t, err)

	reward := "$20 credit"
	inactive := false
	updated, err := s.Update(ctx, c.ID, models.UpdateCampaignRequest{Reward: &reward, Active: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "$20 credit", updated.Reward)
	assert.False(t, updated.Active)
	assert.Equal(t, "Summer", updated.Title)

	stored, err := s.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "$20 credit", stored.Reward)

	badEnd := start.AddDate(-1, 0, 0)
	_, err = s.Update(ctx, c.ID, models.UpdateCampaignRequest{EndDate: &badEnd})
	assert.True(t, domain.IsValidation(err))

	_, err = s.Update(ctx, "missing", models.UpdateCampaignRequest{Reward: &reward})
	assert.True(t, domain.IsNotFound(err))
}

func TestListAll_NewestFirst(t *testing.T) {
	s := NewService(memory.New(), nil, logger.Nop())
	ctx := context.Background()

	clock := start
	s.now = func() time.Time { clock = clock.Add(time.Minute); return clock }

	first, err := s.Create(ctx, newRequest("First", start.AddDate(0, 1, 0), true))
	require.NoError(t, err)
	second, err := s.Create(ctx, newRequest("Second", start.AddDate(0, 1, 0), true))
	require.NoError(t, err)

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, first.ID, all[1].ID)
}

func TestListExpiredActive(t *testing.T) {
	s := NewService(memory.New(), nil, logger.Nop())
	ctx := context.Background()
	now := start.AddDate(0, 2, 0)

	expired, err := s.Create(ctx, newRequest("Ended", start.AddDate(0, 1, 0), true))
	require.NoError(t, err)
	_, err = s.Create(ctx, newRequest("Ended and off", start.AddDate(0, 1, 0), false))
	require.NoError(t, err)
	_, err = s.Create(ctx, newRequest("Running", start.AddDate(0, 6, 0), true))
	require.NoError(t, err)

	got, err := s.ListExpiredActive(ctx, now)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, expired.ID, got[0].ID)

	// reporting never flips the flag
	stored, err := s.Get(ctx, expired.ID)
	require.NoError(t, err)
	assert.True(t, stored.Active)
}
