package task

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

func TestTaskLifecycle(t *testing.T) {
	s := NewService(memory.New(), logger.Nop())
	ctx := context.Background()

	clock := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { clock = clock.Add(time.Minute); return clock }

	signup, err := s.Create(ctx, models.CreateTaskRequest{CampaignID: "c1", Description: " Sign up ", UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, "Sign up", signup.Description)
	assert.False(t, signup.Completed)

	share, err := s.Create(ctx, models.CreateTaskRequest{CampaignID: "c1", Description: "Share", UserID: "u2"})
	require.NoError(t, err)

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, share.ID, all[0].ID)

	mine, err := s.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, signup.ID, mine[0].ID)

	done, err := s.Complete(ctx, signup.ID)
	require.NoError(t, err)
	assert.True(t, done.Completed)

	again, err := s.Complete(ctx, signup.ID)
	require.NoError(t, err)
	assert.True(t, again.Completed)

	_, err = s.Complete(ctx, "missing")
	assert.True(t, domain.IsNotFound(err))
}
