package scheduler_test

import (
	"context"
	"testing"
	"time"

	"github.com/reconova/reconova/internal/database/models"
	"github.com/reconova/reconova/internal/scan"
	"github.com/reconova/reconova/internal/scheduler"
	"github.com/reconova/reconova/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReaper(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	store := scan.NewStore(db)

	_, err := scheduler.NewReaper(store, "0 */6 * * *", discardLogger())
	assert.NoError(t, err)

	_, err = scheduler.NewReaper(store, "not a cron expr", discardLogger())
	assert.Error(t, err)
}

func TestReaper_Reap(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	store := scan.NewStore(db)
	reaper, err := scheduler.NewReaper(store, "0 * * * *", discardLogger())
	require.NoError(t, err)

	ctx := context.Background()
	now := time.Now().UTC()

	monthly := testutil.CreateTestPlan(t, db, 5, 30)
	lifetime := testutil.CreateTestPlan(t, db, 5, models.PlanDurationUnlimited)

	expired := testutil.CreateTestUser(t, db, monthly)
	require.NoError(t, db.Model(expired).
		Update("plan_ends_at", now.Add(-24*time.Hour).Unix()).Error)

	current := testutil.CreateTestUser(t, db, monthly)

	forever := testutil.CreateTestUser(t, db, lifetime)
	require.NoError(t, db.Model(forever).
		Update("plan_ends_at", now.Add(-24*time.Hour).Unix()).Error)

	require.NoError(t, reaper.Reap(ctx, now))

	t.Run("expired user is downgraded", func(t *testing.T) {
		var got models.User
		require.NoError(t, db.First(&got, expired.ID).Error)
		assert.Nil(t, got.PlanID)
		assert.False(t, got.IsPlanActive)
		assert.False(t, got.CanGenerateReport)
		assert.Equal(t, now.Unix(), got.PlanEndsAt)
	})

	t.Run("current subscription untouched", func(t *testing.T) {
		var got models.User
		require.NoError(t, db.First(&got, current.ID).Error)
		assert.NotNil(t, got.PlanID)
		assert.True(t, got.IsPlanActive)
	})

	t.Run("lifetime plan untouched", func(t *testing.T) {
		var got models.User
		require.NoError(t, db.First(&got, forever.ID).Error)
		assert.NotNil(t, got.PlanID)
		assert.True(t, got.IsPlanActive)
	})

	t.Run("second pass is a no-op", func(t *testing.T) {
		require.NoError(t, reaper.Reap(ctx, now.Add(time.Hour)))

		var got models.User
		require.NoError(t, db.First(&got, expired.ID).Error)
		assert.Equal(t, now.Unix(), got.PlanEndsAt)
	})
}
