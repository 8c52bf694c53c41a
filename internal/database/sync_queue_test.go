package database

import (
	"context"
	"testing"
	"time"

	"hostes/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSyncTask(reservationID string) *models.SyncTask {
	return &models.SyncTask{
		TaskType:      "upsert",
		ReservationID: reservationID,
		Payload:       `{"reservation_id":"` + reservationID + `"}`,
		Status:        "pending",
	}
}

func TestCreateSyncTask(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	task := newSyncTask("res-1")
	require.NoError(t, db.CreateSyncTask(ctx, task))

	assert.NotZero(t, task.ID)
	assert.False(t, task.CreatedAt.IsZero())

	pending, err := db.GetPendingSyncTasks(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "upsert", pending[0].TaskType)
	assert.Equal(t, "res-1", pending[0].ReservationID)
}

func TestGetPendingSyncTasksRespectsRetrySchedule(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	due := newSyncTask("res-due")
	require.NoError(t, db.CreateSyncTask(ctx, due))

	future := time.Now().Add(time.Hour)
	delayed := newSyncTask("res-delayed")
	delayed.Status = "retry"
	delayed.NextRetryAt = &future
	require.NoError(t, db.CreateSyncTask(ctx, delayed))

	pending, err := db.GetPendingSyncTasks(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "res-due", pending[0].ReservationID)
}

func TestUpdateSyncTaskStatus(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	t.Run("RetryIncrementsCounter", func(t *testing.T) {
		task := newSyncTask("res-retry")
		require.NoError(t, db.CreateSyncTask(ctx, task))

		past := time.Now().Add(-time.Second)
		require.NoError(t, db.UpdateSyncTaskStatus(ctx, task.ID, "retry", "sheets unavailable", &past))
		require.NoError(t, db.UpdateSyncTaskStatus(ctx, task.ID, "retry", "sheets unavailable", &past))

		pending, err := db.GetPendingSyncTasks(ctx, 10)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, 2, pending[0].RetryCount)
		require.NotNil(t, pending[0].LastError)
		assert.Equal(t, "sheets unavailable", *pending[0].LastError)
	})

	t.Run("CompletedLeavesTheQueue", func(t *testing.T) {
		task := newSyncTask("res-done")
		require.NoError(t, db.CreateSyncTask(ctx, task))

		require.NoError(t, db.UpdateSyncTaskStatus(ctx, task.ID, "completed", "", nil))

		pending, err := db.GetPendingSyncTasks(ctx, 10)
		require.NoError(t, err)
		for _, p := range pending {
			assert.NotEqual(t, task.ID, p.ID)
		}
	})

	t.Run("FailedIsReportedSeparately", func(t *testing.T) {
		task := newSyncTask("res-failed")
		require.NoError(t, db.CreateSyncTask(ctx, task))

		require.NoError(t, db.UpdateSyncTaskStatus(ctx, task.ID, "failed", "max retries exceeded", nil))

		failed, err := db.GetFailedSyncTasks(ctx)
		require.NoError(t, err)
		require.Len(t, failed, 1)
		assert.Equal(t, "res-failed", failed[0].ReservationID)
		require.NotNil(t, failed[0].ProcessedAt)
	})
}
