package repository

import (
	"context"
	"testing"
	"time"

	"hostes/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBucket(tableID string, times ...string) []models.Reservation {
	day := time.Date(2026, 9, 15, 0, 0, 0, 0, time.Local)
	bucket := make([]models.Reservation, 0, len(times))
	for i, at := range times {
		bucket = append(bucket, models.Reservation{
			ID:           string(rune('a' + i)),
			TableID:      tableID,
			TableNumber:  5,
			CustomerName: "Анна",
			Guests:       2,
			Date:         day,
			Time:         at,
			Duration:     2,
			Status:       models.StatusConfirmed,
		})
	}
	return bucket
}

func TestRedisAvailabilityCache(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})
	defer client.Close()

	cache := NewRedisAvailabilityCache(client, time.Hour)
	ctx := context.Background()
	day := time.Date(2026, 9, 15, 0, 0, 0, 0, time.Local)

	t.Run("SetAndGetDay", func(t *testing.T) {
		bucket := testBucket("t1", "12:00", "18:00")

		err := cache.SetDay(ctx, "t1", day, bucket)
		require.NoError(t, err)

		got, ok, err := cache.GetDay(ctx, "t1", day)
		require.NoError(t, err)
		require.True(t, ok)
		require.Len(t, got, 2)
		assert.Equal(t, "12:00", got[0].Time)
		assert.Equal(t, "18:00", got[1].Time)
		assert.Equal(t, 5, got[0].TableNumber)
	})

	t.Run("MissOnUnknownDay", func(t *testing.T) {
		_, ok, err := cache.GetDay(ctx, "t1", day.AddDate(0, 0, 1))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("EmptyBucketIsAHit", func(t *testing.T) {
		err := cache.SetDay(ctx, "t2", day, nil)
		require.NoError(t, err)

		got, ok, err := cache.GetDay(ctx, "t2", day)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Empty(t, got)
	})

	t.Run("InvalidateDay", func(t *testing.T) {
		require.NoError(t, cache.SetDay(ctx, "t3", day, testBucket("t3", "19:00")))

		err := cache.InvalidateDay(ctx, "t3", day)
		require.NoError(t, err)

		_, ok, err := cache.GetDay(ctx, "t3", day)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("TTLExpires", func(t *testing.T) {
		require.NoError(t, cache.SetDay(ctx, "t4", day, testBucket("t4", "20:00")))

		s.FastForward(2 * time.Hour)

		_, ok, err := cache.GetDay(ctx, "t4", day)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("KeysAreScopedPerTable", func(t *testing.T) {
		require.NoError(t, cache.SetDay(ctx, "t5", day, testBucket("t5", "13:00")))

		_, ok, err := cache.GetDay(ctx, "t6", day)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
