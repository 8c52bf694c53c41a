package repository

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"hostes/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCache struct {
	mock.Mock
}

func (m *mockCache) GetDay(ctx context.Context, tableID string, day time.Time) ([]models.Reservation, bool, error) {
	args := m.Called(ctx, tableID, day)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]models.Reservation), args.Bool(1), args.Error(2)
}

func (m *mockCache) SetDay(ctx context.Context, tableID string, day time.Time, bucket []models.Reservation) error {
	args := m.Called(ctx, tableID, day, bucket)
	return args.Error(0)
}

func (m *mockCache) InvalidateDay(ctx context.Context, tableID string, day time.Time) error {
	args := m.Called(ctx, tableID, day)
	return args.Error(0)
}

func TestFailoverAvailabilityCache(t *testing.T) {
	logger := zerolog.New(io.Discard)
	ctx := context.Background()
	day := time.Date(2026, 9, 15, 0, 0, 0, 0, time.Local)
	bucket := testBucket("t1", "12:00")

	t.Run("PrimaryHealthy", func(t *testing.T) {
		primary := new(mockCache)
		fallback := new(mockCache)
		primary.On("GetDay", ctx, "t1", day).Return(bucket, true, nil)

		fo := NewFailoverAvailabilityCache(primary, fallback, &logger)

		got, ok, err := fo.GetDay(ctx, "t1", day)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, bucket, got)
		fallback.AssertNotCalled(t, "GetDay", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("FallsBackOnPrimaryError", func(t *testing.T) {
		primary := new(mockCache)
		fallback := new(mockCache)
		primary.On("GetDay", ctx, "t1", day).Return(nil, false, errors.New("redis down"))
		fallback.On("GetDay", ctx, "t1", day).Return(bucket, true, nil)

		fo := NewFailoverAvailabilityCache(primary, fallback, &logger)

		got, ok, err := fo.GetDay(ctx, "t1", day)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, bucket, got)
	})

	t.Run("StaysOnFallbackWhileDown", func(t *testing.T) {
		primary := new(mockCache)
		fallback := new(mockCache)
		primary.On("SetDay", ctx, "t1", day, bucket).Return(errors.New("redis down")).Once()
		fallback.On("SetDay", ctx, "t1", day, bucket).Return(nil)
		fallback.On("GetDay", ctx, "t1", day).Return(bucket, true, nil)

		fo := NewFailoverAvailabilityCache(primary, fallback, &logger)

		require.NoError(t, fo.SetDay(ctx, "t1", day, bucket))

		// Primary is marked down; the next read must not touch it.
		_, ok, err := fo.GetDay(ctx, "t1", day)
		require.NoError(t, err)
		assert.True(t, ok)
		primary.AssertNotCalled(t, "GetDay", mock.Anything, mock.Anything, mock.Anything)
	})

	// Run with -race: the cooldown timestamp is hit from every request
	// goroutine when the primary is flapping.
	t.Run("ConcurrentFailuresAreSafe", func(t *testing.T) {
		primary := new(mockCache)
		fallback := new(mockCache)
		primary.On("GetDay", ctx, "t1", day).Return(nil, false, errors.New("redis down"))
		primary.On("SetDay", ctx, "t1", day, bucket).Return(errors.New("redis down"))
		fallback.On("GetDay", ctx, "t1", day).Return(bucket, true, nil)
		fallback.On("SetDay", ctx, "t1", day, bucket).Return(nil)

		fo := NewFailoverAvailabilityCache(primary, fallback, &logger)

		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _, _ = fo.GetDay(ctx, "t1", day)
				_ = fo.SetDay(ctx, "t1", day, bucket)
			}()
		}
		wg.Wait()

		_, ok, err := fo.GetDay(ctx, "t1", day)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("InvalidateClearsBothCaches", func(t *testing.T) {
		primary := new(mockCache)
		fallback := new(mockCache)
		primary.On("InvalidateDay", ctx, "t1", day).Return(nil)
		fallback.On("InvalidateDay", ctx, "t1", day).Return(nil)

		fo := NewFailoverAvailabilityCache(primary, fallback, &logger)

		require.NoError(t, fo.InvalidateDay(ctx, "t1", day))
		primary.AssertCalled(t, "InvalidateDay", ctx, "t1", day)
		fallback.AssertCalled(t, "InvalidateDay", ctx, "t1", day)
	})
}
