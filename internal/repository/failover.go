package repository

import (
	"context"
	"sync/atomic"
	"time"

	"hostes/internal/domain"
	"hostes/internal/models"

	"github.com/rs/zerolog"
)

// FailoverAvailabilityCache prefers Redis and drops to the in-memory cache
// when Redis misbehaves, retrying the primary after a cooldown.
type FailoverAvailabilityCache struct {
	primary  domain.AvailabilityCache
	fallback domain.AvailabilityCache
	logger   *zerolog.Logger
	isDown   atomic.Bool
	// unix nanos of the last failed primary attempt; atomic because request
	// goroutines race on it
	lastCheck atomic.Int64
}

func NewFailoverAvailabilityCache(primary, fallback domain.AvailabilityCache, logger *zerolog.Logger) *FailoverAvailabilityCache {
	return &FailoverAvailabilityCache{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverAvailabilityCache) GetDay(ctx context.Context, tableID string, day time.Time) ([]models.Reservation, bool, error) {
	if !r.isDown.Load() {
		bucket, ok, err := r.primary.GetDay(ctx, tableID, day)
		if err == nil {
			return bucket, ok, nil
		}
		r.logger.Error().Err(err).Msg("Primary availability cache failed, falling back to memory")
		r.markDown()
	}

	// Try to recover after 1 minute
	if r.isDown.Load() && time.Since(time.Unix(0, r.lastCheck.Load())) > time.Minute {
		bucket, ok, err := r.primary.GetDay(ctx, tableID, day)
		if err == nil {
			r.isDown.Store(false)
			return bucket, ok, nil
		}
		r.lastCheck.Store(time.Now().UnixNano())
	}

	return r.fallback.GetDay(ctx, tableID, day)
}

func (r *FailoverAvailabilityCache) SetDay(ctx context.Context, tableID string, day time.Time, bucket []models.Reservation) error {
	if !r.isDown.Load() {
		err := r.primary.SetDay(ctx, tableID, day, bucket)
		if err == nil {
			return nil
		}
		r.logger.Error().Err(err).Msg("Primary availability cache failed, falling back to memory")
		r.markDown()
	}

	return r.fallback.SetDay(ctx, tableID, day, bucket)
}

func (r *FailoverAvailabilityCache) InvalidateDay(ctx context.Context, tableID string, day time.Time) error {
	if !r.isDown.Load() {
		err := r.primary.InvalidateDay(ctx, tableID, day)
		if err == nil {
			// Drop the fallback copy too so a later failover cannot serve it
			return r.fallback.InvalidateDay(ctx, tableID, day)
		}
		r.logger.Error().Err(err).Msg("Primary availability cache failed, falling back to memory")
		r.markDown()
	}

	return r.fallback.InvalidateDay(ctx, tableID, day)
}

func (r *FailoverAvailabilityCache) markDown() {
	r.isDown.Store(true)
	r.lastCheck.Store(time.Now().UnixNano())
}
