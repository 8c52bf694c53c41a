package repository

import (
	"context"
	"sync"
	"time"

	"hostes/internal/models"
)

type memoryEntry struct {
	bucket    []models.Reservation
	expiresAt time.Time
}

type MemoryAvailabilityCache struct {
	entries sync.Map
	ttl     time.Duration
}

func NewMemoryAvailabilityCache(ttl time.Duration) *MemoryAvailabilityCache {
	return &MemoryAvailabilityCache{
		ttl: ttl,
	}
}

func (r *MemoryAvailabilityCache) GetDay(ctx context.Context, tableID string, day time.Time) ([]models.Reservation, bool, error) {
	val, ok := r.entries.Load(availabilityKey(tableID, day))
	if !ok {
		return nil, false, nil
	}
	entry := val.(*memoryEntry)
	if time.Now().After(entry.expiresAt) {
		r.entries.Delete(availabilityKey(tableID, day))
		return nil, false, nil
	}
	return entry.bucket, true, nil
}

func (r *MemoryAvailabilityCache) SetDay(ctx context.Context, tableID string, day time.Time, bucket []models.Reservation) error {
	if bucket == nil {
		bucket = []models.Reservation{}
	}
	r.entries.Store(availabilityKey(tableID, day), &memoryEntry{
		bucket:    bucket,
		expiresAt: time.Now().Add(r.ttl),
	})
	return nil
}

func (r *MemoryAvailabilityCache) InvalidateDay(ctx context.Context, tableID string, day time.Time) error {
	r.entries.Delete(availabilityKey(tableID, day))
	return nil
}
