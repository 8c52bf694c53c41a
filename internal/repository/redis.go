package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hostes/internal/config"
	"hostes/internal/models"
	"hostes/internal/schedule"

	"github.com/redis/go-redis/v9"
)

type RedisAvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient создает новый клиент Redis на основе конфигурации
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	options := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}

	return redis.NewClient(options)
}

func NewRedisAvailabilityCache(client *redis.Client, ttl time.Duration) *RedisAvailabilityCache {
	return &RedisAvailabilityCache{
		client: client,
		ttl:    ttl,
	}
}

func availabilityKey(tableID string, day time.Time) string {
	return fmt.Sprintf("avail:%s:%s", tableID, schedule.DayKey(day))
}

func (r *RedisAvailabilityCache) GetDay(ctx context.Context, tableID string, day time.Time) ([]models.Reservation, bool, error) {
	if r.client == nil {
		return nil, false, fmt.Errorf("redis client is nil")
	}
	val, err := r.client.Get(ctx, availabilityKey(tableID, day)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get availability from redis: %w", err)
	}

	var bucket []models.Reservation
	if err := json.Unmarshal([]byte(val), &bucket); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal availability: %w", err)
	}

	return bucket, true, nil
}

func (r *RedisAvailabilityCache) SetDay(ctx context.Context, tableID string, day time.Time, bucket []models.Reservation) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	// An empty bucket is cached too: "no reservations" is a valid answer.
	if bucket == nil {
		bucket = []models.Reservation{}
	}
	data, err := json.Marshal(bucket)
	if err != nil {
		return fmt.Errorf("failed to marshal availability: %w", err)
	}

	if err := r.client.Set(ctx, availabilityKey(tableID, day), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set availability in redis: %w", err)
	}

	return nil
}

func (r *RedisAvailabilityCache) InvalidateDay(ctx context.Context, tableID string, day time.Time) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := r.client.Del(ctx, availabilityKey(tableID, day)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate availability in redis: %w", err)
	}
	return nil
}
