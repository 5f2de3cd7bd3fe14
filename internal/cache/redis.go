// Reference data (time slots, seating types) changes rarely and is read on
// every booking, so it is served from redis as a snapshot with a short TTL
// rather than looked up ambiently. A miss falls through to postgres.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"tablebooking/config"
	"tablebooking/internal/domain"

	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(cfg config.RedisConfig, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		ttl:    ttl,
	}
}

func (c *RedisCache) GetTimeSlots(ctx context.Context) ([]domain.TimeSlot, error) {
	data, err := c.client.Get(ctx, timeSlotsKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var slots []domain.TimeSlot
	if err := json.Unmarshal(data, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

func (c *RedisCache) SetTimeSlots(ctx context.Context, slots []domain.TimeSlot) error {
	payload, err := json.Marshal(slots)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, timeSlotsKey(), payload, c.ttl).Err()
}

func (c *RedisCache) GetSeatingTypes(ctx context.Context) ([]domain.SeatingType, error) {
	data, err := c.client.Get(ctx, seatingTypesKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var types []domain.SeatingType
	if err := json.Unmarshal(data, &types); err != nil {
		return nil, err
	}
	return types, nil
}

func (c *RedisCache) SetSeatingTypes(ctx context.Context, types []domain.SeatingType) error {
	payload, err := json.Marshal(types)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, seatingTypesKey(), payload, c.ttl).Err()
}

func timeSlotsKey() string {
	return "cache:time_slots"
}

func seatingTypesKey() string {
	return "cache:seating_types"
}
