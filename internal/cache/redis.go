package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/suryastays/hotelbooking/config"
	"github.com/suryastays/hotelbooking/internal/domain"
)

type RedisCache struct {
	client    *redis.Client
	hotelsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, hotelsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:    redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		hotelsTTL: hotelsTTL,
	}
}

// Client exposes the underlying redis client for middleware stores
// (rate limiting) that need it directly.
func (c *RedisCache) Client() *redis.Client {
	return c.client
}

func (c *RedisCache) GetHotels(ctx context.Context) ([]domain.Hotel, error) {
	data, err := c.client.Get(ctx, hotelsKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var hotels []domain.Hotel
	if err := json.Unmarshal(data, &hotels); err != nil {
		return nil, err
	}
	return hotels, nil
}

func (c *RedisCache) SetHotels(ctx context.Context, hotels []domain.Hotel) error {
	payload, err := json.Marshal(hotels)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, hotelsKey(), payload, c.hotelsTTL).Err()
}

// AcquireRoomLock holds a room+check-in date while a draft is staged so two
// checkouts cannot race for the same stay. The lock falls away on its own
// after ttl if checkout never completes.
func (c *RedisCache) AcquireRoomLock(ctx context.Context, hotelName, roomType, roomNumber string, checkIn time.Time, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, roomLockKey(hotelName, roomType, roomNumber, checkIn), "locked", ttl).Result()
}

func (c *RedisCache) ReleaseRoomLock(ctx context.Context, hotelName, roomType, roomNumber string, checkIn time.Time) error {
	return c.client.Del(ctx, roomLockKey(hotelName, roomType, roomNumber, checkIn)).Err()
}

func hotelsKey() string {
	return "cache:hotels"
}

func roomLockKey(hotelName, roomType, roomNumber string, checkIn time.Time) string {
	return fmt.Sprintf("lock:room:%s:%s:%s:%s", hotelName, roomType, roomNumber, checkIn.Format("2006-01-02"))
}
