package route

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/VideoBookingService/internal/domain"
)

const keyPrefix = "route:"

// Client подмножество redis.Cmdable, которым пользуется кэш
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Cache хранит последний RouteOptimizationResult на каждый день съемки
// Снимок не изменяется: новый результат целиком перезаписывает старый
type Cache struct {
	client Client
	ttl    time.Duration
}

// NewCache создает кэш маршрутов; ttl 0 - без истечения
// Методы nil *Cache ничего не делают: кэш выключен, каждый Get - промах
func NewCache(client Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Key ключ кэша для дня съемки
func Key(date time.Time) string {
	return keyPrefix + date.Format(domain.DateFormat)
}

// Get возвращает сохранённый маршрут дня; found=false при промахе
func (c *Cache) Get(ctx context.Context, date time.Time) (*domain.RouteOptimizationResult, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	raw, err := c.client.Get(ctx, Key(date)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: get %s: %v", ErrCacheUnavailable, Key(date), err)
	}

	var result domain.RouteOptimizationResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, false, fmt.Errorf("%w: %s: %v", ErrCorruptedEntry, Key(date), err)
	}
	return &result, true, nil
}

// Set сохраняет маршрут дня
func (c *Cache) Set(ctx context.Context, result *domain.RouteOptimizationResult) error {
	if c == nil {
		return nil
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrCorruptedEntry, err)
	}
	if err := c.client.Set(ctx, Key(result.Date), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %v", ErrCacheUnavailable, Key(result.Date), err)
	}
	return nil
}

// Invalidate удаляет маршруты перечисленных дней
func (c *Cache) Invalidate(ctx context.Context, dates ...time.Time) error {
	if c == nil || len(dates) == 0 {
		return nil
	}
	keys := make([]string, 0, len(dates))
	for _, d := range dates {
		keys = append(keys, Key(d))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%w: del %v: %v", ErrCacheUnavailable, keys, err)
	}
	return nil
}
