package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/wolkenticket/config"
	"github.com/Domenick1991/wolkenticket/internal/checkout"
	"github.com/Domenick1991/wolkenticket/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client      *redis.Client
	airportsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, airportsTTL time.Duration) *RedisCache {
	return NewRedisCacheWithClient(
		redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		airportsTTL,
	)
}

func NewRedisCacheWithClient(client *redis.Client, airportsTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, airportsTTL: airportsTTL}
}

func (c *RedisCache) Client() *redis.Client {
	return c.client
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) GetAirports(ctx context.Context) ([]domain.AirportOption, error) {
	var options []domain.AirportOption
	found, err := c.getJSON(ctx, airportsKey(), &options)
	if err != nil || !found {
		return nil, err
	}
	return options, nil
}

func (c *RedisCache) SetAirports(ctx context.Context, options []domain.AirportOption) error {
	return c.setJSON(ctx, airportsKey(), options, c.airportsTTL)
}

func (c *RedisCache) GetCheckout(ctx context.Context, id string) (*checkout.Form, error) {
	var form checkout.Form
	found, err := c.getJSON(ctx, checkoutKey(id), &form)
	if err != nil || !found {
		return nil, err
	}
	return &form, nil
}

func (c *RedisCache) SaveCheckout(ctx context.Context, form *checkout.Form, ttl time.Duration) error {
	return c.setJSON(ctx, checkoutKey(form.ID), form, ttl)
}

func (c *RedisCache) GetAttempt(ctx context.Context, orderID string) (*domain.PaymentAttempt, error) {
	var attempt domain.PaymentAttempt
	found, err := c.getJSON(ctx, attemptKey(orderID), &attempt)
	if err != nil || !found {
		return nil, err
	}
	return &attempt, nil
}

func (c *RedisCache) SaveAttempt(ctx context.Context, attempt *domain.PaymentAttempt, ttl time.Duration) error {
	return c.setJSON(ctx, attemptKey(attempt.OrderID), attempt, ttl)
}

// AcquireCaptureLock holds orderID for ttl under token. It returns false when another capture owns it.
func (c *RedisCache) AcquireCaptureLock(ctx context.Context, orderID, token string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, captureLockKey(orderID), token, ttl).Result()
}

// releaseLock deletes KEYS[1] only while it still holds ARGV[1].
var releaseLock = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// ReleaseCaptureLock frees the lock if token still owns it. A lock that expired and
// was taken by another capture is left alone.
func (c *RedisCache) ReleaseCaptureLock(ctx context.Context, orderID, token string) error {
	return releaseLock.Run(ctx, c.client, []string{captureLockKey(orderID)}, token).Err()
}

// Allow counts one hit for key in a fixed window and reports whether it is within limit.
func (c *RedisCache) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, int, error) {
	rk := rateLimitKey(key)
	var incr *redis.IntCmd
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetArgs(ctx, rk, 0, redis.SetArgs{Mode: "NX", TTL: window})
		incr = pipe.Incr(ctx, rk)
		return nil
	})
	if err != nil {
		return false, 0, fmt.Errorf("failed to count rate limit hit: %w", err)
	}
	count := int(incr.Val())
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= limit, remaining, nil
}

func (c *RedisCache) getJSON(ctx context.Context, key string, dst any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

func (c *RedisCache) setJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}

func airportsKey() string {
	return "cache:airports"
}

func checkoutKey(id string) string {
	return "checkout:" + id
}

func attemptKey(orderID string) string {
	return "payment:attempt:" + orderID
}

func captureLockKey(orderID string) string {
	return "lock:capture:" + orderID
}

func rateLimitKey(key string) string {
	return "ratelimit:" + key
}

var _ checkout.Store = (*RedisCache)(nil)
