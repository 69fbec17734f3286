package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisLimiter struct {
	client    *redis.Client
	keyPrefix string
}

func NewRedisLimiter(client *redis.Client, keyPrefix string) *RedisLimiter {
	if keyPrefix == "" {
		keyPrefix = "guard-rate:"
	}
	return &RedisLimiter{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

func (l *RedisLimiter) key(client string) string {
	return fmt.Sprintf("%s%s", l.keyPrefix, client)
}

func (l *RedisLimiter) CheckAndIncrement(ctx context.Context, key string, limit int, window time.Duration) error {
	script := redis.NewScript(`
		local current = redis.call("GET", KEYS[1])
		if current == false then
			redis.call("SET", KEYS[1], 1, "EX", ARGV[2])
			return 1
		end
		local count = tonumber(current)
		if count >= tonumber(ARGV[1]) then
			return 0
		end
		redis.call("INCR", KEYS[1])
		return 1
	`)

	result, err := script.Run(ctx, l.client, []string{l.key(key)}, limit, int(window.Seconds())).Int()
	if err != nil {
		return err
	}

	if result == 0 {
		return ErrLimitExceeded
	}

	return nil
}
